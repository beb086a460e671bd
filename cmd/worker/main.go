// Worker assíncrono que consome eventos de recálculo da fila, atualiza a
// popularidade no Postgres e mantém métricas expostas.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carl0sfelipe/mega-sena/internal/app/pontuacao"
	"github.com/carl0sfelipe/mega-sena/internal/app/worker"
	"github.com/carl0sfelipe/mega-sena/internal/domain"
	"github.com/carl0sfelipe/mega-sena/internal/platform/clock"
	"github.com/carl0sfelipe/mega-sena/internal/platform/config"
	"github.com/carl0sfelipe/mega-sena/internal/platform/health"
	"github.com/carl0sfelipe/mega-sena/internal/platform/logger"
	"github.com/carl0sfelipe/mega-sena/internal/platform/migrations"
	postgresstorage "github.com/carl0sfelipe/mega-sena/internal/platform/storage/postgres"
	redisstorage "github.com/carl0sfelipe/mega-sena/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}

	// Worker usa a mesma conexão GORM da API para compartilhar migrations e modelos.
	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("falha ao conectar no postgres", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		// Evitamos divergência de schema rodando a mesma migração condicional da API.
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Redis é obrigatório aqui porque a fila de recálculo vive sobre a mesma instância.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	fila := redisstorage.NewFila(redisClient, cfg.FilaKeyPrefix)
	clockSystem := clock.NewSystemClock()
	checker := health.NewChecker(sqlDB, redisClient)

	if cfg.WorkerMetricsAddress != "" {
		go func() {
			// Metrics expõe observabilidade enquanto a goroutine principal consome a fila.
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/readyz", checker.ReadyHandler())
			logger.Info("worker metrics ouvindo", "addr", cfg.WorkerMetricsAddress)
			if err := http.ListenAndServe(cfg.WorkerMetricsAddress, mux); err != nil {
				logger.Error("erro no servidor de metrics do worker", "err", err)
			}
		}()
	}

	analisador := pontuacao.NewAnalisador(pontuacao.Penalidades{
		Aniversario: cfg.PenalidadeAniversario,
		Multiplo5:   cfg.PenalidadeMultiplo5,
		Multiplo10:  cfg.PenalidadeMultiplo10,
		Maximo:      cfg.PenalidadeMaxima,
	})
	engine := pontuacao.NewEngine(
		postgresstorage.NewConcursoRepository(db),
		postgresstorage.NewParticipacaoRepository(db),
		postgresstorage.NewPontuacaoRepository(db),
		analisador,
		pontuacao.Pesos{Historico: cfg.PesoHistorico, Popularidade: cfg.PesoPopularidade},
		clockSystem,
	)
	processor := worker.NewRecalculoProcessor(engine)

	logger.Info("worker iniciado, aguardando eventos de recalculo")
	err = fila.ConsumirRecalculos(ctx, func(ctx context.Context, evento domain.EventoRecalculo) error {
		// Processamos evento a evento para manter a semântica de uma fila simples.
		if err := processor.Process(ctx, evento); err != nil {
			logger.Error("erro ao processar recalculo", "bolao", evento.BolaoID, "err", err)
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("worker finalizado com erro", "err", err)
	}

	logger.Info("worker finalizado")
}
