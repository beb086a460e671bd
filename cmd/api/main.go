// Executável principal da API: carrega a configuração, inicializa dependências e sobe o servidor HTTP.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carl0sfelipe/mega-sena/internal/app/bolao"
	"github.com/carl0sfelipe/mega-sena/internal/app/fechamento"
	"github.com/carl0sfelipe/mega-sena/internal/app/httpapi"
	"github.com/carl0sfelipe/mega-sena/internal/app/pontuacao"
	"github.com/carl0sfelipe/mega-sena/internal/platform/clock"
	"github.com/carl0sfelipe/mega-sena/internal/platform/config"
	"github.com/carl0sfelipe/mega-sena/internal/platform/health"
	"github.com/carl0sfelipe/mega-sena/internal/platform/ids"
	"github.com/carl0sfelipe/mega-sena/internal/platform/logger"
	"github.com/carl0sfelipe/mega-sena/internal/platform/migrations"
	postgresstorage "github.com/carl0sfelipe/mega-sena/internal/platform/storage/postgres"
	redisstorage "github.com/carl0sfelipe/mega-sena/internal/platform/storage/redis"
	"github.com/carl0sfelipe/mega-sena/internal/platform/trava"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}

	// Mantemos a conexão compartilhada em todo o ciclo para reaproveitar pool e checar readiness.
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
		// Rodamos migrations automáticas apenas se habilitado para evitar surpresas em produção.
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Redis centraliza fila de recálculo e trava de fechamento.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	dbBolao := postgresstorage.NewBolaoRepository(db)
	dbParticipacao := postgresstorage.NewParticipacaoRepository(db)
	dbPontuacao := postgresstorage.NewPontuacaoRepository(db)
	dbConcurso := postgresstorage.NewConcursoRepository(db)
	dbAposta := postgresstorage.NewApostaRepository(db)
	fila := redisstorage.NewFila(redisClient, cfg.FilaKeyPrefix)
	travaFechamento := trava.NewRedisTrava(redisClient, time.Duration(cfg.TravaTTLSegs)*time.Second, cfg.TravaKeyPrefix)
	clockSystem := clock.NewSystemClock()
	idGen := ids.NewGenerator()

	analisador := pontuacao.NewAnalisador(pontuacao.Penalidades{
		Aniversario: cfg.PenalidadeAniversario,
		Multiplo5:   cfg.PenalidadeMultiplo5,
		Multiplo10:  cfg.PenalidadeMultiplo10,
		Maximo:      cfg.PenalidadeMaxima,
	})
	engine := pontuacao.NewEngine(
		dbConcurso,
		dbParticipacao,
		dbPontuacao,
		analisador,
		pontuacao.Pesos{Historico: cfg.PesoHistorico, Popularidade: cfg.PesoPopularidade},
		clockSystem,
	)
	sorteador := pontuacao.NewSorteador()

	// Serviços agregam repositórios, fila e trava para guardar a lógica de negócio.
	servicoBolao := bolao.NewService(dbBolao, dbParticipacao, dbConcurso, fila, travaFechamento, clockSystem, idGen)
	servicoFechamento := fechamento.NewService(
		dbBolao,
		dbParticipacao,
		dbAposta,
		engine,
		sorteador,
		travaFechamento,
		clockSystem,
		idGen,
	)

	mux := http.NewServeMux()
	checker := health.NewChecker(sqlDB, redisClient)

	// HTTP expõe API, health check e métricas que o Prometheus coleta.
	api := httpapi.New(servicoBolao, engine, sorteador, analisador, servicoFechamento, logger.L(), cfg.AdminToken)
	api.Register(mux)
	mux.HandleFunc("/readyz", checker.ReadyHandler())
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("api ouvindo", "addr", cfg.HTTPAddress)
	if err := http.ListenAndServe(cfg.HTTPAddress, mux); err != nil {
		logger.Fatal("erro no servidor", "err", err)
	}
}
