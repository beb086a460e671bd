// Pacote worker contém o processamento assíncrono dos eventos de recálculo
// provenientes da fila Redis.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/carl0sfelipe/mega-sena/internal/app/pontuacao"
	"github.com/carl0sfelipe/mega-sena/internal/domain"
	"github.com/carl0sfelipe/mega-sena/internal/platform/metrics"
)

// RecalculoProcessor refaz a popularidade do bolão afetado e mantém métricas.
// O recálculo é last-write-wins: se dois eventos do mesmo bolão se cruzarem, o
// último grava por cima, o que é aceitável porque a pontuação é dado consultivo.
type RecalculoProcessor struct {
	engine *pontuacao.Engine
}

func NewRecalculoProcessor(engine *pontuacao.Engine) *RecalculoProcessor {
	return &RecalculoProcessor{engine: engine}
}

func (p *RecalculoProcessor) Process(ctx context.Context, evento domain.EventoRecalculo) error {
	start := time.Now()

	if evento.BolaoID == "" {
		return fmt.Errorf("worker: evento sem bolao")
	}

	if _, err := p.engine.RecalcularPopularidade(ctx, evento.BolaoID); err != nil {
		return fmt.Errorf("worker: recalcular popularidade %s: %w", evento.BolaoID, err)
	}

	metrics.IncRecalculoProcessado()
	metrics.ObserveRecalculoDuration(time.Since(start).Seconds())

	return nil
}
