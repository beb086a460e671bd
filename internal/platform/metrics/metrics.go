package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	escolhasTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_escolhas_total",
		Help: "Total de escolhas de dezenas recebidas",
	}, []string{"status"})

	fechamentosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_fechamentos_total",
		Help: "Total de tentativas de fechamento de bolao",
	}, []string{"status"})

	recalculosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_recalculos_total",
		Help: "Total de recalculos de popularidade processados pelo worker",
	})

	recalculoDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bolao_recalculo_duration_seconds",
		Help:    "Tempo para recalcular a popularidade de um bolao",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveEscolha(status string) {
	escolhasTotal.WithLabelValues(status).Inc()
}

func ObserveFechamento(status string) {
	fechamentosTotal.WithLabelValues(status).Inc()
}

func IncRecalculoProcessado() {
	recalculosTotal.Inc()
}

func ObserveRecalculoDuration(seconds float64) {
	recalculoDuration.Observe(seconds)
}
