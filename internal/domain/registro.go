package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistroFechamento é o retrato imutável gravado quando o bolão fecha.
// Todos os campos entram no hash de integridade; valores monetários usam a
// forma canônica do decimal (string) para que a serialização seja estável
// entre gravação e releitura.
type RegistroFechamento struct {
	BolaoID              BolaoID               `json:"bolao_id"`
	Nome                 string                `json:"nome"`
	FechadoEm            time.Time             `json:"fechado_em"`
	FechadoPor           string                `json:"fechado_por"`
	ValorCota            decimal.Decimal       `json:"valor_cota"`
	TotalArrecadado      decimal.Decimal       `json:"total_arrecadado"`
	TotalCotas           int                   `json:"total_cotas"`
	Participantes        []ParticipacaoFechada `json:"participantes"`
	NumerosParticipantes map[int][]string      `json:"numeros_participantes"`
	Financeiro           ResumoFinanceiro      `json:"financeiro"`
	Apostas              []ApostaRegistro      `json:"apostas"`
}

// ParticipacaoFechada congela a escolha final de um participante confirmado.
type ParticipacaoFechada struct {
	ParticipacaoID  ParticipacaoID  `json:"participacao_id"`
	UserID          string          `json:"user_id"`
	Nome            string          `json:"nome"`
	Cotas           int             `json:"cotas"`
	StatusPagamento StatusPagamento `json:"status_pagamento"`
	Numeros         []int           `json:"numeros"`
}

type ResumoFinanceiro struct {
	DezenasPrincipal   int             `json:"dezenas_principal"`
	CustoPrincipal     decimal.Decimal `json:"custo_principal"`
	QtdApostasExtras   int             `json:"qtd_apostas_extras"`
	CustoApostasExtras decimal.Decimal `json:"custo_apostas_extras"`
	Sobra              decimal.Decimal `json:"sobra"`
}

// ApostaRegistro espelha uma ApostaFinal dentro do registro (principal primeiro,
// extras na ordem de geração).
type ApostaRegistro struct {
	Tipo    string          `json:"tipo"`
	Numeros []int           `json:"numeros"`
	Custo   decimal.Decimal `json:"custo"`
}
