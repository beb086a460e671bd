package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	BolaoID        string
	ParticipacaoID string
	ConcursoID     string
	ApostaID       string
)

type StatusBolao string

const (
	BolaoAberto  StatusBolao = "aberto"
	BolaoFechado StatusBolao = "fechado"
)

type StatusPagamento string

const (
	PagamentoPendente   StatusPagamento = "pendente"
	PagamentoDeclarado  StatusPagamento = "declarado"
	PagamentoConfirmado StatusPagamento = "confirmado"
)

// Limites fixos do volante da Mega-Sena.
const (
	NumeroMinimo     = 1
	NumeroMaximo     = 60
	TotalNumeros     = 60
	NumerosPorAposta = 6
)

type Bolao struct {
	ID                 BolaoID         `gorm:"column:id;type:char(26);primaryKey"`
	Nome               string          `gorm:"column:nome;type:text;not null"`
	ValorCota          decimal.Decimal `gorm:"column:valor_cota;type:numeric(12,2);not null"`
	Status             StatusBolao     `gorm:"column:status;type:text;not null;default:aberto"`
	HashFechamento     string          `gorm:"column:hash_fechamento;type:text"`
	RegistroFechamento string          `gorm:"column:registro_fechamento;type:text"`
	FechadoPor         string          `gorm:"column:fechado_por;type:text"`
	FechadoEm          *time.Time      `gorm:"column:fechado_em"`
	CriadoEm           time.Time       `gorm:"column:criado_em;autoCreateTime"`
	AtualizadoEm       time.Time       `gorm:"column:atualizado_em;autoUpdateTime"`
}

type Participacao struct {
	ID              ParticipacaoID  `gorm:"column:id;type:char(26);primaryKey"`
	BolaoID         BolaoID         `gorm:"column:bolao_id;type:char(26);not null;index:idx_participacoes_bolao"`
	UserID          string          `gorm:"column:user_id;type:text;not null"`
	Nome            string          `gorm:"column:nome;type:text;not null"`
	StatusPagamento StatusPagamento `gorm:"column:status_pagamento;type:text;not null;default:pendente"`
	QuantidadeCotas int             `gorm:"column:quantidade_cotas;not null;default:1"`
	Numeros         ListaNumeros    `gorm:"column:numeros;type:text"`
	CriadoEm        time.Time       `gorm:"column:criado_em;autoCreateTime"`
	AtualizadoEm    time.Time       `gorm:"column:atualizado_em;autoUpdateTime"`
}

// PontuacaoNumero guarda os componentes do ranking de uma dezena dentro de um bolão.
// Uma linha por (bolão, número); sempre 60 linhas depois de inicializado.
type PontuacaoNumero struct {
	BolaoID              BolaoID   `gorm:"column:bolao_id;type:char(26);primaryKey"`
	Numero               int       `gorm:"column:numero;primaryKey;autoIncrement:false"`
	FrequenciaHistorica  int       `gorm:"column:frequencia_historica;not null"`
	PopularidadeAtual    int       `gorm:"column:popularidade_atual;not null"`
	PenalidadeAntiPadrao int       `gorm:"column:penalidade_antipadrao;not null"`
	PontuacaoFinal       int       `gorm:"column:pontuacao_final;not null"`
	AtualizadoEm         time.Time `gorm:"column:atualizado_em"`
}

// Concurso representa um sorteio histórico oficial (seis dezenas).
type Concurso struct {
	ID         ConcursoID   `gorm:"column:id;type:char(26);primaryKey"`
	Numero     int          `gorm:"column:numero;not null;uniqueIndex"`
	Dezenas    ListaNumeros `gorm:"column:dezenas;type:text;not null"`
	SorteadoEm time.Time    `gorm:"column:sorteado_em;not null"`
	CriadoEm   time.Time    `gorm:"column:criado_em;autoCreateTime"`
}

type ApostaFinal struct {
	ID       ApostaID        `gorm:"column:id;type:char(26);primaryKey"`
	BolaoID  BolaoID         `gorm:"column:bolao_id;type:char(26);not null;index:idx_apostas_bolao"`
	Tipo     string          `gorm:"column:tipo;type:text;not null"`
	Numeros  ListaNumeros    `gorm:"column:numeros;type:text;not null"`
	Custo    decimal.Decimal `gorm:"column:custo;type:numeric(12,2);not null"`
	Ordem    int             `gorm:"column:ordem;not null"`
	CriadoEm time.Time       `gorm:"column:criado_em;autoCreateTime"`
}

func (Bolao) TableName() string { return "boloes" }

func (Participacao) TableName() string { return "participacoes" }

func (PontuacaoNumero) TableName() string { return "pontuacoes_numeros" }

func (Concurso) TableName() string { return "concursos" }

func (ApostaFinal) TableName() string { return "apostas_finais" }
