package domain

import (
	"context"
	"time"
)

type BolaoRepository interface {
	Create(ctx context.Context, b Bolao) error
	Update(ctx context.Context, b Bolao) error
	FindByID(ctx context.Context, id BolaoID) (Bolao, error)
	FindAberto(ctx context.Context) (Bolao, error)
}

type ParticipacaoRepository interface {
	Create(ctx context.Context, p Participacao) error
	FindByID(ctx context.Context, id ParticipacaoID) (Participacao, error)
	ListByBolao(ctx context.Context, bolaoID BolaoID) ([]Participacao, error)
	ListConfirmadas(ctx context.Context, bolaoID BolaoID) ([]Participacao, error)
	UpdateNumeros(ctx context.Context, id ParticipacaoID, numeros ListaNumeros, quando time.Time) error
	UpdateStatusPagamento(ctx context.Context, id ParticipacaoID, status StatusPagamento, quando time.Time) error
}

type PontuacaoRepository interface {
	UpsertTodas(ctx context.Context, pontuacoes []PontuacaoNumero) error
	ListByBolao(ctx context.Context, bolaoID BolaoID) ([]PontuacaoNumero, error)
}

type ConcursoRepository interface {
	Create(ctx context.Context, c Concurso) error
	ListAll(ctx context.Context) ([]Concurso, error)
}

type ApostaRepository interface {
	BulkCreate(ctx context.Context, apostas []ApostaFinal) error
	DeleteByBolao(ctx context.Context, bolaoID BolaoID) error
	ListByBolao(ctx context.Context, bolaoID BolaoID) ([]ApostaFinal, error)
}

// EventoRecalculo sinaliza que as dezenas escolhidas de um bolão mudaram e a
// popularidade precisa ser recalculada.
type EventoRecalculo struct {
	BolaoID  BolaoID   `json:"bolao_id"`
	Motivo   string    `json:"motivo"`
	CriadoEm time.Time `json:"criado_em"`
}

type Fila interface {
	PublicarRecalculo(ctx context.Context, evento EventoRecalculo) error
	ConsumirRecalculos(ctx context.Context, handler func(context.Context, EventoRecalculo) error) error
}

// Trava serializa o fechamento de um bolão: apenas um chamador segura a chave
// por vez.
type Trava interface {
	Adquirir(ctx context.Context, chave string) (bool, error)
	Liberar(ctx context.Context, chave string) error
}

// ChaveFechamento é a chave de trava do fechamento de um bolão. Mutações de
// participação consultam a mesma chave para não atropelar um fechamento em
// curso.
func ChaveFechamento(bolaoID BolaoID) string {
	return "fechamento:" + string(bolaoID)
}

type Clock interface {
	Agora() time.Time
}
