package trava

import (
	"context"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// Noop sempre concede a trava. Vale apenas quando o status do bolão é o único
// guarda necessário (instância única, testes).
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Adquirir(ctx context.Context, chave string) (bool, error) {
	return true, nil
}

func (Noop) Liberar(ctx context.Context, chave string) error {
	return nil
}

var _ domain.Trava = Noop{}
