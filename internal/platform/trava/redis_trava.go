// Pacote trava oferece exclusão mútua por chave para serializar o fechamento
// de bolões (implementação Redis e modo noop para testes/desenvolvimento).
package trava

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// RedisTrava implementa a trava com SETNX + TTL. O TTL evita trava órfã caso o
// processo morra no meio de um fechamento.
type RedisTrava struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

func NewRedisTrava(client *redis.Client, ttl time.Duration, prefix string) *RedisTrava {
	if prefix == "" {
		prefix = "trava"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisTrava{
		client:    client,
		ttl:       ttl,
		keyPrefix: prefix,
	}
}

func (t *RedisTrava) Adquirir(ctx context.Context, chave string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(chave), "1", t.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("trava: adquirir %s: %w", chave, err)
	}
	return ok, nil
}

func (t *RedisTrava) Liberar(ctx context.Context, chave string) error {
	if err := t.client.Del(ctx, t.key(chave)).Err(); err != nil {
		return fmt.Errorf("trava: liberar %s: %w", chave, err)
	}
	return nil
}

func (t *RedisTrava) key(chave string) string {
	return fmt.Sprintf("%s:%s", t.keyPrefix, chave)
}

var _ domain.Trava = (*RedisTrava)(nil)
