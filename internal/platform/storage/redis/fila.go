// Pacote redis implementa a fila de eventos de recálculo sobre listas Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// Fila usa listas Redis para publicar e consumir eventos de recálculo de forma simples.
type Fila struct {
	client *redis.Client
	key    string
}

func NewFila(client *redis.Client, key string) *Fila {
	return &Fila{
		client: client,
		key:    key,
	}
}

func (f *Fila) PublicarRecalculo(ctx context.Context, evento domain.EventoRecalculo) error {
	payload, err := json.Marshal(evento)
	if err != nil {
		return fmt.Errorf("redis fila: falha serializando evento: %w", err)
	}
	if err := f.client.LPush(ctx, f.key, payload).Err(); err != nil {
		return fmt.Errorf("redis fila: falha ao enfileirar evento: %w", err)
	}
	return nil
}

func (f *Fila) ConsumirRecalculos(ctx context.Context, handler func(context.Context, domain.EventoRecalculo) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// BRPOP mantém o processamento bloqueado mas com timeout curto para respeitar o contexto.
		res, err := f.client.BRPop(ctx, 5*time.Second, f.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("redis fila: falha ao consumir evento: %w", err)
		}

		if len(res) != 2 {
			continue
		}

		var evento domain.EventoRecalculo
		if err := json.Unmarshal([]byte(res[1]), &evento); err != nil {
			return fmt.Errorf("redis fila: payload invalido: %w", err)
		}

		// Handler decide o destino do evento; propagamos erro para interromper a rotina.
		if err := handler(ctx, evento); err != nil {
			return err
		}
	}
}

var _ domain.Fila = (*Fila)(nil)
