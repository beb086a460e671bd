package trava

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client, mr
}

func TestRedisTrava_Adquirir_QuandoLivre_DeveConceder(t *testing.T) {
	client, _ := setupRedis(t)
	trava := NewRedisTrava(client, 30*time.Second, "trava")

	ok, err := trava.Adquirir(context.Background(), "fechamento:bolao-1")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisTrava_Adquirir_QuandoOcupada_DeveNegar(t *testing.T) {
	client, _ := setupRedis(t)
	trava := NewRedisTrava(client, 30*time.Second, "trava")

	ctx := context.Background()
	primeiro, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	require.NoError(t, err)
	require.True(t, primeiro)

	segundo, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	assert.NoError(t, err)
	assert.False(t, segundo)

	// Chave diferente nao concorre pela mesma trava.
	outra, err := trava.Adquirir(ctx, "fechamento:bolao-2")
	assert.NoError(t, err)
	assert.True(t, outra)
}

func TestRedisTrava_Liberar_DevePermitirNovaAquisicao(t *testing.T) {
	client, _ := setupRedis(t)
	trava := NewRedisTrava(client, 30*time.Second, "trava")

	ctx := context.Background()
	ok, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, trava.Liberar(ctx, "fechamento:bolao-1"))

	denovo, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	assert.NoError(t, err)
	assert.True(t, denovo)
}

func TestRedisTrava_TTL_ExpiraTravaOrfa(t *testing.T) {
	client, mr := setupRedis(t)
	trava := NewRedisTrava(client, 10*time.Second, "trava")

	ctx := context.Background()
	ok, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	require.NoError(t, err)
	require.True(t, ok)

	// Processo morreu sem liberar: o TTL devolve a trava.
	mr.FastForward(11 * time.Second)

	denovo, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	assert.NoError(t, err)
	assert.True(t, denovo)
}

func TestNewRedisTrava_Padroes(t *testing.T) {
	client, _ := setupRedis(t)

	// Prefixo e TTL invalidos caem nos padroes.
	trava := NewRedisTrava(client, 0, "")
	assert.Equal(t, "trava:chave", trava.key("chave"))
	assert.Equal(t, 30*time.Second, trava.ttl)
}

func TestNoop_SempreConcede(t *testing.T) {
	trava := NewNoop()
	ctx := context.Background()

	primeiro, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	assert.NoError(t, err)
	assert.True(t, primeiro)

	segundo, err := trava.Adquirir(ctx, "fechamento:bolao-1")
	assert.NoError(t, err)
	assert.True(t, segundo)

	assert.NoError(t, trava.Liberar(ctx, "fechamento:bolao-1"))
}
