package pontuacao

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

var ErrBolaoNaoEncontrado = errors.New("bolao nao encontrado")

// Pesos define a escala máxima de cada componente da pontuação final.
type Pesos struct {
	Historico    int
	Popularidade int
}

func PesosPadrao() Pesos {
	return Pesos{Historico: 40, Popularidade: 40}
}

// Engine calcula e persiste a pontuação das 60 dezenas de um bolão.
// PontuacaoFinal = frequência histórica + popularidade invertida - penalidade.
type Engine struct {
	concursos     domain.ConcursoRepository
	participacoes domain.ParticipacaoRepository
	pontuacoes    domain.PontuacaoRepository
	analisador    *Analisador
	pesos         Pesos
	clock         domain.Clock
}

func NewEngine(
	concursos domain.ConcursoRepository,
	participacoes domain.ParticipacaoRepository,
	pontuacoes domain.PontuacaoRepository,
	analisador *Analisador,
	pesos Pesos,
	clock domain.Clock,
) *Engine {
	return &Engine{
		concursos:     concursos,
		participacoes: participacoes,
		pontuacoes:    pontuacoes,
		analisador:    analisador,
		pesos:         pesos,
		clock:         clock,
	}
}

type parcial struct {
	valores map[int]int
	err     error
}

// RecalcularTudo recomputa os três componentes e sobrescreve as 60 linhas.
// Histórico e popularidade não compartilham estado, então rodam em paralelo.
func (e *Engine) RecalcularTudo(ctx context.Context, bolaoID domain.BolaoID) ([]domain.PontuacaoNumero, error) {
	historicoCh := make(chan parcial, 1)
	popularidadeCh := make(chan parcial, 1)

	go func() {
		valores, err := e.frequenciaHistorica(ctx)
		historicoCh <- parcial{valores: valores, err: err}
	}()
	go func() {
		valores, err := e.popularidade(ctx, bolaoID)
		popularidadeCh <- parcial{valores: valores, err: err}
	}()

	historico := <-historicoCh
	if historico.err != nil {
		return nil, fmt.Errorf("pontuacao: frequencia historica: %w", historico.err)
	}
	popularidade := <-popularidadeCh
	if popularidade.err != nil {
		return nil, fmt.Errorf("pontuacao: popularidade: %w", popularidade.err)
	}

	agora := e.clock.Agora()
	linhas := make([]domain.PontuacaoNumero, 0, domain.TotalNumeros)
	for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
		penalidade := e.analisador.Penalidade(numero)
		linhas = append(linhas, domain.PontuacaoNumero{
			BolaoID:              bolaoID,
			Numero:               numero,
			FrequenciaHistorica:  historico.valores[numero],
			PopularidadeAtual:    popularidade.valores[numero],
			PenalidadeAntiPadrao: penalidade,
			PontuacaoFinal:       historico.valores[numero] + popularidade.valores[numero] - penalidade,
			AtualizadoEm:         agora,
		})
	}

	if err := e.pontuacoes.UpsertTodas(ctx, linhas); err != nil {
		return nil, fmt.Errorf("pontuacao: persistir: %w", err)
	}
	return linhas, nil
}

// RecalcularPopularidade refaz apenas o componente de popularidade, reaproveitando
// histórico e penalidade já gravados. É o caminho barato disparado a cada
// mudança de dezenas; se as linhas estiverem incompletas cai no recálculo total.
func (e *Engine) RecalcularPopularidade(ctx context.Context, bolaoID domain.BolaoID) ([]domain.PontuacaoNumero, error) {
	existentes, err := e.pontuacoes.ListByBolao(ctx, bolaoID)
	if err != nil {
		return nil, fmt.Errorf("pontuacao: carregar linhas: %w", err)
	}
	if len(existentes) != domain.TotalNumeros {
		return e.RecalcularTudo(ctx, bolaoID)
	}

	popularidade, err := e.popularidade(ctx, bolaoID)
	if err != nil {
		return nil, fmt.Errorf("pontuacao: popularidade: %w", err)
	}

	agora := e.clock.Agora()
	for i := range existentes {
		pop := popularidade[existentes[i].Numero]
		existentes[i].PopularidadeAtual = pop
		existentes[i].PontuacaoFinal = existentes[i].FrequenciaHistorica + pop - existentes[i].PenalidadeAntiPadrao
		existentes[i].AtualizadoEm = agora
	}

	if err := e.pontuacoes.UpsertTodas(ctx, existentes); err != nil {
		return nil, fmt.Errorf("pontuacao: persistir: %w", err)
	}
	return existentes, nil
}

// ObterPontuacoes devolve as 60 linhas ordenadas por dezena, recalculando
// quando forçado ou quando as linhas ainda não existem.
func (e *Engine) ObterPontuacoes(ctx context.Context, bolaoID domain.BolaoID, recalcular bool) ([]domain.PontuacaoNumero, error) {
	if !recalcular {
		existentes, err := e.pontuacoes.ListByBolao(ctx, bolaoID)
		if err != nil {
			return nil, fmt.Errorf("pontuacao: carregar linhas: %w", err)
		}
		if len(existentes) == domain.TotalNumeros {
			ordenar(existentes)
			return existentes, nil
		}
	}

	linhas, err := e.RecalcularTudo(ctx, bolaoID)
	if err != nil {
		return nil, err
	}
	ordenar(linhas)
	return linhas, nil
}

// frequenciaHistorica conta as ocorrências de cada dezena em todos os concursos
// e normaliza linearmente para [0, peso]. Base degenerada (max == min) recebe
// peso/2 para todas as dezenas.
func (e *Engine) frequenciaHistorica(ctx context.Context) (map[int]int, error) {
	concursos, err := e.concursos.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	contagens := make(map[int]int, domain.TotalNumeros)
	for _, concurso := range concursos {
		for _, dezena := range concurso.Dezenas {
			if dezena >= domain.NumeroMinimo && dezena <= domain.NumeroMaximo {
				contagens[dezena]++
			}
		}
	}

	minimo, maximo := math.MaxInt, 0
	for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
		c := contagens[numero]
		if c < minimo {
			minimo = c
		}
		if c > maximo {
			maximo = c
		}
	}

	valores := make(map[int]int, domain.TotalNumeros)
	if maximo == minimo {
		for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
			valores[numero] = e.pesos.Historico / 2
		}
		return valores, nil
	}

	for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
		proporcao := float64(contagens[numero]-minimo) / float64(maximo-minimo)
		valores[numero] = int(math.Round(proporcao * float64(e.pesos.Historico)))
	}
	return valores, nil
}

// popularidade conta quantos participantes confirmados escolheram cada dezena e
// normaliza invertido: dezena sem escolha recebe o peso máximo. Isso empurra os
// palpites automáticos para longe dos favoritos da multidão.
func (e *Engine) popularidade(ctx context.Context, bolaoID domain.BolaoID) (map[int]int, error) {
	confirmadas, err := e.participacoes.ListConfirmadas(ctx, bolaoID)
	if err != nil {
		return nil, err
	}

	contagens := make(map[int]int, domain.TotalNumeros)
	maxContagem := 0
	for _, p := range confirmadas {
		for _, numero := range p.Numeros {
			contagens[numero]++
			if contagens[numero] > maxContagem {
				maxContagem = contagens[numero]
			}
		}
	}
	if maxContagem < 1 {
		maxContagem = 1
	}

	valores := make(map[int]int, domain.TotalNumeros)
	for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
		proporcao := 1 - float64(contagens[numero])/float64(maxContagem)
		valores[numero] = int(math.Round(proporcao * float64(e.pesos.Popularidade)))
	}
	return valores, nil
}

func ordenar(linhas []domain.PontuacaoNumero) {
	sort.Slice(linhas, func(i, j int) bool {
		return linhas[i].Numero < linhas[j].Numero
	})
}
