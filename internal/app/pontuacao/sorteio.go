package pontuacao

import (
	"math/rand"
	"sort"
	"time"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// ItemPonderado associa um valor à sua chance relativa de ser sorteado.
type ItemPonderado struct {
	Valor int
	Peso  int
}

// Sorteador faz seleção ponderada sem reposição. A fonte de aleatoriedade é
// injetável para os testes; math/rand basta porque o resultado só alimenta
// sugestões de jogo, nunca dinheiro ou segurança.
type Sorteador struct {
	rnd *rand.Rand
}

func NewSorteador() *Sorteador {
	return NewSorteadorComFonte(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewSorteadorComFonte(rnd *rand.Rand) *Sorteador {
	return &Sorteador{rnd: rnd}
}

// SelecionarPonderado sorteia qtd valores distintos com probabilidade
// proporcional ao peso deslocado. Pesos podem ser negativos: antes de cada
// sorteio todos os pesos restantes são deslocados por max(0, 1-menorPeso),
// garantindo peso efetivo estritamente positivo.
func (s *Sorteador) SelecionarPonderado(itens []ItemPonderado, qtd int) []int {
	if qtd >= len(itens) {
		todos := make([]int, len(itens))
		for i, item := range itens {
			todos[i] = item.Valor
		}
		return todos
	}

	restantes := make([]ItemPonderado, len(itens))
	copy(restantes, itens)

	selecionados := make([]int, 0, qtd)
	for len(selecionados) < qtd {
		menor := restantes[0].Peso
		for _, item := range restantes[1:] {
			if item.Peso < menor {
				menor = item.Peso
			}
		}
		ajuste := 1 - menor
		if ajuste < 0 {
			ajuste = 0
		}

		total := 0
		for _, item := range restantes {
			total += item.Peso + ajuste
		}

		alvo := s.rnd.Float64() * float64(total)
		// Fallback no último item cobre resíduo de ponto flutuante e garante término.
		escolhido := len(restantes) - 1
		for i, item := range restantes {
			alvo -= float64(item.Peso + ajuste)
			if alvo <= 0 {
				escolhido = i
				break
			}
		}

		selecionados = append(selecionados, restantes[escolhido].Valor)
		restantes = append(restantes[:escolhido], restantes[escolhido+1:]...)
	}
	return selecionados
}

// GerarNumeros sorteia qtd dezenas usando a pontuação final como peso e devolve
// o resultado em ordem crescente.
func (s *Sorteador) GerarNumeros(pontuacoes []domain.PontuacaoNumero, qtd int) []int {
	itens := make([]ItemPonderado, len(pontuacoes))
	for i, p := range pontuacoes {
		itens[i] = ItemPonderado{Valor: p.Numero, Peso: p.PontuacaoFinal}
	}

	numeros := s.SelecionarPonderado(itens, qtd)
	sort.Ints(numeros)
	return numeros
}

// GerarUniforme sorteia qtd dezenas do volante inteiro com pesos iguais. Usado
// como último recurso quando as pontuações estão incompletas.
func (s *Sorteador) GerarUniforme(qtd int) []int {
	itens := make([]ItemPonderado, 0, domain.TotalNumeros)
	for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
		itens = append(itens, ItemPonderado{Valor: numero, Peso: 1})
	}

	numeros := s.SelecionarPonderado(itens, qtd)
	sort.Ints(numeros)
	return numeros
}
