// Pacote pontuacao implementa o motor de ranking das dezenas: análise de
// vícios humanos, frequência histórica, popularidade invertida e sorteio
// ponderado.
package pontuacao

import "sort"

type Severidade string

const (
	SeveridadeBaixa Severidade = "baixa"
	SeveridadeMedia Severidade = "media"
	SeveridadeAlta  Severidade = "alta"
)

// PadraoDetectado descreve um vício encontrado em um jogo de seis dezenas.
type PadraoDetectado struct {
	Tipo       string     `json:"tipo"`
	Severidade Severidade `json:"severidade"`
	Mensagem   string     `json:"mensagem"`
	Contagem   int        `json:"contagem"`
}

// Penalidades agrupa os valores de desconto aplicados por vício. São
// configuração, não regra fixa: o fato de aniversário+mult5+mult10 somarem
// exatamente o teto para 10/20/30 é coincidência dos defaults.
type Penalidades struct {
	Aniversario int
	Multiplo5   int
	Multiplo10  int
	Maximo      int
}

func PenalidadesPadrao() Penalidades {
	return Penalidades{
		Aniversario: 10,
		Multiplo5:   5,
		Multiplo10:  5,
		Maximo:      20,
	}
}

// Analisador avalia dezenas individuais e jogos completos em busca de
// padrões de escolha humana (datas de aniversário, sequências, múltiplos).
type Analisador struct {
	penalidades Penalidades
}

func NewAnalisador(penalidades Penalidades) *Analisador {
	return &Analisador{penalidades: penalidades}
}

// Penalidade calcula o desconto de uma única dezena. Função pura: o mesmo
// número sempre gera a mesma penalidade.
func (a *Analisador) Penalidade(numero int) int {
	total := 0

	if numero >= 1 && numero <= 31 {
		total += a.penalidades.Aniversario
	}
	if numero%5 == 0 {
		total += a.penalidades.Multiplo5
	}
	if numero%10 == 0 {
		total += a.penalidades.Multiplo10
	}

	if total > a.penalidades.Maximo {
		total = a.penalidades.Maximo
	}
	return total
}

// DetectarPadroes roda as verificações independentes em ordem fixa para que a
// saída seja determinística. Vários padrões podem disparar ao mesmo tempo.
func (a *Analisador) DetectarPadroes(numeros []int) []PadraoDetectado {
	var padroes []PadraoDetectado
	if len(numeros) == 0 {
		return padroes
	}

	ordenados := make([]int, len(numeros))
	copy(ordenados, numeros)
	sort.Ints(ordenados)

	// (a) concentração em dezenas de aniversário (1..31)
	aniversario := 0
	for _, n := range ordenados {
		if n <= 31 {
			aniversario++
		}
	}
	if aniversario == len(ordenados) {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "aniversario",
			Severidade: SeveridadeAlta,
			Mensagem:   "todas as dezenas estao entre 1 e 31",
			Contagem:   aniversario,
		})
	} else if float64(aniversario)/float64(len(ordenados)) > 0.7 {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "aniversario",
			Severidade: SeveridadeMedia,
			Mensagem:   "maioria das dezenas esta entre 1 e 31",
			Contagem:   aniversario,
		})
	}

	// (b) sequência de números consecutivos
	maiorSequencia := 1
	atual := 1
	for i := 1; i < len(ordenados); i++ {
		if ordenados[i] == ordenados[i-1]+1 {
			atual++
			if atual > maiorSequencia {
				maiorSequencia = atual
			}
		} else {
			atual = 1
		}
	}
	if maiorSequencia >= 5 {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "sequencia",
			Severidade: SeveridadeAlta,
			Mensagem:   "cinco ou mais dezenas consecutivas",
			Contagem:   maiorSequencia,
		})
	} else if maiorSequencia == 4 {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "sequencia",
			Severidade: SeveridadeMedia,
			Mensagem:   "quatro dezenas consecutivas",
			Contagem:   maiorSequencia,
		})
	}

	// (c) paridade uniforme
	pares := 0
	for _, n := range ordenados {
		if n%2 == 0 {
			pares++
		}
	}
	if pares == len(ordenados) || pares == 0 {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "paridade",
			Severidade: SeveridadeBaixa,
			Mensagem:   "todas as dezenas com a mesma paridade",
			Contagem:   len(ordenados),
		})
	}

	// (d) múltiplos de 5
	multiplos5 := 0
	for _, n := range ordenados {
		if n%5 == 0 {
			multiplos5++
		}
	}
	if float64(multiplos5) >= float64(len(ordenados))*0.5 {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "multiplos_de_5",
			Severidade: SeveridadeMedia,
			Mensagem:   "metade ou mais das dezenas sao multiplas de 5",
			Contagem:   multiplos5,
		})
	}

	// (e) múltiplos de 10
	multiplos10 := 0
	for _, n := range ordenados {
		if n%10 == 0 {
			multiplos10++
		}
	}
	if multiplos10 >= 3 {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "multiplos_de_10",
			Severidade: SeveridadeAlta,
			Mensagem:   "tres ou mais dezenas multiplas de 10",
			Contagem:   multiplos10,
		})
	}

	// (f) todas as dezenas na mesma faixa (mesmo floor(n/10))
	mesmaFaixa := true
	for _, n := range ordenados[1:] {
		if n/10 != ordenados[0]/10 {
			mesmaFaixa = false
			break
		}
	}
	if mesmaFaixa && len(ordenados) == 6 {
		padroes = append(padroes, PadraoDetectado{
			Tipo:       "mesma_faixa",
			Severidade: SeveridadeAlta,
			Mensagem:   "todas as dezenas na mesma faixa de dez",
			Contagem:   len(ordenados),
		})
	}

	return padroes
}

// PontuacaoPadroes resume os padrões detectados em um valor 0..100.
func (a *Analisador) PontuacaoPadroes(numeros []int) int {
	total := 0
	for _, p := range a.DetectarPadroes(numeros) {
		switch p.Severidade {
		case SeveridadeAlta:
			total += 30
		case SeveridadeMedia:
			total += 15
		case SeveridadeBaixa:
			total += 5
		}
	}
	if total > 100 {
		total = 100
	}
	return total
}
