// Pacote fechamento congela um bolão: resolve o nível de aposta que o caixa
// paga, consolida os votos dos participantes na aposta principal, gera as
// apostas extras e grava um registro verificável por hash.
package fechamento

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// NivelAposta liga a quantidade de dezenas ao preço da aposta correspondente.
type NivelAposta struct {
	Dezenas int
	Custo   decimal.Decimal
}

// TabelaNiveis é a tabela combinatória oficial em ordem decrescente de custo:
// preço da aposta simples (6 dezenas) multiplicado por C(n,6).
func TabelaNiveis() []NivelAposta {
	return []NivelAposta{
		{Dezenas: 9, Custo: decimal.NewFromInt(504)},
		{Dezenas: 8, Custo: decimal.NewFromInt(168)},
		{Dezenas: 7, Custo: decimal.NewFromInt(42)},
		{Dezenas: 6, Custo: decimal.NewFromInt(6)},
	}
}

// ResolucaoFinanceira descreve como o total arrecadado vira apostas.
type ResolucaoFinanceira struct {
	Total              decimal.Decimal
	Nivel              NivelAposta
	QtdApostasExtras   int
	CustoApostasExtras decimal.Decimal
	Sobra              decimal.Decimal
}

// SaldoInsuficienteError carrega quanto falta para a aposta mais barata; o
// bolão permanece aberto para que os organizadores esperem mais cotas.
type SaldoInsuficienteError struct {
	Total  decimal.Decimal
	Minimo decimal.Decimal
	Faltam decimal.Decimal
}

func (e *SaldoInsuficienteError) Error() string {
	return fmt.Sprintf("saldo insuficiente: arrecadado %s, minimo %s, faltam %s",
		e.Total.StringFixed(2), e.Minimo.StringFixed(2), e.Faltam.StringFixed(2))
}

// ResolverNivel escolhe o primeiro nível cujo custo cabe no total. Como a
// tabela é decrescente por custo, isso seleciona a aposta com mais dezenas que
// o caixa consegue pagar; a sobra vira apostas mínimas de 6 dezenas.
func ResolverNivel(total decimal.Decimal, niveis []NivelAposta) (ResolucaoFinanceira, error) {
	if len(niveis) == 0 {
		return ResolucaoFinanceira{}, fmt.Errorf("fechamento: tabela de niveis vazia")
	}

	custoMinimo := niveis[len(niveis)-1].Custo
	for _, nivel := range niveis {
		if nivel.Custo.LessThanOrEqual(total) {
			sobra := total.Sub(nivel.Custo)
			qtdExtras := sobra.Div(custoMinimo).Floor().IntPart()
			custoExtras := custoMinimo.Mul(decimal.NewFromInt(qtdExtras))
			return ResolucaoFinanceira{
				Total:              total,
				Nivel:              nivel,
				QtdApostasExtras:   int(qtdExtras),
				CustoApostasExtras: custoExtras,
				Sobra:              sobra.Sub(custoExtras),
			}, nil
		}
	}

	return ResolucaoFinanceira{}, &SaldoInsuficienteError{
		Total:  total,
		Minimo: custoMinimo,
		Faltam: custoMinimo.Sub(total),
	}
}

// TotalArrecadado soma cotas confirmadas vezes o valor da cota. Participações
// pendentes ou apenas declaradas não entram no caixa.
func TotalArrecadado(valorCota decimal.Decimal, participacoes []domain.Participacao) (decimal.Decimal, int) {
	total := decimal.Zero
	cotas := 0
	for _, p := range participacoes {
		if p.StatusPagamento != domain.PagamentoConfirmado {
			continue
		}
		total = total.Add(valorCota.Mul(decimal.NewFromInt(int64(p.QuantidadeCotas))))
		cotas += p.QuantidadeCotas
	}
	return total, cotas
}
