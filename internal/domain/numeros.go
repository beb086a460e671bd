package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// ListaNumeros serializa dezenas como JSON em uma coluna de texto, mantendo o
// mesmo formato no SQLite dos testes e no Postgres de produção.
type ListaNumeros []int

func (l ListaNumeros) Value() (driver.Value, error) {
	if l == nil {
		l = ListaNumeros{}
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("lista numeros: serializar: %w", err)
	}
	return string(payload), nil
}

func (l *ListaNumeros) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("lista numeros: tipo inesperado %T", value)
	}
}

// Ordenada devolve uma cópia crescente sem alterar a lista original.
func (l ListaNumeros) Ordenada() ListaNumeros {
	out := make(ListaNumeros, len(l))
	copy(out, l)
	sort.Ints(out)
	return out
}

// Contem informa se a dezena está presente.
func (l ListaNumeros) Contem(numero int) bool {
	for _, n := range l {
		if n == numero {
			return true
		}
	}
	return false
}

// ValidarNumeros confere o formato de uma escolha de dezenas: até seis valores,
// todos entre 1 e 60, sem repetição.
func ValidarNumeros(numeros []int) error {
	if len(numeros) > NumerosPorAposta {
		return fmt.Errorf("%w: maximo de %d dezenas", ErrNumerosInvalidos, NumerosPorAposta)
	}
	vistos := make(map[int]bool, len(numeros))
	for _, n := range numeros {
		if n < NumeroMinimo || n > NumeroMaximo {
			return fmt.Errorf("%w: dezena %d fora do intervalo", ErrNumerosInvalidos, n)
		}
		if vistos[n] {
			return fmt.Errorf("%w: dezena %d repetida", ErrNumerosInvalidos, n)
		}
		vistos[n] = true
	}
	return nil
}
