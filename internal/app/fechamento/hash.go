package fechamento

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// HashRegistro serializa o registro de forma canônica e devolve o SHA-256 em
// hex minúsculo. A canonização reordena as chaves de topo lexicograficamente
// (mapas em Go já serializam ordenados; structs aninhadas são geradas em ordem
// fixa), então qualquer mutação em qualquer campo muda o hash.
func HashRegistro(registro domain.RegistroFechamento) (string, error) {
	bruto, err := json.Marshal(registro)
	if err != nil {
		return "", fmt.Errorf("fechamento: serializar registro: %w", err)
	}

	var topo map[string]json.RawMessage
	if err := json.Unmarshal(bruto, &topo); err != nil {
		return "", fmt.Errorf("fechamento: canonizar registro: %w", err)
	}
	canonico, err := json.Marshal(topo)
	if err != nil {
		return "", fmt.Errorf("fechamento: canonizar registro: %w", err)
	}

	soma := sha256.Sum256(canonico)
	return hex.EncodeToString(soma[:]), nil
}

// VerificarHash recomputa o hash do registro e compara com o declarado. É a
// garantia de inviolabilidade exposta aos participantes.
func VerificarHash(registro domain.RegistroFechamento, hashDeclarado string) (bool, error) {
	atual, err := HashRegistro(registro)
	if err != nil {
		return false, err
	}
	return atual == hashDeclarado, nil
}
