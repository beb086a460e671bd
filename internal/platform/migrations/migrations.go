// Pacote migrations centraliza as versões gormigrate aplicadas na inicialização.
package migrations

import (
	"fmt"

	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

func Run(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	// Usamos gormigrate para versionar as migrations sem depender de AutoMigrate direto em produção.
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202608010001_init_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.Bolao{},
					&domain.Participacao{},
					&domain.PontuacaoNumero{},
					&domain.Concurso{},
					&domain.ApostaFinal{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"apostas_finais", "concursos", "pontuacoes_numeros", "participacoes", "boloes",
				)
			},
		},
		{
			// Índice parcial garante no banco o invariante de um único bolão aberto.
			ID: "202608010002_bolao_aberto_unico",
			Migrate: func(tx *gorm.DB) error {
				if tx.Dialector.Name() != "postgres" {
					return nil
				}
				return tx.Exec(
					`CREATE UNIQUE INDEX IF NOT EXISTS idx_boloes_aberto_unico ON boloes ((status)) WHERE status = 'aberto'`,
				).Error
			},
			Rollback: func(tx *gorm.DB) error {
				if tx.Dialector.Name() != "postgres" {
					return nil
				}
				return tx.Exec(`DROP INDEX IF EXISTS idx_boloes_aberto_unico`).Error
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrations: falha ao aplicar: %w", err)
	}

	return nil
}
