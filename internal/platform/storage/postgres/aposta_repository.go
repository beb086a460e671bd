package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// ApostaRepository espelha a lista de apostas finais gravada no fechamento.
type ApostaRepository struct {
	db *gorm.DB
}

func NewApostaRepository(db *gorm.DB) *ApostaRepository {
	return &ApostaRepository{db: db}
}

type apostaModel struct {
	ID       string              `gorm:"column:id;primaryKey"`
	BolaoID  string              `gorm:"column:bolao_id;index"`
	Tipo     string              `gorm:"column:tipo"`
	Numeros  domain.ListaNumeros `gorm:"column:numeros;type:text"`
	Custo    decimal.Decimal     `gorm:"column:custo"`
	Ordem    int                 `gorm:"column:ordem"`
	CriadoEm time.Time           `gorm:"column:criado_em"`
}

func (apostaModel) TableName() string {
	return "apostas_finais"
}

func (m apostaModel) toDomain() domain.ApostaFinal {
	return domain.ApostaFinal{
		ID:       domain.ApostaID(m.ID),
		BolaoID:  domain.BolaoID(m.BolaoID),
		Tipo:     m.Tipo,
		Numeros:  m.Numeros,
		Custo:    m.Custo,
		Ordem:    m.Ordem,
		CriadoEm: m.CriadoEm,
	}
}

func (r *ApostaRepository) BulkCreate(ctx context.Context, apostas []domain.ApostaFinal) error {
	if len(apostas) == 0 {
		return nil
	}

	// Inserimos todas as apostas de uma vez para evitar múltiplos round-trips.
	models := make([]apostaModel, len(apostas))
	for i, a := range apostas {
		models[i] = apostaModel{
			ID:       string(a.ID),
			BolaoID:  string(a.BolaoID),
			Tipo:     a.Tipo,
			Numeros:  a.Numeros,
			Custo:    a.Custo,
			Ordem:    a.Ordem,
			CriadoEm: a.CriadoEm,
		}
	}

	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("gorm aposta: bulk create: %w", err)
	}
	return nil
}

func (r *ApostaRepository) DeleteByBolao(ctx context.Context, bolaoID domain.BolaoID) error {
	// Remove restos de um fechamento que falhou depois de gravar as apostas.
	if err := r.db.WithContext(ctx).
		Where("bolao_id = ?", bolaoID).
		Delete(&apostaModel{}).Error; err != nil {
		return fmt.Errorf("gorm aposta: remover por bolao: %w", err)
	}
	return nil
}

func (r *ApostaRepository) ListByBolao(ctx context.Context, bolaoID domain.BolaoID) ([]domain.ApostaFinal, error) {
	var models []apostaModel
	if err := r.db.WithContext(ctx).
		// A ordem de geração (principal primeiro) é parte do contrato do registro.
		Where("bolao_id = ?", bolaoID).
		Order("ordem ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm aposta: listar: %w", err)
	}

	result := make([]domain.ApostaFinal, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.ApostaRepository = (*ApostaRepository)(nil)
