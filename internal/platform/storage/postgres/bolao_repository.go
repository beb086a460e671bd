package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// BolaoRepository mapeia o agregado de bolão para tabelas GORM.
type BolaoRepository struct {
	db *gorm.DB
}

func NewBolaoRepository(db *gorm.DB) *BolaoRepository {
	return &BolaoRepository{db: db}
}

type bolaoModel struct {
	ID                 string          `gorm:"column:id;primaryKey"`
	Nome               string          `gorm:"column:nome"`
	ValorCota          decimal.Decimal `gorm:"column:valor_cota"`
	Status             string          `gorm:"column:status"`
	HashFechamento     string          `gorm:"column:hash_fechamento"`
	RegistroFechamento string          `gorm:"column:registro_fechamento"`
	FechadoPor         string          `gorm:"column:fechado_por"`
	FechadoEm          *time.Time      `gorm:"column:fechado_em"`
	CriadoEm           time.Time       `gorm:"column:criado_em"`
	AtualizadoEm       time.Time       `gorm:"column:atualizado_em"`
}

func (bolaoModel) TableName() string {
	return "boloes"
}

func (m bolaoModel) toDomain() domain.Bolao {
	return domain.Bolao{
		ID:                 domain.BolaoID(m.ID),
		Nome:               m.Nome,
		ValorCota:          m.ValorCota,
		Status:             domain.StatusBolao(m.Status),
		HashFechamento:     m.HashFechamento,
		RegistroFechamento: m.RegistroFechamento,
		FechadoPor:         m.FechadoPor,
		FechadoEm:          m.FechadoEm,
		CriadoEm:           m.CriadoEm,
		AtualizadoEm:       m.AtualizadoEm,
	}
}

func fromDomainBolao(b domain.Bolao) bolaoModel {
	return bolaoModel{
		ID:                 string(b.ID),
		Nome:               b.Nome,
		ValorCota:          b.ValorCota,
		Status:             string(b.Status),
		HashFechamento:     b.HashFechamento,
		RegistroFechamento: b.RegistroFechamento,
		FechadoPor:         b.FechadoPor,
		FechadoEm:          b.FechadoEm,
		CriadoEm:           b.CriadoEm,
		AtualizadoEm:       b.AtualizadoEm,
	}
}

func (r *BolaoRepository) Create(ctx context.Context, b domain.Bolao) error {
	model := fromDomainBolao(b)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm bolao: inserir: %w", err)
	}
	return nil
}

func (r *BolaoRepository) Update(ctx context.Context, b domain.Bolao) error {
	model := fromDomainBolao(b)
	if err := r.db.WithContext(ctx).Model(&bolaoModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"nome":                model.Nome,
			"valor_cota":          model.ValorCota,
			"status":              model.Status,
			"hash_fechamento":     model.HashFechamento,
			"registro_fechamento": model.RegistroFechamento,
			"fechado_por":         model.FechadoPor,
			"fechado_em":          model.FechadoEm,
			"atualizado_em":       model.AtualizadoEm,
		}).Error; err != nil {
		return fmt.Errorf("gorm bolao: atualizar: %w", err)
	}
	return nil
}

func (r *BolaoRepository) FindByID(ctx context.Context, id domain.BolaoID) (domain.Bolao, error) {
	var model bolaoModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bolao{}, domain.ErrNotFound
		}
		return domain.Bolao{}, fmt.Errorf("gorm bolao: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *BolaoRepository) FindAberto(ctx context.Context) (domain.Bolao, error) {
	var model bolaoModel
	if err := r.db.WithContext(ctx).
		// O sistema garante no máximo um bolão aberto; First basta.
		Where("status = ?", string(domain.BolaoAberto)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bolao{}, domain.ErrNotFound
		}
		return domain.Bolao{}, fmt.Errorf("gorm bolao: buscar aberto: %w", err)
	}
	return model.toDomain(), nil
}

var _ domain.BolaoRepository = (*BolaoRepository)(nil)
