package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// ParticipacaoRepository persiste participações e suas dezenas usando GORM.
type ParticipacaoRepository struct {
	db *gorm.DB
}

func NewParticipacaoRepository(db *gorm.DB) *ParticipacaoRepository {
	return &ParticipacaoRepository{db: db}
}

type participacaoModel struct {
	ID              string              `gorm:"column:id;primaryKey"`
	BolaoID         string              `gorm:"column:bolao_id;index"`
	UserID          string              `gorm:"column:user_id"`
	Nome            string              `gorm:"column:nome"`
	StatusPagamento string              `gorm:"column:status_pagamento"`
	QuantidadeCotas int                 `gorm:"column:quantidade_cotas"`
	Numeros         domain.ListaNumeros `gorm:"column:numeros;type:text"`
	CriadoEm        time.Time           `gorm:"column:criado_em"`
	AtualizadoEm    time.Time           `gorm:"column:atualizado_em"`
}

func (participacaoModel) TableName() string {
	return "participacoes"
}

func (m participacaoModel) toDomain() domain.Participacao {
	return domain.Participacao{
		ID:              domain.ParticipacaoID(m.ID),
		BolaoID:         domain.BolaoID(m.BolaoID),
		UserID:          m.UserID,
		Nome:            m.Nome,
		StatusPagamento: domain.StatusPagamento(m.StatusPagamento),
		QuantidadeCotas: m.QuantidadeCotas,
		Numeros:         m.Numeros,
		CriadoEm:        m.CriadoEm,
		AtualizadoEm:    m.AtualizadoEm,
	}
}

func fromDomainParticipacao(p domain.Participacao) participacaoModel {
	return participacaoModel{
		ID:              string(p.ID),
		BolaoID:         string(p.BolaoID),
		UserID:          p.UserID,
		Nome:            p.Nome,
		StatusPagamento: string(p.StatusPagamento),
		QuantidadeCotas: p.QuantidadeCotas,
		Numeros:         p.Numeros,
		CriadoEm:        p.CriadoEm,
		AtualizadoEm:    p.AtualizadoEm,
	}
}

func (r *ParticipacaoRepository) Create(ctx context.Context, p domain.Participacao) error {
	model := fromDomainParticipacao(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm participacao: inserir: %w", err)
	}
	return nil
}

func (r *ParticipacaoRepository) FindByID(ctx context.Context, id domain.ParticipacaoID) (domain.Participacao, error) {
	var model participacaoModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Participacao{}, domain.ErrNotFound
		}
		return domain.Participacao{}, fmt.Errorf("gorm participacao: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *ParticipacaoRepository) ListByBolao(ctx context.Context, bolaoID domain.BolaoID) ([]domain.Participacao, error) {
	var models []participacaoModel
	if err := r.db.WithContext(ctx).
		// Ordenamos pela criação para manter previsibilidade na API e no registro de fechamento.
		Where("bolao_id = ?", bolaoID).
		Order("criado_em ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm participacao: listar: %w", err)
	}

	result := make([]domain.Participacao, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *ParticipacaoRepository) ListConfirmadas(ctx context.Context, bolaoID domain.BolaoID) ([]domain.Participacao, error) {
	var models []participacaoModel
	if err := r.db.WithContext(ctx).
		Where("bolao_id = ? AND status_pagamento = ?", bolaoID, string(domain.PagamentoConfirmado)).
		Order("criado_em ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm participacao: listar confirmadas: %w", err)
	}

	result := make([]domain.Participacao, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *ParticipacaoRepository) UpdateNumeros(ctx context.Context, id domain.ParticipacaoID, numeros domain.ListaNumeros, quando time.Time) error {
	res := r.db.WithContext(ctx).Model(&participacaoModel{}).
		Where("id = ?", string(id)).
		Updates(map[string]any{
			"numeros":       numeros,
			"atualizado_em": quando,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm participacao: atualizar numeros: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ParticipacaoRepository) UpdateStatusPagamento(ctx context.Context, id domain.ParticipacaoID, status domain.StatusPagamento, quando time.Time) error {
	res := r.db.WithContext(ctx).Model(&participacaoModel{}).
		Where("id = ?", string(id)).
		Updates(map[string]any{
			"status_pagamento": string(status),
			"atualizado_em":    quando,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm participacao: atualizar pagamento: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.ParticipacaoRepository = (*ParticipacaoRepository)(nil)
