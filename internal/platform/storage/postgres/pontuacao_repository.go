package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// PontuacaoRepository grava as 60 linhas de pontuação de cada bolão.
type PontuacaoRepository struct {
	db *gorm.DB
}

func NewPontuacaoRepository(db *gorm.DB) *PontuacaoRepository {
	return &PontuacaoRepository{db: db}
}

type pontuacaoModel struct {
	BolaoID              string    `gorm:"column:bolao_id;primaryKey"`
	Numero               int       `gorm:"column:numero;primaryKey;autoIncrement:false"`
	FrequenciaHistorica  int       `gorm:"column:frequencia_historica"`
	PopularidadeAtual    int       `gorm:"column:popularidade_atual"`
	PenalidadeAntiPadrao int       `gorm:"column:penalidade_antipadrao"`
	PontuacaoFinal       int       `gorm:"column:pontuacao_final"`
	AtualizadoEm         time.Time `gorm:"column:atualizado_em"`
}

func (pontuacaoModel) TableName() string {
	return "pontuacoes_numeros"
}

func (m pontuacaoModel) toDomain() domain.PontuacaoNumero {
	return domain.PontuacaoNumero{
		BolaoID:              domain.BolaoID(m.BolaoID),
		Numero:               m.Numero,
		FrequenciaHistorica:  m.FrequenciaHistorica,
		PopularidadeAtual:    m.PopularidadeAtual,
		PenalidadeAntiPadrao: m.PenalidadeAntiPadrao,
		PontuacaoFinal:       m.PontuacaoFinal,
		AtualizadoEm:         m.AtualizadoEm,
	}
}

func fromDomainPontuacao(p domain.PontuacaoNumero) pontuacaoModel {
	return pontuacaoModel{
		BolaoID:              string(p.BolaoID),
		Numero:               p.Numero,
		FrequenciaHistorica:  p.FrequenciaHistorica,
		PopularidadeAtual:    p.PopularidadeAtual,
		PenalidadeAntiPadrao: p.PenalidadeAntiPadrao,
		PontuacaoFinal:       p.PontuacaoFinal,
		AtualizadoEm:         p.AtualizadoEm,
	}
}

// UpsertTodas sobrescreve em lote: a chave composta (bolao, numero) faz o
// ON CONFLICT atualizar a linha existente em vez de duplicar.
func (r *PontuacaoRepository) UpsertTodas(ctx context.Context, pontuacoes []domain.PontuacaoNumero) error {
	if len(pontuacoes) == 0 {
		return nil
	}

	models := make([]pontuacaoModel, len(pontuacoes))
	for i, p := range pontuacoes {
		models[i] = fromDomainPontuacao(p)
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bolao_id"}, {Name: "numero"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"frequencia_historica",
				"popularidade_atual",
				"penalidade_antipadrao",
				"pontuacao_final",
				"atualizado_em",
			}),
		}).
		Create(&models).Error; err != nil {
		return fmt.Errorf("gorm pontuacao: upsert: %w", err)
	}
	return nil
}

func (r *PontuacaoRepository) ListByBolao(ctx context.Context, bolaoID domain.BolaoID) ([]domain.PontuacaoNumero, error) {
	var models []pontuacaoModel
	if err := r.db.WithContext(ctx).
		Where("bolao_id = ?", bolaoID).
		Order("numero ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm pontuacao: listar: %w", err)
	}

	result := make([]domain.PontuacaoNumero, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.PontuacaoRepository = (*PontuacaoRepository)(nil)
