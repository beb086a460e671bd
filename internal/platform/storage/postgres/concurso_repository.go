package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
)

// ConcursoRepository guarda os sorteios históricos usados pela frequência.
type ConcursoRepository struct {
	db *gorm.DB
}

func NewConcursoRepository(db *gorm.DB) *ConcursoRepository {
	return &ConcursoRepository{db: db}
}

type concursoModel struct {
	ID         string              `gorm:"column:id;primaryKey"`
	Numero     int                 `gorm:"column:numero;uniqueIndex"`
	Dezenas    domain.ListaNumeros `gorm:"column:dezenas;type:text"`
	SorteadoEm time.Time           `gorm:"column:sorteado_em"`
	CriadoEm   time.Time           `gorm:"column:criado_em"`
}

func (concursoModel) TableName() string {
	return "concursos"
}

func (m concursoModel) toDomain() domain.Concurso {
	return domain.Concurso{
		ID:         domain.ConcursoID(m.ID),
		Numero:     m.Numero,
		Dezenas:    m.Dezenas,
		SorteadoEm: m.SorteadoEm,
		CriadoEm:   m.CriadoEm,
	}
}

func (r *ConcursoRepository) Create(ctx context.Context, c domain.Concurso) error {
	model := concursoModel{
		ID:         string(c.ID),
		Numero:     c.Numero,
		Dezenas:    c.Dezenas,
		SorteadoEm: c.SorteadoEm,
		CriadoEm:   c.CriadoEm,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm concurso: inserir: %w", err)
	}
	return nil
}

func (r *ConcursoRepository) ListAll(ctx context.Context) ([]domain.Concurso, error) {
	var models []concursoModel
	if err := r.db.WithContext(ctx).
		Order("numero ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm concurso: listar: %w", err)
	}

	result := make([]domain.Concurso, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.ConcursoRepository = (*ConcursoRepository)(nil)
