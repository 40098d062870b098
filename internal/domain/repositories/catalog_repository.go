package repositories

import (
	"context"

	"github.com/rafabene/skillboard/internal/domain/entities"
)

// ProfessionRepository define o acesso às profissões
type ProfessionRepository interface {
	// FindActiveByID ignora profissões com deleted_at preenchido; nil, nil quando não encontrada
	FindActiveByID(ctx context.Context, id uint) (*entities.Profession, error)
	FindByID(ctx context.Context, id uint) (*entities.Profession, error)
	ListActive(ctx context.Context) ([]entities.Profession, error)
	Create(ctx context.Context, profession *entities.Profession) error
	SoftDelete(ctx context.Context, id uint) error
}

// SkillRepository define o acesso às habilidades
type SkillRepository interface {
	List(ctx context.Context) ([]entities.Skill, error)
	// FindByIDs retorna apenas as habilidades existentes entre ids
	FindByIDs(ctx context.Context, ids []uint) ([]entities.Skill, error)
	Create(ctx context.Context, skill *entities.Skill) error
}
