package services

import (
	"context"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/ports"
	"github.com/rafabene/skillboard/internal/domain/repositories"
)

// CatalogService expõe profissões e habilidades selecionáveis
type CatalogService struct {
	professionRepo repositories.ProfessionRepository
	skillRepo      repositories.SkillRepository
	logger         ports.Logger
}

// NewCatalogService cria um novo CatalogService
func NewCatalogService(
	professionRepo repositories.ProfessionRepository,
	skillRepo repositories.SkillRepository,
	logger ports.Logger,
) *CatalogService {
	return &CatalogService{
		professionRepo: professionRepo,
		skillRepo:      skillRepo,
		logger:         logger,
	}
}

// FormOptions são as opções dos formulários de criação e edição
type FormOptions struct {
	Professions []entities.Profession
	Skills      []entities.Skill
	Roles       []entities.Role
}

// FormOptions carrega profissões ativas (por título) e todas as habilidades (por nome)
func (s *CatalogService) FormOptions(ctx context.Context) (*FormOptions, error) {
	professions, err := s.ListProfessions(ctx)
	if err != nil {
		return nil, err
	}

	skills, err := s.ListSkills(ctx)
	if err != nil {
		return nil, err
	}

	return &FormOptions{
		Professions: professions,
		Skills:      skills,
		Roles:       entities.Roles(),
	}, nil
}

// ListProfessions lista as profissões que não foram removidas
func (s *CatalogService) ListProfessions(ctx context.Context) ([]entities.Profession, error) {
	professions, err := s.professionRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list professions", "error", err)
		return nil, errors.NewPersistenceError("list professions", err)
	}
	return professions, nil
}

// ListSkills lista todas as habilidades
func (s *CatalogService) ListSkills(ctx context.Context) ([]entities.Skill, error) {
	skills, err := s.skillRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list skills", "error", err)
		return nil, errors.NewPersistenceError("list skills", err)
	}
	return skills, nil
}
