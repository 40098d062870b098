package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/domain/repositories"
)

// ProfessionRepository implementa repositories.ProfessionRepository
type ProfessionRepository struct {
	db *gorm.DB
}

// NewProfessionRepository cria um novo ProfessionRepository
func NewProfessionRepository(db *gorm.DB) repositories.ProfessionRepository {
	return &ProfessionRepository{db: db}
}

func (r *ProfessionRepository) FindActiveByID(ctx context.Context, id uint) (*entities.Profession, error) {
	return r.findOne(ctx, dbFromContext(ctx, r.db).Where("id = ? AND deleted_at IS NULL", id))
}

func (r *ProfessionRepository) FindByID(ctx context.Context, id uint) (*entities.Profession, error) {
	return r.findOne(ctx, dbFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *ProfessionRepository) findOne(_ context.Context, query *gorm.DB) (*entities.Profession, error) {
	var model ProfessionModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return professionToEntity(&model), nil
}

func (r *ProfessionRepository) ListActive(ctx context.Context) ([]entities.Profession, error) {
	var models []ProfessionModel

	db := dbFromContext(ctx, r.db)
	// Soft delete: ignorar registros deletados
	if err := db.Where("deleted_at IS NULL").Order("title ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	professions := make([]entities.Profession, len(models))
	for i := range models {
		professions[i] = *professionToEntity(&models[i])
	}
	return professions, nil
}

func (r *ProfessionRepository) Create(ctx context.Context, profession *entities.Profession) error {
	model := &ProfessionModel{
		SkillID:            profession.SkillID,
		Title:              profession.Title,
		Description:        profession.Description,
		EducationLevel:     profession.EducationLevel,
		Salary:             profession.Salary,
		Sector:             profession.Sector,
		ExperienceRequired: profession.ExperienceRequired,
	}
	if profession.DeletedAt != nil {
		ts := profession.DeletedAt.Unix()
		model.DeletedAt = &ts
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}

	profession.ID = model.ID
	profession.CreatedAt = time.Unix(model.CreatedAt, 0)
	profession.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *ProfessionRepository) SoftDelete(ctx context.Context, id uint) error {
	db := dbFromContext(ctx, r.db)
	// Soft delete: atualizar deleted_at ao invés de deletar
	now := time.Now().Unix()
	return db.Model(&ProfessionModel{}).Where("id = ? AND deleted_at IS NULL", id).Update("deleted_at", now).Error
}

// SkillRepository implementa repositories.SkillRepository
type SkillRepository struct {
	db *gorm.DB
}

// NewSkillRepository cria um novo SkillRepository
func NewSkillRepository(db *gorm.DB) repositories.SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) List(ctx context.Context) ([]entities.Skill, error) {
	var models []SkillModel
	if err := dbFromContext(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return skillsToEntities(models), nil
}

func (r *SkillRepository) FindByIDs(ctx context.Context, ids []uint) ([]entities.Skill, error) {
	if len(ids) == 0 {
		return []entities.Skill{}, nil
	}

	var models []SkillModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return skillsToEntities(models), nil
}

func (r *SkillRepository) Create(ctx context.Context, skill *entities.Skill) error {
	model := &SkillModel{Name: skill.Name}
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}

	skill.ID = model.ID
	skill.CreatedAt = time.Unix(model.CreatedAt, 0)
	skill.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func professionToEntity(model *ProfessionModel) *entities.Profession {
	var deletedAt *time.Time
	if model.DeletedAt != nil {
		ts := time.Unix(*model.DeletedAt, 0)
		deletedAt = &ts
	}

	return &entities.Profession{
		ID:                 model.ID,
		Title:              model.Title,
		Description:        model.Description,
		EducationLevel:     model.EducationLevel,
		Salary:             model.Salary,
		Sector:             model.Sector,
		ExperienceRequired: model.ExperienceRequired,
		SkillID:            model.SkillID,
		CreatedAt:          time.Unix(model.CreatedAt, 0),
		UpdatedAt:          time.Unix(model.UpdatedAt, 0),
		DeletedAt:          deletedAt,
	}
}

func skillsToEntities(models []SkillModel) []entities.Skill {
	skills := make([]entities.Skill, len(models))
	for i, m := range models {
		skills[i] = entities.Skill{
			ID:        m.ID,
			Name:      m.Name,
			CreatedAt: time.Unix(m.CreatedAt, 0),
			UpdatedAt: time.Unix(m.UpdatedAt, 0),
		}
	}
	return skills
}
