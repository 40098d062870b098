package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/skillboard/internal/domain/entities"
	domainerrors "github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/repositories"
	"github.com/rafabene/skillboard/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return translateError(err)
	}

	user.ID = model.ID
	user.CreatedAt = time.Unix(model.CreatedAt, 0)
	user.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	var model UserModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var model UserModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("email = ?", valueobjects.NormalizeEmail(email)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64

	db := dbFromContext(ctx, r.db)
	query := db.Model(&UserModel{}).Where("email = ?", valueobjects.NormalizeEmail(email))
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User, changes repositories.UserChanges) error {
	updates := map[string]interface{}{
		"name":  changes.Name,
		"email": valueobjects.NormalizeEmail(changes.Email),
		"role":  string(changes.Role),
	}
	// Senha vazia: mantém o hash atual
	if changes.PasswordHash != "" {
		updates["password_hash"] = changes.PasswordHash
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Model(&UserModel{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return translateError(err)
	}

	email, err := valueobjects.NewEmail(changes.Email)
	if err != nil {
		return err
	}
	user.Name = changes.Name
	user.Email = email
	user.Role = changes.Role
	if changes.PasswordHash != "" {
		user.PasswordHash = changes.PasswordHash
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	db := dbFromContext(ctx, r.db)
	// Perfil e associações são removidos pelo ON DELETE CASCADE
	result := db.Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	var models []*UserModel

	db := dbFromContext(ctx, r.db)
	query := db.Model(&UserModel{}).Order("id ASC")

	// Aplicar filtros
	if filters.Role != nil {
		query = query.Where("role = ?", string(*filters.Role))
	}

	// Paginação (opcional)
	if filters.Page > 0 {
		pageSize := filters.PageSize
		if pageSize < 1 {
			pageSize = 20
		}
		if pageSize > 100 {
			pageSize = 100
		}
		query = query.Limit(pageSize).Offset((filters.Page - 1) * pageSize)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models)
}

func (r *UserRepository) FindProfile(ctx context.Context, userID uint) (*entities.Profile, error) {
	var model UserProfileModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return profileToEntity(&model), nil
}

func (r *UserRepository) SaveProfile(ctx context.Context, profile *entities.Profile) error {
	db := dbFromContext(ctx, r.db)

	var existing UserProfileModel
	err := db.Where("user_id = ?", profile.UserID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		model := &UserProfileModel{
			UserID:       profile.UserID,
			Bio:          profile.Bio,
			Twitter:      profile.Twitter,
			ProfessionID: profile.ProfessionID,
		}
		if err := db.Create(model).Error; err != nil {
			return err
		}
		profile.ID = model.ID
		profile.CreatedAt = time.Unix(model.CreatedAt, 0)
		profile.UpdatedAt = time.Unix(model.UpdatedAt, 0)
		return nil
	case err != nil:
		return err
	}

	// Map para permitir gravar NULL nos campos opcionais
	if err := db.Model(&UserProfileModel{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"bio":           profile.Bio,
		"twitter":       profile.Twitter,
		"profession_id": profile.ProfessionID,
	}).Error; err != nil {
		return err
	}

	profile.ID = existing.ID
	profile.CreatedAt = time.Unix(existing.CreatedAt, 0)
	return nil
}

func (r *UserRepository) FindSkills(ctx context.Context, userID uint) ([]entities.Skill, error) {
	var models []SkillModel

	db := dbFromContext(ctx, r.db)
	err := db.Model(&SkillModel{}).
		Joins("JOIN skill_user ON skill_user.skill_id = skills.id").
		Where("skill_user.user_id = ?", userID).
		Order("skills.name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return skillsToEntities(models), nil
}

func (r *UserRepository) SyncSkills(ctx context.Context, userID uint, skillIDs []uint) error {
	db := dbFromContext(ctx, r.db)

	var current []uint
	if err := db.Model(&SkillUserModel{}).Where("user_id = ?", userID).Pluck("skill_id", &current).Error; err != nil {
		return err
	}

	toAdd, toRemove := diffSkillIDs(current, skillIDs)

	if len(toRemove) > 0 {
		if err := db.Where("user_id = ? AND skill_id IN ?", userID, toRemove).Delete(&SkillUserModel{}).Error; err != nil {
			return err
		}
	}

	if len(toAdd) > 0 {
		rows := make([]SkillUserModel, len(toAdd))
		for i, skillID := range toAdd {
			rows[i] = SkillUserModel{UserID: userID, SkillID: skillID}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}

	return nil
}

// diffSkillIDs calcula o que inserir e o que remover para que current vire want.
// Ids repetidos em want são considerados uma única vez.
func diffSkillIDs(current, want []uint) (toAdd, toRemove []uint) {
	have := make(map[uint]bool, len(current))
	for _, id := range current {
		have[id] = true
	}

	wanted := make(map[uint]bool, len(want))
	for _, id := range want {
		if wanted[id] {
			continue
		}
		wanted[id] = true
		if !have[id] {
			toAdd = append(toAdd, id)
		}
	}

	for _, id := range current {
		if !wanted[id] {
			toRemove = append(toRemove, id)
		}
	}

	return toAdd, toRemove
}

// translateError converte violações de unicidade em erros de domínio
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrEmailAlreadyExists
	}
	return err
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Email:        user.Email.String(),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
	}
}

func (r *UserRepository) toEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	return &entities.User{
		ID:           model.ID,
		Email:        email,
		Name:         model.Name,
		PasswordHash: model.PasswordHash,
		Role:         entities.Role(model.Role),
		CreatedAt:    time.Unix(model.CreatedAt, 0),
		UpdatedAt:    time.Unix(model.UpdatedAt, 0),
	}, nil
}

func (r *UserRepository) toEntities(models []*UserModel) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(models))

	for _, model := range models {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}

	return users, nil
}

func profileToEntity(model *UserProfileModel) *entities.Profile {
	return &entities.Profile{
		ID:           model.ID,
		UserID:       model.UserID,
		Bio:          model.Bio,
		Twitter:      model.Twitter,
		ProfessionID: model.ProfessionID,
		CreatedAt:    time.Unix(model.CreatedAt, 0),
		UpdatedAt:    time.Unix(model.UpdatedAt, 0),
	}
}
