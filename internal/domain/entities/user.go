package entities

import (
	"time"

	"github.com/rafabene/skillboard/internal/domain/valueobjects"
)

// User representa um usuário do sistema
type User struct {
	ID           uint
	Email        valueobjects.Email
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Carregados explicitamente pelo repositório; nil/vazio quando não carregados
	Profile *Profile
	Skills  []Skill
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SkillIDs retorna os ids das habilidades carregadas
func (u *User) SkillIDs() []uint {
	ids := make([]uint, len(u.Skills))
	for i, s := range u.Skills {
		ids[i] = s.ID
	}
	return ids
}

// HasSkill verifica se a habilidade está associada ao usuário
func (u *User) HasSkill(skillID uint) bool {
	for _, s := range u.Skills {
		if s.ID == skillID {
			return true
		}
	}
	return false
}
