package entities

import "time"

// Profession representa uma profissão selecionável no perfil do usuário
type Profession struct {
	ID                 uint
	Title              string
	Description        *string
	EducationLevel     string
	Salary             int
	Sector             string
	ExperienceRequired int
	SkillID            *uint
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time // Soft delete
}

// IsDeleted verifica se a profissão foi removida (soft delete)
func (p *Profession) IsDeleted() bool {
	return p.DeletedAt != nil
}

// IsSelectable indica se a profissão pode ser atribuída a um perfil
func (p *Profession) IsSelectable() bool {
	return !p.IsDeleted()
}
