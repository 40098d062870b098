package entities

import "time"

// Skill representa uma habilidade associável a usuários (N:N via skill_user)
type Skill struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
