package entities

import "time"

// Profile é o perfil 1:1 de um usuário. Nunca existe sem o User dono.
type Profile struct {
	ID           uint
	UserID       uint
	Bio          *string
	Twitter      *string
	ProfessionID *uint
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Profession *Profession
}
