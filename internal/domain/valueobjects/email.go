package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// Email é um value object que garante que emails sejam sempre válidos
type Email struct {
	value string
}

// NormalizeEmail aplica a forma canônica usada para comparação e persistência
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// NewEmail cria um novo Email validado
func NewEmail(email string) (Email, error) {
	email = NormalizeEmail(email)

	if !IsValidEmail(email) {
		return Email{}, ErrInvalidEmail
	}

	return Email{value: email}, nil
}

// String retorna o valor do email
func (e Email) String() string {
	return e.value
}

// Equals compara dois emails na forma canônica
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// IsZero indica um Email não inicializado
func (e Email) IsZero() bool {
	return e.value == ""
}

// IsValidEmail valida o formato de um email já normalizado
func IsValidEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return emailPattern.MatchString(email)
}
