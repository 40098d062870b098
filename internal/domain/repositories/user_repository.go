package repositories

import (
	"context"

	"github.com/rafabene/skillboard/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários,
// de seus perfis e das associações com habilidades.
// Nenhum relacionamento é carregado implicitamente.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	// FindByID retorna nil, nil quando o usuário não existe
	FindByID(ctx context.Context, id uint) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// EmailTaken verifica se outro usuário (id != exceptID) já usa o email
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	Update(ctx context.Context, user *entities.User, changes UserChanges) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, error)

	// FindProfile retorna nil, nil quando o usuário ainda não tem perfil
	FindProfile(ctx context.Context, userID uint) (*entities.Profile, error)
	// SaveProfile cria ou atualiza o perfil do usuário
	SaveProfile(ctx context.Context, profile *entities.Profile) error

	FindSkills(ctx context.Context, userID uint) ([]entities.Skill, error)
	// SyncSkills faz com que o conjunto associado seja exatamente skillIDs
	SyncSkills(ctx context.Context, userID uint, skillIDs []uint) error
}

// UserChanges descreve os campos alterados em um Update
type UserChanges struct {
	Name  string
	Email string
	Role  entities.Role
	// PasswordHash vazio mantém o hash armazenado
	PasswordHash string
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	Role     *entities.Role
	Page     int // Página (começa em 1); 0 lista todos
	PageSize int // Itens por página (default: 20, max: 100)
}
