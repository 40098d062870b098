package services

import (
	"context"
	errs "errors"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/ports"
	"github.com/rafabene/skillboard/internal/domain/repositories"
	"github.com/rafabene/skillboard/internal/domain/valueobjects"
)

// UserService contém a lógica de negócio para usuários
type UserService struct {
	userRepo       repositories.UserRepository
	professionRepo repositories.ProfessionRepository
	validator      *UserValidator
	uow            ports.UnitOfWork
	hasher         ports.PasswordHasher
	metrics        ports.Metrics
	logger         ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	professionRepo repositories.ProfessionRepository,
	skillRepo repositories.SkillRepository,
	uow ports.UnitOfWork,
	hasher ports.PasswordHasher,
	metrics ports.Metrics,
	logger ports.Logger,
) *UserService {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UserService{
		userRepo:       userRepo,
		professionRepo: professionRepo,
		validator:      NewUserValidator(userRepo, professionRepo, skillRepo),
		uow:            uow,
		hasher:         hasher,
		metrics:        metrics,
		logger:         logger,
	}
}

// UserList é o resultado da listagem
type UserList struct {
	Users []*entities.User
}

// IsEmpty indica que não há usuários cadastrados
func (l *UserList) IsEmpty() bool {
	return len(l.Users) == 0
}

// Len retorna a quantidade de usuários listados
func (l *UserList) Len() int {
	return len(l.Users)
}

// ListUsers lista usuários em ordem de inserção
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserList, error) {
	users, err := s.userRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, errors.NewPersistenceError("list users", err)
	}
	return &UserList{Users: users}, nil
}

// GetUser busca um usuário por ID com perfil, profissão e habilidades
func (s *UserService) GetUser(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := s.userRepo.FindProfile(ctx, id)
	if err != nil {
		return nil, errors.NewPersistenceError("find profile", err)
	}
	if profile != nil && profile.ProfessionID != nil {
		// Profissão removida depois da atribuição continua visível no detalhe
		profile.Profession, err = s.professionRepo.FindByID(ctx, *profile.ProfessionID)
		if err != nil {
			return nil, errors.NewPersistenceError("find profession", err)
		}
	}
	user.Profile = profile

	user.Skills, err = s.userRepo.FindSkills(ctx, id)
	if err != nil {
		return nil, errors.NewPersistenceError("find skills", err)
	}

	return user, nil
}

// CreateUser valida a entrada e cria usuário, perfil e associações numa única transação
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (*entities.User, error) {
	validated, err := s.validate(ctx, input, ModeCreate, 0)
	if err != nil {
		return nil, err
	}

	s.logger.Info("creating user", "email", validated.Email)

	hash, err := s.hasher.Hash(validated.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, errors.NewPersistenceError("hash password", err)
	}

	email, err := valueobjects.NewEmail(validated.Email)
	if err != nil {
		return nil, s.validationFailed(map[string]string{"email": "validation.email.invalid"})
	}

	user := &entities.User{
		Name:         validated.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         validated.Role,
	}
	profile := profileFrom(validated)

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		if err := s.userRepo.SaveProfile(txCtx, profile); err != nil {
			return err
		}
		return s.userRepo.SyncSkills(txCtx, user.ID, validated.SkillIDs)
	})
	if err != nil {
		return nil, s.writeFailed("create user", err)
	}

	user.Profile = profile
	user.Skills = validated.Skills

	s.metrics.UserCreated()
	s.logger.Info("user created", "user_id", user.ID, "skills", len(validated.SkillIDs))
	return user, nil
}

// UpdateUser valida a entrada e atualiza usuário, perfil e associações numa única transação.
// Senha vazia mantém o hash atual; o conjunto de habilidades passa a ser exatamente o informado.
func (s *UserService) UpdateUser(ctx context.Context, id uint, input UserInput) (*entities.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	validated, err := s.validate(ctx, input, ModeUpdate, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updating user", "user_id", id)

	changes := repositories.UserChanges{
		Name:  validated.Name,
		Email: validated.Email,
		Role:  validated.Role,
	}
	if validated.Password != "" {
		changes.PasswordHash, err = s.hasher.Hash(validated.Password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err)
			return nil, errors.NewPersistenceError("hash password", err)
		}
	}

	profile := profileFrom(validated)
	profile.UserID = id

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user, changes); err != nil {
			return err
		}
		if err := s.userRepo.SaveProfile(txCtx, profile); err != nil {
			return err
		}
		return s.userRepo.SyncSkills(txCtx, id, validated.SkillIDs)
	})
	if err != nil {
		return nil, s.writeFailed("update user", err)
	}

	user.Profile = profile
	user.Skills = validated.Skills

	s.metrics.UserUpdated()
	s.logger.Info("user updated", "user_id", id, "password_changed", validated.Password != "")
	return user, nil
}

// DeleteUser remove o usuário; perfil e associações saem por cascata
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errs.Is(err, errors.ErrUserNotFound) {
			return err
		}
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return errors.NewPersistenceError("delete user", err)
	}

	s.metrics.UserDeleted()
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *UserService) findUser(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to find user", "user_id", id, "error", err)
		return nil, errors.NewPersistenceError("find user", err)
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) validate(ctx context.Context, input UserInput, mode Mode, currentID uint) (*ValidatedUser, error) {
	validated, err := s.validator.Validate(ctx, input, mode, currentID)
	if err == nil {
		return validated, nil
	}

	var verr *errors.ValidationError
	if errs.As(err, &verr) {
		return nil, s.validationFailed(verr.Fields)
	}

	s.logger.Error("validation lookup failed", "mode", mode.String(), "error", err)
	return nil, err
}

func (s *UserService) validationFailed(fields map[string]string) error {
	verr := errors.NewValidationError(fields)
	for _, field := range verr.FieldNames() {
		s.metrics.ValidationFailed(field)
	}
	s.logger.Debug("user validation failed", "fields", verr.FieldNames())
	return verr
}

// writeFailed converte o erro de uma transação já desfeita.
// Violação de unicidade vinda do banco vira erro de validação no email.
func (s *UserService) writeFailed(op string, err error) error {
	if errs.Is(err, errors.ErrEmailAlreadyExists) {
		return s.validationFailed(map[string]string{"email": "validation.email.unique"})
	}
	s.logger.Error("transaction rolled back", "op", op, "error", err)
	return errors.NewPersistenceError(op, err)
}

func profileFrom(validated *ValidatedUser) *entities.Profile {
	return &entities.Profile{
		Bio:          validated.Bio,
		Twitter:      validated.Twitter,
		ProfessionID: validated.ProfessionID,
		Profession:   validated.Profession,
	}
}
