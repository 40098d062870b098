package errors

import (
	"errors"
	"sort"
	"strings"
)

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound       = errors.New("error.user_not_found")
	ErrEmailAlreadyExists = errors.New("error.email_already_exists")
	ErrValidation         = errors.New("error.validation")
	ErrPersistence        = errors.New("error.persistence")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation = "/problems/validation-error"
	ProblemTypeNotFound   = "/problems/not-found"
	ProblemTypeInternal   = "/problems/internal-error"
	ProblemTypeBadRequest = "/problems/bad-request"
)

// ValidationError agrupa as mensagens por campo (message IDs para i18n).
// Cada campo carrega apenas a primeira regra violada.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError cria um ValidationError a partir do mapa campo -> message ID
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.FieldNames() {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has verifica se o campo falhou na validação
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// FieldNames retorna os campos inválidos em ordem alfabética
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return names
}

// PersistenceError representa uma falha da camada de armazenamento.
// A transação correspondente já foi desfeita quando este erro chega ao chamador.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError envolve err indicando a operação que falhou
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrPersistence)
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
