package services

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/repositories"
	"github.com/rafabene/skillboard/internal/domain/valueobjects"
)

// Mode indica se a validação é de criação ou de atualização
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// MaxPasswordBytes é o limite do bcrypt; bytes além disso seriam recusados ao gerar o hash
const MaxPasswordBytes = 72

// UserInput é a entrada bruta campo -> valor, vinda de um formulário ou de um corpo JSON.
// Sequências chegam como []string (formulário) ou []any (JSON).
type UserInput map[string]any

// ValidatedUser é o resultado normalizado e tipado da validação
type ValidatedUser struct {
	Name         string
	Email        string
	Password     string // vazio em atualização: mantém a senha atual
	Role         entities.Role
	Bio          *string
	Twitter      *string
	ProfessionID *uint
	SkillIDs     []uint

	// Carregados durante a checagem de referências
	Profession *entities.Profession
	Skills     []entities.Skill
}

// rule devolve o message ID da violação, ou "" quando o valor passa.
// Erro de repositório interrompe toda a validação.
type rule func(v *validation, field string, value any) (string, error)

type fieldRules struct {
	field string
	// nullable: valor não informado pula as regras do campo
	nullable func(Mode) bool
	rules    []rule
}

// validation carrega o estado de uma chamada a Validate
type validation struct {
	ctx       context.Context
	uv        *UserValidator
	input     UserInput
	currentID uint
	out       *ValidatedUser

	professionID int64
	skillIDs     []int64
}

// UserValidator aplica um conjunto de regras declarativo sobre UserInput.
// Não tem efeitos colaterais: apenas consulta os repositórios.
type UserValidator struct {
	users       repositories.UserRepository
	professions repositories.ProfessionRepository
	skills      repositories.SkillRepository
	validate    *validator.Validate
	fields      []fieldRules
}

// NewUserValidator cria um novo UserValidator
func NewUserValidator(
	users repositories.UserRepository,
	professions repositories.ProfessionRepository,
	skills repositories.SkillRepository,
) *UserValidator {
	always := func(Mode) bool { return true }
	onUpdate := func(m Mode) bool { return m == ModeUpdate }

	return &UserValidator{
		users:       users,
		professions: professions,
		skills:      skills,
		validate:    validator.New(),
		fields: []fieldRules{
			{field: "name", rules: []rule{required, isString, assign(func(o *ValidatedUser, s string) { o.Name = s })}},
			{field: "email", rules: []rule{required, isString, emailFormat, uniqueEmail}},
			{field: "password", nullable: onUpdate, rules: []rule{required, isString, maxBytes(MaxPasswordBytes), assignRaw(func(o *ValidatedUser, s string) { o.Password = s })}},
			{field: "role", nullable: always, rules: []rule{oneOfRoles}},
			{field: "bio", nullable: always, rules: []rule{isString, assign(func(o *ValidatedUser, s string) { o.Bio = &s })}},
			{field: "twitter", nullable: always, rules: []rule{isString, assign(func(o *ValidatedUser, s string) { o.Twitter = &s })}},
			{field: "profession_id", nullable: always, rules: []rule{integer, activeProfession}},
			{field: "skills", nullable: always, rules: []rule{sequence, integerElements, existingSkills}},
		},
	}
}

// Validate avalia todas as regras e devolve o registro normalizado ou um *errors.ValidationError
// com a primeira violação de cada campo. currentID é o usuário em edição (0 na criação).
func (uv *UserValidator) Validate(ctx context.Context, input UserInput, mode Mode, currentID uint) (*ValidatedUser, error) {
	v := &validation{
		ctx:       ctx,
		uv:        uv,
		input:     input,
		currentID: currentID,
		out:       &ValidatedUser{Role: entities.DefaultRole, SkillIDs: []uint{}},
	}

	failures := make(map[string]string)
	for _, fr := range uv.fields {
		value, present := lookup(input, fr.field)
		if !present && fr.nullable != nil && fr.nullable(mode) {
			continue
		}

		for _, check := range fr.rules {
			msg, err := check(v, fr.field, value)
			if err != nil {
				return nil, errors.NewPersistenceError("validate "+fr.field, err)
			}
			if msg != "" {
				failures[fr.field] = msg
				break
			}
		}
	}

	if len(failures) > 0 {
		return nil, errors.NewValidationError(failures)
	}
	return v.out, nil
}

// lookup devolve o valor do campo. Ausente, null e string em branco contam como não informados;
// strings são devolvidas sem espaços nas pontas.
func lookup(input UserInput, field string) (any, bool) {
	value, ok := input[field]
	if !ok || value == nil {
		return nil, false
	}
	if s, isStr := value.(string); isStr {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false
		}
		return s, true
	}
	return value, true
}

func message(field, name string) string {
	return "validation." + field + "." + name
}

func required(_ *validation, field string, value any) (string, error) {
	if value == nil {
		return message(field, "required"), nil
	}
	return "", nil
}

func isString(_ *validation, field string, value any) (string, error) {
	if _, ok := value.(string); !ok {
		return message(field, "string"), nil
	}
	return "", nil
}

// assign grava o valor (já checado por isString) no resultado
func assign(set func(o *ValidatedUser, s string)) rule {
	return func(v *validation, _ string, value any) (string, error) {
		set(v.out, value.(string))
		return "", nil
	}
}

// assignRaw grava o valor como foi enviado, sem aparar espaços (senhas)
func assignRaw(set func(o *ValidatedUser, s string)) rule {
	return func(v *validation, field string, _ any) (string, error) {
		set(v.out, v.input[field].(string))
		return "", nil
	}
}

// maxBytes limita o tamanho em bytes do valor enviado, sem aparar espaços
func maxBytes(limit int) rule {
	return func(v *validation, field string, _ any) (string, error) {
		raw, _ := v.input[field].(string)
		if len(raw) > limit {
			return message(field, "max"), nil
		}
		return "", nil
	}
}

func emailFormat(v *validation, field string, value any) (string, error) {
	email := valueobjects.NormalizeEmail(value.(string))
	if v.uv.validate.Var(email, "email") != nil || !valueobjects.IsValidEmail(email) {
		return message(field, "invalid"), nil
	}
	v.out.Email = email
	return "", nil
}

func uniqueEmail(v *validation, field string, _ any) (string, error) {
	taken, err := v.uv.users.EmailTaken(v.ctx, v.out.Email, v.currentID)
	if err != nil {
		return "", err
	}
	if taken {
		return message(field, "unique"), nil
	}
	return "", nil
}

func oneOfRoles(v *validation, field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok || v.uv.validate.Var(s, "oneof=user admin") != nil {
		return message(field, "invalid"), nil
	}
	v.out.Role = entities.Role(s)
	return "", nil
}

func integer(v *validation, field string, value any) (string, error) {
	n, ok := toInt(value)
	if !ok {
		return message(field, "integer"), nil
	}
	v.professionID = n
	return "", nil
}

// activeProfession exige profissão existente e sem deleted_at
func activeProfession(v *validation, field string, _ any) (string, error) {
	if v.professionID < 1 {
		return message(field, "invalid"), nil
	}

	profession, err := v.uv.professions.FindActiveByID(v.ctx, uint(v.professionID))
	if err != nil {
		return "", err
	}
	if profession == nil || !profession.IsSelectable() {
		return message(field, "invalid"), nil
	}

	id := profession.ID
	v.out.ProfessionID = &id
	v.out.Profession = profession
	return "", nil
}

// sequence recusa escalares: "1,2" ou 1 não são listas
func sequence(_ *validation, field string, value any) (string, error) {
	kind := reflect.TypeOf(value).Kind()
	if kind != reflect.Slice && kind != reflect.Array {
		return message(field, "array"), nil
	}
	return "", nil
}

func integerElements(v *validation, field string, value any) (string, error) {
	list := reflect.ValueOf(value)
	ids := make([]int64, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		n, ok := toInt(list.Index(i).Interface())
		if !ok {
			return message(field, "integer"), nil
		}
		ids = append(ids, n)
	}
	v.skillIDs = ids
	return "", nil
}

func existingSkills(v *validation, field string, _ any) (string, error) {
	seen := make(map[uint]bool, len(v.skillIDs))
	ids := make([]uint, 0, len(v.skillIDs))
	for _, n := range v.skillIDs {
		if n < 1 {
			return message(field, "invalid"), nil
		}
		id := uint(n)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return "", nil
	}

	found, err := v.uv.skills.FindByIDs(v.ctx, ids)
	if err != nil {
		return "", err
	}
	if len(found) != len(ids) {
		return message(field, "invalid"), nil
	}

	v.out.SkillIDs = ids
	v.out.Skills = found
	return "", nil
}

// toInt aceita inteiros Go, float64 integral (JSON), json.Number e strings numéricas (formulário)
func toInt(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
