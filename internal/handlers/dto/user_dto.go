package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/services"
)

// UserFields são os campos aceitos na criação e na atualização
var UserFields = []string{"name", "email", "password", "role", "bio", "twitter", "profession_id", "skills"}

// UserRequest documenta o corpo JSON de criação/atualização.
// O handler lê o corpo como mapa para que a validação veja os tipos originais.
type UserRequest struct {
	Name         string  `json:"name" example:"Pepe"`
	Email        string  `json:"email" example:"pepe@mail.es"`
	Password     string  `json:"password,omitempty" example:"123456"`
	Role         *string `json:"role,omitempty" example:"user" enums:"user,admin"`
	Bio          *string `json:"bio,omitempty" example:"Programador de Laravel y VueJS"`
	Twitter      *string `json:"twitter,omitempty" example:"https://twitter.com/pepe"`
	ProfessionID *uint   `json:"profession_id,omitempty" example:"1"`
	Skills       []uint  `json:"skills,omitempty"`
}

// UserInputFromJSON filtra o corpo JSON para os campos conhecidos
func UserInputFromJSON(body map[string]interface{}) services.UserInput {
	input := services.UserInput{}
	for _, field := range UserFields {
		if value, ok := body[field]; ok {
			input[field] = value
		}
	}
	return input
}

// UserInputFromForm converte um formulário HTML em UserInput.
// Chaves terminadas em [] viram listas; as demais ficam escalares.
func UserInputFromForm(form map[string][]string) services.UserInput {
	input := services.UserInput{}
	for _, field := range UserFields {
		if values, ok := form[field+"[]"]; ok {
			input[field] = append([]string{}, values...)
			continue
		}
		if values, ok := form[field]; ok && len(values) > 0 {
			input[field] = values[0]
		}
	}
	return input
}

// Limites da entrada antiga guardada no cookie de flash (o browser descarta cookies acima de ~4 KB)
const (
	MaxOldValueBytes = 512
	MaxOldInputBytes = 1536
)

// OldInput é a entrada que volta ao formulário depois de um erro, sem a senha.
// Valores grandes demais ficam de fora para que as mensagens de erro ainda caibam no cookie.
func OldInput(input services.UserInput) map[string]interface{} {
	old := make(map[string]interface{}, len(input))
	budget := MaxOldInputBytes
	for _, field := range UserFields {
		value, ok := input[field]
		if !ok || field == "password" {
			continue
		}

		var size int
		switch v := value.(type) {
		case string:
			v = strings.TrimSpace(v)
			value, size = v, len(v)
		case []string:
			for _, item := range v {
				size += len(item) + 3
			}
		default:
			size = len(fmt.Sprint(v))
		}

		if size > MaxOldValueBytes || size > budget {
			continue
		}
		budget -= size
		old[field] = value
	}
	return old
}

// UserResponse representa a resposta de um usuário
type UserResponse struct {
	ID        uint             `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Role      string           `json:"role"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
	Skills    []SkillResponse  `json:"skills,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ProfileResponse representa o perfil de um usuário
type ProfileResponse struct {
	Bio          *string             `json:"bio"`
	Twitter      *string             `json:"twitter"`
	ProfessionID *uint               `json:"profession_id"`
	Profession   *ProfessionResponse `json:"profession,omitempty"`
}

// ProfessionResponse representa uma profissão
type ProfessionResponse struct {
	ID                 uint    `json:"id"`
	Title              string  `json:"title"`
	Description        *string `json:"description,omitempty"`
	EducationLevel     string  `json:"education_level"`
	Salary             int     `json:"salary"`
	Sector             string  `json:"sector"`
	ExperienceRequired int     `json:"experience_required"`
	SkillID            *uint   `json:"skill_id,omitempty"`
	Deleted            bool    `json:"deleted,omitempty"`
}

// SkillResponse representa uma habilidade
type SkillResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserListResponse envolve a listagem
type UserListResponse struct {
	Data  []UserResponse `json:"data"`
	Total int            `json:"total"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	response := UserResponse{
		ID:        user.ID,
		Email:     user.Email.String(),
		Name:      user.Name,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.Profile != nil {
		response.Profile = &ProfileResponse{
			Bio:          user.Profile.Bio,
			Twitter:      user.Profile.Twitter,
			ProfessionID: user.Profile.ProfessionID,
		}
		if user.Profile.Profession != nil {
			profession := ToProfessionResponse(*user.Profile.Profession)
			response.Profile.Profession = &profession
		}
	}

	if len(user.Skills) > 0 {
		response.Skills = ToSkillResponses(user.Skills)
	}
	return response
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}

// ToProfessionResponse converte uma entidade Profession
func ToProfessionResponse(p entities.Profession) ProfessionResponse {
	return ProfessionResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		EducationLevel:     p.EducationLevel,
		Salary:             p.Salary,
		Sector:             p.Sector,
		ExperienceRequired: p.ExperienceRequired,
		SkillID:            p.SkillID,
		Deleted:            p.IsDeleted(),
	}
}

// ToProfessionResponses converte uma lista de profissões
func ToProfessionResponses(professions []entities.Profession) []ProfessionResponse {
	responses := make([]ProfessionResponse, len(professions))
	for i, p := range professions {
		responses[i] = ToProfessionResponse(p)
	}
	return responses
}

// ToSkillResponses converte uma lista de habilidades
func ToSkillResponses(skills []entities.Skill) []SkillResponse {
	responses := make([]SkillResponse, len(skills))
	for i, s := range skills {
		responses[i] = SkillResponse{ID: s.ID, Name: s.Name}
	}
	return responses
}
