package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/rafabene/skillboard/internal/domain/entities"
	domainerrors "github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/valueobjects"
	"github.com/rafabene/skillboard/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/skillboard/internal/services"
	"github.com/rafabene/skillboard/internal/testutil"
)

// validationFields extrai campo -> message ID de um erro de validação
func validationFields(err error) map[string]string {
	var verr *domainerrors.ValidationError
	ExpectWithOffset(1, errors.As(err, &verr)).To(BeTrue(), "esperava ValidationError, obteve %v", err)
	return verr.Fields
}

var _ = Describe("UserValidator", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		validator *services.UserValidator
		php, js   entities.Skill
		backend   entities.Profession
	)

	validInput := func() services.UserInput {
		return services.UserInput{
			"name":     "Pepe",
			"email":    "pepe@mail.es",
			"password": "123456",
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = testutil.NewDB(GinkgoT())
		validator = services.NewUserValidator(
			postgres.NewUserRepository(db),
			postgres.NewProfessionRepository(db),
			postgres.NewSkillRepository(db),
		)
		php = testutil.CreateSkill(GinkgoT(), db, "PHP")
		js = testutil.CreateSkill(GinkgoT(), db, "JS")
		backend = testutil.CreateProfession(GinkgoT(), db, "Back-end developer")
	})

	It("normaliza uma entrada válida", func() {
		input := validInput()
		input["email"] = "  PEPE@Mail.ES "
		input["name"] = "  Pepe  "
		input["bio"] = "Programador"
		input["twitter"] = ""
		input["profession_id"] = "1"
		input["skills"] = []string{"1", "2", "1"}

		out, err := validator.Validate(ctx, input, services.ModeCreate, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Name).To(Equal("Pepe"))
		Expect(out.Email).To(Equal("pepe@mail.es"))
		Expect(out.Role).To(Equal(entities.RoleUser))
		Expect(*out.Bio).To(Equal("Programador"))
		Expect(out.Twitter).To(BeNil())
		Expect(*out.ProfessionID).To(Equal(backend.ID))
		Expect(out.SkillIDs).To(Equal([]uint{php.ID, js.ID}))
		Expect(out.Skills).To(HaveLen(2))
	})

	DescribeTable("nome vazio ou só com espaços",
		func(mode services.Mode, name any) {
			input := validInput()
			input["name"] = name
			_, err := validator.Validate(ctx, input, mode, 0)
			Expect(validationFields(err)).To(HaveKeyWithValue("name", "validation.name.required"))
		},
		Entry("criação, vazio", services.ModeCreate, ""),
		Entry("criação, espaços", services.ModeCreate, "   "),
		Entry("criação, null", services.ModeCreate, nil),
		Entry("atualização, vazio", services.ModeUpdate, ""),
		Entry("atualização, tabs", services.ModeUpdate, "\t \n"),
	)

	It("exige que o nome seja texto", func() {
		input := validInput()
		input["name"] = 42.0
		_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
		Expect(validationFields(err)).To(HaveKeyWithValue("name", "validation.name.string"))
	})

	DescribeTable("email",
		func(email any, expected string) {
			input := validInput()
			input["email"] = email
			_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
			Expect(validationFields(err)).To(HaveKeyWithValue("email", expected))
		},
		Entry("ausente", nil, "validation.email.required"),
		Entry("vazio", "", "validation.email.required"),
		Entry("formato inválido", "correo-no-valido", "validation.email.invalid"),
		Entry("sem domínio", "pepe@", "validation.email.invalid"),
	)

	Context("com um usuário já cadastrado", func() {
		var existing *entities.User

		BeforeEach(func() {
			email, err := valueobjects.NewEmail("pepe@mail.es")
			Expect(err).NotTo(HaveOccurred())
			existing = &entities.User{Name: "Pepe", Email: email, PasswordHash: "hash", Role: entities.RoleUser}
			Expect(postgres.NewUserRepository(db).Create(ctx, existing)).To(Succeed())
		})

		It("recusa o email de outro usuário", func() {
			_, err := validator.Validate(ctx, validInput(), services.ModeCreate, 0)
			Expect(validationFields(err)).To(HaveKeyWithValue("email", "validation.email.unique"))
		})

		It("ignora diferenças de caixa ao comparar", func() {
			input := validInput()
			input["email"] = "Pepe@MAIL.es"
			_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
			Expect(validationFields(err)).To(HaveKey("email"))
		})

		It("aceita o próprio email na atualização", func() {
			out, err := validator.Validate(ctx, validInput(), services.ModeUpdate, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Email).To(Equal("pepe@mail.es"))
		})
	})

	It("exige senha na criação", func() {
		input := validInput()
		delete(input, "password")
		_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
		Expect(validationFields(err)).To(HaveKeyWithValue("password", "validation.password.required"))
	})

	It("aceita senha vazia na atualização", func() {
		input := validInput()
		input["password"] = ""
		out, err := validator.Validate(ctx, input, services.ModeUpdate, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Password).To(BeEmpty())
	})

	It("mantém a senha exatamente como digitada", func() {
		input := validInput()
		input["password"] = "  secreto  "
		out, err := validator.Validate(ctx, input, services.ModeCreate, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Password).To(Equal("  secreto  "))
	})

	It("recusa senha acima do limite do bcrypt", func() {
		input := validInput()
		input["password"] = strings.Repeat("a", services.MaxPasswordBytes+1)
		_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
		Expect(validationFields(err)).To(HaveKeyWithValue("password", "validation.password.max"))

		input["password"] = strings.Repeat("a", services.MaxPasswordBytes)
		_, err = validator.Validate(ctx, input, services.ModeCreate, 0)
		Expect(err).NotTo(HaveOccurred())
	})

	It("conta o limite da senha em bytes", func() {
		input := validInput()
		input["password"] = strings.Repeat("ñ", 37) // 74 bytes
		_, err := validator.Validate(ctx, input, services.ModeUpdate, 1)
		Expect(validationFields(err)).To(HaveKeyWithValue("password", "validation.password.max"))
	})

	DescribeTable("papel",
		func(role any, expected entities.Role) {
			input := validInput()
			if role != "<ausente>" {
				input["role"] = role
			}
			out, err := validator.Validate(ctx, input, services.ModeCreate, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Role).To(Equal(expected))
		},
		Entry("ausente vira user", "<ausente>", entities.RoleUser),
		Entry("null vira user", nil, entities.RoleUser),
		Entry("vazio vira user", "", entities.RoleUser),
		Entry("admin", "admin", entities.RoleAdmin),
		Entry("user", "user", entities.RoleUser),
	)

	DescribeTable("papel inválido",
		func(role any) {
			input := validInput()
			input["role"] = role
			_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
			Expect(validationFields(err)).To(HaveKeyWithValue("role", "validation.role.invalid"))
		},
		Entry("desconhecido", "invalid-role"),
		Entry("caixa diferente", "Admin"),
		Entry("não textual", 1.0),
	)

	Describe("profession_id", func() {
		It("recusa profissão removida", func() {
			deleted := testutil.CreateDeletedProfession(GinkgoT(), db, "COBOL developer")
			input := validInput()
			input["profession_id"] = deleted.ID
			_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
			Expect(validationFields(err)).To(HaveKeyWithValue("profession_id", "validation.profession_id.invalid"))
		})

		DescribeTable("valores inválidos",
			func(value any, expected string) {
				input := validInput()
				input["profession_id"] = value
				_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
				Expect(validationFields(err)).To(HaveKeyWithValue("profession_id", expected))
			},
			Entry("inexistente", "999", "validation.profession_id.invalid"),
			Entry("zero", 0, "validation.profession_id.invalid"),
			Entry("negativo", -1.0, "validation.profession_id.invalid"),
			Entry("texto", "abc", "validation.profession_id.integer"),
			Entry("fracionário", 1.5, "validation.profession_id.integer"),
			Entry("lista", []any{1.0}, "validation.profession_id.integer"),
		)

		DescribeTable("valores aceitos",
			func(value any) {
				input := validInput()
				input["profession_id"] = value
				out, err := validator.Validate(ctx, input, services.ModeCreate, 0)
				Expect(err).NotTo(HaveOccurred())
				if value == nil || value == "" {
					Expect(out.ProfessionID).To(BeNil())
				} else {
					Expect(*out.ProfessionID).To(Equal(backend.ID))
				}
			},
			Entry("null", nil),
			Entry("vazio", ""),
			Entry("string numérica", "1"),
			Entry("número JSON", 1.0),
			Entry("json.Number", json.Number("1")),
		)
	})

	Describe("skills", func() {
		DescribeTable("valores inválidos",
			func(value any, expected string) {
				input := validInput()
				input["skills"] = value
				_, err := validator.Validate(ctx, input, services.ModeCreate, 0)
				Expect(validationFields(err)).To(HaveKeyWithValue("skills", expected))
			},
			Entry("texto", "PHP,JS", "validation.skills.array"),
			Entry("número solto", 1.0, "validation.skills.array"),
			Entry("elemento não inteiro", []string{"1", "PHP"}, "validation.skills.integer"),
			Entry("elemento fracionário", []any{1.0, 2.5}, "validation.skills.integer"),
			Entry("id inexistente", []any{1.0, 999.0}, "validation.skills.invalid"),
			Entry("id zero", []string{"0"}, "validation.skills.invalid"),
		)

		It("aceita lista vazia", func() {
			input := validInput()
			input["skills"] = []any{}
			out, err := validator.Validate(ctx, input, services.ModeCreate, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.SkillIDs).To(BeEmpty())
		})

		It("trata ausência como nenhuma habilidade", func() {
			out, err := validator.Validate(ctx, validInput(), services.ModeCreate, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.SkillIDs).To(BeEmpty())
		})
	})

	It("devolve uma mensagem por campo inválido", func() {
		_, err := validator.Validate(ctx, services.UserInput{
			"email":         "no-es-email",
			"role":          "root",
			"profession_id": "x",
			"skills":        "1",
		}, services.ModeCreate, 0)

		Expect(validationFields(err)).To(Equal(map[string]string{
			"name":          "validation.name.required",
			"email":         "validation.email.invalid",
			"password":      "validation.password.required",
			"role":          "validation.role.invalid",
			"profession_id": "validation.profession_id.integer",
			"skills":        "validation.skills.array",
		}))
		Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())
	})
})
