package services_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rafabene/skillboard/internal/domain/entities"
	domainerrors "github.com/rafabene/skillboard/internal/domain/errors"
	"github.com/rafabene/skillboard/internal/domain/ports"
	"github.com/rafabene/skillboard/internal/domain/repositories"
	"github.com/rafabene/skillboard/internal/infrastructure/logging"
	"github.com/rafabene/skillboard/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/skillboard/internal/infrastructure/security"
	"github.com/rafabene/skillboard/internal/services"
	"github.com/rafabene/skillboard/internal/testutil"
)

// failingSkillSync simula uma falha no meio da transação
type failingSkillSync struct {
	repositories.UserRepository
}

func (f failingSkillSync) SyncSkills(context.Context, uint, []uint) error {
	return errors.New("connection reset")
}

// recordingMetrics guarda os eventos recebidos
type recordingMetrics struct {
	created, updated, deleted int
	failedFields              []string
}

func (m *recordingMetrics) UserCreated()                  { m.created++ }
func (m *recordingMetrics) UserUpdated()                  { m.updated++ }
func (m *recordingMetrics) UserDeleted()                  { m.deleted++ }
func (m *recordingMetrics) ValidationFailed(field string) { m.failedFields = append(m.failedFields, field) }

var _ ports.Metrics = (*recordingMetrics)(nil)

var _ = Describe("UserService", func() {
	var (
		ctx        context.Context
		db         *gorm.DB
		userRepo   repositories.UserRepository
		hasher     ports.PasswordHasher
		metrics    *recordingMetrics
		service    *services.UserService
		a, b, c    entities.Skill
		profession entities.Profession
	)

	newService := func(repo repositories.UserRepository) *services.UserService {
		return services.NewUserService(
			repo,
			postgres.NewProfessionRepository(db),
			postgres.NewSkillRepository(db),
			postgres.NewUnitOfWork(db),
			hasher,
			metrics,
			logging.NewNopLogger(),
		)
	}

	pepe := func() services.UserInput {
		return services.UserInput{
			"name":     "Pepe",
			"email":    "pepe@mail.es",
			"password": "123456",
			"skills":   []any{float64(a.ID), float64(b.ID)},
		}
	}

	countRows := func(model any) int64 {
		var n int64
		ExpectWithOffset(1, db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = testutil.NewDB(GinkgoT())
		userRepo = postgres.NewUserRepository(db)
		hasher = security.NewBcryptHasher(bcrypt.MinCost)
		metrics = &recordingMetrics{}
		service = newService(userRepo)

		a = testutil.CreateSkill(GinkgoT(), db, "A")
		b = testutil.CreateSkill(GinkgoT(), db, "B")
		c = testutil.CreateSkill(GinkgoT(), db, "C")
		profession = testutil.CreateProfession(GinkgoT(), db, "Back-end developer")
	})

	Describe("CreateUser", func() {
		It("cria usuário, perfil e exatamente as habilidades informadas", func() {
			user, err := service.CreateUser(ctx, pepe())
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).NotTo(BeZero())

			stored, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Name).To(Equal("Pepe"))
			Expect(stored.Email.String()).To(Equal("pepe@mail.es"))
			Expect(stored.Role).To(Equal(entities.RoleUser))
			Expect(stored.Profile).NotTo(BeNil())
			Expect(stored.HasSkill(a.ID)).To(BeTrue())
			Expect(stored.HasSkill(b.ID)).To(BeTrue())
			Expect(stored.HasSkill(c.ID)).To(BeFalse())
			Expect(stored.Skills).To(HaveLen(2))

			Expect(countRows(&postgres.UserProfileModel{})).To(Equal(int64(1)))
			Expect(metrics.created).To(Equal(1))
		})

		It("armazena apenas o hash da senha", func() {
			user, err := service.CreateUser(ctx, pepe())
			Expect(err).NotTo(HaveOccurred())
			Expect(user.PasswordHash).NotTo(Equal("123456"))
			Expect(hasher.Compare(user.PasswordHash, "123456")).To(Succeed())
		})

		It("gera o hash da senha sem aparar espaços", func() {
			input := pepe()
			input["password"] = "  secreto  "
			user, err := service.CreateUser(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasher.Compare(user.PasswordHash, "  secreto  ")).To(Succeed())
			Expect(hasher.Compare(user.PasswordHash, "secreto")).NotTo(Succeed())
		})

		It("senha longa demais é erro de campo, não de persistência", func() {
			input := pepe()
			input["password"] = strings.Repeat("x", 80)
			_, err := service.CreateUser(ctx, input)

			var perr *domainerrors.PersistenceError
			Expect(errors.As(err, &perr)).To(BeFalse())
			Expect(validationFields(err)).To(HaveKeyWithValue("password", "validation.password.max"))
			Expect(countRows(&postgres.UserModel{})).To(BeZero())
		})

		It("grava bio, twitter e profissão no perfil", func() {
			input := pepe()
			input["bio"] = "Programador de Laravel y VueJS"
			input["twitter"] = "https://twitter.com/pepe"
			input["profession_id"] = float64(profession.ID)
			input["role"] = "admin"

			user, err := service.CreateUser(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			stored, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IsAdmin()).To(BeTrue())
			Expect(*stored.Profile.Bio).To(Equal("Programador de Laravel y VueJS"))
			Expect(*stored.Profile.Twitter).To(Equal("https://twitter.com/pepe"))
			Expect(stored.Profile.Profession).NotTo(BeNil())
			Expect(stored.Profile.Profession.Title).To(Equal("Back-end developer"))
		})

		It("aceita lista de habilidades vazia", func() {
			input := pepe()
			input["skills"] = []any{}
			user, err := service.CreateUser(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(countRows(&postgres.SkillUserModel{})).To(BeZero())
			Expect(user.Skills).To(BeEmpty())
		})

		It("não grava nada quando a validação falha", func() {
			input := pepe()
			input["name"] = "   "
			_, err := service.CreateUser(ctx, input)

			Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())
			Expect(validationFields(err)).To(HaveKey("name"))
			Expect(countRows(&postgres.UserModel{})).To(BeZero())
			Expect(metrics.failedFields).To(Equal([]string{"name"}))
		})

		It("desfaz a transação inteira quando uma escrita falha", func() {
			service = newService(failingSkillSync{UserRepository: userRepo})

			_, err := service.CreateUser(ctx, pepe())
			Expect(errors.Is(err, domainerrors.ErrPersistence)).To(BeTrue())

			Expect(countRows(&postgres.UserModel{})).To(BeZero())
			Expect(countRows(&postgres.UserProfileModel{})).To(BeZero())
			Expect(countRows(&postgres.SkillUserModel{})).To(BeZero())
			Expect(metrics.created).To(BeZero())
		})
	})

	Describe("UpdateUser", func() {
		var user *entities.User

		BeforeEach(func() {
			var err error
			user, err = service.CreateUser(ctx, pepe())
			Expect(err).NotTo(HaveOccurred())
		})

		It("substitui o conjunto de habilidades exatamente", func() {
			input := pepe()
			input["password"] = ""
			input["skills"] = []string{"2", "3"}

			_, err := service.UpdateUser(ctx, user.ID, input)
			Expect(err).NotTo(HaveOccurred())

			stored, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.SkillIDs()).To(ConsistOf(b.ID, c.ID))
			Expect(metrics.updated).To(Equal(1))
		})

		It("mantém o hash quando a senha vem vazia", func() {
			before, err := userRepo.FindByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())

			input := pepe()
			input["name"] = "José"
			input["password"] = ""
			_, err = service.UpdateUser(ctx, user.ID, input)
			Expect(err).NotTo(HaveOccurred())

			after, err := userRepo.FindByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.Name).To(Equal("José"))
			Expect(after.PasswordHash).To(Equal(before.PasswordHash))
			Expect(hasher.Compare(after.PasswordHash, "123456")).To(Succeed())
		})

		It("troca a senha quando uma nova é informada", func() {
			input := pepe()
			input["password"] = "nueva-clave"
			_, err := service.UpdateUser(ctx, user.ID, input)
			Expect(err).NotTo(HaveOccurred())

			after, err := userRepo.FindByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasher.Compare(after.PasswordHash, "nueva-clave")).To(Succeed())
			Expect(hasher.Compare(after.PasswordHash, "123456")).NotTo(Succeed())
		})

		It("é idempotente com os próprios valores", func() {
			before, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())

			input := pepe()
			input["password"] = ""
			_, err = service.UpdateUser(ctx, user.ID, input)
			Expect(err).NotTo(HaveOccurred())

			after, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.Name).To(Equal(before.Name))
			Expect(after.Email).To(Equal(before.Email))
			Expect(after.Role).To(Equal(before.Role))
			Expect(after.PasswordHash).To(Equal(before.PasswordHash))
			Expect(after.Profile.ID).To(Equal(before.Profile.ID))
			Expect(after.Profile.Bio).To(Equal(before.Profile.Bio))
			Expect(after.Profile.ProfessionID).To(Equal(before.Profile.ProfessionID))
			Expect(after.SkillIDs()).To(ConsistOf(before.SkillIDs()))
			Expect(countRows(&postgres.UserProfileModel{})).To(Equal(int64(1)))
		})

		It("recusa o email de outro usuário", func() {
			_, err := service.CreateUser(ctx, services.UserInput{
				"name": "Ana", "email": "ana@mail.es", "password": "123456",
			})
			Expect(err).NotTo(HaveOccurred())

			input := pepe()
			input["email"] = "ana@mail.es"
			_, err = service.UpdateUser(ctx, user.ID, input)
			Expect(validationFields(err)).To(HaveKeyWithValue("email", "validation.email.unique"))
		})

		It("atualiza o perfil existente sem criar outro", func() {
			input := pepe()
			input["bio"] = "Nueva bio"
			input["profession_id"] = float64(profession.ID)
			_, err := service.UpdateUser(ctx, user.ID, input)
			Expect(err).NotTo(HaveOccurred())

			stored, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.Profile.Bio).To(Equal("Nueva bio"))
			Expect(*stored.Profile.ProfessionID).To(Equal(profession.ID))
			Expect(countRows(&postgres.UserProfileModel{})).To(Equal(int64(1)))
		})

		It("sinaliza usuário inexistente antes de validar", func() {
			_, err := service.UpdateUser(ctx, 999, services.UserInput{})
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("preserva o estado anterior quando a transação falha", func() {
			input := pepe()
			input["name"] = "Otro nombre"
			input["skills"] = []any{float64(c.ID)}

			_, err := newService(failingSkillSync{UserRepository: userRepo}).UpdateUser(ctx, user.ID, input)
			Expect(errors.Is(err, domainerrors.ErrPersistence)).To(BeTrue())

			stored, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Name).To(Equal("Pepe"))
			Expect(stored.SkillIDs()).To(ConsistOf(a.ID, b.ID))
		})
	})

	Describe("GetUser", func() {
		It("sinaliza usuário inexistente", func() {
			_, err := service.GetUser(ctx, 999)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("mostra a profissão mesmo depois de removida", func() {
			input := pepe()
			input["profession_id"] = float64(profession.ID)
			user, err := service.CreateUser(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			Expect(postgres.NewProfessionRepository(db).SoftDelete(ctx, profession.ID)).To(Succeed())

			stored, err := service.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Profile.Profession).NotTo(BeNil())
			Expect(stored.Profile.Profession.IsDeleted()).To(BeTrue())
		})
	})

	Describe("ListUsers", func() {
		It("sinaliza lista vazia", func() {
			list, err := service.ListUsers(ctx, repositories.UserFilters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.IsEmpty()).To(BeTrue())
		})

		It("lista em ordem de inserção", func() {
			for _, name := range []string{"Joel", "Ellie"} {
				_, err := service.CreateUser(ctx, services.UserInput{
					"name": name, "email": name + "@mail.es", "password": "123456",
				})
				Expect(err).NotTo(HaveOccurred())
			}

			list, err := service.ListUsers(ctx, repositories.UserFilters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.IsEmpty()).To(BeFalse())
			Expect(list.Len()).To(Equal(2))
			Expect(list.Users[0].Name).To(Equal("Joel"))
			Expect(list.Users[1].Name).To(Equal("Ellie"))
		})
	})

	Describe("DeleteUser", func() {
		It("remove usuário, perfil e associações", func() {
			user, err := service.CreateUser(ctx, pepe())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteUser(ctx, user.ID)).To(Succeed())

			_, err = service.GetUser(ctx, user.ID)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
			Expect(countRows(&postgres.UserProfileModel{})).To(BeZero())
			Expect(countRows(&postgres.SkillUserModel{})).To(BeZero())
			Expect(countRows(&postgres.SkillModel{})).To(Equal(int64(3)))
			Expect(metrics.deleted).To(Equal(1))
		})

		It("sinaliza usuário inexistente", func() {
			Expect(service.DeleteUser(ctx, 999)).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})
})

var _ = Describe("CatalogService", func() {
	It("oferece apenas profissões ativas e todas as habilidades", func() {
		db := testutil.NewDB(GinkgoT())
		testutil.CreateProfession(GinkgoT(), db, "Web designer")
		testutil.CreateProfession(GinkgoT(), db, "Back-end developer")
		testutil.CreateDeletedProfession(GinkgoT(), db, "COBOL developer")
		testutil.CreateSkill(GinkgoT(), db, "Vue.js")
		testutil.CreateSkill(GinkgoT(), db, "CSS")

		catalog := services.NewCatalogService(
			postgres.NewProfessionRepository(db),
			postgres.NewSkillRepository(db),
			logging.NewNopLogger(),
		)

		options, err := catalog.FormOptions(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(options.Professions).To(HaveLen(2))
		Expect(options.Professions[0].Title).To(Equal("Back-end developer"))
		Expect(options.Skills).To(HaveLen(2))
		Expect(options.Skills[0].Name).To(Equal("CSS"))
		Expect(options.Roles).To(Equal(entities.Roles()))
	})
})
