package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Migrate cria/atualiza o schema (users, user_profiles, professions, skills, skill_user)
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DefaultSkills são as habilidades inseridas pelo seed
var DefaultSkills = []string{"CSS", "Go", "HTML", "JavaScript", "PHP", "SQL", "TDD", "Vue.js"}

// DefaultProfessions são as profissões inseridas pelo seed
var DefaultProfessions = []ProfessionModel{
	{Title: "Back-end developer", EducationLevel: "Bachelor", Salary: 42000, Sector: "Software", ExperienceRequired: 2},
	{Title: "Front-end developer", EducationLevel: "Bachelor", Salary: 38000, Sector: "Software", ExperienceRequired: 1},
	{Title: "Web designer", EducationLevel: "Technical", Salary: 30000, Sector: "Design", ExperienceRequired: 1},
}

// Seed insere habilidades e profissões padrão. Pode ser executado várias vezes.
func Seed(ctx context.Context, db *gorm.DB) (created int, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range DefaultSkills {
			n, err := firstOrCreate(tx, &SkillModel{}, "name = ?", name, &SkillModel{Name: name})
			if err != nil {
				return fmt.Errorf("seed skill %s: %w", name, err)
			}
			created += n
		}

		for i := range DefaultProfessions {
			profession := DefaultProfessions[i]
			n, err := firstOrCreate(tx, &ProfessionModel{}, "title = ?", profession.Title, &profession)
			if err != nil {
				return fmt.Errorf("seed profession %s: %w", profession.Title, err)
			}
			created += n
		}
		return nil
	})
	return created, err
}

func firstOrCreate(tx *gorm.DB, probe interface{}, cond string, arg interface{}, row interface{}) (int, error) {
	err := tx.Where(cond, arg).First(probe).Error
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if err := tx.Create(row).Error; err != nil {
		return 0, err
	}
	return 1, nil
}
