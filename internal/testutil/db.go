// Package testutil contém utilitários compartilhados pelos testes.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafabene/skillboard/internal/domain/entities"
	"github.com/rafabene/skillboard/internal/infrastructure/persistence/postgres"
)

// TB é o subconjunto de testing.TB usado aqui; GinkgoT() também o satisfaz
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
	Cleanup(func())
}

var _ TB = (testing.TB)(nil)

// NewDB abre um banco sqlite em memória, exclusivo por chamada, com o schema migrado
// e chaves estrangeiras habilitadas.
func NewDB(t TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), postgres.GormConfig("error"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Uma conexão só: o banco em memória vive enquanto ela estiver aberta
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateSkill insere uma habilidade
func CreateSkill(t TB, db *gorm.DB, name string) entities.Skill {
	t.Helper()
	skill := entities.Skill{Name: name}
	if err := postgres.NewSkillRepository(db).Create(context.Background(), &skill); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	return skill
}

// CreateProfession insere uma profissão ativa
func CreateProfession(t TB, db *gorm.DB, title string) entities.Profession {
	t.Helper()
	profession := entities.Profession{Title: title, EducationLevel: "Bachelor", Sector: "Software"}
	if err := postgres.NewProfessionRepository(db).Create(context.Background(), &profession); err != nil {
		t.Fatalf("create profession: %v", err)
	}
	return profession
}

// CreateDeletedProfession insere uma profissão já removida (soft delete)
func CreateDeletedProfession(t TB, db *gorm.DB, title string) entities.Profession {
	t.Helper()
	profession := CreateProfession(t, db, title)
	if err := postgres.NewProfessionRepository(db).SoftDelete(context.Background(), profession.ID); err != nil {
		t.Fatalf("soft delete profession: %v", err)
	}
	return profession
}
