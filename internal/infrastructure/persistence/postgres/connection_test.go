package postgres

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGormConfig_IgnoresRecordNotFound(t *testing.T) {
	var out bytes.Buffer
	db, err := gorm.Open(sqlite.Open("file::memory:"), gormConfigTo(&out, "warn"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&SkillModel{}))

	var skill SkillModel
	err = db.Where("id = ?", 999).First(&skill).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NotContains(t, out.String(), "record not found")

	// Erros de verdade continuam no log
	var n int64
	require.Error(t, db.Table("nao_existe").Count(&n).Error)
	assert.Contains(t, out.String(), "nao_existe")
}
