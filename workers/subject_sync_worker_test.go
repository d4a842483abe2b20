package workers

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"university-admin-system/models"
)

func openDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrate...))
	return db
}

func newWorker(t *testing.T) (*SubjectSyncWorker, *gorm.DB, *gorm.DB) {
	t.Helper()
	academic := openDB(t, &models.Career{}, &models.Cycle{}, &models.Subject{})
	profiles := openDB(t, &models.SubjectReference{})
	return NewSubjectSyncWorker(academic, profiles), academic, profiles
}

func TestSyncBatchCopiesNewSubjects(t *testing.T) {
	w, academic, profiles := newWorker(t)

	subject := models.Subject{Name: "Programación I", CareerID: 1, CicleNumber: 1}
	require.NoError(t, academic.Create(&subject).Error)

	require.NoError(t, w.SyncBatch(context.Background(), time.Time{}))

	var ref models.SubjectReference
	require.NoError(t, profiles.First(&ref, "id = ?", subject.ID).Error)
	assert.Equal(t, "Programación I", ref.Name)
	assert.Equal(t, 1, ref.CareerID)
	assert.Equal(t, models.DefaultSubjectCapacity, ref.Capacity)
	assert.False(t, ref.SyncedAt.IsZero())
}

func TestSyncBatchRefreshesCatalogButNotCapacity(t *testing.T) {
	w, academic, profiles := newWorker(t)

	subject := models.Subject{Name: "Programación I", CareerID: 1, CicleNumber: 1}
	require.NoError(t, academic.Create(&subject).Error)
	require.NoError(t, w.SyncBatch(context.Background(), time.Time{}))

	// Enrollment consumed slots since the first sync.
	require.NoError(t, profiles.Model(&models.SubjectReference{}).
		Where("id = ?", subject.ID).
		UpdateColumn("capacity", 5).Error)

	// Catalog rename at the source.
	require.NoError(t, academic.Model(&models.Subject{}).
		Where("id = ?", subject.ID).
		Update("name", "Programación Avanzada").Error)

	require.NoError(t, w.SyncBatch(context.Background(), time.Time{}))

	var ref models.SubjectReference
	require.NoError(t, profiles.First(&ref, "id = ?", subject.ID).Error)
	assert.Equal(t, "Programación Avanzada", ref.Name)
	assert.Equal(t, 5, ref.Capacity)
}

func TestSyncBatchHonorsWatermark(t *testing.T) {
	w, academic, profiles := newWorker(t)

	subject := models.Subject{Name: "Programación I", CareerID: 1, CicleNumber: 1}
	require.NoError(t, academic.Create(&subject).Error)

	// Nothing changed after the watermark, so nothing is copied.
	require.NoError(t, w.SyncBatch(context.Background(), time.Now().Add(time.Hour)))

	var count int64
	require.NoError(t, profiles.Model(&models.SubjectReference{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
