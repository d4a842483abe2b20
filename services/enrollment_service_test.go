package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"university-admin-system/apperror"
	"university-admin-system/models"
)

func subjectCapacity(t *testing.T, db *gorm.DB, id int) int {
	t.Helper()
	var subject models.SubjectReference
	require.NoError(t, db.First(&subject, "id = ?", id).Error)
	return subject.Capacity
}

func enrollmentCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.StudentSubject{}).Count(&count).Error)
	return count
}

func TestEnrollDecrementsCapacity(t *testing.T) {
	db := newProfilesDB(t)
	profile := seedStudent(t, db, 7, models.UserStatusActive)
	seedSubjectRef(t, db, 1, 30)

	svc := NewEnrollmentService(db)
	enrollment, err := svc.Enroll(7, 1)
	require.NoError(t, err)

	assert.Equal(t, profile.ID, enrollment.StudentProfileID)
	assert.Equal(t, 1, enrollment.SubjectID)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
	assert.Equal(t, 29, subjectCapacity(t, db, 1))
}

func TestEnrollDuplicateIsConflict(t *testing.T) {
	db := newProfilesDB(t)
	seedStudent(t, db, 7, models.UserStatusActive)
	seedSubjectRef(t, db, 1, 30)

	svc := NewEnrollmentService(db)
	_, err := svc.Enroll(7, 1)
	require.NoError(t, err)

	_, err = svc.Enroll(7, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
	assert.Equal(t, "El estudiante ya está matriculado en esta asignatura", err.Error())

	// The failed attempt must not consume a slot.
	assert.Equal(t, 29, subjectCapacity(t, db, 1))
	assert.EqualValues(t, 1, enrollmentCount(t, db))
}

func TestEnrollUnknownStudent(t *testing.T) {
	db := newProfilesDB(t)
	seedSubjectRef(t, db, 1, 30)

	svc := NewEnrollmentService(db)
	_, err := svc.Enroll(99, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrBadRequest))
	assert.Equal(t, "El estudiante no existe o no está activo", err.Error())
	assert.Equal(t, 30, subjectCapacity(t, db, 1))
}

func TestEnrollInactiveStudent(t *testing.T) {
	db := newProfilesDB(t)
	seedStudent(t, db, 7, models.UserStatusInactive)
	seedSubjectRef(t, db, 1, 30)

	svc := NewEnrollmentService(db)
	_, err := svc.Enroll(7, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrBadRequest))
	assert.Equal(t, 30, subjectCapacity(t, db, 1))
	assert.EqualValues(t, 0, enrollmentCount(t, db))
}

func TestEnrollUnknownSubject(t *testing.T) {
	db := newProfilesDB(t)
	seedStudent(t, db, 7, models.UserStatusActive)

	svc := NewEnrollmentService(db)
	_, err := svc.Enroll(7, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Equal(t, "La asignatura no existe", err.Error())
}

func TestEnrollNoCapacity(t *testing.T) {
	db := newProfilesDB(t)
	seedStudent(t, db, 7, models.UserStatusActive)
	seedSubjectRef(t, db, 1, 0)

	svc := NewEnrollmentService(db)
	_, err := svc.Enroll(7, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrBadRequest))
	assert.Equal(t, "No hay cupos disponibles en esta asignatura", err.Error())
	assert.EqualValues(t, 0, enrollmentCount(t, db))
}

func TestEnrollLastSlot(t *testing.T) {
	db := newProfilesDB(t)
	seedStudent(t, db, 7, models.UserStatusActive)
	seedStudent(t, db, 8, models.UserStatusActive)
	seedSubjectRef(t, db, 1, 1)

	svc := NewEnrollmentService(db)
	_, err := svc.Enroll(7, 1)
	require.NoError(t, err)

	_, err = svc.Enroll(8, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrBadRequest))

	// Capacity bottoms out at zero, never below.
	assert.Equal(t, 0, subjectCapacity(t, db, 1))
	assert.EqualValues(t, 1, enrollmentCount(t, db))
}

func TestEnrollRollsBackOnFailure(t *testing.T) {
	db := newProfilesDB(t)
	seedStudent(t, db, 7, models.UserStatusActive)
	seedSubjectRef(t, db, 1, 30)

	svc := NewEnrollmentService(db)
	forced := errors.New("forced failure after enrollment steps")
	err := svc.DB.Transaction(func(tx *gorm.DB) error {
		_, err := svc.enrollInTx(tx, 7, 1)
		require.NoError(t, err)
		return forced
	})
	require.ErrorIs(t, err, forced)

	// Both writes rolled back together: no orphan row, no lost slot.
	assert.Equal(t, 30, subjectCapacity(t, db, 1))
	assert.EqualValues(t, 0, enrollmentCount(t, db))
}
