package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"university-admin-system/models"
)

func newUsersDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.UserSync{},
	))
	return db
}

func newProfilesDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CareerReference{},
		&models.SpecialityReference{},
		&models.SubjectReference{},
		&models.UserReference{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.SubjectAssignment{},
		&models.StudentSubject{},
	))
	return db
}

func newAcademicDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Cycle{},
		&models.Career{},
		&models.Speciality{},
		&models.Subject{},
	))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, userID int, status string) *models.StudentProfile {
	t.Helper()
	ref := models.UserReference{
		ID:     userID,
		Name:   "Estudiante de Prueba",
		Email:  fmt.Sprintf("student%d@example.com", userID),
		Status: status,
		RoleID: models.RoleStudentID,
		StudentProfile: &models.StudentProfile{
			UserID:       userID,
			CareerID:     1,
			CurrentCicle: 1,
		},
	}
	require.NoError(t, db.Create(&ref).Error)
	return ref.StudentProfile
}

func seedSubjectRef(t *testing.T, db *gorm.DB, id, capacity int) *models.SubjectReference {
	t.Helper()
	ref := models.SubjectReference{
		ID:          id,
		Name:        "Programación I",
		CareerID:    1,
		CicleNumber: 1,
		Capacity:    capacity,
	}
	require.NoError(t, db.Create(&ref).Error)
	return &ref
}
