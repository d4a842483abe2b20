package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"university-admin-system/models"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newUsersDB(t), newProfilesDB(t))
}

func studentRequest(email string) *RegisterStudentRequest {
	return &RegisterStudentRequest{
		Name:         "Ana Torres",
		Email:        email,
		Password:     "secreto123",
		CareerID:     1,
		CurrentCicle: 1,
	}
}

func TestEnsureRoleIdempotent(t *testing.T) {
	svc := newAuthService(t)

	require.NoError(t, svc.EnsureRole(models.RoleStudentID, "STUDENT"))
	require.NoError(t, svc.EnsureRole(models.RoleStudentID, "STUDENT"))

	var count int64
	require.NoError(t, svc.Users.Model(&models.Role{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureCareerReferencePlaceholder(t *testing.T) {
	svc := newAuthService(t)

	require.NoError(t, svc.EnsureCareerReference(5))

	var ref models.CareerReference
	require.NoError(t, svc.Profiles.First(&ref, "id = ?", 5).Error)
	assert.Equal(t, "Carrera 5", ref.Name)
	assert.Equal(t, 10, ref.TotalCicles)
}

func TestEnsureCareerReferenceKeepsExisting(t *testing.T) {
	svc := newAuthService(t)
	require.NoError(t, svc.Profiles.Create(&models.CareerReference{
		ID: 5, Name: "Ingeniería de Sistemas", TotalCicles: 10,
	}).Error)

	require.NoError(t, svc.EnsureCareerReference(5))

	var ref models.CareerReference
	require.NoError(t, svc.Profiles.First(&ref, "id = ?", 5).Error)
	assert.Equal(t, "Ingeniería de Sistemas", ref.Name)
}

func TestRegisterStudentWritesBothDatabases(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.RegisterStudent(studentRequest("ana@example.com"))
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Equal(t, models.RoleStudentID, user.RoleID)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NotEqual(t, "secreto123", user.Password)

	var sync models.UserSync
	require.NoError(t, svc.Users.First(&sync, "user_id = ?", user.ID).Error)
	assert.True(t, sync.HasStudentProfile)
	assert.False(t, sync.HasTeacherProfile)

	var ref models.UserReference
	require.NoError(t, svc.Profiles.Preload("StudentProfile").First(&ref, "id = ?", user.ID).Error)
	assert.Equal(t, user.Email, ref.Email)
	require.NotNil(t, ref.StudentProfile)
	assert.Equal(t, 1, ref.StudentProfile.CareerID)

	var career models.CareerReference
	require.NoError(t, svc.Profiles.First(&career, "id = ?", 1).Error)
	assert.Equal(t, "Carrera 1", career.Name)
}

func TestRegisterStudentDuplicateEmailReturnsStored(t *testing.T) {
	svc := newAuthService(t)

	first, err := svc.RegisterStudent(studentRequest("ana@example.com"))
	require.NoError(t, err)

	req := studentRequest("ana@example.com")
	req.Name = "Otro Nombre"
	second, err := svc.RegisterStudent(req)
	require.NoError(t, err)

	// Silent no-op: same id, stored name wins.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana Torres", second.Name)

	var count int64
	require.NoError(t, svc.Users.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterTeacherCreatesProfileAndReferences(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.RegisterTeacher(&RegisterTeacherRequest{
		Name:         "Luis Prado",
		Email:        "luis@example.com",
		Password:     "secreto123",
		CareerID:     1,
		SpecialityID: 2,
	})
	require.NoError(t, err)

	var ref models.UserReference
	require.NoError(t, svc.Profiles.Preload("TeacherProfile").First(&ref, "id = ?", user.ID).Error)
	require.NotNil(t, ref.TeacherProfile)
	assert.Equal(t, 2, ref.TeacherProfile.SpecialityID)
	assert.Equal(t, models.TeacherTypeFullTime, ref.TeacherProfile.Type)

	var speciality models.SpecialityReference
	require.NoError(t, svc.Profiles.First(&speciality, "id = ?", 2).Error)
	assert.Equal(t, "Especialidad 2", speciality.Name)
}

func TestLoginIssuesTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := newAuthService(t)
	_, err := svc.RegisterStudent(studentRequest("ana@example.com"))
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/auth/login", svc.LoginHandler)

	body, _ := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.NotEmpty(t, payload["accessToken"])
	assert.NotEmpty(t, payload["refreshToken"])
	assert.Equal(t, "STUDENT", payload["roleName"])

	claims, err := ParseToken(payload["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, "STUDENT", claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := newAuthService(t)
	_, err := svc.RegisterStudent(studentRequest("ana@example.com"))
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/auth/login", svc.LoginHandler)

	body, _ := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshIssuesFreshPair(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := newAuthService(t)
	user, err := svc.RegisterStudent(studentRequest("ana@example.com"))
	require.NoError(t, err)

	refreshToken, err := SignToken(user.ID, "", refreshTokenTTL)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/auth/refresh", svc.RefreshHandler)

	body, _ := json.Marshal(RefreshRequest{RefreshToken: refreshToken})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.NotEmpty(t, payload["accessToken"])
	assert.EqualValues(t, user.ID, payload["userId"])
}
