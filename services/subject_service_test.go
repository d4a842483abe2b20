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

func subjectApp(t *testing.T) (*fiber.App, *SubjectService) {
	t.Helper()
	svc := NewSubjectService(newAcademicDB(t))
	app := fiber.New()
	app.Post("/subject", svc.Create)
	app.Get("/subject/:id", svc.FindOne)
	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateSubjectGeneratesSlug(t *testing.T) {
	app, svc := subjectApp(t)

	resp := postJSON(t, app, "/subject", CreateSubjectRequest{
		Name:        "Programación I",
		CareerID:    1,
		CicleNumber: 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var subject models.Subject
	require.NoError(t, svc.DB.First(&subject, "name = ?", "Programación I").Error)
	assert.Equal(t, "programacion-i", subject.Slug)
}

func TestCreateSubjectDuplicateIsConflict(t *testing.T) {
	app, _ := subjectApp(t)

	req := CreateSubjectRequest{Name: "Programación I", CareerID: 1, CicleNumber: 1}
	resp := postJSON(t, app, "/subject", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/subject", req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateSubjectValidatesBody(t *testing.T) {
	app, _ := subjectApp(t)

	resp := postJSON(t, app, "/subject", CreateSubjectRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
