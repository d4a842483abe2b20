package apperror

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifyPassesAppErrorsThrough(t *testing.T) {
	original := Conflict("already there")
	classified := Classify(original, "fallback")
	assert.Same(t, original, classified)
}

func TestClassifyRecordNotFound(t *testing.T) {
	classified := Classify(gorm.ErrRecordNotFound, "missing thing")
	assert.True(t, errors.Is(classified, ErrNotFound))
	assert.Equal(t, "missing thing", classified.Message)
}

func TestClassifyUniqueViolation(t *testing.T) {
	classified := Classify(errors.New(`ERROR: duplicate key value violates unique constraint "user_email_key" (SQLSTATE 23505)`), "fallback")
	assert.True(t, errors.Is(classified, ErrConflict))
}

func TestClassifyUnknownBecomesServer(t *testing.T) {
	cause := errors.New("connection refused")
	classified := Classify(cause, "something broke")
	assert.True(t, errors.Is(classified, ErrServer))
	assert.Equal(t, cause, classified.Cause)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	// Postgres wording.
	assert.True(t, IsUniqueViolation(errors.New("SQLSTATE 23505")))
	// SQLite wording.
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: user.email")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusCode(BadRequest("x")))
	assert.Equal(t, fiber.StatusNotFound, StatusCode(NotFound("x")))
	assert.Equal(t, fiber.StatusConflict, StatusCode(Conflict("x")))
	assert.Equal(t, fiber.StatusUnauthorized, StatusCode(Unauthorized("x")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(errors.New("anything else")))
}
