package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Sentinel kinds. Services wrap persistence failures into one of these so
// handlers never have to sniff store-specific error codes themselves.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("internal server error")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // human-readable, safe to return to the client
	Cause   error  // underlying error, logged but never returned
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func BadRequest(message string) *AppError {
	return &AppError{Err: ErrBadRequest, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Server wraps an unclassified failure. The cause stays attached for
// logging; the client only ever sees the message.
func Server(message string, cause error) *AppError {
	return &AppError{Err: ErrServer, Message: message, Cause: cause}
}

// Classify maps a persistence-layer error to a domain kind: record not
// found, uniqueness violation, or server error with the given fallback
// message. AppErrors pass through untouched.
func Classify(err error, fallback string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(fallback)
	}
	if IsUniqueViolation(err) {
		return Conflict("Record already exists")
	}
	return Server(fallback, err)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Postgres surfaces SQLSTATE 23505; SQLite (used in tests) reports
// "UNIQUE constraint failed".
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// StatusCode maps an error to the HTTP status a handler should respond with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes the error as a JSON body with the mapped status.
func Respond(c *fiber.Ctx, err error) error {
	message := err.Error()
	var appErr *AppError
	if !errors.As(err, &appErr) {
		message = "internal server error"
	}
	return c.Status(StatusCode(err)).JSON(fiber.Map{"error": message})
}

// Wrapf attaches a formatted message to a sentinel kind.
func Wrapf(kind error, format string, args ...interface{}) *AppError {
	return &AppError{Err: kind, Message: fmt.Sprintf(format, args...)}
}
