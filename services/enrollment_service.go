package services

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"university-admin-system/apperror"
	"university-admin-system/models"
)

// EnrollmentService runs the one genuinely transactional operation in the
// system. Everything happens inside a single profiles-database
// transaction; any failure rolls the whole thing back, so there is never
// a capacity decrement without its enrollment row or vice versa.
type EnrollmentService struct {
	DB *gorm.DB // profiles database
}

func NewEnrollmentService(profiles *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: profiles}
}

// EnrollHandler handles POST /enrollment/:studentId/:subjectId.
// Non-integer params are rejected before the service runs.
func (s *EnrollmentService) EnrollHandler(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "studentId must be an integer"})
	}
	subjectID, err := c.ParamsInt("subjectId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "subjectId must be an integer"})
	}

	enrollment, err := s.Enroll(studentID, subjectID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

// Enroll checks the student and subject, inserts the enrollment row and
// decrements the subject capacity, all in one transaction.
func (s *EnrollmentService) Enroll(studentID, subjectID int) (*models.StudentSubject, error) {
	var enrollment *models.StudentSubject
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		e, err := s.enrollInTx(tx, studentID, subjectID)
		if err != nil {
			return err
		}
		enrollment = e
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		log.Printf("enrollment: unclassified failure (student=%d subject=%d): %v", studentID, subjectID, err)
		return nil, apperror.Server("Error en el proceso de matriculación", err)
	}
	return enrollment, nil
}

func (s *EnrollmentService) enrollInTx(tx *gorm.DB, studentID, subjectID int) (*models.StudentSubject, error) {
	var student models.UserReference
	if err := tx.Preload("StudentProfile").First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("El estudiante no existe o no está activo")
		}
		return nil, err
	}
	if student.Status != models.UserStatusActive || student.StudentProfile == nil {
		return nil, apperror.BadRequest("El estudiante no existe o no está activo")
	}

	var subject models.SubjectReference
	if err := tx.First(&subject, "id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("La asignatura no existe")
		}
		return nil, err
	}
	if subject.Capacity <= 0 {
		return nil, apperror.BadRequest("No hay cupos disponibles en esta asignatura")
	}

	enrollment := &models.StudentSubject{
		StudentProfileID: student.StudentProfile.ID,
		SubjectID:        subject.ID,
		Status:           models.EnrollmentStatusEnrolled,
	}
	if err := tx.Create(enrollment).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return nil, apperror.Conflict("El estudiante ya está matriculado en esta asignatura")
		}
		return nil, err
	}

	// Guarded decrement: the capacity > 0 predicate re-checks inside the
	// write itself, so two transactions racing for the last slot cannot
	// both succeed regardless of the isolation level.
	res := tx.Model(&models.SubjectReference{}).
		Where("id = ? AND capacity > 0", subject.ID).
		UpdateColumn("capacity", gorm.Expr("capacity - 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.BadRequest("No hay cupos disponibles en esta asignatura")
	}

	return enrollment, nil
}
