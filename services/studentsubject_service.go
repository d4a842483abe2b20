package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"university-admin-system/apperror"
	"university-admin-system/models"
	"university-admin-system/utils"
)

// StudentSubjectService is administrative CRUD over enrollment rows.
// Unlike the enrollment transaction it does not touch capacity; it exists
// for corrections (status changes, manual removals).
type StudentSubjectService struct {
	DB *gorm.DB // profiles database
}

func NewStudentSubjectService(profiles *gorm.DB) *StudentSubjectService {
	return &StudentSubjectService{DB: profiles}
}

type CreateStudentSubjectRequest struct {
	StudentProfileID int    `json:"studentProfileId" validate:"required,gt=0"`
	SubjectID        int    `json:"subjectId" validate:"required,gt=0"`
	Status           string `json:"status" validate:"omitempty,oneof=enrolled passed failed withdrawn"`
}

type UpdateStudentSubjectRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=enrolled passed failed withdrawn"`
}

func (s *StudentSubjectService) withRelations() *gorm.DB {
	return s.DB.Preload("StudentProfile").
		Preload("StudentProfile.Career").
		Preload("Subject")
}

// Create handles POST /student-subject.
func (s *StudentSubjectService) Create(c *fiber.Ctx) error {
	var req CreateStudentSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	status := req.Status
	if status == "" {
		status = models.EnrollmentStatusEnrolled
	}
	row := models.StudentSubject{
		StudentProfileID: req.StudentProfileID,
		SubjectID:        req.SubjectID,
		Status:           status,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return apperror.Respond(c, apperror.Conflict("Student is already enrolled in this subject"))
		}
		log.Printf("studentsubjects: create failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error creating student subject", err))
	}

	s.withRelations().First(&row, row.ID)
	return c.Status(fiber.StatusCreated).JSON(row)
}

// FindAll handles GET /student-subject.
func (s *StudentSubjectService) FindAll(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var rows []models.StudentSubject
	if err := s.withRelations().
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error; err != nil {
		log.Printf("studentsubjects: list failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching student subjects", err))
	}

	var total int64
	if err := s.DB.Model(&models.StudentSubject{}).Count(&total).Error; err != nil {
		log.Printf("studentsubjects: count failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching student subjects", err))
	}

	return c.JSON(utils.PagedResponse{Data: rows, Total: total, Page: page, Limit: limit})
}

// FindOne handles GET /student-subject/:id.
func (s *StudentSubjectService) FindOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var row models.StudentSubject
	if err := s.withRelations().First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Respond(c, apperror.NotFound("Student enrollment not found"))
		}
		log.Printf("studentsubjects: fetch %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error fetching student subject", err))
	}
	return c.JSON(row)
}

// Update handles PATCH /student-subject/:id.
func (s *StudentSubjectService) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var req UpdateStudentSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	var row models.StudentSubject
	if err := s.DB.First(&row, "id = ?", id).Error; err != nil {
		return apperror.Respond(c, apperror.NotFound("Student enrollment not found"))
	}

	if req.Status != nil {
		if err := s.DB.Model(&row).Update("status", *req.Status).Error; err != nil {
			log.Printf("studentsubjects: update %d failed: %v", id, err)
			return apperror.Respond(c, apperror.Server("Error updating student subject", err))
		}
	}

	s.withRelations().First(&row, id)
	return c.JSON(row)
}

// Remove handles DELETE /student-subject/:id.
func (s *StudentSubjectService) Remove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var row models.StudentSubject
	if err := s.DB.First(&row, "id = ?", id).Error; err != nil {
		return apperror.Respond(c, apperror.NotFound("Student enrollment not found"))
	}

	if err := s.DB.Delete(&row).Error; err != nil {
		log.Printf("studentsubjects: remove %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error removing student subject", err))
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Student Subject relationship with ID %d has been successfully removed", id)})
}
