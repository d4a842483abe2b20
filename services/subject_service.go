package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"university-admin-system/apperror"
	"university-admin-system/models"
	"university-admin-system/utils"
)

// SubjectService is plain CRUD over the academic database, the source of
// truth for the catalog. The reference copy in the profiles database is
// maintained separately by the sync worker and the sync-subjects script.
type SubjectService struct {
	DB *gorm.DB // academic database
}

func NewSubjectService(academic *gorm.DB) *SubjectService {
	return &SubjectService{DB: academic}
}

type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required"`
	CareerID    int    `json:"careerId" validate:"required,gt=0"`
	CicleNumber int    `json:"cicleNumber" validate:"required,gt=0"`
	CycleID     *int   `json:"cycleId" validate:"omitempty,gt=0"`
}

type UpdateSubjectRequest struct {
	Name        *string `json:"name"`
	CareerID    *int    `json:"careerId" validate:"omitempty,gt=0"`
	CicleNumber *int    `json:"cicleNumber" validate:"omitempty,gt=0"`
	CycleID     *int    `json:"cycleId" validate:"omitempty,gt=0"`
}

// Create handles POST /subject.
func (s *SubjectService) Create(c *fiber.Ctx) error {
	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	subject := models.Subject{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		CareerID:    req.CareerID,
		CicleNumber: req.CicleNumber,
		CycleID:     req.CycleID,
	}
	if err := s.DB.Create(&subject).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return apperror.Respond(c, apperror.Conflict("Subject already exists"))
		}
		log.Printf("subjects: create failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error creating subject", err))
	}

	s.DB.Preload("Career").First(&subject, subject.ID)
	return c.Status(fiber.StatusCreated).JSON(subject)
}

// FindAll handles GET /subject.
func (s *SubjectService) FindAll(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var subjects []models.Subject
	if err := s.DB.Preload("Career").
		Offset((page - 1) * limit).Limit(limit).
		Find(&subjects).Error; err != nil {
		log.Printf("subjects: list failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching subjects", err))
	}

	var total int64
	if err := s.DB.Model(&models.Subject{}).Count(&total).Error; err != nil {
		log.Printf("subjects: count failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching subjects", err))
	}

	return c.JSON(utils.PagedResponse{Data: subjects, Total: total, Page: page, Limit: limit})
}

// FindOne handles GET /subject/:id.
func (s *SubjectService) FindOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var subject models.Subject
	if err := s.DB.Preload("Career").First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Respond(c, apperror.NotFound("Subject not found"))
		}
		log.Printf("subjects: fetch %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error fetching subject", err))
	}
	return c.JSON(subject)
}

// Update handles PATCH /subject/:id.
func (s *SubjectService) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var req UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	var subject models.Subject
	if err := s.DB.First(&subject, "id = ?", id).Error; err != nil {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Subject with ID %d not found", id))
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = slug.Make(*req.Name)
	}
	if req.CareerID != nil {
		updates["career_id"] = *req.CareerID
	}
	if req.CicleNumber != nil {
		updates["cicle_number"] = *req.CicleNumber
	}
	if req.CycleID != nil {
		updates["cycle_id"] = *req.CycleID
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&subject).Updates(updates).Error; err != nil {
			if apperror.IsUniqueViolation(err) {
				return apperror.Respond(c, apperror.Conflict("Subject conflict"))
			}
			log.Printf("subjects: update %d failed: %v", id, err)
			return apperror.Respond(c, apperror.Server("Error updating subject", err))
		}
	}

	s.DB.Preload("Career").First(&subject, id)
	return c.JSON(subject)
}

// FindByCareer handles GET /subject/by-career/:careerId.
func (s *SubjectService) FindByCareer(c *fiber.Ctx) error {
	careerID, err := c.ParamsInt("careerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "careerId must be an integer"})
	}

	var subjects []models.Subject
	if err := s.DB.Preload("Career").
		Where("career_id = ?", careerID).
		Find(&subjects).Error; err != nil {
		log.Printf("subjects: by-career %d failed: %v", careerID, err)
		return apperror.Respond(c, apperror.Server("Error fetching subjects by career", err))
	}
	return c.JSON(subjects)
}

// Remove handles DELETE /subject/:id.
func (s *SubjectService) Remove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var subject models.Subject
	if err := s.DB.First(&subject, "id = ?", id).Error; err != nil {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Subject with ID %d not found", id))
	}

	if err := s.DB.Delete(&subject).Error; err != nil {
		log.Printf("subjects: remove %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error removing subject", err))
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Subject with ID %d has been successfully removed", id)})
}
