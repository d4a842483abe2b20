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

type SpecialityService struct {
	DB *gorm.DB // academic database
}

func NewSpecialityService(academic *gorm.DB) *SpecialityService {
	return &SpecialityService{DB: academic}
}

type CreateSpecialityRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateSpecialityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create handles POST /speciality.
func (s *SpecialityService) Create(c *fiber.Ctx) error {
	var req CreateSpecialityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	speciality := models.Speciality{Name: req.Name, Description: req.Description}
	if err := s.DB.Create(&speciality).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return apperror.Respond(c, apperror.Conflict("Speciality already exists"))
		}
		log.Printf("specialities: create failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error creating speciality", err))
	}
	return c.Status(fiber.StatusCreated).JSON(speciality)
}

// FindAll handles GET /speciality.
func (s *SpecialityService) FindAll(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var specialities []models.Speciality
	if err := s.DB.Offset((page - 1) * limit).Limit(limit).
		Find(&specialities).Error; err != nil {
		log.Printf("specialities: list failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching specialities", err))
	}

	var total int64
	if err := s.DB.Model(&models.Speciality{}).Count(&total).Error; err != nil {
		log.Printf("specialities: count failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching specialities", err))
	}

	return c.JSON(utils.PagedResponse{Data: specialities, Total: total, Page: page, Limit: limit})
}

// FindOne handles GET /speciality/:id.
func (s *SpecialityService) FindOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var speciality models.Speciality
	if err := s.DB.First(&speciality, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Respond(c, apperror.NotFound("Speciality not found"))
		}
		log.Printf("specialities: fetch %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error fetching speciality", err))
	}
	return c.JSON(speciality)
}

// Update handles PATCH /speciality/:id.
func (s *SpecialityService) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var req UpdateSpecialityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var speciality models.Speciality
	if err := s.DB.First(&speciality, "id = ?", id).Error; err != nil {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Speciality with ID %d not found", id))
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&speciality).Updates(updates).Error; err != nil {
			if apperror.IsUniqueViolation(err) {
				return apperror.Respond(c, apperror.Conflict("Speciality conflict"))
			}
			log.Printf("specialities: update %d failed: %v", id, err)
			return apperror.Respond(c, apperror.Server("Error updating speciality", err))
		}
	}
	return c.JSON(speciality)
}

// Remove handles DELETE /speciality/:id.
func (s *SpecialityService) Remove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var speciality models.Speciality
	if err := s.DB.First(&speciality, "id = ?", id).Error; err != nil {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Speciality with ID %d not found", id))
	}

	if err := s.DB.Delete(&speciality).Error; err != nil {
		log.Printf("specialities: remove %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error removing speciality", err))
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Speciality with ID %d has been successfully removed", id)})
}
