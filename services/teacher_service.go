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

// TeacherService mirrors StudentService for the TEACHER role.
type TeacherService struct {
	DB *gorm.DB // profiles database
}

func NewTeacherService(profiles *gorm.DB) *TeacherService {
	return &TeacherService{DB: profiles}
}

type UpdateTeacherRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" validate:"omitempty,email"`
	SpecialityID *int    `json:"specialityId" validate:"omitempty,gt=0"`
	CareerID     *int    `json:"careerId" validate:"omitempty,gt=0"`
	Type         *string `json:"type" validate:"omitempty,oneof=FULL_TIME PART_TIME"`
}

func (s *TeacherService) teacherQuery() *gorm.DB {
	return s.DB.Preload("TeacherProfile").
		Preload("TeacherProfile.Speciality").
		Preload("TeacherProfile.Career").
		Preload("TeacherProfile.Subjects").
		Preload("TeacherProfile.Subjects.Subject")
}

// FindAll handles GET /teacher.
func (s *TeacherService) FindAll(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var teachers []models.UserReference
	if err := s.teacherQuery().
		Where("role_id = ?", models.RoleTeacherID).
		Offset((page - 1) * limit).Limit(limit).
		Find(&teachers).Error; err != nil {
		log.Printf("teachers: list failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching teachers", err))
	}

	var total int64
	if err := s.DB.Model(&models.UserReference{}).
		Where("role_id = ?", models.RoleTeacherID).
		Count(&total).Error; err != nil {
		log.Printf("teachers: count failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching teachers", err))
	}

	return c.JSON(utils.PagedResponse{Data: teachers, Total: total, Page: page, Limit: limit})
}

// FindOne handles GET /teacher/:id.
func (s *TeacherService) FindOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var teacher models.UserReference
	if err := s.teacherQuery().First(&teacher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Respond(c, apperror.NotFound("Teacher not found"))
		}
		log.Printf("teachers: fetch %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error fetching teacher", err))
	}
	if teacher.RoleID != models.RoleTeacherID {
		return apperror.Respond(c, apperror.NotFound("Teacher not found"))
	}

	return c.JSON(teacher)
}

// Update handles PATCH /teacher/:id.
func (s *TeacherService) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var req UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	var teacher models.UserReference
	if err := s.DB.First(&teacher, "id = ?", id).Error; err != nil || teacher.RoleID != models.RoleTeacherID {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Teacher with ID %d not found", id))
	}

	userUpdates := map[string]interface{}{}
	if req.Name != nil {
		userUpdates["name"] = *req.Name
	}
	if req.Email != nil {
		userUpdates["email"] = *req.Email
	}

	profileUpdates := map[string]interface{}{}
	if req.SpecialityID != nil {
		profileUpdates["speciality_id"] = *req.SpecialityID
	}
	if req.CareerID != nil {
		profileUpdates["career_id"] = *req.CareerID
	}
	if req.Type != nil {
		profileUpdates["type"] = *req.Type
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(&teacher).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(profileUpdates) > 0 {
			if err := tx.Model(&models.TeacherProfile{}).
				Where("user_id = ?", id).
				Updates(profileUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return apperror.Respond(c, apperror.Conflict("Email already exists"))
		}
		log.Printf("teachers: update %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error updating teacher", err))
	}

	var updated models.UserReference
	if err := s.teacherQuery().First(&updated, "id = ?", id).Error; err != nil {
		log.Printf("teachers: reload %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error updating teacher", err))
	}
	return c.JSON(updated)
}

// Remove handles DELETE /teacher/:id.
func (s *TeacherService) Remove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var teacher models.UserReference
	if err := s.DB.First(&teacher, "id = ?", id).Error; err != nil || teacher.RoleID != models.RoleTeacherID {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Teacher with ID %d not found", id))
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.TeacherProfile
		if err := tx.First(&profile, "user_id = ?", id).Error; err == nil {
			if err := tx.Where("teacher_profile_id = ?", profile.ID).
				Delete(&models.SubjectAssignment{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Delete(&teacher).Error
	})
	if err != nil {
		log.Printf("teachers: remove %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error removing teacher", err))
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Teacher with ID %d has been successfully removed", id)})
}

// FindBusy handles GET /teacher/busy: teachers assigned more than one
// subject.
func (s *TeacherService) FindBusy(c *fiber.Ctx) error {
	var profiles []models.TeacherProfile
	if err := s.DB.Preload("Speciality").Preload("Career").
		Preload("Subjects").Preload("Subjects.Subject").
		Where(`(
			SELECT COUNT(*) FROM subject_assignment sa
			WHERE sa.teacher_profile_id = teacher_profile.id
		) > 1`).
		Find(&profiles).Error; err != nil {
		log.Printf("teachers: busy query failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching busy teachers", err))
	}
	return c.JSON(profiles)
}

// FilterAdvanced handles GET /teacher/filter-advanced: full-time teachers
// that either teach at least one subject or whose user is not inactive.
func (s *TeacherService) FilterAdvanced(c *fiber.Ctx) error {
	var profiles []models.TeacherProfile
	if err := s.DB.Preload("Subjects").Preload("Subjects.Subject").
		Joins("JOIN user_reference u ON u.id = teacher_profile.user_id").
		Where("teacher_profile.type = ?", models.TeacherTypeFullTime).
		Where(`(EXISTS (
			SELECT 1 FROM subject_assignment sa
			WHERE sa.teacher_profile_id = teacher_profile.id
		) OR u.status <> ?)`, models.UserStatusInactive).
		Find(&profiles).Error; err != nil {
		log.Printf("teachers: advanced filter failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error in advanced teacher filter", err))
	}
	return c.JSON(profiles)
}
