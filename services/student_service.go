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

// StudentService reads and mutates student rows in the reference store.
// A student is a UserReference with the STUDENT role plus its profile.
type StudentService struct {
	DB *gorm.DB // profiles database
}

func NewStudentService(profiles *gorm.DB) *StudentService {
	return &StudentService{DB: profiles}
}

type UpdateStudentRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
	CareerID     *int    `json:"careerId" validate:"omitempty,gt=0"`
	CurrentCicle *int    `json:"currentCicle" validate:"omitempty,gt=0"`
}

func (s *StudentService) studentQuery() *gorm.DB {
	return s.DB.Preload("StudentProfile").
		Preload("StudentProfile.Career").
		Preload("StudentProfile.StudentSubjects").
		Preload("StudentProfile.StudentSubjects.Subject")
}

// FindAll handles GET /student with page/limit pagination.
func (s *StudentService) FindAll(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var students []models.UserReference
	if err := s.studentQuery().
		Where("role_id = ?", models.RoleStudentID).
		Offset((page - 1) * limit).Limit(limit).
		Find(&students).Error; err != nil {
		log.Printf("students: list failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching students", err))
	}

	var total int64
	if err := s.DB.Model(&models.UserReference{}).
		Where("role_id = ?", models.RoleStudentID).
		Count(&total).Error; err != nil {
		log.Printf("students: count failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching students", err))
	}

	return c.JSON(utils.PagedResponse{Data: students, Total: total, Page: page, Limit: limit})
}

// FindOne handles GET /student/:id.
func (s *StudentService) FindOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var student models.UserReference
	if err := s.studentQuery().First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Respond(c, apperror.NotFound("Student not found"))
		}
		log.Printf("students: fetch %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error fetching student", err))
	}
	if student.RoleID != models.RoleStudentID {
		return apperror.Respond(c, apperror.NotFound("Student not found"))
	}

	return c.JSON(student)
}

// Update handles PATCH /student/:id. Name/email/status land on the
// reference row, career/cicle on the profile.
func (s *StudentService) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	var student models.UserReference
	if err := s.DB.First(&student, "id = ?", id).Error; err != nil || student.RoleID != models.RoleStudentID {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Student with ID %d not found", id))
	}

	userUpdates := map[string]interface{}{}
	if req.Name != nil {
		userUpdates["name"] = *req.Name
	}
	if req.Email != nil {
		userUpdates["email"] = *req.Email
	}
	if req.Status != nil {
		userUpdates["status"] = *req.Status
	}

	profileUpdates := map[string]interface{}{}
	if req.CareerID != nil {
		profileUpdates["career_id"] = *req.CareerID
	}
	if req.CurrentCicle != nil {
		profileUpdates["current_cicle"] = *req.CurrentCicle
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(&student).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(profileUpdates) > 0 {
			if err := tx.Model(&models.StudentProfile{}).
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
		log.Printf("students: update %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error updating student", err))
	}

	var updated models.UserReference
	if err := s.studentQuery().First(&updated, "id = ?", id).Error; err != nil {
		log.Printf("students: reload %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error updating student", err))
	}
	return c.JSON(updated)
}

// Remove handles DELETE /student/:id; the profile and enrollments go
// with the reference row.
func (s *StudentService) Remove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	var student models.UserReference
	if err := s.DB.First(&student, "id = ?", id).Error; err != nil || student.RoleID != models.RoleStudentID {
		return apperror.Respond(c, apperror.Wrapf(apperror.ErrNotFound, "Student with ID %d not found", id))
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.StudentProfile
		if err := tx.First(&profile, "user_id = ?", id).Error; err == nil {
			if err := tx.Where("student_profile_id = ?", profile.ID).
				Delete(&models.StudentSubject{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		log.Printf("students: remove %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error removing student", err))
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Student with ID %d has been successfully removed", id)})
}

// FindActiveWithCareer handles GET /student/active-with-career.
func (s *StudentService) FindActiveWithCareer(c *fiber.Ctx) error {
	var students []models.UserReference
	if err := s.DB.Preload("StudentProfile").
		Preload("StudentProfile.Career").
		Where("role_id = ? AND status = ?", models.RoleStudentID, models.UserStatusActive).
		Find(&students).Error; err != nil {
		log.Printf("students: active-with-career failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error fetching active students with career", err))
	}
	return c.JSON(students)
}

// FindEnrollments handles GET /student/:id/enrollments/:cycleId.
func (s *StudentService) FindEnrollments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}
	cycleID, err := c.ParamsInt("cycleId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cycleId must be an integer"})
	}

	var enrollments []models.StudentSubject
	if err := s.DB.Preload("Subject").
		Joins("JOIN student_profile sp ON sp.id = student_subject.student_profile_id").
		Joins("JOIN subject_reference sr ON sr.id = student_subject.subject_id").
		Where("sp.user_id = ? AND sr.cycle_id = ?", id, cycleID).
		Find(&enrollments).Error; err != nil {
		log.Printf("students: enrollments for %d failed: %v", id, err)
		return apperror.Respond(c, apperror.Server("Error fetching student enrollments", err))
	}
	return c.JSON(enrollments)
}

// EnrollmentReportRow is one line of the aggregate enrollment report.
type EnrollmentReportRow struct {
	StudentName   string `json:"student_name"`
	CareerName    string `json:"career_name"`
	TotalSubjects int64  `json:"total_subjects"`
}

// EnrollmentReport aggregates enrollments per student and career.
func (s *StudentService) EnrollmentReport() ([]EnrollmentReportRow, error) {
	var rows []EnrollmentReportRow
	err := s.DB.Raw(`
		SELECT u.name AS student_name,
		       c.name AS career_name,
		       COUNT(ss.id) AS total_subjects
		FROM user_reference u
		JOIN student_profile sp ON u.id = sp.user_id
		JOIN career_reference c ON sp.career_id = c.id
		LEFT JOIN student_subject ss ON sp.id = ss.student_profile_id
		GROUP BY u.name, c.name
		ORDER BY total_subjects DESC
	`).Scan(&rows).Error
	return rows, err
}

// Report handles GET /student/report.
func (s *StudentService) Report(c *fiber.Ctx) error {
	rows, err := s.EnrollmentReport()
	if err != nil {
		log.Printf("students: report failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error generating enrollment report", err))
	}
	return c.JSON(rows)
}

// SearchAdvanced handles GET /student/search-advanced?careerId=&cycleId=:
// active students of a career with at least one enrollment in the cycle.
func (s *StudentService) SearchAdvanced(c *fiber.Ctx) error {
	careerID := c.QueryInt("careerId", -1)
	cycleID := c.QueryInt("cycleId", -1)
	if careerID < 0 || cycleID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "careerId and cycleId are required integers"})
	}

	var profiles []models.StudentProfile
	if err := s.DB.Preload("Career").Preload("StudentSubjects.Subject").
		Joins("JOIN user_reference u ON u.id = student_profile.user_id").
		Where("u.status = ? AND student_profile.career_id = ?", models.UserStatusActive, careerID).
		Where(`EXISTS (
			SELECT 1 FROM student_subject ss
			JOIN subject_reference sr ON sr.id = ss.subject_id
			WHERE ss.student_profile_id = student_profile.id AND sr.cycle_id = ?
		)`, cycleID).
		Find(&profiles).Error; err != nil {
		log.Printf("students: advanced search failed: %v", err)
		return apperror.Respond(c, apperror.Server("Error in advanced student search", err))
	}
	return c.JSON(profiles)
}
