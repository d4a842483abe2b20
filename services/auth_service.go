package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"university-admin-system/apperror"
	"university-admin-system/models"
	"university-admin-system/utils"
)

const (
	accessTokenTTL  = 48 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	bcryptCost = 10
)

// AuthService orchestrates registration across the users and profiles
// databases. The write sequence is deliberately not wrapped in a
// cross-database transaction: a failure partway through can leave a user
// without its reference row, which the sync worker and UserSync markers
// exist to surface. Only the enrollment path is atomic.
type AuthService struct {
	Users    *gorm.DB
	Profiles *gorm.DB
}

func NewAuthService(users, profiles *gorm.DB) *AuthService {
	return &AuthService{Users: users, Profiles: profiles}
}

type RegisterStudentRequest struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Phone        *string `json:"phone"`
	Age          *int    `json:"age" validate:"omitempty,gte=0"`
	CareerID     int     `json:"careerId" validate:"required,gt=0"`
	CurrentCicle int     `json:"currentCicle" validate:"required,gt=0"`
}

type RegisterTeacherRequest struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Phone        *string `json:"phone"`
	Age          *int    `json:"age" validate:"omitempty,gte=0"`
	CareerID     int     `json:"careerId" validate:"required,gt=0"`
	SpecialityID int     `json:"specialityId" validate:"required,gt=0"`
	Type         string  `json:"type" validate:"omitempty,oneof=FULL_TIME PART_TIME"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RegisterStudentHandler handles POST /auth/register/student.
func (s *AuthService) RegisterStudentHandler(c *fiber.Ctx) error {
	var req RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}
	user, err := s.RegisterStudent(&req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// RegisterTeacherHandler handles POST /auth/register/teacher.
func (s *AuthService) RegisterTeacherHandler(c *fiber.Ctx) error {
	var req RegisterTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}
	user, err := s.RegisterTeacher(&req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// RegisterStudent performs the student signup write sequence:
// role ensure → user upsert → sync record → career reference ensure →
// user reference + student profile upsert. Steps run against two
// databases without coordination; see the AuthService doc comment.
func (s *AuthService) RegisterStudent(req *RegisterStudentRequest) (*models.User, error) {
	if err := s.EnsureRole(models.RoleStudentID, "STUDENT"); err != nil {
		return nil, s.handleDBError("registerStudent", err)
	}

	user, err := s.upsertUser(req.Name, req.Email, req.Password, req.Phone, req.Age, models.RoleStudentID)
	if err != nil {
		return nil, s.handleDBError("registerStudent", err)
	}

	if err := s.upsertUserSync(user.ID, models.RoleStudentID, true, false); err != nil {
		return nil, s.handleDBError("registerStudent", err)
	}

	if err := s.EnsureCareerReference(req.CareerID); err != nil {
		return nil, s.handleDBError("registerStudent", err)
	}

	profile := &models.StudentProfile{
		UserID:       user.ID,
		CareerID:     req.CareerID,
		CurrentCicle: req.CurrentCicle,
	}
	if err := s.upsertUserReference(user, models.RoleStudentID, profile, nil); err != nil {
		return nil, s.handleDBError("registerStudent", err)
	}

	return user, nil
}

// RegisterTeacher mirrors RegisterStudent with the speciality reference
// ensured as well and a teacher profile created on the insert branch.
func (s *AuthService) RegisterTeacher(req *RegisterTeacherRequest) (*models.User, error) {
	if err := s.EnsureRole(models.RoleTeacherID, "TEACHER"); err != nil {
		return nil, s.handleDBError("registerTeacher", err)
	}

	user, err := s.upsertUser(req.Name, req.Email, req.Password, req.Phone, req.Age, models.RoleTeacherID)
	if err != nil {
		return nil, s.handleDBError("registerTeacher", err)
	}

	if err := s.upsertUserSync(user.ID, models.RoleTeacherID, false, true); err != nil {
		return nil, s.handleDBError("registerTeacher", err)
	}

	if err := s.EnsureCareerReference(req.CareerID); err != nil {
		return nil, s.handleDBError("registerTeacher", err)
	}
	if err := s.EnsureSpecialityReference(req.SpecialityID); err != nil {
		return nil, s.handleDBError("registerTeacher", err)
	}

	teacherType := req.Type
	if teacherType == "" {
		teacherType = models.TeacherTypeFullTime
	}
	profile := &models.TeacherProfile{
		UserID:       user.ID,
		SpecialityID: req.SpecialityID,
		CareerID:     req.CareerID,
		Type:         teacherType,
	}
	if err := s.upsertUserReference(user, models.RoleTeacherID, nil, profile); err != nil {
		return nil, s.handleDBError("registerTeacher", err)
	}

	return user, nil
}

// EnsureRole self-heals the fixed role row. Keyed by the well-known id,
// DO NOTHING on conflict, so calling it any number of times leaves
// exactly one row.
func (s *AuthService) EnsureRole(id int, name string) error {
	role := models.Role{ID: id, Name: name}
	return s.Users.Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error
}

// upsertUser inserts the user keyed by email with an empty update branch:
// re-registration with an existing email is a silent no-op that returns
// the stored record, name and all.
func (s *AuthService) upsertUser(name, email, password string, phone *string, age *int, roleID int) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Phone:    phone,
		Age:      age,
		RoleID:   roleID,
		Status:   models.UserStatusActive,
	}
	if err := s.Users.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user).Error; err != nil {
		return nil, err
	}

	// Re-read by email: on the conflict branch the struct above never
	// received an id, and the caller must see the stored row either way.
	var stored models.User
	if err := s.Users.First(&stored, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *AuthService) upsertUserSync(userID, roleID int, hasStudent, hasTeacher bool) error {
	sync := models.UserSync{
		UserID:            userID,
		RoleID:            roleID,
		HasStudentProfile: hasStudent,
		HasTeacherProfile: hasTeacher,
	}
	return s.Users.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&sync).Error
}

// EnsureCareerReference creates the reference row with a placeholder name
// when missing. An existing row is left untouched; the real name arrives
// with the next catalog sync pass.
func (s *AuthService) EnsureCareerReference(careerID int) error {
	ref := models.CareerReference{
		ID:          careerID,
		Name:        fmt.Sprintf("Carrera %d", careerID),
		TotalCicles: 10,
	}
	return s.Profiles.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error
}

func (s *AuthService) EnsureSpecialityReference(specialityID int) error {
	ref := models.SpecialityReference{
		ID:   specialityID,
		Name: fmt.Sprintf("Especialidad %d", specialityID),
	}
	return s.Profiles.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error
}

// upsertUserReference refreshes name/email/status when the reference row
// exists; on first creation the nested student or teacher profile is
// written in the same create.
func (s *AuthService) upsertUserReference(user *models.User, roleID int, student *models.StudentProfile, teacher *models.TeacherProfile) error {
	var existing models.UserReference
	err := s.Profiles.First(&existing, "id = ?", user.ID).Error
	if err == nil {
		return s.Profiles.Model(&existing).Updates(map[string]interface{}{
			"name":   user.Name,
			"email":  user.Email,
			"status": user.Status,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	ref := models.UserReference{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Status:         user.Status,
		RoleID:         roleID,
		StudentProfile: student,
		TeacherProfile: teacher,
	}
	return s.Profiles.Create(&ref).Error
}

// LoginHandler handles POST /auth/login.
func (s *AuthService) LoginHandler(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	var user models.User
	if err := s.Users.Preload("Role").First(&user, "email = ?", req.Email).Error; err != nil {
		return apperror.Respond(c, apperror.Unauthorized("Credentials are not valid"))
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return apperror.Respond(c, apperror.Unauthorized("Credentials are not valid"))
	}

	accessToken, err := SignToken(user.ID, user.Role.Name, accessTokenTTL)
	if err != nil {
		log.Printf("login: token signing failed: %v", err)
		return apperror.Respond(c, apperror.Server("Please check server logs", err))
	}
	refreshToken, err := SignToken(user.ID, "", refreshTokenTTL)
	if err != nil {
		log.Printf("login: token signing failed: %v", err)
		return apperror.Respond(c, apperror.Server("Please check server logs", err))
	}

	return c.JSON(fiber.Map{
		"userId":       user.ID,
		"roleName":     user.Role.Name,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshHandler handles POST /auth/refresh: verifies the refresh token
// and issues a fresh pair.
func (s *AuthService) RefreshHandler(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	claims, err := ParseToken(req.RefreshToken)
	if err != nil {
		return apperror.Respond(c, apperror.Unauthorized("Invalid refresh token"))
	}

	var user models.User
	if err := s.Users.Preload("Role").First(&user, "id = ?", claims.UserID).Error; err != nil {
		return apperror.Respond(c, apperror.Unauthorized("Invalid refresh token"))
	}

	accessToken, err := SignToken(user.ID, user.Role.Name, accessTokenTTL)
	if err != nil {
		return apperror.Respond(c, apperror.Server("Please check server logs", err))
	}
	refreshToken, err := SignToken(user.ID, "", refreshTokenTTL)
	if err != nil {
		return apperror.Respond(c, apperror.Server("Please check server logs", err))
	}

	return c.JSON(fiber.Map{
		"userId":       user.ID,
		"email":        user.Email,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// handleDBError logs the full failure and hands back a sanitized kind:
// uniqueness violations become conflicts, everything else a server error.
func (s *AuthService) handleDBError(op string, err error) error {
	log.Printf("Error en %s: %v", op, err)
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if apperror.IsUniqueViolation(err) {
		return apperror.Conflict("Record already exists")
	}
	return apperror.Server("Please check server logs", err)
}

// TokenClaims is what the auth middleware extracts from a bearer token.
type TokenClaims struct {
	UserID int
	Role   string
}

// SignToken issues an HS256 token. Role is empty for refresh tokens.
func SignToken(userID int, role string, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	claims := jwt.MapClaims{
		"id":  userID,
		"jti": uuid.NewString(),
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and extracts the claims.
func ParseToken(tokenString string) (*TokenClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)
	return &TokenClaims{UserID: int(id), Role: role}, nil
}
