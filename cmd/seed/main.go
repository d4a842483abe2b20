// Seeds the three databases with the baseline catalog: the fixed roles, the
// 2025-1 cycle, one career with a speciality and a subject, and the matching
// reference copies in the profiles database. Safe to run repeatedly.
package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"university-admin-system/models"
)

func main() {
	_ = godotenv.Load()

	users := open("DATABASE_URL_USERS")
	academic := open("DATABASE_URL_ACADEMIC")
	profiles := open("DATABASE_URL_PROFILES")

	log.Println("Seeding databases...")

	// 1. Roles (Users DB)
	roles := []models.Role{
		{ID: models.RoleAdminID, Name: "ADMIN"},
		{ID: models.RoleTeacherID, Name: "TEACHER"},
		{ID: models.RoleStudentID, Name: "STUDENT"},
	}
	for i := range roles {
		if err := users.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles[i]).Error; err != nil {
			log.Fatal("failed to seed roles:", err)
		}
	}
	log.Println("Roles seeded.")

	// 2. Academic data (Academic DB)
	cycle := models.Cycle{
		Name:      "2025-1",
		Year:      2025,
		Period:    1,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	if err := academic.Clauses(clause.OnConflict{DoNothing: true}).Create(&cycle).Error; err != nil {
		log.Fatal("failed to seed cycle:", err)
	}
	if cycle.ID == 0 {
		if err := academic.Where("year = ? AND period = ?", 2025, 1).First(&cycle).Error; err != nil {
			log.Fatal("failed to load cycle:", err)
		}
	}

	career := models.Career{
		Name:          "Ingeniería de Sistemas",
		Slug:          "ingenieria-de-sistemas",
		TotalCicles:   10,
		DurationYears: 5,
	}
	if err := academic.Clauses(clause.OnConflict{DoNothing: true}).Create(&career).Error; err != nil {
		log.Fatal("failed to seed career:", err)
	}
	if career.ID == 0 {
		if err := academic.Where("name = ?", career.Name).First(&career).Error; err != nil {
			log.Fatal("failed to load career:", err)
		}
	}

	speciality := models.Speciality{
		Name:        "Sistemas Dinámicos",
		Description: "Especialidad en sistemas",
	}
	if err := academic.Clauses(clause.OnConflict{DoNothing: true}).Create(&speciality).Error; err != nil {
		log.Fatal("failed to seed speciality:", err)
	}
	if speciality.ID == 0 {
		if err := academic.Where("name = ?", speciality.Name).First(&speciality).Error; err != nil {
			log.Fatal("failed to load speciality:", err)
		}
	}

	subject := models.Subject{
		Name:        "Programación I",
		Slug:        "programacion-i",
		CareerID:    career.ID,
		CicleNumber: 1,
		CycleID:     &cycle.ID,
	}
	if err := academic.Clauses(clause.OnConflict{DoNothing: true}).Create(&subject).Error; err != nil {
		log.Fatal("failed to seed subject:", err)
	}
	if subject.ID == 0 {
		if err := academic.Where("name = ? AND career_id = ? AND cicle_number = ?",
			subject.Name, career.ID, 1).First(&subject).Error; err != nil {
			log.Fatal("failed to load subject:", err)
		}
	}
	log.Println("Academic data seeded.")

	// 3. Reference copies (Profiles DB)
	careerRef := models.CareerReference{ID: career.ID, Name: career.Name, TotalCicles: career.TotalCicles}
	if err := profiles.Clauses(clause.OnConflict{DoNothing: true}).Create(&careerRef).Error; err != nil {
		log.Fatal("failed to seed career reference:", err)
	}

	specialityRef := models.SpecialityReference{ID: speciality.ID, Name: speciality.Name}
	if err := profiles.Clauses(clause.OnConflict{DoNothing: true}).Create(&specialityRef).Error; err != nil {
		log.Fatal("failed to seed speciality reference:", err)
	}

	subjectRef := models.SubjectReference{
		ID:          subject.ID,
		Name:        subject.Name,
		CareerID:    career.ID,
		CicleNumber: subject.CicleNumber,
		CycleID:     subject.CycleID,
		Capacity:    models.DefaultSubjectCapacity,
		SyncedAt:    time.Now(),
	}
	if err := profiles.Clauses(clause.OnConflict{DoNothing: true}).Create(&subjectRef).Error; err != nil {
		log.Fatal("failed to seed subject reference:", err)
	}
	log.Println("Profile references synced.")
}

func open(envKey string) *gorm.DB {
	dsn := os.Getenv(envKey)
	if dsn == "" {
		log.Fatalf("%s must be set", envKey)
	}
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect using %s: %v", envKey, err)
	}
	return db
}
