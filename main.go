package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"university-admin-system/database"
	"university-admin-system/handlers"
	"university-admin-system/models"
	"university-admin-system/services"
	"university-admin-system/utils"
	"university-admin-system/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "university-admin-system",
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	usersDSN := os.Getenv("DATABASE_URL_USERS")
	academicDSN := os.Getenv("DATABASE_URL_ACADEMIC")
	profilesDSN := os.Getenv("DATABASE_URL_PROFILES")
	if usersDSN == "" || academicDSN == "" || profilesDSN == "" {
		log.Fatal("DATABASE_URL_USERS, DATABASE_URL_ACADEMIC and DATABASE_URL_PROFILES must be set")
	}

	conns, err := database.Connect(usersDSN, academicDSN, profilesDSN)
	if err != nil {
		log.Fatal("failed to connect to databases:", err)
	}

	if err := conns.Users.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.UserSync{},
	); err != nil {
		log.Fatal("failed to migrate users database:", err)
	}

	if err := conns.Academic.AutoMigrate(
		&models.Cycle{},
		&models.Career{},
		&models.Speciality{},
		&models.Subject{},
	); err != nil {
		log.Fatal("failed to migrate academic database:", err)
	}

	if err := conns.Profiles.AutoMigrate(
		&models.CareerReference{},
		&models.SpecialityReference{},
		&models.SubjectReference{},
		&models.UserReference{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.SubjectAssignment{},
		&models.StudentSubject{},
	); err != nil {
		log.Fatal("failed to migrate profiles database:", err)
	}

	r2Enabled, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	authService := services.NewAuthService(conns.Users, conns.Profiles)
	enrollmentService := services.NewEnrollmentService(conns.Profiles)
	studentService := services.NewStudentService(conns.Profiles)
	teacherService := services.NewTeacherService(conns.Profiles)
	subjectService := services.NewSubjectService(conns.Academic)
	specialityService := services.NewSpecialityService(conns.Academic)
	studentSubjectService := services.NewStudentSubjectService(conns.Profiles)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewSubjectSyncWorker(conns.Academic, conns.Profiles)
	syncWorker.Start(ctx)

	studentService.StartReportArchiver(r2Enabled)

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupEnrollmentRoutes(app, enrollmentService)
	handlers.SetupStudentRoutes(app, studentService)
	handlers.SetupTeacherRoutes(app, teacherService)
	handlers.SetupSubjectRoutes(app, subjectService)
	handlers.SetupSpecialityRoutes(app, specialityService)
	handlers.SetupStudentSubjectRoutes(app, studentSubjectService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Subject Sync Worker running")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
