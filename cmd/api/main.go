package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/auth"
	"github.com/edumate/sims-api/internal/config"
	"github.com/edumate/sims-api/internal/database"
	"github.com/edumate/sims-api/internal/handler"
	"github.com/edumate/sims-api/internal/middleware"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
	"github.com/edumate/sims-api/internal/router"
	"github.com/edumate/sims-api/internal/service"
	cloud "github.com/edumate/sims-api/pkg/cloudinary"
)

const documentMaxSizeMB = 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.AcademicYear{},
		&models.Class{},
		&models.Section{},
		&models.Subject{},
		&models.TeacherSubjectAssignment{},
		&models.Student{},
		&models.StudentGuardian{},
		&models.StudentDocument{},
		&models.Attendance{},
		&models.LeaveApplication{},
		&models.Exam{},
		&models.ExamSchedule{},
		&models.Result{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, dashboard caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, leave events disabled")
	}

	var uploader service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		cld, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cld
	} else {
		logger.Warn().Msg("cloudinary not configured, document uploads disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := repository.NewUserRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	classRepo := repository.NewClassRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignmentRepo := repository.NewTeacherAssignmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	examRepo := repository.NewExamRepository(db)
	resultRepo := repository.NewResultRepository(db)

	authService := service.NewAuthService(userRepo, tokens, validate, logger)
	userService := service.NewUserService(userRepo, studentRepo, validate, logger)
	academicService := service.NewAcademicService(yearRepo, classRepo, sectionRepo, subjectRepo, assignmentRepo, userRepo, validate, logger)
	lookupService := service.NewLookupService(sectionRepo, subjectRepo, studentRepo, logger)
	studentService := service.NewStudentService(studentRepo, userRepo, validate, logger)
	documentService := service.NewDocumentService(studentRepo, uploader, documentMaxSizeMB, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, validate, logger)
	leaveService := service.NewLeaveService(leaveRepo, validate, natsConn, logger)
	dashboardService := service.NewDashboardService(attendanceRepo, leaveRepo, userRepo, studentRepo, classRepo, subjectRepo, redisClient, cfg.DashboardCacheTTL, logger)
	examService := service.NewExamService(examRepo, yearRepo, classRepo, sectionRepo, studentRepo, validate, logger)
	resultService := service.NewResultService(resultRepo, examRepo, studentRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		AcademicHandler:   handler.NewAcademicHandler(academicService, logger),
		LookupHandler:     handler.NewLookupHandler(lookupService, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, documentService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		LeaveHandler:      handler.NewLeaveHandler(leaveService, logger),
		ExamHandler:       handler.NewExamHandler(examService, logger),
		ResultHandler:     handler.NewResultHandler(resultService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
