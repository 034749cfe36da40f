package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
	"github.com/edumate/sims-api/internal/service"
)

func newAcademicTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:hnd_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AcademicYear{},
		&models.Class{},
		&models.Section{},
		&models.Subject{},
		&models.TeacherSubjectAssignment{},
	))

	svc := service.NewAcademicService(
		repository.NewAcademicYearRepository(db),
		repository.NewClassRepository(db),
		repository.NewSectionRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewTeacherAssignmentRepository(db),
		repository.NewUserRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)

	app := fiber.New()
	NewAcademicHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/academics"))
	return app, db
}

func TestSubjectCreateDuplicateCodeReturnsConflict(t *testing.T) {
	app, db := newAcademicTestApp(t)

	class := models.Class{Name: "Class 3", NumericValue: 3}
	require.NoError(t, db.Create(&class).Error)

	payload := fmt.Sprintf(`{"name":"Mathematics","code":"MTH","class_ids":[%d]}`, class.ID)

	req := httptest.NewRequest("POST", "/api/v1/academics/subjects", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/academics/subjects", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode, "second subject with the same code must not 500")

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Success)
	require.Contains(t, body.Message, "already exists")

	var count int64
	require.NoError(t, db.Model(&models.Subject{}).Where("code = ?", "MTH").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSectionCreateDuplicateNameInClassReturnsConflict(t *testing.T) {
	app, db := newAcademicTestApp(t)

	class := models.Class{Name: "Class 2", NumericValue: 2}
	require.NoError(t, db.Create(&class).Error)

	payload := fmt.Sprintf(`{"name":"A","class_id":%d}`, class.ID)

	req := httptest.NewRequest("POST", "/api/v1/academics/sections", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/academics/sections", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
