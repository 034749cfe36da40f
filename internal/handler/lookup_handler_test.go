package handler

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
	"github.com/edumate/sims-api/internal/service"
)

func newLookupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:hnd_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Class{}, &models.Section{}, &models.Subject{}, &models.User{}, &models.Student{}))

	svc := service.NewLookupService(
		repository.NewSectionRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewStudentRepository(db),
		zerolog.Nop(),
	)

	app := fiber.New()
	NewLookupHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/lookups"))
	return app, db
}

type lookupEnvelope struct {
	Success bool             `json:"success"`
	Data    []dto.LookupItem `json:"data"`
	Message string           `json:"message"`
}

func TestLookupSectionsEndpoint(t *testing.T) {
	app, db := newLookupTestApp(t)

	class := models.Class{Name: "Class 7", NumericValue: 7}
	require.NoError(t, db.Create(&class).Error)
	require.NoError(t, db.Create(&models.Section{Name: "A", ClassID: class.ID}).Error)
	require.NoError(t, db.Create(&models.Section{Name: "B", ClassID: class.ID}).Error)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/lookups/sections?class_id=%d", class.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload lookupEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 2)
	require.Equal(t, "A", payload.Data[0].Name)
	require.Equal(t, "B", payload.Data[1].Name)
}

func TestLookupSectionsEndpointRejectsBadClassID(t *testing.T) {
	app, _ := newLookupTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/lookups/sections?class_id=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload lookupEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.False(t, payload.Success)
	require.Equal(t, "invalid class_id", payload.Message)
}

func TestLookupStudentsEndpointByClassOnly(t *testing.T) {
	app, db := newLookupTestApp(t)

	class := models.Class{Name: "Class 4", NumericValue: 4}
	require.NoError(t, db.Create(&class).Error)

	user := models.User{Username: "ADM-301", FirstName: "Kiran", PasswordHash: "hashed", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	student := models.Student{
		UserID:          user.ID,
		AdmissionNumber: "ADM-301",
		AdmissionDate:   datatypes.Date(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
		DateOfBirth:     datatypes.Date(time.Date(2013, time.January, 20, 0, 0, 0, 0, time.UTC)),
		Gender:          models.GenderOther,
		Address:         "Not Provided",
		CurrentClassID:  &class.ID,
	}
	require.NoError(t, db.Create(&student).Error)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/lookups/students?class_id=%d", class.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload lookupEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 1, "a class with students must resolve without a section")
	require.Equal(t, student.ID, payload.Data[0].ID)
	require.Equal(t, "Kiran", payload.Data[0].Name)
}

func TestLookupSectionsEndpointWithoutClassReturnsEmptyList(t *testing.T) {
	app, db := newLookupTestApp(t)

	class := models.Class{Name: "Class 9", NumericValue: 9}
	require.NoError(t, db.Create(&class).Error)
	require.NoError(t, db.Create(&models.Section{Name: "A", ClassID: class.ID}).Error)

	req := httptest.NewRequest("GET", "/api/v1/lookups/sections", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload lookupEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Empty(t, payload.Data)
}
