package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/simcheck-go-api/internal/config"
	"github.com/noah-isme/simcheck-go-api/internal/dto"
	"github.com/noah-isme/simcheck-go-api/internal/handler"
	"github.com/noah-isme/simcheck-go-api/internal/models"
	"github.com/noah-isme/simcheck-go-api/internal/plagiarism"
	"github.com/noah-isme/simcheck-go-api/internal/repository"
	"github.com/noah-isme/simcheck-go-api/internal/router"
	"github.com/noah-isme/simcheck-go-api/internal/service"
	"github.com/noah-isme/simcheck-go-api/pkg/extract"
)

func setupCheckApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Assignment{},
		&models.Submission{},
		&models.PlagiarismReport{},
		&models.SimilarityRecord{},
		&models.WebMatchRecord{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	reportRepo := repository.NewReportRepository(db)

	resolver := service.NewCachedTextResolver(extract.New(logger), nil, 0, logger)
	checker := plagiarism.NewChecker(resolver, nil, 5, logger)

	assignmentService := service.NewAssignmentService(assignmentRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, logger)
	checkService := service.NewCheckService(submissionRepo, assignmentRepo, reportRepo, checker, resolver, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, validate, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, validate, logger),
		CheckHandler:      handler.NewCheckHandler(checkService, logger),
	})

	return app
}

func createAssignment(t *testing.T, app *fiber.App, threshold float64) dto.AssignmentResponse {
	t.Helper()

	payload, err := json.Marshal(dto.AssignmentCreateRequest{
		CourseCode:          "CS101",
		Title:               "Term Essay",
		PlagiarismThreshold: threshold,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/assignments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    dto.AssignmentResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func uploadSubmission(t *testing.T, app *fiber.App, assignmentID, studentID uint, name string, content []byte) dto.SubmissionResponse {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("assignment_id", strconv.FormatUint(uint64(assignmentID), 10)))
	require.NoError(t, writer.WriteField("student_id", strconv.FormatUint(uint64(studentID), 10)))
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/submissions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestCheckEndpointFlow(t *testing.T) {
	app := setupCheckApp(t)
	assignment := createAssignment(t, app, 30)

	essay := []byte("The mitochondria is the powerhouse of the cell.")
	target := uploadSubmission(t, app, assignment.ID, 1, "first.txt", essay)
	other := uploadSubmission(t, app, assignment.ID, 2, "second.txt", essay)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/v1/submissions/%d/check", target.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var checkEnvelope struct {
		Success bool               `json:"success"`
		Data    dto.ReportResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&checkEnvelope))
	require.True(t, checkEnvelope.Success)
	require.True(t, checkEnvelope.Data.ExceedsThreshold)
	require.Len(t, checkEnvelope.Data.Pairs, 1)
	require.Equal(t, other.ID, checkEnvelope.Data.Pairs[0].ComparedSubmissionID)
	require.InDelta(t, 100.0, checkEnvelope.Data.Pairs[0].Percentage, 1e-6)

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/v1/submissions/%d/report", target.ID), nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reportEnvelope struct {
		Success bool               `json:"success"`
		Data    dto.ReportResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reportEnvelope))
	require.Equal(t, checkEnvelope.Data.ID, reportEnvelope.Data.ID)

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/v1/submissions/%d", target.ID), nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submissionEnvelope struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submissionEnvelope))
	require.Equal(t, models.SubmissionStatusGraded, submissionEnvelope.Data.Status)
	require.True(t, submissionEnvelope.Data.AutoGraded)
	require.NotNil(t, submissionEnvelope.Data.Grade)
	require.Zero(t, *submissionEnvelope.Data.Grade)
}

func TestCheckEndpointExcludeQuotes(t *testing.T) {
	app := setupCheckApp(t)
	assignment := createAssignment(t, app, 30)

	quoted := ` "We hold these truths to be self-evident, that all men are created equal."`
	target := uploadSubmission(t, app, assignment.ID, 1, "first.txt", []byte("My own argument about founding rhetoric."+quoted))
	uploadSubmission(t, app, assignment.ID, 2, "second.txt", []byte("Entirely separate commentary on maritime law."+quoted))

	payload, err := json.Marshal(dto.CheckRequest{ExcludeQuotes: true})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/v1/submissions/%d/check", target.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool               `json:"success"`
		Data    dto.ReportResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.False(t, envelope.Data.ExceedsThreshold)
	require.InDelta(t, 0.0, envelope.Data.MaxPercentage, 1e-9)
}

func TestReportsEndpointHistory(t *testing.T) {
	app := setupCheckApp(t)
	assignment := createAssignment(t, app, 80)
	target := uploadSubmission(t, app, assignment.ID, 1, "first.txt", []byte("first essay text"))
	uploadSubmission(t, app, assignment.ID, 2, "second.txt", []byte("second essay text"))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", fmt.Sprintf("/api/v1/submissions/%d/check", target.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/submissions/%d/reports", target.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                 `json:"success"`
		Data    []dto.ReportResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 2)
}

func TestSubmissionListRejectsMalformedFilter(t *testing.T) {
	app := setupCheckApp(t)

	req := httptest.NewRequest("GET", "/api/v1/submissions?assignment_id=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/submissions?student_id=-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCheckEndpointUnknownSubmission(t *testing.T) {
	app := setupCheckApp(t)

	req := httptest.NewRequest("POST", "/api/v1/submissions/404/check", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReportEndpointBeforeCheck(t *testing.T) {
	app := setupCheckApp(t)
	assignment := createAssignment(t, app, 30)
	target := uploadSubmission(t, app, assignment.ID, 1, "first.txt", []byte("unchecked essay"))

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/submissions/%d/report", target.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmissionEndpointRejectsUnsupportedFormat(t *testing.T) {
	app := setupCheckApp(t)
	assignment := createAssignment(t, app, 30)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("assignment_id", strconv.FormatUint(uint64(assignment.ID), 10)))
	require.NoError(t, writer.WriteField("student_id", "1"))
	part, err := writer.CreateFormFile("file", "essay.odt")
	require.NoError(t, err)
	_, err = part.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/submissions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
