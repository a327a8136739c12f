package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
	serviceMocks "docvault/internal/service/mocks"
)

var (
	clientActor  = model.Actor{ID: "user-a", Username: "alice", Role: model.RoleClient}
	managerActor = model.Actor{ID: "user-m", Username: "mallory", Role: model.RoleManager}
)

// asActor injects an already-resolved actor, standing in for the auth
// middleware in handler tests.
func asActor(actor model.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.ActorLocalKey, actor)
		return c.Next()
	}
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/auth/register", Register(mockSvc))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, service.RegisterInput{
			Username:        "alice",
			Email:           "alice@example.com",
			Password:        "hunter22",
			PasswordConfirm: "hunter22",
		}).Return(&model.User{ID: "user-a", Username: "alice"}, nil).Once()

		resp := post(`{"username":"alice","email":"alice@example.com","password":"hunter22","password_confirm":"hunter22"}`)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "User created", body["message"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("field errors keep their field-keyed shape", func(t *testing.T) {
		fe := service.FieldErrors{}
		fe.Add("password_confirm", "Passwords do not match")
		mockSvc.On("Register", mock.Anything, mock.Anything).Return(nil, fe).Once()

		resp := post(`{"username":"alice","email":"a@b.c","password":"x","password_confirm":"y"}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string][]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, []string{"Passwords do not match"}, body["password_confirm"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing fields report detail as a bare string", func(t *testing.T) {
		fe := service.FieldErrors{}
		fe.Add("detail", "Fill all fields")
		mockSvc.On("Register", mock.Anything, mock.Anything).Return(nil, fe).Once()

		resp := post(`{"username":"alice"}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Fill all fields", body["detail"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := post(`{not json`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_BODY", body.Error.Code)
	})
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/auth/login", Login(mockSvc))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "alice", "hunter22").Return(&service.LoginResult{
			AccessToken:  "access-jwt",
			RefreshToken: "refresh-opaque",
			User:         service.UserSummary{ID: "user-a", Username: "alice"},
		}, nil).Once()

		resp := post(`{"username":"alice","password":"hunter22"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body service.LoginResult
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "access-jwt", body.AccessToken)
		assert.Equal(t, "refresh-opaque", body.RefreshToken)
		assert.Equal(t, "alice", body.User.Username)
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "alice", "wrong").Return(nil, service.ErrInvalidCredentials).Once()

		resp := post(`{"username":"alice","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestRefreshToken(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/token/refresh", RefreshToken(mockSvc))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/token/refresh", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Refresh", mock.Anything, "old-refresh").Return(&service.TokenPair{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
		}, nil).Once()

		resp := post(`{"refresh":"old-refresh"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body service.TokenPair
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "new-access", body.AccessToken)
		assert.Equal(t, "new-refresh", body.RefreshToken)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockSvc.On("Refresh", mock.Anything, "bogus").Return(nil, service.ErrInvalidToken).Once()

		resp := post(`{"refresh":"bogus"}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_TOKEN", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestVerifyPassword(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/verify-password", asActor(clientActor), VerifyPassword(mockSvc))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/verify-password", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("verified", func(t *testing.T) {
		mockSvc.On("VerifyPassword", mock.Anything, clientActor.ID, "hunter22").Return(true, nil).Once()

		resp := post(`{"password":"hunter22"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]bool
		json.NewDecoder(resp.Body).Decode(&body)
		assert.True(t, body["verified"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockSvc.On("VerifyPassword", mock.Anything, clientActor.ID, "wrong").Return(false, nil).Once()

		resp := post(`{"password":"wrong"}`)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var body map[string]bool
		json.NewDecoder(resp.Body).Decode(&body)
		assert.False(t, body["verified"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("no password provided", func(t *testing.T) {
		resp := post(`{}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, false, body["verified"])
		assert.Equal(t, "No password provided", body["error"])
	})
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents", asActor(managerActor), ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, managerActor).Return([]service.DocumentView{
			{ID: uuid.New().String(), Title: "Report", Owner: "alice"},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []service.DocumentView
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 1)
		assert.Equal(t, "Report", result[0].Title)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, managerActor).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents", asActor(clientActor), UploadDocument(mockSvc))

	multipartBody := func(withFile bool) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("title", "Quarterly report")
		writer.WriteField("department", "Finance")
		if withFile {
			part, _ := writer.CreateFormFile("file_doc", "report.pdf")
			part.Write([]byte("hello world"))
		}
		writer.Close()
		return body, writer.FormDataContentType()
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, clientActor, mock.MatchedBy(func(in service.CreateDocumentInput) bool {
			return in.Title == "Quarterly report" &&
				in.Department == "Finance" &&
				in.Filename == "report.pdf" &&
				in.File != nil
		})).Return(&service.DocumentView{ID: "doc-new", Title: "Quarterly report"}, nil).Once()

		body, contentType := multipartBody(true)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result service.DocumentView
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "doc-new", result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file reports a field error", func(t *testing.T) {
		fe := service.FieldErrors{}
		fe.Add("file_doc", "No file was submitted")
		mockSvc.On("Create", mock.Anything, clientActor, mock.MatchedBy(func(in service.CreateDocumentInput) bool {
			return in.File == nil
		})).Return(nil, fe).Once()

		body, contentType := multipartBody(false)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var result map[string][]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, []string{"No file was submitted"}, result["file_doc"])
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", asActor(clientActor), GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, clientActor, id).Return(&service.DocumentView{ID: id, Title: "Report"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentView
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, clientActor, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("forbidden", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, clientActor, id).Return(nil, service.ErrPermissionDenied).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "PERMISSION_DENIED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unparsable id reads as not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/documents/:id", asActor(clientActor), DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, clientActor, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Deleted", body["message"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, clientActor, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("forbidden", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, clientActor, id).Return(service.ErrPermissionDenied).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestSignDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockSignatureService)
	app := fiber.New()
	app.Post("/documents/:id/sign", asActor(managerActor), SignDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Sign", mock.Anything, managerActor, id).Return(&model.Signature{ID: "sig-1", DocumentID: id}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/sign", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Signed successfully", body["message"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not a manager", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Sign", mock.Anything, managerActor, id).Return(nil, service.ErrPermissionDenied).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/sign", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "PERMISSION_DENIED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("already signed", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Sign", mock.Anything, managerActor, id).Return(nil, service.ErrAlreadySigned).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/sign", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "ALREADY_SIGNED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("document not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Sign", mock.Anything, managerActor, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/sign", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unparsable id reads as not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents/not-a-uuid/sign", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id/download", asActor(clientActor), DownloadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		doc := &model.Document{
			ID:          id,
			Filename:    "abc.pdf",
			ContentType: "application/pdf",
			Size:        11,
		}
		mockSvc.On("Download", mock.Anything, clientActor, id).
			Return(io.NopCloser(strings.NewReader("hello world")), doc, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, `attachment; filename="abc.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))

		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "hello world", string(data))
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Download", mock.Anything, clientActor, id).Return(nil, nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	passthrough := func(c *fiber.Ctx) error { return c.Next() }
	RegisterRoutes(app, nil, passthrough,
		new(serviceMocks.MockAuthService),
		new(serviceMocks.MockDocumentService),
		new(serviceMocks.MockSignatureService))

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		// Fiber returns 405 by default if route exists but method doesn't match
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
