package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"kairooms/internal/auth"
	"kairooms/internal/users/service"
	apperrors "kairooms/pkg/errors"
	"kairooms/pkg/logger"
	"kairooms/pkg/model"
	"kairooms/pkg/token"
)

type mockUserService struct {
	service.UserService
	registerFn     func(ctx context.Context, reg *model.Registration) (*model.User, error)
	loginFn        func(ctx context.Context, creds *model.Credentials) (string, *model.User, error)
	uploadAvatarFn func(ctx context.Context, actor *model.User, userID, ext string, image io.Reader) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, reg *model.Registration) (*model.User, error) {
	return m.registerFn(ctx, reg)
}

func (m *mockUserService) Login(ctx context.Context, creds *model.Credentials) (string, *model.User, error) {
	return m.loginFn(ctx, creds)
}

func (m *mockUserService) UploadAvatar(ctx context.Context, actor *model.User, userID, ext string, image io.Reader) (*model.User, error) {
	return m.uploadAvatarFn(ctx, actor, userID, ext, image)
}

type staticLoader struct {
	user *model.User
}

func (l *staticLoader) FindByID(context.Context, string) (*model.User, error) {
	if l.user == nil {
		return nil, context.Canceled
	}
	return l.user, nil
}

func setupRouter(svc service.UserService, current *model.User) (*httprouter.Router, string) {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	issuer := token.NewIssuer("test-secret", time.Hour)
	middleware := auth.NewMiddleware(issuer, &staticLoader{user: current}, log)

	router := httprouter.New()
	NewUserHandler(svc, middleware, log).RegisterRoutes(router)

	bearer := ""
	if current != nil {
		bearer, _ = issuer.Generate(current.ID, current.Email)
	}
	return router, bearer
}

func TestRegisterReturns201(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, reg *model.Registration) (*model.User, error) {
			return &model.User{ID: "68b000000000000000000001", Name: reg.Name, Email: reg.Email}, nil
		},
	}
	router, _ := setupRouter(svc, nil)

	payload := `{"name":"Dana","email":"dana@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must never echo password material")
	}
}

func TestRegisterConflictReturns409(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, reg *model.Registration) (*model.User, error) {
			return nil, apperrors.Conflict("An account with this email already exists")
		},
	}
	router, _ := setupRouter(svc, nil)

	payload := `{"name":"Dana","email":"dana@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	svc := &mockUserService{
		loginFn: func(ctx context.Context, creds *model.Credentials) (string, *model.User, error) {
			return "signed-token", &model.User{ID: "68b000000000000000000001", Email: creds.Email}, nil
		},
	}
	router, _ := setupRouter(svc, nil)

	payload := `{"email":"dana@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"token":"signed-token"`) || !strings.Contains(body, `"user"`) {
		t.Errorf("login body must carry token and user, got %s", body)
	}
}

func TestProfileRequiresAuth(t *testing.T) {
	current := &model.User{ID: "68b000000000000000000001", Email: "dana@example.com"}
	router, bearer := setupRouter(&mockUserService{}, current)

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a token, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "dana@example.com") {
		t.Error("profile must return the current user")
	}
}

func TestUploadAvatarMultipart(t *testing.T) {
	current := &model.User{ID: "68b000000000000000000001", Email: "dana@example.com"}
	var gotExt string
	svc := &mockUserService{
		uploadAvatarFn: func(ctx context.Context, actor *model.User, userID, ext string, image io.Reader) (*model.User, error) {
			gotExt = ext
			u := *actor
			u.Avatar = "/uploads/avatar.png"
			return &u, nil
		},
	}
	router, bearer := setupRouter(svc, current)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("avatar", "me.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatal(err)
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/users/upload-avatar/"+current.ID, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotExt != ".png" {
		t.Errorf("extension passed to service = %q, want .png", gotExt)
	}
}

func TestUploadAvatarMissingFile(t *testing.T) {
	current := &model.User{ID: "68b000000000000000000001", Email: "dana@example.com"}
	router, bearer := setupRouter(&mockUserService{}, current)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.WriteField("unrelated", "value")
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/users/upload-avatar/"+current.ID, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
