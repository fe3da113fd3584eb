package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-api/internal/domain"
	tokenrepo "storefront-api/internal/repository/token"
	userrepo "storefront-api/internal/repository/user"
	authsvc "storefront-api/internal/service/auth"
	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type memUserRepo struct {
	byEmail map[string]userrepo.User
}

func (r *memUserRepo) Create(_ context.Context, email, passwordHash, _ string) (*userrepo.User, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	u := userrepo.User{ID: "user-" + email, Email: email, PasswordHash: passwordHash}
	r.byEmail[email] = u
	clone := u
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*userrepo.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := u
	return &clone, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*userrepo.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func (r *memTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, exists := r.tokens[t.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[t.Token] = t
	return nil
}

func (r *memTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (r *memTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

// newAuthedRouter builds a router around a real auth service and returns a
// valid bearer token for one signed-up user.
func newAuthedRouter(t *testing.T, deps Deps) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := authsvc.New(
		&memUserRepo{byEmail: make(map[string]userrepo.User)},
		&memTokenRepo{tokens: make(map[string]tokenrepo.Token)},
	)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, authsvc.SignupInput{Email: "u@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, access, _, err := svc.Login(ctx, "u@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	deps.AuthSvc = svc
	return buildRouter(logDiscard(), nil, deps), access
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz_NoDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAuthedRoutes_RejectMissingToken(t *testing.T) {
	router, _ := newAuthedRouter(t, Deps{})

	for _, path := range []string{"/cart", "/orders", "/profile", "/chat/conversations"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	router, _ := newAuthedRouter(t, Deps{})

	for name, header := range map[string]string{
		"wrong scheme": "Basic abc123",
		"empty token":  "Bearer ",
		"unknown":      "Bearer not-a-real-token",
	} {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestAuthMiddleware_ResolvesUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lookup := stubLookup{userID: "user-42"}
	router := gin.New()
	router.GET("/whoami", authMiddleware(lookup), func(c *gin.Context) {
		c.String(http.StatusOK, currentUserID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user-42" {
		t.Fatalf("expected resolved user id, got %q", rec.Body.String())
	}
}

type stubLookup struct {
	userID string
}

func (s stubLookup) LookupByToken(context.Context, string) (string, error) {
	return s.userID, nil
}

func TestSignupAndLoginRoutes(t *testing.T) {
	router, _ := newAuthedRouter(t, Deps{})

	body := `{"email":"new@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"accessToken"`) {
		t.Fatalf("login response missing token: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"new@example.com","password":"WrongPass1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}
}
