package auth

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService("admin", "s3cret", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func newTestApp(s *Service) *fiber.App {
	h := NewHandler(s, nil)
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(s.Middleware())
	h.RegisterProtectedRoutes(app)
	return app
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)

	if err := s.Authenticate("admin", "s3cret"); err != nil {
		t.Fatalf("expected valid credentials, got %v", err)
	}
	if err := s.Authenticate("admin", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if err := s.Authenticate("root", "s3cret"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad username, got %v", err)
	}
}

func TestAuthenticate_AcceptsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s, err := NewService("admin", string(hash), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := s.Authenticate("admin", "hashed-pass"); err != nil {
		t.Fatalf("expected hash to be used as is, got %v", err)
	}
}

func TestAuthenticate_DisabledWithoutPassword(t *testing.T) {
	s, err := NewService("admin", "", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := s.Authenticate("admin", ""); err != ErrInvalidCredentials {
		t.Fatalf("expected sign-in to be disabled, got %v", err)
	}
}

func TestIssueToken_Claims(t *testing.T) {
	s := newTestService(t)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	signed, expires, err := s.IssueToken("admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expires)
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	tok, err := parser.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) { return testSecret, nil })
	if err != nil || !tok.Valid {
		t.Fatalf("parse token: %v", err)
	}
	if tok.Method.Alg() != "HS256" {
		t.Fatalf("unexpected alg %s", tok.Method.Alg())
	}
	if claims["sub"] != "admin" || claims["exp"] != float64(now.Add(time.Hour).Unix()) {
		t.Fatalf("unexpected claims %v", claims)
	}
}

func TestSignInAndProtectedRoute(t *testing.T) {
	app := newTestApp(newTestService(t))

	req := httptest.NewRequest("POST", "/api/auth/sign-in", strings.NewReader(`{"username":"admin","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("sign-in request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" {
		t.Fatalf("expected token in response")
	}

	meReq := httptest.NewRequest("GET", "/api/auth/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+body.Token)
	meRes, err := app.Test(meReq)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	if meRes.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with token, got %d", meRes.StatusCode)
	}
	var me map[string]string
	if err := json.NewDecoder(meRes.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me["username"] != "admin" {
		t.Fatalf("unexpected subject %v", me)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	app := newTestApp(newTestService(t))

	req := httptest.NewRequest("POST", "/api/auth/sign-in", strings.NewReader(`{"username":"admin","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("sign-in request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestMiddleware_RejectsMissingAndForgedTokens(t *testing.T) {
	app := newTestApp(newTestService(t))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	forgedSigned, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	for name, header := range map[string]string{
		"missing": "",
		"forged":  "Bearer " + forgedSigned,
		"garbage": "Bearer not-a-token",
	} {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", name, err)
		}
		if res.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, res.StatusCode)
		}
	}
}
