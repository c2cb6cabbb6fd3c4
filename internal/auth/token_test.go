package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueThenVerifyReturnsClaims(t *testing.T) {
	issuedAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", 0).WithClock(fixedClock(issuedAt))

	token, expiresAt, err := tm.Issue(map[string]any{"sub": "1", "username": "demo.tech", "role": "technician"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(issuedAt.Add(24 * time.Hour)) {
		t.Fatalf("expiry = %v, want 24h after issuance", expiresAt)
	}

	claims, ok := tm.Verify(token)
	if !ok {
		t.Fatal("expected fresh token to verify")
	}
	if claims["sub"] != "1" || claims["username"] != "demo.tech" || claims["role"] != "technician" {
		t.Fatalf("claims not preserved: %v", claims)
	}
	if exp, _ := claims["exp"].(float64); int64(exp) != expiresAt.Unix() {
		t.Fatalf("exp = %v, want %d", claims["exp"], expiresAt.Unix())
	}
}

func TestIssueDoesNotMutateInput(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	in := map[string]any{"sub": "1"}
	if _, _, err := tm.Issue(in); err != nil {
		t.Fatal(err)
	}
	if len(in) != 1 {
		t.Fatalf("input claims modified: %v", in)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	issuer := NewTokenManager("secret", 24*time.Hour).WithClock(fixedClock(issuedAt))
	token, _, err := issuer.Issue(map[string]any{"sub": "1"})
	if err != nil {
		t.Fatal(err)
	}

	later := issuer.WithClock(fixedClock(issuedAt.Add(25 * time.Hour)))
	if _, ok := later.Verify(token); ok {
		t.Fatal("expected token older than 24h to be rejected")
	}
	almost := issuer.WithClock(fixedClock(issuedAt.Add(23 * time.Hour)))
	if _, ok := almost.Verify(token); !ok {
		t.Fatal("expected token inside its lifetime to verify")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	for _, input := range []string{"", "abc", "a.b.c", "....", "eyJhbGciOiJIUzI1NiJ9.e30.", "\x00\xff"} {
		if _, ok := tm.Verify(input); ok {
			t.Errorf("Verify(%q) unexpectedly succeeded", input)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Hour).Issue(map[string]any{"sub": "1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := NewTokenManager("two", time.Hour).Verify(token); ok {
		t.Fatal("expected signature mismatch to be rejected")
	}
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := NewTokenManager("secret", time.Hour).Verify(token); ok {
		t.Fatal("expected token without exp to be rejected")
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := NewTokenManager("secret", time.Hour).Verify(token); ok {
		t.Fatal("expected HS512 token to be rejected")
	}
}

func TestPrincipalFromClaims(t *testing.T) {
	p, ok := PrincipalFromClaims(map[string]any{"sub": "7", "role": "technician", "username": "x"})
	if !ok || p.TechnicianID != 7 || p.Role != "technician" || p.Username != "x" {
		t.Fatalf("unexpected principal %+v", p)
	}
	if p, ok := PrincipalFromClaims(map[string]any{"sub": float64(3)}); !ok || p.TechnicianID != 3 {
		t.Fatalf("numeric sub not accepted: %+v", p)
	}
	for _, claims := range []map[string]any{{}, {"sub": "abc"}, {"sub": "0"}, {"sub": true}} {
		if _, ok := PrincipalFromClaims(claims); ok {
			t.Errorf("expected %v to be rejected", claims)
		}
	}
}

func newAuthApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"detail": domainErr.Message})
	}})
	mw := NewAuthMiddleware(tm)
	app.Get("/me", mw.Handle, RequireRole("technician"), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": p.TechnicianID})
	})
	return app
}

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	app := newAuthApp(tm)

	good, _, _ := tm.Issue(map[string]any{"sub": "1", "role": "technician"})
	noRole, _, _ := tm.Issue(map[string]any{"sub": "1"})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"garbage", "Bearer nope", fiber.StatusUnauthorized},
		{"no role", "Bearer " + noRole, fiber.StatusForbidden},
		{"valid", "Bearer " + good, fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if resp.StatusCode != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}
}

func TestCredentials(t *testing.T) {
	creds, err := NewCredentials("demo.tech", "password123", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !creds.Match("demo.tech", "password123") {
		t.Fatal("expected correct credentials to match")
	}
	if creds.Match("demo.tech", "wrong") || creds.Match("other", "password123") {
		t.Fatal("expected wrong credentials to fail")
	}
}
