package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	signed, err := GenerateJWT(NewClaims("ops@example.com", time.Hour), "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.ParseWithClaims(signed, new(JWTCustomClaims), func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims := token.Claims.(*JWTCustomClaims)
	if claims.Operator != "ops@example.com" || claims.Subject != "ops@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestGetClaims(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, apiErr := GetClaims(c); apiErr == nil || apiErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %v", apiErr)
	}

	c.Set("user", &jwt.Token{Claims: NewClaims("ops@example.com", time.Hour)})
	claims, apiErr := GetClaims(c)
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}
	if claims.Operator != "ops@example.com" {
		t.Errorf("unexpected operator %q", claims.Operator)
	}
}
