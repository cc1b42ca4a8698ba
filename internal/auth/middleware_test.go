package auth

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"communityexpress-backend/internal/config"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestIsLoopback(t *testing.T) {
	loopback := []string{"127.0.0.1", "::1", "localhost"}
	for _, addr := range loopback {
		if !IsLoopback(addr) {
			t.Errorf("IsLoopback(%q) = false, want true", addr)
		}
	}

	remote := []string{"", "10.0.0.5", "192.168.1.20", "203.0.113.7", "127.0.0.2", "example.com", "::2"}
	for _, addr := range remote {
		if IsLoopback(addr) {
			t.Errorf("IsLoopback(%q) = true, want false", addr)
		}
	}
}

// The test app resolves the client address from a proxy header so requests
// can claim different origins; production runs without a proxy header and
// uses the socket address directly.
func newBypassTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ProxyHeader: "X-Forwarded-For"})
	app.Use(AuthMiddleware(cfg))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"role": actor.Role})
	})
	return app
}

func TestAuthMiddlewareTestingBypass(t *testing.T) {
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef", EnableTestingBypass: true}
	app := newBypassTestApp(cfg)

	// Loopback origin with the header gets the synthetic master identity.
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Testing", "true")
	req.Header.Set("X-Forwarded-For", "127.0.0.1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("loopback bypass: got status %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var body struct {
		Role models.UserRole `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if body.Role != models.RoleMaster {
		t.Errorf("bypass role = %q, want %q", body.Role, models.RoleMaster)
	}
}

func TestAuthMiddlewareBypassRejectedForRemoteOrigin(t *testing.T) {
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef", EnableTestingBypass: true}
	app := newBypassTestApp(cfg)

	// Identical header from a non-loopback origin must stay unauthorized.
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Testing", "true")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("remote bypass attempt: got status %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestAuthMiddlewareBypassDisabledByDefault(t *testing.T) {
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	app := newBypassTestApp(cfg)

	// Even from loopback the header means nothing unless config enables it.
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Testing", "true")
	req.Header.Set("X-Forwarded-For", "127.0.0.1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("bypass while disabled: got status %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}

	// And without any headers at all the gate stays closed too.
	resp, err = app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("no credentials: got status %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}
