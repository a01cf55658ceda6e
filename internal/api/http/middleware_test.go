package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wmachadoc/Abertura-de-tickets/internal/observability"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

func TestRequestTimeoutMiddlewareBoundsUserContext(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)

	var (
		hasDeadline bool
		remaining   time.Duration
	)
	app.Get("/deadline", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		hasDeadline = ok
		if ok {
			remaining = time.Until(deadline)
		}
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/deadline", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !hasDeadline {
		t.Fatal("handler context carries no deadline")
	}
	if remaining <= 0 || remaining > 5*time.Second {
		t.Fatalf("deadline %v away, want within the configured 5s", remaining)
	}
}

func TestErrorHandlingMiddlewareMapsDomainErrors(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("ticket", map[string]any{"id": "T0001"})
	})
	app.Get("/panics", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("code = %q", body.Error.Code)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/panics", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 after recovered panic", resp.StatusCode)
	}
}
