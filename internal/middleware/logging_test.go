package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLoggerAddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	InitLogger("production", &buf)
	defer InitLogger(os.Getenv("APP_ENV"), os.Stdout)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	app.Get("/ping", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(42))
		EnrichUserContext(c)
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "request processed", entry["msg"])
	assert.Equal(t, float64(200), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
	assert.Equal(t, float64(42), entry["user_id"])
}

func TestLoggerWithAttrsKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	InitLogger("production", &buf)
	defer InitLogger(os.Getenv("APP_ENV"), os.Stdout)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	Logger.With("component", "test").InfoContext(ctx, "hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "test", entry["component"])
}
