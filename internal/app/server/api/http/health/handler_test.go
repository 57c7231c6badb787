package health

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"github.com/danielgtaylor/huma/v2"
)

func TestHandler_healthCheck(t *testing.T) {
	// Arrange
	handler := NewHandler(slog.Default(), huma.Middlewares{})

	// Act
	output, err := handler.healthCheck(context.Background(), &Input{})

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "OK", output.Body.Status)
}

func TestHandler_healthCheckOp(t *testing.T) {
	// Arrange
	handler := NewHandler(slog.Default(), huma.Middlewares{})

	// Act
	op := handler.healthCheckOp()

	// Assert
	assert.Equal(t, http.MethodGet, op.Method)
	assert.Equal(t, "/healthz", op.Path)
	assert.Empty(t, op.Security, "health endpoint must stay reachable without a session")
}

func TestNewHandler(t *testing.T) {
	// Arrange
	log := slog.Default()
	middleware := huma.Middlewares{}

	// Act
	handler := NewHandler(log, middleware)

	// Assert
	assert.NotNil(t, handler)
	assert.NotNil(t, handler.log)
	assert.NotNil(t, handler.middleware)
}
