package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "estate/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := NewRequestIDMiddleware(logger)

	t.Run("generates an id and installs the scoped logger", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var scoped *slog.Logger
		err := mw.Process(func(c echo.Context) error {
			scoped = deliverycontext.GetLoggerOrDefault(c.Request().Context(), fallback)

			return c.NoContent(http.StatusOK)
		})(c)
		require.NoError(t, err)

		assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.NotSame(t, fallback, scoped, "downstream must see the request-scoped logger, not the fallback")
	})

	t.Run("reuses the client-supplied id", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "req-42")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw.Process(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c)
		require.NoError(t, err)

		assert.Equal(t, "req-42", rec.Header().Get(deliverycontext.HeaderXRequestID))
	})

	t.Run("context without a logger falls back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		got := deliverycontext.GetLoggerOrDefault(req.Context(), fallback)
		assert.Same(t, fallback, got)
	})
}
