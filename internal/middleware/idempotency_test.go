package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const idempCacheKey = "idemp:/scan:192.0.2.1:key-1"

func newIdempotencyRouter(t *testing.T, calls *int) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/scan", middleware.Idempotency(rdb), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r, mock
}

func idempotentRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/scan", nil)
	req.Header.Set(middleware.IdempotencyHeader, "key-1")
	return req
}

func TestIdempotency(t *testing.T) {
	t.Run("first request stores response", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotencyRouter(t, &calls)

		mock.ExpectGet(idempCacheKey).RedisNil()
		mock.ExpectSetNX(idempCacheKey+":lock", "locked", 30*time.Second).SetVal(true)
		mock.Regexp().ExpectSet(idempCacheKey, `.*`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(idempCacheKey + ":lock").SetVal(1)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat replays cached response", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotencyRouter(t, &calls)

		mock.ExpectGet(idempCacheKey).SetVal(`{"status":201,"body":{"ok":true}}`)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replay"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate conflicts", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotencyRouter(t, &calls)

		mock.ExpectGet(idempCacheKey).RedisNil()
		mock.ExpectSetNX(idempCacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest())

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.Equal(t, 0, calls)
	})

	t.Run("redis down passes through", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotencyRouter(t, &calls)

		mock.ExpectGet(idempCacheKey).SetErr(errors.New("connection refused"))
		mock.ExpectSetNX(idempCacheKey+":lock", "locked", 30*time.Second).SetErr(errors.New("connection refused"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, idempotentRequest())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("no header skips redis", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotencyRouter(t, &calls)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
