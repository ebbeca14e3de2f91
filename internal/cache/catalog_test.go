package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCachePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCatalog(nil, 0)
	assert.False(t, c.Enabled())

	calls := 0
	r := gin.New()
	r.GET("/menu-items", c.Middleware(), func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"n": calls})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu-items", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get(cacheHeader))
	}
	assert.Equal(t, 2, calls)

	c.Invalidate(context.Background())
}

func TestPayloadRoundTrip(t *testing.T) {
	header := http.Header{"Content-Type": []string{"application/json; charset=utf-8"}}
	raw, err := encodePayload(http.StatusOK, header, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, gotHeader, body, ok := decodePayload(raw)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json; charset=utf-8", gotHeader.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func newRedisCatalog(t *testing.T) *Catalog {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCatalog(rdb, time.Minute)
}

func get(r *gin.Engine, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCacheHitAndInvalidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newRedisCatalog(t)
	require.True(t, c.Enabled())

	calls := 0
	r := gin.New()
	r.GET("/menu-items", c.Middleware(), func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"n": calls})
	})

	w := get(r, "/menu-items")
	assert.Equal(t, "MISS", w.Header().Get(cacheHeader))
	w = get(r, "/menu-items")
	assert.Equal(t, "HIT", w.Header().Get(cacheHeader))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
	assert.Equal(t, 1, calls)

	w = get(r, "/menu-items?available_only=true")
	assert.Equal(t, "MISS", w.Header().Get(cacheHeader))

	c.Invalidate(context.Background())
	w = get(r, "/menu-items")
	assert.Equal(t, "MISS", w.Header().Get(cacheHeader))
	assert.JSONEq(t, `{"n":3}`, w.Body.String())

	w = get(r, "/menu-items", "Authorization", "Bearer x")
	assert.Empty(t, w.Header().Get(cacheHeader))
	assert.Equal(t, 4, calls)
}

func TestWriteDuringReadIsNotServedStale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newRedisCatalog(t)

	calls := 0
	r := gin.New()
	r.GET("/categories", c.Middleware(), func(ctx *gin.Context) {
		calls++
		body := gin.H{"n": calls}
		if calls == 1 {
			// a catalog write commits after this handler read the old rows
			c.Invalidate(ctx.Request.Context())
		}
		ctx.JSON(http.StatusOK, body)
	})

	get(r, "/categories")
	w := get(r, "/categories")
	assert.Equal(t, "MISS", w.Header().Get(cacheHeader))
	assert.JSONEq(t, `{"n":2}`, w.Body.String())

	w = get(r, "/categories")
	assert.Equal(t, "HIT", w.Header().Get(cacheHeader))
	assert.Equal(t, 2, calls)
}
