// Package cache keeps anonymous catalog reads (menu, categories) in Redis.
// Keys carry a generation number; a catalog change bumps the generation so
// every older entry becomes unreachable and ages out with its TTL.
package cache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	defaultPrefix = "pos:catalog"
	maxBodyBytes  = 1 << 20
	cacheHeader   = "X-Cache"
)

// Catalog is a response cache for catalog GET routes. A nil *redis.Client
// turns every method into a no-op.
type Catalog struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewCatalog(rdb *redis.Client, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{rdb: rdb, ttl: ttl, prefix: defaultPrefix}
}

func (c *Catalog) Enabled() bool { return c != nil && c.rdb != nil }

// captureWriter copies the response body while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.buf.Len() < maxBodyBytes {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	if w.buf.Len() < maxBodyBytes {
		w.buf.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves cached 200 responses for GET requests and stores fresh
// ones. Authenticated callers bypass the cache entirely.
func (c *Catalog) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !c.Enabled() || ctx.Request.Method != http.MethodGet || hasCredential(ctx) {
			ctx.Next()
			return
		}

		// The generation is read before the handler touches the database, so a
		// response built from pre-write data is stored under the old generation.
		gen, err := c.generation(ctx.Request.Context())
		if err != nil {
			logrus.WithError(err).Debug("catalog cache generation read failed")
			ctx.Next()
			return
		}
		key := c.key(ctx, gen)
		if raw, err := c.rdb.Get(ctx.Request.Context(), key).Bytes(); err == nil {
			if status, header, body, ok := decodePayload(raw); ok {
				for k, vs := range header {
					for _, v := range vs {
						ctx.Writer.Header().Add(k, v)
					}
				}
				ctx.Header(cacheHeader, "HIT")
				ctx.Data(status, header.Get("Content-Type"), body)
				ctx.Abort()
				return
			}
		} else if err != redis.Nil {
			logrus.WithError(err).Debug("catalog cache read failed")
		}

		cw := &captureWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = cw
		ctx.Header(cacheHeader, "MISS")
		ctx.Next()

		if cw.Status() != http.StatusOK || cw.buf.Len() >= maxBodyBytes {
			return
		}
		header := http.Header{"Content-Type": []string{cw.Header().Get("Content-Type")}}
		payload, err := encodePayload(cw.Status(), header, cw.buf.Bytes())
		if err != nil {
			return
		}
		if err := c.rdb.Set(ctx.Request.Context(), key, payload, c.ttl).Err(); err != nil {
			logrus.WithError(err).Debug("catalog cache write failed")
		}
	}
}

// Invalidate makes every cached catalog response unreachable.
func (c *Catalog) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, c.generationKey()).Err(); err != nil {
		logrus.WithError(err).Warn("catalog cache invalidation failed")
	}
}

func (c *Catalog) generationKey() string { return c.prefix + ":gen" }

func (c *Catalog) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.generationKey()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *Catalog) key(ctx *gin.Context, gen int64) string {
	sum := sha1.Sum([]byte(ctx.FullPath() + "?" + ctx.Request.URL.Path + "?" + ctx.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%d:%x", c.prefix, gen, sum[:])
}

func hasCredential(ctx *gin.Context) bool {
	if ctx.GetHeader("Authorization") != "" {
		return true
	}
	_, err := ctx.Cookie("access_token")
	return err == nil
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}
