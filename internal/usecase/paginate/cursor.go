package paginate

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/voca9204/findex/internal/cache"
)

// Cursor is the self-describing resume token: the cursor-field value of the
// anchor record, its sort-field value, and the issue timestamp. Decoding
// needs nothing but the encoded bytes; the decode cache below is purely a
// performance optimization.
type Cursor struct {
	Value     any   `json:"value"`
	SortValue any   `json:"sortValue"`
	Timestamp int64 `json:"timestamp"` // unix milliseconds
}

// Codec encodes and decodes cursors with a bounded TTL decode cache.
type Codec struct {
	decoded *cache.Cache[string, Cursor]
	maxAge  time.Duration
	now     func() time.Time
}

// Cursor codec defaults.
const (
	DefaultDecodeCacheSize = 1000
	DefaultDecodeCacheTTL  = 5 * time.Minute
	DefaultMaxAge          = 5 * time.Minute
)

// NewCodec creates a codec. maxAge bounds how old a cursor may be before
// ValidateCursor flags it; non-positive values fall back to the default.
func NewCodec(cacheSize int, cacheTTL, maxAge time.Duration) *Codec {
	if cacheSize <= 0 {
		cacheSize = DefaultDecodeCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultDecodeCacheTTL
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Codec{
		decoded: cache.New[string, Cursor](cacheSize, cacheTTL),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// WithClock replaces the expiry clock (tests).
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Encode serializes a cursor to an opaque base64 token.
func (c *Codec) Encode(cur Cursor) string {
	data, err := json.Marshal(cur)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// NewCursor builds and encodes a cursor for the given anchor values.
func (c *Codec) NewCursor(value, sortValue any) string {
	return c.Encode(Cursor{
		Value:     value,
		SortValue: sortValue,
		Timestamp: c.now().UnixMilli(),
	})
}

// Decode parses a cursor token. Malformed base64 or JSON yields nil — the
// caller then paginates from the beginning instead of failing.
func (c *Codec) Decode(token string) *Cursor {
	if token == "" {
		return nil
	}
	if cached, ok := c.decoded.Get(token); ok {
		return &cached
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// Tolerate std-encoded tokens from older clients.
		data, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return nil
		}
	}

	var cur Cursor
	if err := json.Unmarshal(data, &cur); err != nil {
		return nil
	}

	c.decoded.Set(token, cur)
	return &cur
}

// Expired reports whether the cursor's issue timestamp is older than the
// configured max age.
func (c *Codec) Expired(cur *Cursor) bool {
	if cur == nil || cur.Timestamp <= 0 {
		return false
	}
	issued := time.UnixMilli(cur.Timestamp)
	return c.now().Sub(issued) > c.maxAge
}
