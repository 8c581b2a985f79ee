package paginate

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec(10, time.Minute, time.Minute)

	token := c.NewCursor("user42", "2024-01-15")
	if token == "" {
		t.Fatal("empty token")
	}

	cur := c.Decode(token)
	if cur == nil {
		t.Fatal("decode returned nil")
	}
	if cur.Value != "user42" || cur.SortValue != "2024-01-15" {
		t.Errorf("cursor = %+v, want user42 / 2024-01-15", cur)
	}
	if cur.Timestamp <= 0 {
		t.Errorf("timestamp = %d, want > 0", cur.Timestamp)
	}
}

func TestCodec_DecodeMalformed(t *testing.T) {
	c := NewCodec(10, time.Minute, time.Minute)

	for _, token := range []string{"", "!!!not-base64!!!", base64.RawURLEncoding.EncodeToString([]byte("not json"))} {
		if cur := c.Decode(token); cur != nil {
			t.Errorf("Decode(%q) = %+v, want nil", token, cur)
		}
	}
}

func TestCodec_DecodeStdEncodingFallback(t *testing.T) {
	c := NewCodec(10, time.Minute, time.Minute)

	payload := []byte(`{"value":"user1","sortValue":"a","timestamp":1}`)
	token := base64.StdEncoding.EncodeToString(payload)

	cur := c.Decode(token)
	if cur == nil || cur.Value != "user1" {
		t.Fatalf("std-encoded token not decoded: %+v", cur)
	}
}

func TestCodec_Expired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c := NewCodec(10, time.Minute, 5*time.Minute).WithClock(func() time.Time { return now })

	fresh := &Cursor{Timestamp: now.Add(-time.Minute).UnixMilli()}
	if c.Expired(fresh) {
		t.Error("fresh cursor reported expired")
	}

	stale := &Cursor{Timestamp: now.Add(-10 * time.Minute).UnixMilli()}
	if !c.Expired(stale) {
		t.Error("stale cursor not reported expired")
	}

	// Cursors without a timestamp never expire.
	if c.Expired(&Cursor{}) || c.Expired(nil) {
		t.Error("zero-timestamp cursor reported expired")
	}
}
