package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"local", "dev", "docker", "prod"} {
		if _, err := New(env, ""); err != nil {
			t.Errorf("New(%q): %v", env, err)
		}
	}

	if _, err := New("staging", ""); err == nil {
		t.Error("unknown environment accepted")
	}
	if _, err := New("prod", "verbose"); err == nil {
		t.Error("invalid level accepted")
	}
	if _, err := New("prod", "debug"); err != nil {
		t.Errorf("New(prod, debug): %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := zap.NewNop()
	ctx := WithContext(context.Background(), l)

	if got := FromContext(ctx); got != l {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext without a logger returned nil")
	}
}
