package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDIsValid(t *testing.T) {
	id := NewRequestID()
	if !ValidRequestID(id) {
		t.Fatalf("expected fresh id %q to be valid", id)
	}
	if other := NewRequestID(); other == id {
		t.Fatalf("expected distinct ids, got %q twice", id)
	}
}

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "uuid", id: uuid.New().String(), want: true},
		{name: "empty", id: "", want: false},
		{name: "free text", id: "req-123", want: false},
		{name: "log injection", id: "abc\n{\"level\":\"error\"}", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidRequestID(tc.id); got != tc.want {
				t.Fatalf("id %q: expected %t, got %t", tc.id, tc.want, got)
			}
		})
	}
}

func TestRequestIDFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "round trip", ctx: ContextWithRequestID(context.Background(), "abc-123"), want: "abc-123"},
		{name: "missing", ctx: context.Background(), want: ""},
		{name: "wrong type", ctx: context.WithValue(context.Background(), RequestIDKey, 42), want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RequestIDFromContext(tc.ctx); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
