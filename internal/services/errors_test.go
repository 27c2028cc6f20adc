package services_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"studypulse/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "emotion", "classify", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"emotion", "classify", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrValidation, "voice", "decode", "bad json", nil), http.StatusBadRequest},
		{fmt.Errorf("outer: %w", services.ErrUnprocessable), http.StatusUnprocessableEntity},
		{services.Wrap(services.ErrNotImplemented, "voice", "transcribe", "", nil), http.StatusNotImplemented},
		{services.Wrap(services.ErrExternalTool, "emotion", "classify", "", errors.New("io")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMarkKeepsMessageAndMarker(t *testing.T) {
	sentinel := services.Mark(services.ErrUnprocessable, "no face detected")
	if sentinel.Error() != "no face detected" {
		t.Fatalf("unexpected message %q", sentinel.Error())
	}
	wrapped := fmt.Errorf("classify: %w", sentinel)
	if !errors.Is(wrapped, sentinel) || !errors.Is(wrapped, services.ErrUnprocessable) {
		t.Fatalf("expected wrapped error to match sentinel and marker")
	}
	if errors.Is(sentinel, services.ErrValidation) {
		t.Fatal("unexpected match on a different marker")
	}
}
