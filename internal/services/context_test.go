package services_test

import (
	"context"
	"testing"

	"studypulse/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAnalysisKind(ctx, "voice")
	ctx = services.WithRequestID(ctx, "req-123")

	if kind, ok := services.AnalysisKindFromContext(ctx); !ok || kind != "voice" {
		t.Fatalf("unexpected kind: %v %v", kind, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAnalysisKind(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.AnalysisKindFromContext(ctx); ok {
		t.Fatal("expected no kind value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
}
