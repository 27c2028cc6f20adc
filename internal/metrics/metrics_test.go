package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAnalysisOutcomes(t *testing.T) {
	okBefore := testutil.ToFloat64(AnalysesTotal.WithLabelValues("voice", "success"))
	errBefore := testutil.ToFloat64(AnalysesTotal.WithLabelValues("voice", "error"))

	RecordAnalysis("voice", nil, 10*time.Millisecond)
	RecordAnalysis("voice", errors.New("boom"), time.Millisecond)

	if got := testutil.ToFloat64(AnalysesTotal.WithLabelValues("voice", "success")); got != okBefore+1 {
		t.Fatalf("expected success counter to increase by 1, got %v -> %v", okBefore, got)
	}
	if got := testutil.ToFloat64(AnalysesTotal.WithLabelValues("voice", "error")); got != errBefore+1 {
		t.Fatalf("expected error counter to increase by 1, got %v -> %v", errBefore, got)
	}
}

func TestRecordHTTPRequestUsesStatusLabel(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/api/sessions", http.MethodGet, "200"))
	RecordHTTPRequest("/api/sessions", http.MethodGet, http.StatusOK, time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/api/sessions", http.MethodGet, "200")); got != before+1 {
		t.Fatalf("expected request counter to increase, got %v -> %v", before, got)
	}
}

func TestRecordSessionAndLabel(t *testing.T) {
	before := testutil.ToFloat64(SessionsRecordedTotal.WithLabelValues("files"))
	RecordSession("files")
	if got := testutil.ToFloat64(SessionsRecordedTotal.WithLabelValues("files")); got != before+1 {
		t.Fatalf("expected session counter to increase, got %v -> %v", before, got)
	}

	labelBefore := testutil.ToFloat64(LabelsTotal.WithLabelValues("emotion", "happy"))
	RecordLabel("emotion", "happy")
	if got := testutil.ToFloat64(LabelsTotal.WithLabelValues("emotion", "happy")); got != labelBefore+1 {
		t.Fatalf("expected label counter to increase, got %v -> %v", labelBefore, got)
	}
}
