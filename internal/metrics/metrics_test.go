package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerServesStorageMetrics(t *testing.T) {
	RecordOperation("local", "write", 10*time.Millisecond, true)
	RecordOperation("s3", "put_object", 20*time.Millisecond, false)
	RecordUpload(42)
	RecordDownload(7)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"filedepot_storage_operations_total",
		"filedepot_storage_operation_duration_seconds",
		"filedepot_bytes_uploaded_total",
		"filedepot_bytes_downloaded_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
