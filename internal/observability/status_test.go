package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/danmuck/cdrdecode/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatusServerRoutes(t *testing.T) {
	testlog.Start(t)
	progress := NewProgress()
	progress.SetTotal(2)
	progress.FileDone(true, 10)
	srv := NewStatusServer("127.0.0.1:0", nil, progress)

	rec := get(t, srv.Handler(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}

	rec = get(t, srv.Handler(), "/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}
	var body struct {
		Ready    bool             `json:"ready"`
		Complete bool             `json:"complete"`
		Progress ProgressSnapshot `json:"progress"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if !body.Ready || body.Complete || body.Progress.Done != 1 || body.Progress.Records != 10 {
		t.Fatalf("unexpected ready body: %+v", body)
	}

	progress.FileDone(false, 0)
	if snap := progress.Snapshot(); snap.Failed != 1 || snap.Done != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	rec = get(t, srv.Handler(), "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "cdrdecode_http_requests_total") {
		t.Fatalf("metrics endpoint missing http counters: %d", rec.Code)
	}
}
