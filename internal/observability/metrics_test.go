package observability

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsNilIsSafe(t *testing.T) {
	t.Parallel()
	var m *Metrics
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.ObserveEditorAction("add-section", "changed")
	m.ObserveSave("ok", time.Millisecond)
	m.SetEditorSessions(3)
	m.SSEClientConnected()

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestMetricsCounters(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	route := "/api/funnels/:id/editor/actions"
	m.ObserveAPI("POST", route, 200, 20*time.Millisecond)
	m.ObserveAPI("POST", route, 500, time.Second)
	m.ObserveAPI("", "", 404, time.Millisecond)
	m.ObserveEditorAction("drop", "rejected")
	m.ObserveEditorAction("drop", "rejected")
	m.SetEditorSessions(2)
	m.SSEClientConnected()
	m.SSEClientConnected()
	m.SSEClientDisconnected()

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"ok requests", testutil.ToFloat64(m.apiRequests.WithLabelValues("POST", route, "200")), 1},
		{"unknown route", testutil.ToFloat64(m.apiRequests.WithLabelValues("UNKNOWN", "unknown", "404")), 1},
		{"server errors", testutil.ToFloat64(m.apiErrors), 1},
		{"rejected drops", testutil.ToFloat64(m.editorActions.WithLabelValues("drop", "rejected")), 2},
		{"sessions", testutil.ToFloat64(m.editorSessions), 2},
		{"sse clients", testutil.ToFloat64(m.sseClients), 1},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, tc.got, tc.want)
		}
	}
}

func TestMetricsExposition(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.ObserveSave("ok", 30*time.Millisecond)
	m.recordDBStats(sql.DBStats{OpenConnections: 4, InUse: 1, Idle: 3})

	srv := httptest.NewServer(http.HandlerFunc(m.WriteHTTP))
	defer srv.Close()
	res, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(body)
	for _, want := range []string{
		`fb_layout_saves_total{status="ok"} 1`,
		`fb_layout_save_duration_seconds_bucket{status="ok",le="0.05"} 1`,
		`fb_db_pool{stat="open_connections"} 4`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
