package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRun(t *testing.T) {
	m := New()

	m.RecordRun("published", time.Second, "")
	m.RecordRun("no_candidate", time.Millisecond, "")
	m.RecordRun("published", time.Second, "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("published")))
	assert.Equal(t, true, m.GetStats()["is_healthy"])

	m.RecordRun("publish_failed", time.Second, "boom")
	stats := m.GetStats()
	assert.Equal(t, false, stats["is_healthy"])
	assert.Equal(t, "boom", stats["last_error"])
	assert.Equal(t, "publish_failed", stats["last_status"])
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordPublish("twitter", true)
	m.RecordDraw("live")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `ytannounce_publish_total{result="ok",target="twitter"} 1`)
	assert.Contains(t, body, `ytannounce_template_draws_total{category="live"} 1`)
}
