package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.ObserveRender("/", OutcomeSuccess, 120*time.Millisecond)
	m.ObserveRender("/", OutcomeSuccess, 80*time.Millisecond)
	m.ObserveRender("/discosolaris", OutcomeDownloadFailed, time.Second)
	m.AddDownloadBytes("background", 1024)
	m.IncQuoteFailure()
	m.ObserveHTTP("GET", "/", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("/", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("/discosolaris", OutcomeDownloadFailed)))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.downloadBytesTotal.WithLabelValues("background")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quoteFailuresTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/", "200")))
}

func TestMetricsHandlerExposesSeries(t *testing.T) {
	m := New()
	m.ObserveRender("/", OutcomeSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `imagecomposer_renders_total{outcome="success",route="/"} 1`)
	assert.Contains(t, string(body), "imagecomposer_render_duration_seconds_bucket")
}
