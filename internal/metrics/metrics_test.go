package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(body)
}

func TestCollectorExposesRecordedValues(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest(http.MethodGet, "/api/accounts", http.StatusOK, 15*time.Millisecond)
	c.RecordTransactionChange("transaction.created")
	c.RecordTransactionChange("transaction.created")
	c.RecordSummary("MONTHLY")
	c.TrackConnections(func() int { return 3 })

	body := scrape(t, c)
	for _, want := range []string{
		`finledger_http_requests_total{method="GET",route="/api/accounts",status="200"} 1`,
		`finledger_transaction_changes_total{kind="transaction.created"} 2`,
		`finledger_summary_requests_total{type="MONTHLY"} 1`,
		`finledger_websocket_connections 3`,
		`finledger_http_request_duration_seconds_count{method="GET",route="/api/accounts"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in scrape output:\n%s", want, body)
		}
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	first := NewCollector()
	second := NewCollector()
	first.RecordSummary("DAILY")
	if strings.Contains(scrape(t, second), `type="DAILY"`) {
		t.Fatalf("expected separate registries")
	}
}
