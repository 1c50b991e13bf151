package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/campusride/internal/app/system/metrics"
)

func TestHandler_ExposesCounters(t *testing.T) {
	metrics.RidesPosted.Inc()
	metrics.Bookings.WithLabelValues("booked").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{"campusride_rides_posted_total", `campusride_bookings_total{result="booked"}`} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}
