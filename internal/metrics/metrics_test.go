package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRender(t *testing.T) {
	before := testutil.ToFloat64(RendersTotal.WithLabelValues("ar", OutcomeTimeout))

	ObserveRender("ar", OutcomeTimeout, 2*time.Second)

	after := testutil.ToFloat64(RendersTotal.WithLabelValues("ar", OutcomeTimeout))
	if after != before+1 {
		t.Errorf("renders_total = %v, want %v", after, before+1)
	}
	if n := testutil.CollectAndCount(RenderDuration, "healthpdf_render_duration_seconds"); n == 0 {
		t.Error("expected duration series")
	}
}
