package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDeployment(t *testing.T) {
	before := testutil.ToFloat64(deploymentCount.WithLabelValues("error"))
	Deployment(errors.New("boom"))
	if got := testutil.ToFloat64(deploymentCount.WithLabelValues("error")); got != before+1 {
		t.Errorf("error count = %v, want %v", got, before+1)
	}
}

func TestTrigger(t *testing.T) {
	before := testutil.ToFloat64(triggerCount.WithLabelValues("deploy", "rejected"))
	Trigger("deploy", "rejected")
	if got := testutil.ToFloat64(triggerCount.WithLabelValues("deploy", "rejected")); got != before+1 {
		t.Errorf("rejected count = %v, want %v", got, before+1)
	}
}
