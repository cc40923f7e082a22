package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/habits/status", "200"))
	RecordAPIRequest("POST", "/habits/status", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/habits/status", "200"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+2 {
		t.Errorf("active = %v, want %v", got, start+2)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active = %v, want %v", got, start)
	}
}

func TestRecordStatusTransition(t *testing.T) {
	before := testutil.ToFloat64(StatusTransitions.WithLabelValues("completed"))
	RecordStatusTransition("completed")
	if got := testutil.ToFloat64(StatusTransitions.WithLabelValues("completed")); got != before+1 {
		t.Errorf("transitions = %v, want %v", got, before+1)
	}
}

func TestRecordRollover(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantResult  string
		wantReopens float64
	}{
		{"success adds rows", nil, "success", 3},
		{"failure adds no rows", errors.New("boom"), "error", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := testutil.ToFloat64(RolloverRuns.WithLabelValues("manual", tt.wantResult))
			reopened := testutil.ToFloat64(RolloverRows.WithLabelValues("habits_reopened"))

			RecordRollover("manual", time.Second, 1, 2, 3, 4, tt.err)

			if got := testutil.ToFloat64(RolloverRuns.WithLabelValues("manual", tt.wantResult)); got != runs+1 {
				t.Errorf("runs{%s} = %v, want %v", tt.wantResult, got, runs+1)
			}
			if got := testutil.ToFloat64(RolloverRows.WithLabelValues("habits_reopened")) - reopened; got != tt.wantReopens {
				t.Errorf("reopened delta = %v, want %v", got, tt.wantReopens)
			}
		})
	}
}

func TestRecordTransactionError(t *testing.T) {
	before := testutil.ToFloat64(TransactionErrors.WithLabelValues("rollover"))
	RecordTransactionError("rollover")
	if got := testutil.ToFloat64(TransactionErrors.WithLabelValues("rollover")); got != before+1 {
		t.Errorf("transaction errors = %v, want %v", got, before+1)
	}
}
