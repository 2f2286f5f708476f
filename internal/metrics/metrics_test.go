package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.MoveRecorded("accepted")
	m.MoveRecorded("accepted")
	m.MoveRecorded("column_full")
	m.GameFinished("draw")
	m.SetActiveGames(3)

	if got := testutil.ToFloat64(m.moves.WithLabelValues("accepted")); got != 2 {
		t.Errorf("accepted moves = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.moves.WithLabelValues("column_full")); got != 1 {
		t.Errorf("column_full moves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.gamesFinished.WithLabelValues("draw")); got != 1 {
		t.Errorf("draws = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeGames); got != 3 {
		t.Errorf("active games = %v, want 3", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.MoveRecorded("accepted")
	m.GameFinished("won")
	m.SetActiveGames(1)
}
