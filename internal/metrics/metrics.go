package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what happens to hosted games. A nil *Metrics records nothing.
type Metrics struct {
	moves         *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	activeGames   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connect4",
			Name:      "moves_total",
			Help:      "Moves requested, by result (accepted, column_full, out_of_range, game_over).",
		}, []string{"result"}),
		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connect4",
			Name:      "games_finished_total",
			Help:      "Games that reached a terminal state, by outcome (won, draw).",
		}, []string{"outcome"}),
		activeGames: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "connect4",
			Name:      "active_games",
			Help:      "Games currently held in memory.",
		}),
	}
}

func (m *Metrics) MoveRecorded(result string) {
	if m == nil {
		return
	}
	m.moves.WithLabelValues(result).Inc()
}

func (m *Metrics) GameFinished(outcome string) {
	if m == nil {
		return
	}
	m.gamesFinished.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetActiveGames(n int) {
	if m == nil {
		return
	}
	m.activeGames.Set(float64(n))
}
