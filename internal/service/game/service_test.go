package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/metrics"
)

func newTestManager(t *testing.T, maxGames int) *SessionManager {
	t.Helper()
	return NewSessionManager(maxGames, metrics.New(prometheus.NewRegistry()))
}

func mustCreate(t *testing.T, sm *SessionManager) *GameSession {
	t.Helper()
	session, err := sm.CreateSession(domain.DefaultRules())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return session
}

func TestCreateAndGetSession(t *testing.T) {
	sm := newTestManager(t, 0)
	session := mustCreate(t, sm)

	got, ok := sm.GetSessionByGameID(session.GameID)
	if !ok || got != session {
		t.Fatalf("GetSessionByGameID(%q) = %v, %v", session.GameID, got, ok)
	}
	if _, ok := sm.GetSessionByGameID("missing"); ok {
		t.Error("found a game that was never created")
	}
	if sm.Count() != 1 {
		t.Errorf("Count = %d, want 1", sm.Count())
	}
}

func TestCreateSessionRejectsBadRules(t *testing.T) {
	sm := newTestManager(t, 0)
	_, err := sm.CreateSession(domain.Rules{Columns: 2, Rows: 2, Goal: 4})
	if !errors.Is(err, domain.ErrInvalidRules) {
		t.Fatalf("err = %v, want ErrInvalidRules", err)
	}
	if sm.Count() != 0 {
		t.Error("invalid game was stored")
	}
}

func TestCreateSessionLimit(t *testing.T) {
	sm := newTestManager(t, 2)
	mustCreate(t, sm)
	mustCreate(t, sm)

	if _, err := sm.CreateSession(domain.DefaultRules()); !errors.Is(err, ErrTooManyGames) {
		t.Fatalf("err = %v, want ErrTooManyGames", err)
	}
}

func TestRemoveSession(t *testing.T) {
	sm := newTestManager(t, 0)
	session := mustCreate(t, sm)

	if err := sm.RemoveSession(session.GameID); err != nil {
		t.Fatalf("RemoveSession: %v", err)
	}
	select {
	case <-session.Done():
	default:
		t.Error("Done not closed after removal")
	}
	if err := sm.RemoveSession(session.GameID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second removal: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionPlayMove(t *testing.T) {
	sm := newTestManager(t, 0)
	session := mustCreate(t, sm)

	for _, col := range []int{0, 6, 1, 6, 2, 6} {
		if _, err := session.PlayMove(col); err != nil {
			t.Fatalf("column %d: %v", col, err)
		}
	}
	res, err := session.PlayMove(3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != domain.Won(domain.Player1) {
		t.Fatalf("status = %v, want won by Player 1", res.Status)
	}
	if session.Summary().FinishedAt == nil {
		t.Error("FinishedAt not set")
	}

	if _, err := session.PlayMove(4); !errors.Is(err, domain.ErrGameOver) {
		t.Errorf("move after win: err = %v, want ErrGameOver", err)
	}

	session.Reset()
	snap := session.Snapshot()
	if snap.Status != domain.InProgress() || snap.MoveCount != 0 {
		t.Errorf("after reset: %+v", snap)
	}
	if session.Summary().FinishedAt != nil {
		t.Error("FinishedAt survived reset")
	}
}

func TestSessionCell(t *testing.T) {
	sm := newTestManager(t, 0)
	session := mustCreate(t, sm)
	if _, err := session.PlayMove(5); err != nil {
		t.Fatal(err)
	}

	cell, err := session.Cell(5, domain.Rows-1)
	if err != nil || cell != domain.Player1 {
		t.Errorf("Cell = %v, %v; want Player 1", cell, err)
	}
	if _, err := session.Cell(5, domain.Rows); !errors.Is(err, domain.ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}

func TestSessionSubscribe(t *testing.T) {
	sm := newTestManager(t, 0)
	session := mustCreate(t, sm)

	var updates []Update
	unsubscribe := session.Subscribe(func(u Update) { updates = append(updates, u) })

	if _, err := session.PlayMove(2); err != nil {
		t.Fatal(err)
	}
	session.Reset()
	unsubscribe()
	if _, err := session.PlayMove(2); err != nil {
		t.Fatal(err)
	}

	if len(updates) != 3 {
		t.Fatalf("got %d updates, want 3", len(updates))
	}
	if updates[0].Event.Type != EventState || updates[0].State.MoveCount != 0 {
		t.Errorf("initial update = %+v", updates[0])
	}
	if updates[1].Event.Type != domain.EventMove || updates[1].State.MoveCount != 1 {
		t.Errorf("move update = %+v", updates[1])
	}
	if updates[1].State.Board[domain.Rows-1][2] != domain.Player1 {
		t.Error("snapshot does not include the move")
	}
	if updates[2].Event.Type != domain.EventReset || updates[2].State.MoveCount != 0 {
		t.Errorf("reset update = %+v", updates[2])
	}
}

func TestCleanupIdleSessions(t *testing.T) {
	sm := newTestManager(t, 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	stale := mustCreate(t, sm)
	now = now.Add(30 * time.Minute)
	fresh := mustCreate(t, sm)
	now = now.Add(45 * time.Minute)

	if removed := sm.CleanupIdleSessions(time.Hour); removed != 1 {
		t.Fatalf("removed %d games, want 1", removed)
	}
	if _, ok := sm.GetSessionByGameID(stale.GameID); ok {
		t.Error("stale game survived cleanup")
	}
	if _, ok := sm.GetSessionByGameID(fresh.GameID); !ok {
		t.Error("fresh game removed")
	}
	select {
	case <-stale.Done():
	default:
		t.Error("stale game not closed")
	}
}

func TestActiveGamesOrderedByCreation(t *testing.T) {
	sm := newTestManager(t, 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, mustCreate(t, sm).GameID)
		now = now.Add(time.Second)
	}

	games := sm.ActiveGames()
	if len(games) != len(ids) {
		t.Fatalf("got %d games, want %d", len(games), len(ids))
	}
	for i := range ids {
		if games[i].GameID != ids[i] {
			t.Errorf("games[%d] = %s, want %s", i, games[i].GameID, ids[i])
		}
	}
}

func TestConcurrentMovesAreSerialised(t *testing.T) {
	sm := newTestManager(t, 0)
	session := mustCreate(t, sm)

	// 7 goroutines hammer one column each; every cell must be filled
	// exactly once no matter how the moves interleave.
	var wg sync.WaitGroup
	for col := 0; col < domain.Columns; col++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			for i := 0; i < domain.Rows+2; i++ {
				session.PlayMove(col)
			}
		}(col)
	}
	wg.Wait()

	snap := session.Snapshot()
	filled := 0
	for _, row := range snap.Board {
		for _, cell := range row {
			if cell != domain.Empty {
				filled++
			}
		}
	}
	if filled != snap.MoveCount {
		t.Errorf("filled cells = %d, move count = %d", filled, snap.MoveCount)
	}
	if snap.Status == domain.InProgress() && filled != domain.Columns*domain.Rows {
		t.Errorf("game still in progress with %d free cells", domain.Columns*domain.Rows-filled)
	}
}

func TestSummaryWhileMoving(t *testing.T) {
	sm := newTestManager(t, 0)
	session := mustCreate(t, sm)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, col := range []int{0, 6, 1, 6, 2, 6, 3} {
			session.PlayMove(col)
		}
	}()
	for i := 0; i < 100; i++ {
		session.Summary()
	}
	<-done

	summary := session.Summary()
	if summary.FinishedAt == nil || summary.Status != domain.Won(domain.Player1) {
		t.Errorf("summary = %+v", summary)
	}
}
