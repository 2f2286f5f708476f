package game

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/metrics"
	"github.com/iamasit07/connect4/pkg/uid"
)

var (
	ErrSessionNotFound = errors.New("game not found")
	ErrTooManyGames    = errors.New("too many active games")
)

// GameSession hosts one hot-seat game. The mutex serialises moves coming
// from different request goroutines so the engine only ever sees one at a time.
type GameSession struct {
	GameID    string
	CreatedAt time.Time

	game         *domain.Game
	lastActivity time.Time
	finishedAt   time.Time
	mu           sync.Mutex
	manager      *SessionManager
	done         chan struct{}
	closeOnce    sync.Once
}

// Update is pushed to session subscribers: the engine event plus the state
// right after it.
type Update struct {
	Event domain.Event
	State domain.Snapshot
}

// SessionManager manages the games held in memory
type SessionManager struct {
	Session  map[string]*GameSession // gameID → GameSession
	mu       sync.RWMutex
	maxGames int
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewSessionManager(maxGames int, m *metrics.Metrics) *SessionManager {
	return &SessionManager{
		Session:  make(map[string]*GameSession),
		maxGames: maxGames,
		metrics:  m,
		now:      time.Now,
	}
}

func (sm *SessionManager) CreateSession(rules domain.Rules) (*GameSession, error) {
	g, err := domain.NewGame(rules)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.maxGames > 0 && len(sm.Session) >= sm.maxGames {
		return nil, errors.Wrapf(ErrTooManyGames, "limit %d", sm.maxGames)
	}

	now := sm.now()
	session := &GameSession{
		GameID:       uid.GenerateGameID(),
		CreatedAt:    now,
		game:         g,
		lastActivity: now,
		manager:      sm,
		done:         make(chan struct{}),
	}
	sm.Session[session.GameID] = session
	sm.metrics.SetActiveGames(len(sm.Session))

	log.Printf("[SESSION] Created game %s (%dx%d, goal %d)", session.GameID, rules.Columns, rules.Rows, rules.Goal)
	return session, nil
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.removeSessionLocked(gameID)
}

// removeSessionLocked removes session from maps without acquiring lock (caller must hold it)
func (sm *SessionManager) removeSessionLocked(gameID string) error {
	session, exists := sm.Session[gameID]
	if !exists {
		return errors.Wrapf(ErrSessionNotFound, "game %s", gameID)
	}

	log.Printf("[SESSION] Removing game %s", gameID)
	delete(sm.Session, gameID)
	session.close()
	sm.metrics.SetActiveGames(len(sm.Session))
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.Session)
}

// GameSummary is the listing entry for one hosted game.
type GameSummary struct {
	GameID        string          `json:"gameId"`
	Status        domain.Status   `json:"status"`
	CurrentPlayer domain.PlayerID `json:"currentPlayer"`
	MoveCount     int             `json:"moveCount"`
	Rules         domain.Rules    `json:"rules"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastActivity  time.Time       `json:"lastActivity"`
	FinishedAt    *time.Time      `json:"finishedAt,omitempty"`
}

// ActiveGames lists every hosted game, oldest first.
func (sm *SessionManager) ActiveGames() []GameSummary {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	summaries := make([]GameSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// CleanupIdleSessions drops games nobody touched for longer than maxIdle.
func (sm *SessionManager) CleanupIdleSessions(maxIdle time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	now := sm.now()

	for gameID, session := range sm.Session {
		if now.Sub(session.LastActivity()) > maxIdle {
			delete(sm.Session, gameID)
			session.close()
			count++
		}
	}

	if count > 0 {
		sm.metrics.SetActiveGames(len(sm.Session))
		log.Printf("[SESSION] Memory cleanup: Removed %d idle games", count)
	}
	return count
}

func (gs *GameSession) PlayMove(column int) (domain.MoveResult, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	result, err := gs.game.PlayMove(column)
	gs.manager.metrics.MoveRecorded(moveLabel(err))
	if err != nil {
		return result, err
	}
	gs.lastActivity = gs.manager.now()

	if result.Status.IsTerminal() {
		gs.finishedAt = gs.lastActivity
		gs.manager.metrics.GameFinished(string(result.Status.Kind))
		log.Printf("[GAME] Game %s over after %d moves: %s", gs.GameID, gs.game.MoveCount(), result.Status)
	}
	return result, nil
}

func moveLabel(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrColumnFull):
		return "column_full"
	case errors.Is(err, domain.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, domain.ErrGameOver):
		return "game_over"
	}
	return "rejected"
}

func (gs *GameSession) Reset() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.game.Reset()
	gs.finishedAt = time.Time{}
	gs.lastActivity = gs.manager.now()
	log.Printf("[GAME] Game %s reset", gs.GameID)
}

func (gs *GameSession) Snapshot() domain.Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.game.Snapshot()
}

func (gs *GameSession) Cell(column, row int) (domain.PlayerID, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.game.Cell(column, row)
}

func (gs *GameSession) Summary() GameSummary {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	summary := GameSummary{
		GameID:        gs.GameID,
		Status:        gs.game.Status(),
		CurrentPlayer: gs.game.CurrentPlayer(),
		MoveCount:     gs.game.MoveCount(),
		Rules:         gs.game.Rules(),
		CreatedAt:     gs.CreatedAt,
		LastActivity:  gs.lastActivity,
	}
	if !gs.finishedAt.IsZero() {
		finished := gs.finishedAt
		summary.FinishedAt = &finished
	}
	return summary
}

func (gs *GameSession) LastActivity() time.Time {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.lastActivity
}

// EventState marks the first update a subscriber receives: the current state,
// before any engine event.
const EventState domain.EventType = "state"

// Subscribe delivers the current state, then every engine event with a fresh
// snapshot. fn runs while the session is locked and must not call back into
// the session.
func (gs *GameSession) Subscribe(fn func(Update)) (unsubscribe func()) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	state := gs.game.Snapshot()
	fn(Update{Event: domain.Event{Type: EventState, Status: state.Status}, State: state})

	remove := gs.game.Subscribe(func(e domain.Event) {
		fn(Update{Event: e, State: gs.game.Snapshot()})
	})
	return func() {
		gs.mu.Lock()
		defer gs.mu.Unlock()
		remove()
	}
}

// Done is closed once the game is removed from the manager.
func (gs *GameSession) Done() <-chan struct{} {
	return gs.done
}

func (gs *GameSession) close() {
	gs.closeOnce.Do(func() { close(gs.done) })
}
