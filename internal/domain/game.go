package domain

import "github.com/pkg/errors"

// MoveResult is what a caller learns from PlayMove. Row is -1 when the move
// was rejected.
type MoveResult struct {
	Accepted bool     `json:"accepted"`
	Column   int      `json:"column"`
	Row      int      `json:"row"`
	Player   PlayerID `json:"player"`
	Status   Status   `json:"status"`
	Line     *Line    `json:"line,omitempty"`
}

type EventType string

const (
	EventMove  EventType = "move"
	EventReset EventType = "reset"
)

// Event is delivered to listeners after every accepted move and every reset.
type Event struct {
	Type   EventType
	Move   *MoveResult
	Status Status
}

type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Game owns one board plus the turn and status state machine. It is not safe
// for concurrent use; callers serialise moves.
type Game struct {
	rules         Rules
	board         *Board
	currentPlayer PlayerID
	status        Status
	line          *Line
	lastMove      *Position
	moveCount     int

	listeners []subscription
	nextID    int
}

func NewGame(rules Rules) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		rules: rules,
		board: NewBoard(rules.Columns, rules.Rows),
	}
	g.reset()
	return g, nil
}

func (g *Game) reset() {
	g.board.Reset()
	g.currentPlayer = Player1
	g.status = InProgress()
	g.line = nil
	g.lastMove = nil
	g.moveCount = 0
}

// PlayMove drops the current player's disk into column. A rejected move
// changes nothing and the turn does not pass.
func (g *Game) PlayMove(column int) (MoveResult, error) {
	rejected := MoveResult{Column: column, Row: -1, Player: g.currentPlayer, Status: g.status}

	if g.status.IsTerminal() {
		return rejected, errors.Wrapf(ErrGameOver, "status %s", g.status.Kind)
	}

	mover := g.currentPlayer
	row, err := g.board.DropDisk(column, mover)
	if err != nil {
		return rejected, err
	}

	g.moveCount++
	g.lastMove = &Position{Column: column, Row: row}

	status, line := Evaluate(g.board, *g.lastMove, g.rules.Goal)
	g.status = status
	g.line = line
	if !status.IsTerminal() {
		g.currentPlayer = mover.Opponent()
	}

	result := MoveResult{
		Accepted: true,
		Column:   column,
		Row:      row,
		Player:   mover,
		Status:   status,
		Line:     line.clone(),
	}
	g.notify(Event{Type: EventMove, Move: &result, Status: status})
	return result, nil
}

// Reset starts a fresh game with Player1 to move.
func (g *Game) Reset() {
	g.reset()
	g.notify(Event{Type: EventReset, Status: g.status})
}

func (g *Game) Status() Status          { return g.status }
func (g *Game) CurrentPlayer() PlayerID { return g.currentPlayer }
func (g *Game) Rules() Rules            { return g.rules }
func (g *Game) MoveCount() int          { return g.moveCount }
func (g *Game) WinningLine() *Line      { return g.line.clone() }
func (g *Game) IsFinished() bool        { return g.status.IsTerminal() }

// ValidColumns lists the columns a move may still go into; none once the game is over.
func (g *Game) ValidColumns() []int {
	if g.status.IsTerminal() {
		return []int{}
	}
	return g.board.ValidColumns()
}

func (g *Game) LastMove() (Position, bool) {
	if g.lastMove == nil {
		return Position{}, false
	}
	return *g.lastMove, true
}

func (g *Game) Cell(column, row int) (PlayerID, error) {
	return g.board.CellAt(column, row)
}

// Subscribe registers fn for state changes. The returned func removes it.
func (g *Game) Subscribe(fn Listener) (unsubscribe func()) {
	g.nextID++
	id := g.nextID
	g.listeners = append(g.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range g.listeners {
			if s.id == id {
				g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
				return
			}
		}
	}
}

func (g *Game) notify(e Event) {
	// copy so a listener may unsubscribe itself
	listeners := make([]subscription, len(g.listeners))
	copy(listeners, g.listeners)
	for _, s := range listeners {
		s.fn(e)
	}
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Rules         Rules        `json:"rules"`
	Board         [][]PlayerID `json:"board"`
	Status        Status       `json:"status"`
	CurrentPlayer PlayerID     `json:"currentPlayer"`
	MoveCount     int          `json:"moveCount"`
	ValidColumns  []int        `json:"validColumns"`
	LastMove      *Position    `json:"lastMove,omitempty"`
	Line          *Line        `json:"line,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Rules:         g.rules,
		Board:         g.board.Snapshot(),
		Status:        g.status,
		CurrentPlayer: g.currentPlayer,
		MoveCount:     g.moveCount,
		ValidColumns:  g.ValidColumns(),
	}
	if g.lastMove != nil {
		last := *g.lastMove
		s.LastMove = &last
	}
	s.Line = g.line.clone()
	return s
}
