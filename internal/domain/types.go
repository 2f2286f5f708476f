package domain

import "fmt"

// PlayerID is the occupancy of a single cell, and doubles as the player identity.
type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// IsPlayer reports whether p is one of the two players (not Empty).
func (p PlayerID) IsPlayer() bool {
	return p == Player1 || p == Player2
}

// Opponent returns the other player. Empty has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) String() string {
	switch p {
	case Empty:
		return "Empty"
	case Player1, Player2:
		return fmt.Sprintf("Player %d", int(p))
	}
	return fmt.Sprintf("PlayerID(%d)", int(p))
}

// default board geometry, exposed for layout purposes
const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent the game status
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusDraw       GameStatus = "draw"
)

// Status is the tagged game state. Winner is set only when Kind is StatusWon.
type Status struct {
	Kind   GameStatus `json:"kind"`
	Winner PlayerID   `json:"player,omitempty"`
}

func InProgress() Status        { return Status{Kind: StatusInProgress} }
func Won(player PlayerID) Status { return Status{Kind: StatusWon, Winner: player} }
func Draw() Status              { return Status{Kind: StatusDraw} }

// IsTerminal reports whether no further moves are accepted.
func (s Status) IsTerminal() bool {
	return s.Kind == StatusWon || s.Kind == StatusDraw
}

func (s Status) String() string {
	switch s.Kind {
	case StatusWon:
		return s.Winner.String() + " is a Winner"
	case StatusDraw:
		return "Game Over. No Winner this time."
	}
	return "In progress"
}

// Position addresses one cell. Row 0 is the top of the board.
type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrColumnFull    Error = "column is full"
	ErrOutOfRange    Error = "position out of range"
	ErrGameOver      Error = "game is over"
	ErrInvalidPlayer Error = "invalid player"
	ErrInvalidRules  Error = "invalid rules"
)
