package domain

import "github.com/pkg/errors"

// Rules fixes the board geometry and the run length needed to win.
type Rules struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Goal    int `json:"goal"`
}

// MaxDimension caps both board dimensions so client-chosen rules stay small.
const MaxDimension = 64

func DefaultRules() Rules {
	return Rules{Columns: Columns, Rows: Rows, Goal: ToWin}
}

func (r Rules) Validate() error {
	if r.Columns < 1 || r.Rows < 1 {
		return errors.Wrapf(ErrInvalidRules, "board size %dx%d", r.Columns, r.Rows)
	}
	if r.Columns > MaxDimension || r.Rows > MaxDimension {
		return errors.Wrapf(ErrInvalidRules, "board size %dx%d, maximum %d per side", r.Columns, r.Rows, MaxDimension)
	}
	if r.Goal < 2 {
		return errors.Wrapf(ErrInvalidRules, "goal %d, minimum 2", r.Goal)
	}
	if r.Goal > r.Columns && r.Goal > r.Rows {
		return errors.Wrapf(ErrInvalidRules, "goal %d does not fit on a %dx%d board", r.Goal, r.Columns, r.Rows)
	}
	return nil
}

// Orientation is one of the four line directions a run can take.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
	DiagonalUp   // bottom-left to top-right
	DiagonalDown // top-left to bottom-right
)

var orientations = [...]Orientation{Vertical, Horizontal, DiagonalUp, DiagonalDown}

// delta is one step along the orientation; the opposite step is its negation.
func (o Orientation) delta() (dCol, dRow int) {
	switch o {
	case Vertical:
		return 0, 1
	case Horizontal:
		return 1, 0
	case DiagonalUp:
		return 1, -1
	case DiagonalDown:
		return 1, 1
	}
	return 0, 0
}

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case DiagonalUp:
		return "diagonal_up"
	case DiagonalDown:
		return "diagonal_down"
	}
	return "unknown"
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	for _, candidate := range orientations {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}
	return errors.Errorf("unknown orientation %q", text)
}

// Line is a winning run, cells ordered from one end to the other.
type Line struct {
	Player      PlayerID    `json:"player"`
	Orientation Orientation `json:"orientation"`
	Cells       []Position  `json:"cells"`
}

// clone copies the line including its cells; nil stays nil.
func (l *Line) clone() *Line {
	if l == nil {
		return nil
	}
	c := *l
	c.Cells = append([]Position(nil), l.Cells...)
	return &c
}

// countDiskInDirection counts consecutive player disks starting one step away
// from (column, row), not including the cell itself.
func (b *Board) countDiskInDirection(column, row, dCol, dRow int, player PlayerID) int {
	count := 0
	c, r := column+dCol, row+dRow
	for b.InBounds(c, r) && b.at(c, r) == player {
		count++
		c += dCol
		r += dRow
	}
	return count
}

// DetectWin checks only the lines passing through (column, row): a move can
// only create winning lines that contain the disk it placed.
func DetectWin(b *Board, column, row, goal int) (Line, bool) {
	if !b.InBounds(column, row) {
		return Line{}, false
	}
	player := b.at(column, row)
	if !player.IsPlayer() {
		return Line{}, false
	}

	for _, o := range orientations {
		dCol, dRow := o.delta()
		back := b.countDiskInDirection(column, row, -dCol, -dRow, player)
		forward := b.countDiskInDirection(column, row, dCol, dRow, player)
		length := back + 1 + forward
		if length < goal {
			continue
		}

		cells := make([]Position, 0, length)
		c, r := column-back*dCol, row-back*dRow
		for i := 0; i < length; i++ {
			cells = append(cells, Position{Column: c, Row: r})
			c += dCol
			r += dRow
		}
		return Line{Player: player, Orientation: o, Cells: cells}, true
	}

	return Line{}, false
}

// Evaluate decides the game status after a disk landed at last. The win check
// runs first: a full board with a winning line is a win, not a draw.
func Evaluate(b *Board, last Position, goal int) (Status, *Line) {
	if line, ok := DetectWin(b, last.Column, last.Row, goal); ok {
		return Won(line.Player), &line
	}
	if b.IsFull() {
		return Draw(), nil
	}
	return InProgress(), nil
}
