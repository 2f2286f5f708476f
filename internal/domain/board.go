package domain

import "github.com/pkg/errors"

// Board holds cell occupancy only. cells[row][column], row 0 is the top.
type Board struct {
	columns int
	rows    int
	cells   [][]PlayerID
	filled  int
}

func NewBoard(columns, rows int) *Board {
	b := &Board{columns: columns, rows: rows}
	b.Reset()
	return b
}

func (b *Board) Columns() int { return b.columns }
func (b *Board) Rows() int    { return b.rows }

// Reset discards every disk.
func (b *Board) Reset() {
	b.cells = make([][]PlayerID, b.rows)
	for i := range b.cells {
		b.cells[i] = make([]PlayerID, b.columns)
	}
	b.filled = 0
}

func (b *Board) InBounds(column, row int) bool {
	return column >= 0 && column < b.columns && row >= 0 && row < b.rows
}

// DropDisk lets a disk fall into column and returns the row it landed on.
func (b *Board) DropDisk(column int, player PlayerID) (int, error) {
	if column < 0 || column >= b.columns {
		return -1, errors.Wrapf(ErrOutOfRange, "column %d not in [0, %d)", column, b.columns)
	}
	if !player.IsPlayer() {
		return -1, errors.Wrapf(ErrInvalidPlayer, "cannot drop %v", player)
	}

	// scanning from the bottom, the first empty cell is where the disk
	// comes to rest on top of the others
	for row := b.rows - 1; row >= 0; row-- {
		if b.cells[row][column] == Empty {
			b.cells[row][column] = player
			b.filled++
			return row, nil
		}
	}

	return -1, errors.Wrapf(ErrColumnFull, "column %d", column)
}

func (b *Board) CellAt(column, row int) (PlayerID, error) {
	if !b.InBounds(column, row) {
		return Empty, errors.Wrapf(ErrOutOfRange, "cell (%d, %d) outside %dx%d board", column, row, b.columns, b.rows)
	}
	return b.cells[row][column], nil
}

// at is CellAt without the bounds check, for callers that already checked.
func (b *Board) at(column, row int) PlayerID {
	return b.cells[row][column]
}

func (b *Board) IsFull() bool {
	return b.filled == b.columns*b.rows
}

// Height returns the number of disks stacked in column, 0 for an invalid column.
func (b *Board) Height(column int) int {
	if column < 0 || column >= b.columns {
		return 0
	}
	height := 0
	for row := b.rows - 1; row >= 0 && b.cells[row][column] != Empty; row-- {
		height++
	}
	return height
}

// ValidColumns lists the columns that can still take a disk, left to right.
func (b *Board) ValidColumns() []int {
	valid := []int{}
	for col := 0; col < b.columns; col++ {
		if b.Height(col) < b.rows {
			valid = append(valid, col)
		}
	}
	return valid
}

// Snapshot returns a deep copy of the grid, indexed [row][column].
func (b *Board) Snapshot() [][]PlayerID {
	grid := make([][]PlayerID, len(b.cells))
	for i := range b.cells {
		grid[i] = make([]PlayerID, len(b.cells[i]))
		copy(grid[i], b.cells[i])
	}
	return grid
}
