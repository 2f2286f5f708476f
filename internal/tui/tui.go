// Package tui plays a hot-seat game in the terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/iamasit07/connect4/internal/domain"
)

const cellWidth = 3

var (
	styleFrame   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorRed)
	playerStyles = map[domain.PlayerID]tcell.Style{
		domain.Player1: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
		domain.Player2: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	}
	playerRunes = map[domain.PlayerID]rune{
		domain.Empty:   '.',
		domain.Player1: 'X',
		domain.Player2: 'O',
	}
)

// UI draws a game on a tcell screen and turns key presses into moves.
// Everything runs on the goroutine that calls Run.
type UI struct {
	screen      tcell.Screen
	game        *domain.Game
	cursor      int
	message     string
	unsubscribe func()
}

func New(screen tcell.Screen, game *domain.Game) *UI {
	ui := &UI{
		screen: screen,
		game:   game,
		cursor: game.Rules().Columns / 2,
	}
	ui.unsubscribe = game.Subscribe(ui.onEvent)
	return ui
}

func (ui *UI) onEvent(e domain.Event) {
	ui.message = ""
	if e.Type == domain.EventReset {
		ui.cursor = ui.game.Rules().Columns / 2
	}
	ui.Draw()
}

// Run draws the board and processes input until the player quits or ctx ends.
func (ui *UI) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer func() {
		close(stop)
		ui.unsubscribe()
	}()

	go func() {
		select {
		case <-ctx.Done():
			ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	ui.Draw()
	for {
		switch ev := ui.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			ui.screen.Sync()
			ui.Draw()
		case *tcell.EventKey:
			if !ui.HandleKey(ev) {
				return nil
			}
		}
	}
}

// HandleKey applies one key press and reports whether the UI should keep running.
func (ui *UI) HandleKey(ev *tcell.EventKey) bool {
	columns := ui.game.Rules().Columns

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		if ui.cursor > 0 {
			ui.cursor--
		}
	case tcell.KeyRight:
		if ui.cursor < columns-1 {
			ui.cursor++
		}
	case tcell.KeyEnter:
		ui.drop(ui.cursor)
		return true
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q' || r == 'Q':
			return false
		case r == 'r' || r == 'R':
			ui.game.Reset()
			return true
		case r == ' ':
			ui.drop(ui.cursor)
			return true
		case r >= '1' && r <= '9':
			column := int(r - '1')
			if column >= columns {
				ui.message = fmt.Sprintf("no column %c", r)
				break
			}
			ui.cursor = column
			ui.drop(column)
			return true
		}
	}

	ui.Draw()
	return true
}

// drop plays a move; accepted moves redraw through the subscription.
func (ui *UI) drop(column int) {
	if _, err := ui.game.PlayMove(column); err != nil {
		ui.message = errors.Cause(err).Error()
		ui.Draw()
	}
}

func (ui *UI) Draw() {
	s := ui.screen
	s.Clear()

	rules := ui.game.Rules()
	winning := map[domain.Position]bool{}
	if line := ui.game.WinningLine(); line != nil {
		for _, p := range line.Cells {
			winning[p] = true
		}
	}

	drawText(s, 0, 0, styleFrame, fmt.Sprintf("Connect %d", rules.Goal))

	// cursor row, then the grid from the top row down
	if !ui.game.IsFinished() {
		s.SetContent(ui.cursor*cellWidth+1, 1, 'v', nil, styleCursor)
	}
	for row := 0; row < rules.Rows; row++ {
		for col := 0; col < rules.Columns; col++ {
			cell, _ := ui.game.Cell(col, row)
			style := styleEmpty
			if cell.IsPlayer() {
				style = playerStyles[cell]
			}
			if winning[domain.Position{Column: col, Row: row}] {
				style = style.Reverse(true)
			}
			s.SetContent(col*cellWidth+1, row+2, playerRunes[cell], nil, style)
		}
	}
	if rules.Columns <= 9 {
		for col := 0; col < rules.Columns; col++ {
			s.SetContent(col*cellWidth+1, rules.Rows+2, rune('1'+col), nil, styleFrame)
		}
	}

	drawText(s, 0, rules.Rows+4, tcell.StyleDefault, ui.statusLine())
	if ui.message != "" {
		drawText(s, 0, rules.Rows+5, styleMessage, ui.message)
	}
	drawText(s, 0, rules.Rows+7, styleEmpty, "<-/-> move  enter drop  r new game  q quit")

	s.Show()
}

func (ui *UI) statusLine() string {
	status := ui.game.Status()
	if status.IsTerminal() {
		return status.String()
	}
	player := ui.game.CurrentPlayer()
	return fmt.Sprintf("%s to move (%c)", player, playerRunes[player])
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
