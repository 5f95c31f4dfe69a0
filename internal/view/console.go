package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/raunak/chess-client/internal/board"
)

// Console projects the client onto a terminal. Notices overwrite each
// other and self-clear after the display window; an overlapping notice
// resets the window.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	window time.Duration
	timer  *time.Timer

	mode   Mode
	status string
	conn   string
}

func NewConsole(out io.Writer, noticeWindow time.Duration) *Console {
	if noticeWindow <= 0 {
		noticeWindow = 4 * time.Second
	}
	return &Console{out: out, window: noticeWindow}
}

func (c *Console) SwitchTo(mode Mode, msg string) {
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
	if mode == ModeLoading && msg != "" {
		fmt.Fprintf(c.out, "[%s] %s\n", mode, msg)
		return
	}
	fmt.Fprintf(c.out, "[%s]\n", mode)
}

func (c *Console) ShowBoard(grid board.Grid) {
	var b strings.Builder
	b.WriteString("  +-----------------+\n")
	for row := 0; row < 8; row++ {
		// rank legend comes from the first cell of the visual row
		b.WriteString(grid[row*8].Coord[1:2])
		b.WriteString(" | ")
		for col := 0; col < 8; col++ {
			cell := grid[row*8+col]
			glyph := cell.Glyph
			if glyph == "" {
				glyph = "."
				if cell.Target {
					glyph = "*"
				}
			}
			if cell.Selected {
				b.WriteString("[" + glyph + "]")
			} else {
				b.WriteString(glyph + " ")
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString("  +-----------------+\n    ")
	for col := 0; col < 8; col++ {
		b.WriteString(grid[col].Coord[0:1] + " ")
	}
	b.WriteString("\n")
	fmt.Fprint(c.out, b.String())
}

func (c *Console) SetStatus(text string) {
	c.mu.Lock()
	c.status = text
	c.mu.Unlock()
	fmt.Fprintf(c.out, "status: %s\n", text)
}

func (c *Console) SetConnState(text string) {
	c.mu.Lock()
	c.conn = text
	c.mu.Unlock()
	fmt.Fprintf(c.out, "connection: %s\n", text)
}

func (c *Console) Notice(text string) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, func() {
		fmt.Fprintln(c.out)
	})
	c.mu.Unlock()
	fmt.Fprintf(c.out, "! %s\n", text)
}
