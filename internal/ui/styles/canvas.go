// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Cell is one terminal cell. An empty Ch is transparent when blitted; an
// empty BG keeps whatever background is underneath.
type Cell struct {
	Ch string
	FG string
	BG string
	// cont marks the right half of a wide rune.
	cont bool
}

// Grid is a rectangular block of cells, row-major.
type Grid [][]Cell

// NewGrid returns a w x h grid of transparent cells.
func NewGrid(w, h int) Grid {
	g := make(Grid, h)
	for y := range g {
		g[y] = make([]Cell, w)
	}
	return g
}

// Size returns the grid width and height.
func (g Grid) Size() (w, h int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g[0]), len(g)
}

// Canvas is a full-screen cell buffer that renders to a styled string.
type Canvas struct {
	W, H   int
	cells  Grid
	styles map[[2]string]lipgloss.Style
}

// NewCanvas returns a blank canvas.
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{W: w, H: h, cells: NewGrid(w, h), styles: make(map[[2]string]lipgloss.Style)}
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x].Ch = " "
		}
	}
	return c
}

// At returns the cell at x, y. Out-of-range reads return a zero cell.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return Cell{}
	}
	return c.cells[y][x]
}

// Set writes a cell, clipping silently.
func (c *Canvas) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return
	}
	if cell.BG == "" {
		cell.BG = c.cells[y][x].BG
	}
	c.cells[y][x] = cell
}

// Text writes s starting at x, y with the given foreground. The background
// of each cell is kept. Wide runes take two cells.
func (c *Canvas) Text(x, y int, s, fg string) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(x, y, Cell{Ch: string(r), FG: fg})
		if w == 2 {
			c.Set(x+1, y, Cell{FG: fg, cont: true})
		}
		x += w
	}
}

// Blit copies the non-transparent cells of g with its top-left at x, y.
func (c *Canvas) Blit(x, y int, g Grid) {
	for gy, row := range g {
		for gx, cell := range row {
			if cell.Ch == "" && !cell.cont {
				continue
			}
			c.Set(x+gx, y+gy, cell)
		}
	}
}

// Render returns the canvas as lines joined by newlines. Runs of cells with
// identical colors share one style.
func (c *Canvas) Render() string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.H; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		var key [2]string
		run.Reset()
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(c.style(key).Render(run.String()))
			run.Reset()
		}
		for x := 0; x < c.W; x++ {
			cell := c.cells[y][x]
			if cell.cont {
				continue
			}
			k := [2]string{cell.FG, cell.BG}
			if k != key {
				flush()
				key = k
			}
			ch := cell.Ch
			if ch == "" {
				ch = " "
			}
			run.WriteString(ch)
		}
		flush()
	}
	return out.String()
}

func (c *Canvas) style(k [2]string) lipgloss.Style {
	if s, ok := c.styles[k]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if k[0] != "" {
		s = s.Foreground(lipgloss.Color(k[0]))
	}
	if k[1] != "" {
		s = s.Background(lipgloss.Color(k[1]))
	}
	c.styles[k] = s
	return s
}
