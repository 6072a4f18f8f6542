// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"math"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/bouncer/internal/util"
)

// BoxParams describes one frame of the bouncing box.
type BoxParams struct {
	// Width and Height are the unrotated size in cells.
	Width  int
	Height int
	// Color is the box background.
	Color string
	// Text is drawn upright in the middle of the box.
	Text string
	// Opacity of the text, 0-1.
	Opacity float64
	// Rotation in degrees. Snapped to quarter turns.
	Rotation float64
	// Shadow draws a drop shadow one cell below the unrotated box.
	Shadow bool
}

// quarterTurns snaps deg to 0-3 clockwise quarter turns.
func quarterTurns(deg float64) int {
	n := int(math.Round(deg/90)) % 4
	if n < 0 {
		n += 4
	}
	return n
}

// clockwise maps a glyph to its image under a 90 degree clockwise turn.
var clockwise = map[string]string{
	"▗": "▖", "▖": "▘", "▘": "▝", "▝": "▗",
	"▀": "▐", "▐": "▄", "▄": "▌", "▌": "▀",
	"◤": "◥", "◥": "◢", "◢": "◣", "◣": "◤",
	"─": "│", "│": "─",
}

// RotateGlyph returns g turned by the given number of clockwise quarter
// turns. Symmetric glyphs map to themselves.
func RotateGlyph(g string, turns int) string {
	for i := 0; i < ((turns%4)+4)%4; i++ {
		if r, ok := clockwise[g]; ok {
			g = r
		}
	}
	return g
}

// RotateGrid turns g clockwise by the given number of quarter turns,
// rotating each glyph along with it.
func RotateGrid(g Grid, turns int) Grid {
	turns = ((turns % 4) + 4) % 4
	for i := 0; i < turns; i++ {
		w, h := g.Size()
		r := NewGrid(h, w)
		for y := 0; y < w; y++ {
			for x := 0; x < h; x++ {
				cell := g[h-1-x][y]
				cell.Ch = RotateGlyph(cell.Ch, 1)
				r[y][x] = cell
			}
		}
		g = r
	}
	return g
}

// boxArt draws the unrotated box with rounded corners and, optionally, a
// shadow row underneath.
func boxArt(bs BoxParams) Grid {
	rows := bs.Height
	if bs.Shadow {
		rows++
	}
	g := NewGrid(bs.Width, rows)
	for y := 0; y < bs.Height; y++ {
		for x := 0; x < bs.Width; x++ {
			g[y][x] = Cell{Ch: " ", BG: bs.Color}
		}
	}
	if bs.Width >= 2 && bs.Height >= 2 {
		last, bottom := bs.Width-1, bs.Height-1
		g[0][0] = Cell{Ch: "▗", FG: bs.Color}
		g[0][last] = Cell{Ch: "▖", FG: bs.Color}
		g[bottom][0] = Cell{Ch: "▝", FG: bs.Color}
		g[bottom][last] = Cell{Ch: "▘", FG: bs.Color}
	}
	if bs.Shadow {
		for x := 1; x < bs.Width; x++ {
			g[bs.Height][x] = Cell{Ch: "▀", FG: Shadow}
		}
	}
	return g
}

// TextColor returns the message color at the given opacity over the box.
func TextColor(boxColor string, opacity float64) string {
	return Blend(boxColor, BoxText, opacity)
}

// BoxLines wraps and centers text for the inside of a box of the given
// size, leaving a one-cell margin on each side.
func BoxLines(text string, width, height int) []string {
	innerW := width - 4
	innerH := height - 2
	if innerW <= 0 || innerH <= 0 {
		return nil
	}
	wrapped := strings.Split(wordwrap.String(util.SingleLine(text), innerW), "\n")
	if len(wrapped) > innerH {
		wrapped = wrapped[:innerH]
		wrapped[innerH-1] = util.TruncateWidth(wrapped[innerH-1]+" "+util.Ellipsis, innerW)
	}
	lines := make([]string, innerH)
	top := (innerH - len(wrapped)) / 2
	for i := range lines {
		lines[i] = strings.Repeat(" ", innerW)
	}
	for i, l := range wrapped {
		lines[top+i] = util.PadCenter(l, innerW)
	}
	return lines
}

// DrawBox draws the box with its top-left corner (before the shadow offset)
// at x, y on the canvas. The text is counter-rotated, so it stays upright
// whatever the rotation.
func DrawBox(c *Canvas, x, y int, bs BoxParams) {
	turns := quarterTurns(bs.Rotation)
	art := RotateGrid(boxArt(bs), turns)

	// The shadow row shifts the art origin when it ends up above or left of
	// the box.
	ox, oy := x, y
	if bs.Shadow {
		switch turns {
		case 1:
			ox--
		case 2:
			oy--
		}
	}
	c.Blit(ox, oy, art)

	w, h := bs.Width, bs.Height
	if turns%2 == 1 {
		w, h = h, w
	}
	fg := TextColor(bs.Color, bs.Opacity)
	for i, line := range BoxLines(bs.Text, w, h) {
		c.Text(x+2, y+1+i, line, fg)
	}
}
