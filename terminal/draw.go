/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/


package terminal

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/gdamore/tcell/v2"
	"github.com/spatialmodel/geoedit"
)

// Draw paints every layer and the status line on the screen. It does not
// call Show.
func (c *Canvas) Draw() {
	c.screen.Fill(' ', c.theme.style(c.theme.Background))
	features := c.layers[geoedit.FeaturesLayer]
	for i, s := range features {
		c.drawShape(s, i)
	}
	for _, s := range c.layers[geoedit.DraftLayer] {
		if pts, ok := s.Geom.(geom.LineString); ok {
			c.drawChain(pts, c.theme.style(c.theme.Draft))
		}
	}
	for _, s := range c.layers[geoedit.PointsLayer] {
		p, ok := geoedit.HandlePath(s)
		pts, isLine := s.Geom.(geom.LineString)
		if !ok || !isLine || len(pts) == 0 {
			continue
		}
		st := c.stateOf(geoedit.PointsLayer, geoedit.PartRef(p))
		fg := c.theme.Vertex
		if st.Active {
			fg = c.theme.Active
		} else if st.Hover {
			fg = c.theme.Hover
		}
		x, y := c.ToCell(pts[0])
		c.set(x, y, glyph(c.theme.Point), c.theme.style(fg))
	}
	c.drawStatus()
}

// stateOf merges the states of every ref that is equal to, or an ancestor
// of, ref. A whole-shape ref covers every part of its shape.
func (c *Canvas) stateOf(layer string, ref geoedit.Ref) geoedit.FeatureState {
	var o geoedit.FeatureState
	for _, e := range c.states[layer] {
		covers := false
		if e.ref.IsScalar() {
			covers = e.ref.Shape() == ref.Shape()
		} else {
			covers = e.ref.Len() <= ref.Len() && geoedit.Equal(e.ref, ref, true)
		}
		if covers {
			o.Active = o.Active || e.state.Active
			o.Hover = o.Hover || e.state.Hover
			o.Disabled = o.Disabled || e.state.Disabled
		}
	}
	return o
}

func (c *Canvas) styleFor(st geoedit.FeatureState) tcell.Style {
	switch {
	case st.Disabled:
		return c.theme.style(c.theme.Disabled)
	case st.Active:
		return c.theme.style(c.theme.Active)
	case st.Hover:
		return c.theme.style(c.theme.Hover)
	}
	return c.theme.style(c.theme.Feature)
}

func (c *Canvas) drawShape(s *geoedit.Shape, i int) {
	if !s.Valid() {
		return
	}
	switch g := s.Geom.(type) {
	case geom.Polygon:
		c.fill(g, c.styleFor(c.stateOf(geoedit.FeaturesLayer, geoedit.PartRef(geoedit.Path{i, 0}))))
	case geom.MultiPolygon:
		for m, p := range g {
			c.fill(p, c.styleFor(c.stateOf(geoedit.FeaturesLayer, geoedit.PartRef(geoedit.Path{i, m}))))
		}
	}
	features := []*geoedit.Shape{s}
	for _, chain := range geoedit.Chains(s, 0) {
		pts, _ := geoedit.ChainAt(features, chain)
		chain[0] = i
		c.drawChain(pts, c.styleFor(c.stateOf(geoedit.FeaturesLayer, geoedit.PartRef(chain))))
	}
}

// fill marks the cells whose centers are inside p.
func (c *Canvas) fill(p geom.Polygon, st tcell.Style) {
	b := p.Bounds()
	if b.Empty() {
		return
	}
	x0, y0 := c.ToCell(geom.Point{X: b.Min.X, Y: b.Max.Y})
	x1, y1 := c.ToCell(geom.Point{X: b.Max.X, Y: b.Min.Y})
	w, h := c.screen.Size()
	x0, y0 = clamp(x0, 0, w-1), clamp(y0, 0, h-2)
	x1, y1 = clamp(x1, 0, w-1), clamp(y1, 0, h-2)
	r := glyph(c.theme.Fill)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if c.ToWorld(x, y).Within(p) == geom.Inside {
				c.set(x, y, r, st)
			}
		}
	}
}

func (c *Canvas) drawChain(pts []geom.Point, st tcell.Style) {
	r := glyph(c.theme.Line)
	for i := range pts {
		x1, y1 := c.ToCell(pts[i])
		if i == 0 {
			c.set(x1, y1, r, st)
			continue
		}
		x0, y0 := c.ToCell(pts[i-1])
		c.line(x0, y0, x1, y1, r, st)
	}
}

// line draws a line of cells with Bresenham's algorithm.
func (c *Canvas) line(x0, y0, x1, y1 int, r rune, st tcell.Style) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	x, y := x0, y0
	xInc, yInc := 1, 1
	if x0 > x1 {
		xInc = -1
	}
	if y0 > y1 {
		yInc = -1
	}
	if dx > dy {
		err := dx / 2
		for x != x1 {
			c.set(x, y, r, st)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != y1 {
			c.set(x, y, r, st)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	c.set(x1, y1, r, st)
}

// set draws r at (x, y) unless that falls outside the drawing area.
func (c *Canvas) set(x, y int, r rune, st tcell.Style) {
	w, h := c.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h-1 {
		return
	}
	c.screen.SetContent(x, y, r, nil, st)
}

func (c *Canvas) drawStatus() {
	w, h := c.screen.Size()
	if h < 1 {
		return
	}
	text := fmt.Sprintf(" %s | %s", c.cursor, c.status)
	st := c.theme.style(c.theme.Status).Reverse(true)
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		c.screen.SetContent(x, h-1, r, nil, st)
		x++
	}
	for ; x < w; x++ {
		c.screen.SetContent(x, h-1, ' ', nil, st)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
