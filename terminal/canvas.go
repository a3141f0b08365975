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


// Package terminal draws a geoedit editing session in a text terminal and
// turns terminal mouse and keyboard input into editor events.
package terminal

import (
	"context"
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geoedit"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2

type listener struct {
	ev    geoedit.EventType
	layer string
	h     geoedit.Handler
}

type stateEntry struct {
	ref   geoedit.Ref
	state geoedit.FeatureState
}

type quitSignal struct{}

// Canvas is a geoedit.Renderer backed by a tcell screen. The view maps world
// coordinates to cells: origin is the world position of the top left corner
// and scale the world width of one cell.
type Canvas struct {
	Log logrus.FieldLogger

	// Tolerance is the hit distance in cells.
	Tolerance float64

	// TickInterval is how often Run posts Tick events.
	TickInterval time.Duration

	screen tcell.Screen
	theme  Theme

	origin geom.Point
	scale  float64

	layers    map[string][]*geoedit.Shape
	indexes   map[string]*geoedit.Index
	states    map[string]map[string]stateEntry
	listeners []*listener
	cursor    geoedit.Cursor
	status    string

	pressed bool
	moved   bool
	pressX  int
	pressY  int
}

// NewCanvas returns a canvas drawing on s, which must already be
// initialized.
func NewCanvas(s tcell.Screen, theme Theme) *Canvas {
	return &Canvas{
		Log:          logrus.StandardLogger(),
		Tolerance:    1,
		TickInterval: 25 * time.Millisecond,
		screen:       s,
		theme:        theme,
		scale:        1,
		layers:       make(map[string][]*geoedit.Shape),
		indexes:      make(map[string]*geoedit.Index),
		states:       make(map[string]map[string]stateEntry),
	}
}

// Render implements geoedit.Renderer.
func (c *Canvas) Render(layer string, shapes []*geoedit.Shape) {
	c.layers[layer] = shapes
	delete(c.indexes, layer)
	if _, ok := c.states[layer]; !ok {
		c.states[layer] = make(map[string]stateEntry)
	}
}

// AddListener implements geoedit.Renderer.
func (c *Canvas) AddListener(ev geoedit.EventType, layer string, h geoedit.Handler) func() {
	l := &listener{ev: ev, layer: layer, h: h}
	c.listeners = append(c.listeners, l)
	return func() {
		for i, ll := range c.listeners {
			if ll == l {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetCursor implements geoedit.Renderer. The cursor is shown in the status
// line.
func (c *Canvas) SetCursor(cur geoedit.Cursor) func() {
	prev := c.cursor
	c.cursor = cur
	return func() { c.cursor = prev }
}

// Cursor returns the current cursor.
func (c *Canvas) Cursor() geoedit.Cursor { return c.cursor }

// SetFeatureState implements geoedit.Renderer.
func (c *Canvas) SetFeatureState(layer string, ref geoedit.Ref, s geoedit.FeatureState) {
	m, ok := c.states[layer]
	if !ok {
		m = make(map[string]stateEntry)
		c.states[layer] = m
	}
	if s == (geoedit.FeatureState{}) {
		delete(m, ref.String())
		return
	}
	m[ref.String()] = stateEntry{ref: ref, state: s}
}

// SetStatus sets the text of the status line.
func (c *Canvas) SetStatus(s string) { c.status = s }

// Fit sets the view so that b fills the screen, leaving one cell of margin
// and the bottom row for the status line.
func (c *Canvas) Fit(b *geom.Bounds) {
	w, h := c.screen.Size()
	w, h = w-2, h-3
	if w < 1 || h < 1 || b == nil || b.Empty() {
		return
	}
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	c.scale = math.Max(dx/float64(w), dy/float64(h)/cellAspect)
	if c.scale == 0 {
		c.scale = 1
	}
	c.origin = geom.Point{X: b.Min.X - c.scale, Y: b.Max.Y + c.scale*cellAspect}
	c.indexes = make(map[string]*geoedit.Index)
}

// SetView sets the world position of the top left corner and the world
// width of one cell.
func (c *Canvas) SetView(origin geom.Point, scale float64) {
	c.origin, c.scale = origin, scale
	c.indexes = make(map[string]*geoedit.Index)
}

// Zoom scales the view by f around the cell (x, y).
func (c *Canvas) Zoom(f float64, x, y int) {
	p := c.ToWorld(x, y)
	c.scale *= f
	c.origin.X = p.X - (float64(x)+0.5)*c.scale
	c.origin.Y = p.Y + (float64(y)+0.5)*c.scale*cellAspect
	c.indexes = make(map[string]*geoedit.Index)
}

// Pan moves the view by dx and dy cells.
func (c *Canvas) Pan(dx, dy int) {
	c.origin.X += float64(dx) * c.scale
	c.origin.Y -= float64(dy) * c.scale * cellAspect
}

// ToWorld returns the world position of the center of cell (x, y).
func (c *Canvas) ToWorld(x, y int) geom.Point {
	return geom.Point{
		X: c.origin.X + (float64(x)+0.5)*c.scale,
		Y: c.origin.Y - (float64(y)+0.5)*c.scale*cellAspect,
	}
}

// ToCell returns the cell holding the world position p.
func (c *Canvas) ToCell(p geom.Point) (x, y int) {
	return int(math.Floor((p.X - c.origin.X) / c.scale)),
		int(math.Floor((c.origin.Y - p.Y) / (c.scale * cellAspect)))
}

func (c *Canvas) index(layer string) *geoedit.Index {
	idx, ok := c.indexes[layer]
	if !ok {
		idx = geoedit.NewIndex(layer, c.layers[layer], c.Tolerance*c.scale)
		c.indexes[layer] = idx
	}
	return idx
}

// hit finds the item under p, trying vertex handles before features.
func (c *Canvas) hit(ev *geoedit.Event) {
	for _, layer := range []string{geoedit.PointsLayer, geoedit.FeaturesLayer} {
		if p, ok := c.index(layer).Hit(ev.Point); ok {
			ev.Layer, ev.Ref, ev.Hit = layer, geoedit.PartRef(p), true
			return
		}
	}
}

// Dispatch sends ev to the listeners registered for it.
func (c *Canvas) Dispatch(ev geoedit.Event) {
	for _, l := range append([]*listener(nil), c.listeners...) {
		if l.ev != ev.Type {
			continue
		}
		if l.layer != "" && (!ev.Hit || l.layer != ev.Layer) {
			continue
		}
		l.h(ev)
	}
}

func modifiers(m tcell.ModMask) geoedit.Modifier {
	var o geoedit.Modifier
	if m&tcell.ModShift != 0 {
		o |= geoedit.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		o |= geoedit.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		o |= geoedit.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		o |= geoedit.ModMeta
	}
	return o
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEscape:
		return geoedit.KeyEscape
	case tcell.KeyEnter:
		return geoedit.KeyEnter
	case tcell.KeyDelete:
		return geoedit.KeyDelete
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return geoedit.KeyBackspace
	case tcell.KeyRune:
		return string(ev.Rune())
	}
	return ev.Name()
}

// Handle turns one tcell event into editor events. It returns true if the
// event asks to quit.
func (c *Canvas) Handle(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.screen.Sync()
		c.indexes = make(map[string]*geoedit.Index)
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC, tcell.KeyCtrlQ:
			return true
		case tcell.KeyLeft:
			c.Pan(-4, 0)
			return false
		case tcell.KeyRight:
			c.Pan(4, 0)
			return false
		case tcell.KeyUp:
			c.Pan(0, -2)
			return false
		case tcell.KeyDown:
			c.Pan(0, 2)
			return false
		}
		c.Dispatch(geoedit.Event{
			Type:      geoedit.KeyDown,
			Key:       keyName(ev),
			Modifiers: modifiers(ev.Modifiers()),
			Time:      ev.When(),
		})
	case *tcell.EventMouse:
		c.handleMouse(ev)
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(quitSignal); ok {
			return true
		}
		c.Dispatch(geoedit.Event{Type: geoedit.Tick, Time: ev.When()})
	}
	return false
}

func (c *Canvas) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		c.Zoom(0.8, x, y)
		return
	case buttons&tcell.WheelDown != 0:
		c.Zoom(1.25, x, y)
		return
	}
	e := geoedit.Event{
		Point:     c.ToWorld(x, y),
		Modifiers: modifiers(ev.Modifiers()),
		Time:      ev.When(),
	}
	c.hit(&e)
	down := buttons&tcell.Button1 != 0
	switch {
	case down && !c.pressed:
		c.pressed, c.moved = true, false
		c.pressX, c.pressY = x, y
		e.Type = geoedit.PointerDown
		c.Dispatch(e)
	case down:
		if x != c.pressX || y != c.pressY {
			c.moved = true
		}
		e.Type = geoedit.PointerMove
		c.Dispatch(e)
	case c.pressed:
		c.pressed = false
		e.Type = geoedit.PointerUp
		c.Dispatch(e)
		if !c.moved {
			e.Type = geoedit.Click
			c.Dispatch(e)
		}
	default:
		e.Type = geoedit.PointerMove
		c.Dispatch(e)
	}
}

// Run draws and handles events until the user quits or ctx is done. It
// finalizes the screen before returning.
func (c *Canvas) Run(ctx context.Context) error {
	defer c.screen.Fini()
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(c.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.screen.PostEvent(tcell.NewEventInterrupt(nil))
			case <-ctx.Done():
				c.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
				return
			case <-done:
				return
			}
		}
	}()
	for {
		c.Draw()
		c.screen.Show()
		ev := c.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if c.Handle(ev) {
			c.Log.Info("terminal quit")
			return ctx.Err()
		}
	}
}
