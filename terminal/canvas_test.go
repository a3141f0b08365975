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
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/gdamore/tcell/v2"
	"github.com/spatialmodel/geoedit"
)

func testCanvas(t *testing.T) (*Canvas, tcell.SimulationScreen, *geoedit.Editor) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(40, 12)
	c := NewCanvas(s, DefaultTheme())
	c.SetView(geom.Point{X: 0, Y: 20}, 1)
	e := geoedit.NewEditor(c, []*geoedit.Shape{
		geoedit.NewLine(geom.Point{X: 0.5, Y: 15}, geom.Point{X: 30.5, Y: 15}),
		geoedit.NewPolygon(geom.Path{{X: 2, Y: 2}, {X: 10, Y: 2}, {X: 10, Y: 10}, {X: 2, Y: 10}, {X: 2, Y: 2}}),
	})
	e.HoverDebounce = 0
	e.Enable(geoedit.NewSelectTool(0.5))
	return c, s, e
}

func TestViewTransform(t *testing.T) {
	c, _, _ := testCanvas(t)
	p := c.ToWorld(5, 2)
	if want := (geom.Point{X: 5.5, Y: 15}); p != want {
		t.Errorf("have %v, want %v", p, want)
	}
	if x, y := c.ToCell(p); x != 5 || y != 2 {
		t.Errorf("have %d,%d, want 5,2", x, y)
	}
}

func TestCanvasDraw(t *testing.T) {
	c, s, _ := testCanvas(t)
	c.SetStatus("select")
	c.Draw()
	theme := DefaultTheme()
	for _, test := range []struct {
		x, y int
		want rune
	}{
		{x: 0, y: 2, want: glyph(theme.Line)},
		{x: 30, y: 2, want: glyph(theme.Line)},
		{x: 5, y: 7, want: glyph(theme.Fill)},
		{x: 35, y: 7, want: ' '},
	} {
		if have, _, _, _ := s.GetContent(test.x, test.y); have != test.want {
			t.Errorf("%d,%d: have %q, want %q", test.x, test.y, have, test.want)
		}
	}
	var status []rune
	for x := 0; x < 40; x++ {
		r, _, _, _ := s.GetContent(x, 11)
		status = append(status, r)
	}
	if !strings.Contains(string(status), "select") {
		t.Errorf("have status %q", string(status))
	}
}

func mouse(c *Canvas, x, y int, b tcell.ButtonMask) {
	c.Handle(tcell.NewEventMouse(x, y, b, tcell.ModNone))
}

func TestCanvasSelect(t *testing.T) {
	c, s, e := testCanvas(t)
	mouse(c, 10, 2, tcell.Button1)
	mouse(c, 10, 2, tcell.ButtonNone)
	if have, want := e.State.Features.Get(geoedit.Active), []geoedit.Ref{geoedit.ShapeRef(0)}; !reflect.DeepEqual(have, want) {
		t.Fatalf("have %v, want %v", have, want)
	}
	c.Draw()
	_, _, st, _ := s.GetContent(10, 2)
	if fg, _, _ := st.Decompose(); fg != tcell.GetColor(DefaultTheme().Active) {
		t.Errorf("have color %v, want active color", fg)
	}

	mouse(c, 10, 2, tcell.Button1)
	mouse(c, 12, 2, tcell.Button1)
	mouse(c, 12, 2, tcell.ButtonNone)
	line := e.Features()[0].Geom.(geom.LineString)
	if want := (geom.Point{X: 2.5, Y: 15}); line[0] != want {
		t.Errorf("have %v, want %v", line[0], want)
	}
}

func TestCanvasHoverAndKeys(t *testing.T) {
	c, _, e := testCanvas(t)
	mouse(c, 5, 7, tcell.ButtonNone)
	if have, want := e.State.Features.Get(geoedit.Hover), []geoedit.Ref{geoedit.ShapeRef(1)}; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}

	var keys []string
	c.AddListener(geoedit.KeyDown, "", func(ev geoedit.Event) { keys = append(keys, ev.Key) })
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone),
	} {
		if c.Handle(ev) {
			t.Fatal("unexpected quit")
		}
	}
	if want := []string{geoedit.KeyEscape, geoedit.KeyBackspace, "d"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("have %v, want %v", keys, want)
	}
	if !c.Handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("ctrl-c should quit")
	}
}

func TestCanvasTick(t *testing.T) {
	c, _, _ := testCanvas(t)
	var ticks int
	c.AddListener(geoedit.Tick, "", func(geoedit.Event) { ticks++ })
	c.Handle(tcell.NewEventInterrupt(nil))
	if ticks != 1 {
		t.Errorf("have %d ticks, want 1", ticks)
	}
}

func TestCanvasRunCancel(t *testing.T) {
	c, _, _ := testCanvas(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != context.Canceled {
		t.Errorf("have %v, want %v", err, context.Canceled)
	}
}
