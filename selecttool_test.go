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


package geoedit

import (
	"reflect"
	"testing"
	"time"

	"github.com/ctessum/geom"
)

var square = geom.Path{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}

func selectSetup() (*Editor, *fakeRenderer) {
	r := newFakeRenderer()
	e := NewEditor(r, []*Shape{
		{Geom: geom.Polygon{square}},
		{Geom: geom.LineString{{X: 20, Y: 0}, {X: 30, Y: 0}}},
	})
	e.Enable(NewSelectTool(0.5))
	return e, r
}

func TestSelectToolClicks(t *testing.T) {
	e, r := selectSetup()
	active := func() []Ref { return e.State.Features.Get(Active) }

	r.click(5, 5, ModNone)
	if want := []Ref{ShapeRef(0)}; !reflect.DeepEqual(active(), want) {
		t.Fatalf("first click: have %v, want %v", active(), want)
	}
	r.click(5, 5, ModNone)
	if want := []Ref{PartRef(Path{0, 0})}; !reflect.DeepEqual(active(), want) {
		t.Fatalf("second click: have %v, want %v", active(), want)
	}
	if have := len(r.layers[PointsLayer]); have != 4 {
		t.Errorf("have %d vertex handles, want 4", have)
	}
	r.click(5, 5, ModNone)
	if want := []Ref{ShapeRef(0)}; !reflect.DeepEqual(active(), want) {
		t.Fatalf("third click: have %v, want %v", active(), want)
	}

	r.click(25, 0, ModShift)
	if want := []Ref{ShapeRef(0), ShapeRef(1)}; !reflect.DeepEqual(active(), want) {
		t.Fatalf("shift click: have %v, want %v", active(), want)
	}
	r.click(25, 0, ModShift)
	if want := []Ref{ShapeRef(0)}; !reflect.DeepEqual(active(), want) {
		t.Fatalf("second shift click: have %v, want %v", active(), want)
	}

	r.click(50, 50, ModNone)
	if len(active()) != 0 {
		t.Errorf("empty click: have %v, want nothing", active())
	}
}

func TestSelectToolDisabled(t *testing.T) {
	e, r := selectSetup()
	e.State.Features.Set(Disabled, []Ref{ShapeRef(1)})
	r.click(25, 0, ModNone)
	if have := e.State.Features.Get(Active); len(have) != 0 {
		t.Errorf("have %v, want nothing", have)
	}
}

func TestSelectToolDrag(t *testing.T) {
	e, r := selectSetup()
	r.pointer(PointerDown, 5, 5, ModNone)
	r.pointer(PointerMove, 5.2, 5, ModNone)
	if r.cursor != CursorDefault {
		t.Error("drag started inside the dead zone")
	}
	r.pointer(PointerMove, 6, 5, ModNone)
	if r.cursor != CursorMove {
		t.Errorf("have cursor %v, want %v", r.cursor, CursorMove)
	}
	r.pointer(PointerMove, 7, 6, ModNone)
	r.pointer(PointerUp, 7, 6, ModNone)
	if r.cursor != CursorDefault {
		t.Errorf("have cursor %v after drag", r.cursor)
	}
	want := geom.Polygon{{{X: 2, Y: 1}, {X: 12, Y: 1}, {X: 12, Y: 11}, {X: 2, Y: 11}, {X: 2, Y: 1}}}
	if have := e.Features()[0].Geom; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	if have := e.State.Features.Get(Active); !reflect.DeepEqual(have, []Ref{ShapeRef(0)}) {
		t.Errorf("drag should not apply the release: have %v", have)
	}
}

func TestSelectToolVertex(t *testing.T) {
	e, r := selectSetup()
	e.State.Features.Set(Active, []Ref{PartRef(Path{0, 0})})

	r.pointer(PointerDown, 10, 10, ModNone)
	if have := e.State.Points.Get(Active); !reflect.DeepEqual(have, []Ref{PartRef(Path{0, 0, 2})}) {
		t.Fatalf("have %v, want [[0 0 2]]", have)
	}
	r.pointer(PointerMove, 11, 11, ModNone)
	r.pointer(PointerMove, 12, 12, ModNone)
	r.pointer(PointerUp, 12, 12, ModNone)
	ring := e.Features()[0].Geom.(geom.Polygon)[0]
	if ring[2] != (geom.Point{X: 12, Y: 12}) {
		t.Errorf("have %v, want vertex at 12,12", ring)
	}

	r.key(KeyDelete)
	want := geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 0}}}
	if have := e.Features()[0].Geom; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	if have := e.State.Points.Get(Active); len(have) != 0 {
		t.Errorf("have %v, want no active vertices", have)
	}
}

func TestSelectToolDelete(t *testing.T) {
	e, r := selectSetup()
	e.State.Features.Set(Active, []Ref{ShapeRef(0), ShapeRef(1)})
	r.key(KeyBackspace)
	if have := len(e.Features()); have != 0 {
		t.Errorf("have %d shapes, want 0", have)
	}

	e, r = selectSetup()
	e.State.Features.Set(Active, []Ref{ShapeRef(1)})
	r.key(KeyEscape)
	r.key(KeyDelete)
	if have := len(e.Features()); have != 2 {
		t.Errorf("have %d shapes, want 2", have)
	}
}

func TestSelectToolDeleteAcrossDemotion(t *testing.T) {
	hole := geom.Path{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 2}}
	other := geom.Path{{X: 20, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 10}, {X: 20, Y: 0}}

	t.Run("rings", func(t *testing.T) {
		r := newFakeRenderer()
		e := NewEditor(r, []*Shape{{Geom: geom.MultiPolygon{{square, hole}, {other}}}})
		e.Enable(NewSelectTool(0.5))
		e.State.Features.Set(Active, []Ref{PartRef(Path{0, 1, 0}), PartRef(Path{0, 0, 1})})
		r.key(KeyDelete)
		if len(e.Features()) != 1 {
			t.Fatalf("have %d shapes, want 1", len(e.Features()))
		}
		if have, want := e.Features()[0].Geom, (geom.Polygon{square}); !reflect.DeepEqual(have, want) {
			t.Errorf("have %v, want %v", have, want)
		}
	})

	t.Run("vertices", func(t *testing.T) {
		r := newFakeRenderer()
		e := NewEditor(r, []*Shape{{Geom: geom.MultiPolygon{{square}, {other}}}})
		e.Enable(NewSelectTool(0.5))
		e.State.Points.Set(Active, []Ref{PartRef(Path{0, 1, 0, 1}), PartRef(Path{0, 0, 0, 2})})
		r.key(KeyDelete)
		if len(e.Features()) != 1 {
			t.Fatalf("have %d shapes, want 1", len(e.Features()))
		}
		want := geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 0}}}
		if have := e.Features()[0].Geom; !reflect.DeepEqual(have, want) {
			t.Errorf("have %v, want %v", have, want)
		}
	})
}

func TestSelectToolHover(t *testing.T) {
	e, r := selectSetup()
	r.pointer(PointerMove, 25, 0.1, ModNone)
	if have := e.State.Features.Get(Hover); len(have) != 0 {
		t.Fatalf("hover committed early: %v", have)
	}
	r.tick(100 * time.Millisecond)
	if have, want := e.State.Features.Get(Hover), []Ref{ShapeRef(1)}; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	r.pointer(PointerMove, 50, 50, ModNone)
	r.tick(100 * time.Millisecond)
	if have := e.State.Features.Get(Hover); len(have) != 0 {
		t.Errorf("have %v, want no hover", have)
	}
}

func TestSelectToolDisable(t *testing.T) {
	e, r := selectSetup()
	e.Enable(nil)
	if len(r.listeners) != 1 {
		t.Errorf("have %d listeners, want only the tick listener", len(r.listeners))
	}
	r.click(5, 5, ModNone)
	if have := e.State.Features.Get(Active); len(have) != 0 {
		t.Errorf("have %v, want nothing", have)
	}
}
