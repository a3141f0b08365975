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
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
)

// SelectTool selects, moves and deletes shapes, their parts and their
// vertices.
//
// Pressing on a shape runs NextSelection, with Shift as the multi-select
// modifier. Moving the pointer further than DeadZone while pressed drags the
// active refs, or the active vertices if any vertex handle was pressed.
// Releasing without a drag applies the deferred refinement of the selection.
// Delete and Backspace remove the active vertices, or else the active refs;
// Escape clears the selection.
type SelectTool struct {
	// DeadZone is the distance the pointer must move while pressed before a
	// drag starts.
	DeadZone float64

	e        *Editor
	removers []func()

	pressed  bool
	dragging bool
	vertex   bool
	start    geom.Point
	last     geom.Point
	release  func() []Ref
	resetCur func()
}

// NewSelectTool returns a select tool with the given drag dead zone.
func NewSelectTool(deadZone float64) *SelectTool {
	return &SelectTool{DeadZone: deadZone}
}

func (t *SelectTool) String() string { return "select" }

// Enable implements Tool.
func (t *SelectTool) Enable(e *Editor) {
	t.e = e
	r := e.Renderer()
	t.removers = []func(){
		r.AddListener(PointerDown, FeaturesLayer, t.downFeature),
		r.AddListener(PointerDown, PointsLayer, t.downVertex),
		r.AddListener(PointerDown, "", t.downEmpty),
		r.AddListener(PointerMove, "", t.move),
		r.AddListener(PointerUp, "", t.up),
		r.AddListener(KeyDown, "", t.key),
	}
}

// Disable implements Tool.
func (t *SelectTool) Disable() {
	for _, rm := range t.removers {
		rm()
	}
	t.removers = nil
	t.endPress()
	if t.e != nil {
		t.e.State.Features.Set(Hover, nil)
	}
}

func (t *SelectTool) disabled(p Path) bool {
	d := t.e.State.Features.Get(Disabled)
	return Contains(d, ShapeRef(p[0]), false) || Contains(d, PartRef(p), true)
}

func (t *SelectTool) downFeature(ev Event) {
	t.e.FlushHover(ev.Time)
	clicked := ToPath(ev.Ref)
	if len(clicked) == 0 || t.disabled(clicked) {
		return
	}
	tr, ok := NextSelection(ev.Modifiers&ModShift != 0, t.e.State.Features.Get(Active), clicked)
	if !ok {
		return
	}
	t.e.State.Points.Set(Active, nil)
	t.e.State.Features.Set(Active, tr.Active)
	t.press(ev.Point)
	t.release = tr.Release
}

func (t *SelectTool) downVertex(ev Event) {
	t.e.FlushHover(ev.Time)
	if ev.Modifiers&ModShift != 0 {
		pts := t.e.State.Points
		if Contains(pts.Get(Active), ev.Ref, false) {
			pts.Remove(Active, ev.Ref)
		} else {
			pts.Add(Active, ev.Ref)
		}
	} else if !Contains(t.e.State.Points.Get(Active), ev.Ref, false) {
		t.e.State.Points.Set(Active, []Ref{ev.Ref})
	}
	t.press(ev.Point)
	t.vertex = true
}

func (t *SelectTool) downEmpty(ev Event) {
	if ev.Hit {
		return
	}
	t.e.FlushHover(ev.Time)
	if ev.Modifiers&ModShift == 0 {
		t.e.State.Points.Set(Active, nil)
		t.e.State.Features.Set(Active, nil)
	}
}

func (t *SelectTool) press(p geom.Point) {
	t.pressed = true
	t.dragging = false
	t.vertex = false
	t.start, t.last = p, p
	t.release = nil
}

func (t *SelectTool) move(ev Event) {
	t.e.FlushHover(ev.Time)
	if !t.pressed {
		t.hover(ev)
		return
	}
	if !t.dragging {
		if pointDistance(ev.Point, t.start) <= t.DeadZone {
			return
		}
		t.dragging = true
		t.release = nil
		t.resetCur = t.e.Renderer().SetCursor(CursorMove)
	}
	dx, dy := ev.Point.X-t.last.X, ev.Point.Y-t.last.Y
	t.last = ev.Point
	var edits []Edit
	shapes := t.e.Features()
	if t.vertex {
		for _, r := range t.e.State.Points.Get(Active) {
			edits = append(edits, Translate(shapes, r, dx, dy)...)
		}
	} else {
		for _, r := range t.e.State.Features.Get(Active) {
			edits = append(edits, Translate(shapes, r, dx, dy)...)
		}
	}
	t.e.Apply(dedupeEdits(edits)...)
}

// dedupeEdits drops later edits of a chain that an earlier edit already
// rewrites, so that overlapping refs move each chain once.
func dedupeEdits(edits []Edit) []Edit {
	var o []Edit
	var seen []Ref
	for _, e := range edits {
		r := PartRef(e.Path)
		if Contains(seen, r, false) {
			continue
		}
		seen = append(seen, r)
		o = append(o, e)
	}
	return o
}

func (t *SelectTool) hover(ev Event) {
	var next []Ref
	if ev.Hit && ev.Layer == FeaturesLayer {
		p := ToPath(ev.Ref)
		active := t.e.State.Features.Get(Active)
		if len(active) > 0 && !active[0].IsScalar() {
			next = []Ref{PartRef(p)}
		} else {
			next = []Ref{ShapeRef(p[0])}
		}
	}
	t.e.Hover(t.e.State.Features, next, ev.Time)
}

func (t *SelectTool) up(ev Event) {
	t.e.FlushHover(ev.Time)
	if !t.pressed {
		return
	}
	if t.dragging {
		t.e.Log.WithFields(logrus.Fields{
			"dx": ev.Point.X - t.start.X,
			"dy": ev.Point.Y - t.start.Y,
		}).Debug("geoedit drag")
	} else if t.release != nil {
		t.e.State.Features.Set(Active, t.release())
	}
	t.endPress()
}

func (t *SelectTool) endPress() {
	t.pressed = false
	t.dragging = false
	t.vertex = false
	t.release = nil
	if t.resetCur != nil {
		t.resetCur()
		t.resetCur = nil
	}
}

func (t *SelectTool) key(ev Event) {
	t.e.FlushHover(ev.Time)
	switch ev.Key {
	case KeyEscape:
		t.e.State.Points.Set(Active, nil)
		t.e.State.Features.Set(Active, nil)
	case KeyDelete, KeyBackspace:
		t.deleteActive()
	}
}

// deleteActive removes the active vertices, or if there are none the active
// refs. Refs are processed from the last path to the first, and the refs
// still waiting are remapped after each removal since it may shift or
// demote the parts they address.
func (t *SelectTool) deleteActive() {
	if v := t.e.State.Points.Get(Active); len(v) > 0 {
		n := 0
		shapes := t.e.Features()
		pending := sortedDesc(v)
		for len(pending) > 0 {
			ed, ok := RemoveVertex(shapes, ToPath(pending[0]))
			pending = pending[1:]
			if !ok {
				continue
			}
			next := Apply(shapes, ed)
			pending = sortedDesc(RemapRefs(shapes, next, pending))
			shapes = next
			n++
		}
		t.e.State.Points.Set(Active, nil)
		t.e.SetFeatures(shapes)
		t.e.Log.WithField("vertices", n).Debug("geoedit delete vertices")
		return
	}
	active := t.e.State.Features.Get(Active)
	if len(active) == 0 {
		return
	}
	shapes := t.e.Features()
	pending := sortedDesc(active)
	for len(pending) > 0 {
		ed := Edit{Path: ToPath(pending[0])}
		pending = pending[1:]
		next := Apply(shapes, ed)
		pending = sortedDesc(RemapRefs(shapes, next, pending))
		shapes = next
	}
	t.e.State.Features.Set(Active, nil)
	t.e.State.Features.Set(Hover, nil)
	t.e.Log.WithField("refs", len(active)).Debug("geoedit delete")
	t.e.SetFeatures(shapes)
}

// sortedDesc returns refs ordered by descending path.
func sortedDesc(refs []Ref) []Ref {
	o := append([]Ref(nil), refs...)
	sort.Slice(o, func(i, j int) bool {
		return later(ToPath(o[i]), ToPath(o[j]))
	})
	return o
}
