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
	"github.com/ctessum/geom"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IDKey is the property that holds the identifier of a created shape.
const IDKey = "id"

// DrawTool draws new shapes and adds lines, members and holes to the
// selected ones. The operation is decided by DecideDrawMode when the first
// position is placed. Clicks add positions, Enter finishes, Backspace drops
// the last position and Escape cancels.
type DrawTool struct {
	Kinds                    Kinds
	Create, Append, Subtract Capability

	// Isolated is passed through to DecideDrawMode.
	Isolated bool

	e        *Editor
	removers []func()
	resetCur func()

	draft   []geom.Point
	mode    DrawMode
	family  Family
	targets []int
}

// NewDrawTool returns a draw tool that may produce the given kinds and that
// creates shapes without a modifier.
func NewDrawTool(kinds ...Kind) *DrawTool {
	return &DrawTool{Kinds: kinds, Create: On, Append: Off, Subtract: Off}
}

func (t *DrawTool) String() string { return "draw" }

// Enable implements Tool.
func (t *DrawTool) Enable(e *Editor) {
	t.e = e
	r := e.Renderer()
	t.removers = []func(){
		r.AddListener(Click, "", t.click),
		r.AddListener(PointerMove, "", t.move),
		r.AddListener(KeyDown, "", t.key),
	}
}

// Disable implements Tool.
func (t *DrawTool) Disable() {
	for _, rm := range t.removers {
		rm()
	}
	t.removers = nil
	t.cancel()
}

// Drawing reports whether a draft is in progress.
func (t *DrawTool) Drawing() bool { return len(t.draft) > 0 }

// Mode returns the operation of the draft in progress.
func (t *DrawTool) Mode() DrawMode { return t.mode }

func (t *DrawTool) decide(held Modifier) DrawMode {
	return DecideDrawMode(DrawContext{
		Kinds:    t.Kinds,
		Create:   t.Create,
		Append:   t.Append,
		Subtract: t.Subtract,
		Selected: t.e.Selected(),
		Isolated: t.Isolated,
		Held:     held,
	})
}

func (t *DrawTool) setCursor(c Cursor) {
	if t.resetCur != nil {
		t.resetCur()
	}
	t.resetCur = t.e.Renderer().SetCursor(c)
}

func (t *DrawTool) click(ev Event) {
	t.e.FlushHover(ev.Time)
	if !t.Drawing() {
		m := t.decide(ev.Modifiers)
		if !m.Any() {
			return
		}
		t.begin(m)
	}
	t.draft = append(t.draft, ev.Point)
	t.renderDraft(nil)
}

func (t *DrawTool) begin(m DrawMode) {
	t.mode = m
	t.targets = t.e.SelectedIndices()
	switch {
	case m.Subtract:
		t.family = PlaneFamily
	case m.Extend:
		t.family = LineFamily
	case m.Append:
		t.family = t.e.Features()[t.targets[0]].Kind().Family()
	default:
		t.family = LineFamily
		if !t.Kinds.HasFamily(LineFamily) {
			t.family = PlaneFamily
		}
		t.targets = nil
	}
	t.e.Log.WithFields(logrus.Fields{
		"mode":   m.String(),
		"family": t.family.String(),
	}).Debug("geoedit draw start")
}

func (t *DrawTool) move(ev Event) {
	t.e.FlushHover(ev.Time)
	if t.Drawing() {
		t.renderDraft(&ev.Point)
		return
	}
	switch m := t.decide(ev.Modifiers); {
	case m.Append || m.Subtract:
		t.setCursor(CursorCopy)
	case m.Any():
		t.setCursor(CursorCrosshair)
	default:
		t.setCursor(CursorNotAllowed)
	}
}

// renderDraft draws the draft, followed by cursor if not nil.
func (t *DrawTool) renderDraft(cursor *geom.Point) {
	pts := clonePoints(t.draft)
	if cursor != nil {
		pts = append(pts, *cursor)
	}
	if t.family == PlaneFamily && len(pts) > 2 {
		pts = CloseRing(pts)
	}
	t.e.Renderer().Render(DraftLayer, []*Shape{NewLine(pts...)})
}

func (t *DrawTool) key(ev Event) {
	t.e.FlushHover(ev.Time)
	if !t.Drawing() {
		return
	}
	switch ev.Key {
	case KeyEnter:
		t.finish()
	case KeyEscape:
		t.cancel()
	case KeyBackspace:
		t.draft = t.draft[:len(t.draft)-1]
		if t.Drawing() {
			t.renderDraft(nil)
		} else {
			t.cancel()
		}
	}
}

func (t *DrawTool) cancel() {
	t.draft = nil
	t.mode = DrawMode{}
	t.targets = nil
	if t.resetCur != nil {
		t.resetCur()
		t.resetCur = nil
	}
	if t.e != nil {
		t.e.Renderer().Render(DraftLayer, nil)
	}
}

// finish turns the draft into edits. Drafts too short to form a line, or a
// ring for the Plane family, are discarded.
func (t *DrawTool) finish() {
	ins := clonePoints(t.draft)
	least := 2
	if t.family == PlaneFamily {
		least = 3
		ins = CloseRing(ins)
	}
	if len(t.draft) < least {
		t.cancel()
		return
	}
	shapes := t.e.Features()
	switch {
	case t.mode.Create:
		id := uuid.New().String()
		n := len(shapes)
		t.e.SetFeatures(Append(shapes, t.family, ins, Properties{IDKey: id}))
		t.e.State.Features.Set(Active, []Ref{ShapeRef(n)})
		t.e.Log.WithField("id", id).Info("geoedit created shape")
	case t.mode.Extend:
		t.e.Apply(extendEdit(shapes, t.targets[0], ins))
	case t.mode.Append:
		var edits []Edit
		for _, i := range t.targets {
			edits = append(edits, appendEdit(shapes[i], i, ins))
		}
		t.e.Apply(edits...)
	case t.mode.Subtract:
		var edits []Edit
		for _, i := range t.targets {
			edits = append(edits, subtractEdit(shapes[i], i, ins))
		}
		t.e.Apply(edits...)
	}
	t.cancel()
}

// extendEdit continues the line at i, or the last member of a MultiLine,
// with ins.
func extendEdit(shapes []*Shape, i int, ins []geom.Point) Edit {
	chain := Path{i, 0}
	if ml, ok := shapes[i].Geom.(geom.MultiLineString); ok {
		chain = Path{i, len(ml) - 1}
	}
	pts, _ := ChainAt(shapes, chain)
	o := make([]geom.Point, 0, len(pts)+len(ins))
	o = append(o, pts...)
	o = append(o, ins...)
	return Edit{Path: chain, Insertion: o}
}

// appendEdit adds ins as a new member of s, promoting a singular shape.
func appendEdit(s *Shape, i int, ins []geom.Point) Edit {
	switch s.Kind() {
	case Line:
		return Edit{Path: Path{i, 1}, Insertion: ins}
	case Polygon:
		return Edit{Path: Path{i, 1, 0}, Insertion: ins}
	}
	return Edit{Path: Path{i, s.Members()}, Insertion: ins}
}

// subtractEdit adds ins as a hole of s. For a MultiPolygon the hole goes
// into the member that holds the first position of ins, or the last member
// if none does.
func subtractEdit(s *Shape, i int, ins []geom.Point) Edit {
	switch g := s.Geom.(type) {
	case geom.Polygon:
		return Edit{Path: Path{i, len(g)}, Insertion: ins}
	case geom.MultiPolygon:
		m := len(g) - 1
		for j, p := range g {
			if ins[0].Within(p) != geom.Outside {
				m = j
				break
			}
		}
		return Edit{Path: Path{i, m, len(g[m])}, Insertion: ins}
	}
	return Edit{}
}
