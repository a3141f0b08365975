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
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
)

// Tool is an interaction mode of the Editor. Only one tool is enabled at a
// time, and only the enabled tool changes the features or the selection.
type Tool interface {
	// Enable registers the tool's listeners with e.
	Enable(e *Editor)

	// Disable removes the tool's listeners and any transient state.
	Disable()

	String() string
}

// State holds the selection trackers of an Editor. Features tracks refs into
// the features layer and Points tracks vertex paths on the points layer.
type State struct {
	Features *Tracker
	Points   *Tracker
}

// Editor owns a collection of shapes, its selection state and the enabled
// tool, and keeps a Renderer in step with them.
type Editor struct {
	// Log receives debugging information about edits and tool changes.
	Log logrus.FieldLogger

	// HoverDebounce is how long a hover must stay unchanged before it is
	// committed.
	HoverDebounce time.Duration

	State State

	r        Renderer
	features []*Shape
	tool     Tool

	hover struct {
		tracker  *Tracker
		refs     []Ref
		deadline time.Time
		armed    bool
	}

	changes   []*changeObserver
	removeTck func()
}

type changeObserver struct {
	fn func([]*Shape)
}

// NewEditor returns an editor of features drawn on r.
func NewEditor(r Renderer, features []*Shape) *Editor {
	e := &Editor{
		Log:           logrus.StandardLogger(),
		HoverDebounce: 50 * time.Millisecond,
		State: State{
			Features: NewTracker(),
			Points:   NewTracker(),
		},
		r: r,
	}
	e.State.Features.Observe(e.pushStates(FeaturesLayer, e.State.Features))
	e.State.Points.Observe(e.pushStates(PointsLayer, e.State.Points))
	e.State.Features.Observe(func(key SetKey, added, removed []Ref) {
		if key != Active {
			return
		}
		cur := e.State.Features.Get(Active)
		next := make([]Ref, 0, len(cur)+len(added))
		next = append(next, cur...)
		next = append(next, added...)
		for _, r := range removed {
			next = without(next, r, false)
		}
		e.renderPoints(next)
	})
	e.removeTck = r.AddListener(Tick, "", func(ev Event) { e.FlushHover(ev.Time) })
	e.setFeatures(features)
	return e
}

// pushStates returns an observer that copies changes of t to the renderer.
// It runs before t commits, so the state of each ref is derived from the
// current sets and the change.
func (e *Editor) pushStates(layer string, t *Tracker) ChangeFunc {
	return func(key SetKey, added, removed []Ref) {
		for _, r := range added {
			e.r.SetFeatureState(layer, r, t.States(r).Set(key, true))
		}
		for _, r := range removed {
			e.r.SetFeatureState(layer, r, t.States(r).Set(key, false))
		}
	}
}

// Renderer returns the renderer the editor draws on.
func (e *Editor) Renderer() Renderer { return e.r }

// Features returns the current shapes. The returned slice must not be
// modified; use SetFeatures or Mutate instead.
func (e *Editor) Features() []*Shape { return e.features }

// SetFeatures replaces the shapes and re-renders them. Selected refs follow
// the parts they address through moves, promotions and demotions, and refs
// that no longer address anything are dropped.
func (e *Editor) SetFeatures(features []*Shape) {
	e.setFeatures(features)
	for _, o := range append([]*changeObserver(nil), e.changes...) {
		o.fn(e.features)
	}
}

func (e *Editor) setFeatures(features []*Shape) {
	before := e.features
	e.features = features
	e.r.Render(FeaturesLayer, features)
	for _, t := range []*Tracker{e.State.Features, e.State.Points} {
		for _, k := range SetKeys {
			next := RemapRefs(before, features, t.Get(k))
			if t == e.State.Features {
				next = withoutVertices(features, next)
			}
			t.Set(k, next)
		}
	}
	e.renderPoints(e.State.Features.Get(Active))
	for _, k := range SetKeys {
		e.State.Features.Refresh(k)
		e.State.Points.Refresh(k)
	}
}

// OnChange registers fn to be called with the new shapes after every change.
// The returned function unregisters fn.
func (e *Editor) OnChange(fn func([]*Shape)) (cancel func()) {
	o := &changeObserver{fn: fn}
	e.changes = append(e.changes, o)
	return func() {
		for i, oo := range e.changes {
			if oo == o {
				e.changes = append(e.changes[:i:i], e.changes[i+1:]...)
				return
			}
		}
	}
}

// Mutate applies one edit to the shapes.
func (e *Editor) Mutate(path Path, insertion []geom.Point) {
	e.Apply(Edit{Path: path, Insertion: insertion})
}

// Apply applies edits to the shapes in order and re-renders once.
func (e *Editor) Apply(edits ...Edit) {
	if len(edits) == 0 {
		return
	}
	for _, ed := range edits {
		e.Log.WithFields(logrus.Fields{
			"path":      []int(ed.Path),
			"positions": len(ed.Insertion),
		}).Debug("geoedit mutate")
	}
	e.SetFeatures(Apply(e.features, edits...))
}

// Selected returns the shapes that hold an active ref, in collection order.
func (e *Editor) Selected() []*Shape {
	var o []*Shape
	for _, i := range e.SelectedIndices() {
		o = append(o, e.features[i])
	}
	return o
}

// SelectedIndices returns the indices of the shapes that hold an active ref,
// in ascending order.
func (e *Editor) SelectedIndices() []int {
	seen := make(map[int]bool)
	var o []int
	for _, r := range e.State.Features.Get(Active) {
		i := ToScalar(r)
		if i < len(e.features) && !seen[i] {
			seen[i] = true
			o = append(o, i)
		}
	}
	sort.Ints(o)
	return o
}

// renderPoints draws the vertex handles of every chain under active.
func (e *Editor) renderPoints(active []Ref) {
	var chains []Path
	for _, r := range active {
		if r.IsScalar() {
			continue
		}
		for _, c := range ChainsUnder(e.features, r) {
			if !Contains(pathRefs(chains), PartRef(c), false) {
				chains = append(chains, c)
			}
		}
	}
	e.r.Render(PointsLayer, VertexHandles(e.features, chains))
}

// withoutVertices drops refs that address single positions. Those belong
// on the points layer.
func withoutVertices(shapes []*Shape, refs []Ref) []Ref {
	o := refs[:0:0]
	for _, r := range refs {
		if !isVertex(shapes, r) {
			o = append(o, r)
		}
	}
	return o
}

func pathRefs(ps []Path) []Ref {
	o := make([]Ref, len(ps))
	for i, p := range ps {
		o[i] = PartRef(p)
	}
	return o
}

// Enable disables the current tool, if any, and enables t. A nil t leaves no
// tool enabled.
func (e *Editor) Enable(t Tool) {
	if e.tool != nil {
		e.Log.WithField("tool", e.tool.String()).Debug("geoedit disable tool")
		e.tool.Disable()
		e.cancelHover()
	}
	e.tool = t
	if t != nil {
		e.Log.WithField("tool", t.String()).Debug("geoedit enable tool")
		t.Enable(e)
	}
}

// Tool returns the enabled tool.
func (e *Editor) Tool() Tool { return e.tool }

// Close disables the enabled tool and removes the editor's listeners.
func (e *Editor) Close() {
	e.Enable(nil)
	if e.removeTck != nil {
		e.removeTck()
		e.removeTck = nil
	}
}

// Hover schedules refs to become the hover set of t once HoverDebounce has
// passed since now. Any hover scheduled earlier is dropped.
func (e *Editor) Hover(t *Tracker, refs []Ref, now time.Time) {
	if e.HoverDebounce <= 0 {
		e.cancelHover()
		t.Set(Hover, refs)
		return
	}
	e.hover.tracker = t
	e.hover.refs = refs
	e.hover.deadline = now.Add(e.HoverDebounce)
	e.hover.armed = true
}

// FlushHover commits a scheduled hover whose deadline is not after now.
func (e *Editor) FlushHover(now time.Time) {
	if !e.hover.armed || now.Before(e.hover.deadline) {
		return
	}
	t, refs := e.hover.tracker, e.hover.refs
	e.cancelHover()
	t.Set(Hover, refs)
}

func (e *Editor) cancelHover() {
	e.hover.armed = false
	e.hover.tracker = nil
	e.hover.refs = nil
}
