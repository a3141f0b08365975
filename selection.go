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

// SetKey names one of the selection sets held by a Tracker.
type SetKey int

// These are the selection sets.
const (
	Active SetKey = iota
	Hover
	Disabled
)

// SetKeys lists every selection set in notification order.
var SetKeys = []SetKey{Active, Hover, Disabled}

func (k SetKey) String() string {
	switch k {
	case Active:
		return "active"
	case Hover:
		return "hover"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ChangeFunc receives the refs added to and removed from one selection set.
type ChangeFunc func(key SetKey, added, removed []Ref)

// Tracker holds the active, hover and disabled selection sets and reports
// every change to them as a delta rather than a snapshot. A Tracker is not
// safe for concurrent use; it belongs to the single tool that is enabled.
type Tracker struct {
	sets      [3][]Ref
	observers []*observer
}

type observer struct {
	fn ChangeFunc
}

// NewTracker returns a Tracker with three empty sets.
func NewTracker() *Tracker {
	return new(Tracker)
}

// Observe registers fn to be called on every change. Observers are called in
// the order they were registered. The returned function unregisters fn; it
// may be called more than once.
func (t *Tracker) Observe(fn ChangeFunc) (cancel func()) {
	o := &observer{fn: fn}
	t.observers = append(t.observers, o)
	return func() {
		for i, oo := range t.observers {
			if oo == o {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

func (t *Tracker) notify(key SetKey, added, removed []Ref) {
	for _, o := range append([]*observer(nil), t.observers...) {
		o.fn(key, added, removed)
	}
}

// Get returns the refs in the named set. The returned slice must not be
// modified.
func (t *Tracker) Get(key SetKey) []Ref {
	return t.sets[key]
}

// States returns the sets that currently hold a ref equal to r.
func (t *Tracker) States(r Ref) FeatureState {
	return FeatureState{
		Active:   Contains(t.sets[Active], r, false),
		Hover:    Contains(t.sets[Hover], r, false),
		Disabled: Contains(t.sets[Disabled], r, false),
	}
}

// Set replaces the named set with next. Observers are told which refs were
// added and removed before next is committed.
func (t *Tracker) Set(key SetKey, next []Ref) {
	next = dedupe(next)
	cur := t.sets[key]
	var added, removed []Ref
	for _, r := range next {
		if !Contains(cur, r, false) {
			added = append(added, r)
		}
	}
	for _, r := range cur {
		if !Contains(next, r, false) {
			removed = append(removed, r)
		}
	}
	t.notify(key, added, removed)
	t.sets[key] = next
}

// Add puts refs into the named set. Refs that are already present are
// ignored, and nothing is reported if no ref is new.
func (t *Tracker) Add(key SetKey, refs ...Ref) {
	cur := t.sets[key]
	var added []Ref
	for _, r := range refs {
		if !Contains(cur, r, false) && !Contains(added, r, false) {
			added = append(added, r)
		}
	}
	if len(added) == 0 {
		return
	}
	t.notify(key, added, nil)
	next := make([]Ref, 0, len(cur)+len(added))
	next = append(next, cur...)
	t.sets[key] = append(next, added...)
}

// Remove takes refs out of the named set. Refs that are not present are
// ignored, and nothing is reported if no ref was present.
func (t *Tracker) Remove(key SetKey, refs ...Ref) {
	cur := t.sets[key]
	var removed []Ref
	for _, r := range refs {
		if Contains(cur, r, false) && !Contains(removed, r, false) {
			removed = append(removed, r)
		}
	}
	if len(removed) == 0 {
		return
	}
	t.notify(key, nil, removed)
	next := make([]Ref, 0, len(cur))
	for _, r := range cur {
		if !Contains(removed, r, false) {
			next = append(next, r)
		}
	}
	t.sets[key] = next
}

// Refresh reports the whole named set as added, without changing it. It is
// used to force observers to redraw.
func (t *Tracker) Refresh(key SetKey) {
	t.notify(key, t.sets[key], nil)
}

// Clear empties every set.
func (t *Tracker) Clear() {
	for _, k := range SetKeys {
		t.Set(k, nil)
	}
}
