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

// Transition is the outcome of a click on a sub-part.
type Transition struct {
	// Active is the selection to apply immediately.
	Active []Ref

	// Release, if not nil, returns a further refined selection. It is only
	// to be applied if the interaction ends as a plain click rather than the
	// start of a drag.
	Release func() []Ref
}

// NextSelection decides how the active selection changes when the sub-part
// at clicked is pressed. multi is true while the multi-select modifier is
// held. active must hold either only whole-shape refs or only sub-part refs.
// ok is false if the click should be ignored.
func NextSelection(multi bool, active []Ref, clicked Path) (t Transition, ok bool) {
	if len(clicked) == 0 {
		return t, false
	}
	assertUniform(active)
	cur := ShapeRef(clicked[0])
	part := PartRef(clicked)
	keep := append([]Ref(nil), active...)

	if len(active) == 0 || active[0].IsScalar() {
		selected := Contains(active, cur, false)
		switch {
		case !multi && selected && len(active) == 1:
			return Transition{Active: keep, Release: refs(part)}, true
		case !multi && selected:
			return Transition{Active: keep, Release: refs(cur)}, true
		case !multi:
			return Transition{Active: []Ref{cur}}, true
		case selected && len(active) == 1:
			return Transition{Active: keep}, true
		case selected:
			rest := without(active, cur, false)
			return Transition{Active: keep, Release: func() []Ref { return rest }}, true
		default:
			return Transition{Active: append(keep, cur)}, true
		}
	}

	if !sharesShape(active, clicked[0]) {
		return t, false
	}
	selected := Contains(active, part, false)
	switch {
	case !multi && !selected:
		return Transition{Active: []Ref{part}}, true
	case !multi && len(active) > 1:
		return Transition{Active: keep, Release: refs(part)}, true
	case !multi:
		return Transition{Active: keep, Release: refs(cur)}, true
	case !selected:
		return Transition{Active: append(without(active, part, true), part)}, true
	case len(active) == 1:
		return Transition{Active: keep}, true
	default:
		rest := without(active, part, false)
		return Transition{Active: keep, Release: func() []Ref { return rest }}, true
	}
}

func refs(r ...Ref) func() []Ref {
	return func() []Ref { return r }
}

// sharesShape reports whether any ref in active belongs to shape i.
func sharesShape(active []Ref, i int) bool {
	for _, r := range active {
		if ToScalar(r) == i {
			return true
		}
	}
	return false
}
