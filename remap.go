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

	"github.com/ctessum/geom"
)

// RemapRefs rewrites refs that address parts of before so that they address
// the same parts of after, following shapes that moved, were promoted or
// were demoted. Refs whose target is gone are dropped.
//
// Shapes are followed by identity, which Mutate preserves for every shape it
// does not edit; an edited shape is matched to the shape now at its index.
// Inside an edited shape, members and rings are matched by equal
// coordinates first and then in order.
func RemapRefs(before, after []*Shape, refs []Ref) []Ref {
	shapes := matchShapes(before, after)
	o := make([]Ref, 0, len(refs))
	for _, r := range refs {
		if m, ok := remapRef(before, after, shapes, r); ok && Resolve(after, m) {
			o = append(o, m)
		}
	}
	return dedupe(o)
}

func matchShapes(before, after []*Shape) map[int]int {
	pos := make(map[*Shape]int, len(before))
	for i, s := range before {
		pos[s] = i
	}
	m := make(map[int]int, len(before))
	taken := make(map[int]bool, len(after))
	for j, s := range after {
		if i, ok := pos[s]; ok {
			m[i] = j
			taken[j] = true
		}
	}
	for i := range before {
		if _, ok := m[i]; !ok && i < len(after) && !taken[i] {
			m[i] = i
			taken[i] = true
		}
	}
	return m
}

func remapRef(before, after []*Shape, shapes map[int]int, r Ref) (Ref, bool) {
	p := ToPath(r)
	if len(p) == 0 || p[0] < 0 || p[0] >= len(before) {
		return Ref{}, false
	}
	j, ok := shapes[p[0]]
	if !ok {
		return Ref{}, false
	}
	if r.IsScalar() {
		return ShapeRef(j), true
	}
	if len(p) == 1 {
		return PartRef(Path{j}), true
	}
	old, cur := before[p[0]], after[j]
	if old == cur {
		p[0] = j
		return PartRef(p), true
	}
	if !old.Valid() || !cur.Valid() || old.Kind().Family() != cur.Kind().Family() {
		return Ref{}, false
	}
	m, inner, ok := splitMember(old.Kind(), p[1:])
	if !ok {
		return Ref{}, false
	}
	om, cm := members(old.Geom), members(cur.Geom)
	n, ok := matchIndex(len(om), len(cm), func(a, b int) bool {
		return reflect.DeepEqual(om[a], cm[b])
	}, m)
	if !ok {
		return Ref{}, false
	}
	if len(inner) > 0 {
		if op, ok := om[m].(geom.Polygon); ok {
			cp := cm[n].(geom.Polygon)
			ring, ok := matchIndex(len(op), len(cp), func(a, b int) bool {
				return reflect.DeepEqual(op[a], cp[b])
			}, inner[0])
			if !ok {
				return Ref{}, false
			}
			inner = append(Path{ring}, inner[1:]...)
		}
	}
	q, ok := joinMember(cur.Kind(), n, inner)
	if !ok {
		return Ref{}, false
	}
	return PartRef(append(Path{j}, q...)), true
}

// splitMember splits the part of a path below the shape index into the
// member it falls in and the path inside that member. A singular shape is
// its own member 0.
func splitMember(k Kind, rest Path) (m int, inner Path, ok bool) {
	switch k {
	case Line:
		if rest[0] != 0 {
			return 0, nil, false
		}
		return 0, rest[1:], true
	case Polygon:
		return 0, rest, true
	default:
		return rest[0], rest[1:], true
	}
}

// joinMember is the inverse of splitMember.
func joinMember(k Kind, m int, inner Path) (Path, bool) {
	switch k {
	case Line:
		if m != 0 {
			return nil, false
		}
		return append(Path{0}, inner...), true
	case Polygon:
		if m != 0 {
			return nil, false
		}
		return inner.Clone(), true
	default:
		return append(Path{m}, inner...), true
	}
}

// members returns the top-level members of g, treating a singular geometry
// as a plural one with a single member.
func members(g geom.Geom) []geom.Geom {
	switch t := g.(type) {
	case geom.MultiLineString:
		o := make([]geom.Geom, len(t))
		for i, l := range t {
			o[i] = l
		}
		return o
	case geom.MultiPolygon:
		o := make([]geom.Geom, len(t))
		for i, p := range t {
			o[i] = p
		}
		return o
	}
	return []geom.Geom{g}
}

// matchIndex returns the entry of a list of length m that entry i of a list
// of length n became. Entries for which same holds are paired first, then
// the rest are paired in order.
func matchIndex(n, m int, same func(a, b int) bool, i int) (int, bool) {
	if i < 0 || i >= n {
		return 0, false
	}
	to := make([]int, n)
	used := make([]bool, m)
	for a := range to {
		to[a] = -1
		for b := 0; b < m; b++ {
			if !used[b] && same(a, b) {
				to[a] = b
				used[b] = true
				break
			}
		}
	}
	b := 0
	for a := range to {
		if to[a] >= 0 {
			continue
		}
		for b < m && used[b] {
			b++
		}
		if b == m {
			break
		}
		to[a] = b
		used[b] = true
	}
	return to[i], to[i] >= 0
}

// isVertex reports whether r addresses a single position rather than a
// shape, member or chain.
func isVertex(shapes []*Shape, r Ref) bool {
	if r.IsScalar() {
		return false
	}
	p := ToPath(r)
	if _, ok := ChainAt(shapes, p); ok {
		return false
	}
	_, _, ok := SplitVertex(shapes, p)
	return ok
}
