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

import "github.com/ctessum/geom"

// Mutate applies one structural edit to s, which sits at position index in
// its collection. path[0] selects the shape and the remaining elements
// address a ring, member or position inside it. insertion is the list of
// positions to put at the addressed location; an empty insertion deletes.
//
// If path[0] != index, s itself is returned unchanged, so Mutate can be mapped
// over a whole collection. Otherwise a new shape holding the edit is returned,
// or nil if the edit removed the shape entirely. The Properties of s are
// carried over unchanged.
//
// A negative ring or member index leaves the shape unchanged. The edit
// rules are:
//
//   - path == [i]: replace the whole shape with insertion, as the singular
//     kind of its family (insertion becomes the single ring of a Plane shape).
//   - path == [i, k]: on a Polygon or a plural kind, replace, remove or (for
//     k past the end) append ring or member k. Removing down to one member
//     demotes a plural kind to singular; removing the last entry deletes the
//     shape. On a Line, k == 0 replaces the whole line and k >= 1 promotes it
//     to a MultiLine of [line, insertion].
//   - longer paths descend into a member of a plural kind. On a Line or
//     Polygon, which have nothing deeper to address, only k = path[1] is
//     considered: k == 0 replaces the whole shape and k >= 1 promotes the
//     original shape into a two-member plural kind.
func Mutate(s *Shape, index int, path Path, insertion []geom.Point) *Shape {
	if s == nil || len(path) == 0 || path[0] != index {
		return s
	}
	g := mutateGeom(s.Geom, path[1:], insertion)
	if g == nil {
		return nil
	}
	return &Shape{Geom: g, Properties: s.Properties}
}

// MutateAll maps Mutate over shapes and drops any shapes that were deleted.
// The input slice is not modified.
func MutateAll(shapes []*Shape, path Path, insertion []geom.Point) []*Shape {
	out := make([]*Shape, 0, len(shapes))
	for i, s := range shapes {
		if m := Mutate(s, i, path, insertion); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Append creates a new shape of family f from insertion at the end of shapes.
// The new shape is built by mutation of an empty shape, so an empty insertion
// creates nothing.
func Append(shapes []*Shape, f Family, insertion []geom.Point, props Properties) []*Shape {
	n := len(shapes)
	s := NewShape(f)
	s.Properties = props
	created := Mutate(s, n, Path{n}, insertion)
	out := make([]*Shape, n, n+1)
	copy(out, shapes)
	if created != nil {
		out = append(out, created)
	}
	return out
}

// mutateGeom applies rest (the path below the shape index) to g. A nil
// return means the geometry has been emptied.
func mutateGeom(g geom.Geom, rest Path, ins []geom.Point) geom.Geom {
	k, ok := kindOf(g)
	if !ok {
		return g
	}
	if len(rest) == 0 {
		return replace(k.Family(), ins)
	}
	idx := rest[0]
	if idx < 0 {
		return g
	}
	switch t := g.(type) {
	case geom.LineString:
		return promote(t, idx, ins)
	case geom.Polygon:
		if len(rest) > 1 {
			return promote(t, idx, ins)
		}
		return editRings(t, idx, ins)
	case geom.MultiLineString:
		if len(rest) == 1 {
			return editLines(t, idx, ins)
		}
		if idx >= len(t) {
			return editLines(t, idx, ins)
		}
		return spliceLine(t, idx, mutateGeom(t[idx], rest[1:], ins))
	case geom.MultiPolygon:
		if len(rest) == 1 {
			return editPolygons(t, idx, ins)
		}
		if idx >= len(t) {
			return editPolygons(t, idx, ins)
		}
		return splicePolygon(t, idx, mutateGeom(t[idx], rest[1:], ins))
	}
	return g
}

// replace builds the singular kind of family f from ins.
func replace(f Family, ins []geom.Point) geom.Geom {
	if len(ins) == 0 {
		return nil
	}
	if f == PlaneFamily {
		return geom.Polygon{geom.Path(clonePoints(ins))}
	}
	return geom.LineString(clonePoints(ins))
}

// promote handles a singular shape addressed at a level it has no container
// for. There is conceptually a single member, the shape itself.
func promote(g geom.Geom, idx int, ins []geom.Point) geom.Geom {
	k, _ := kindOf(g)
	if idx == 0 {
		return replace(k.Family(), ins)
	}
	if len(ins) == 0 {
		return g
	}
	switch t := g.(type) {
	case geom.LineString:
		return geom.MultiLineString{t, geom.LineString(clonePoints(ins))}
	case geom.Polygon:
		return geom.MultiPolygon{t, geom.Polygon{geom.Path(clonePoints(ins))}}
	}
	return g
}

func editRings(p geom.Polygon, idx int, ins []geom.Point) geom.Geom {
	n := len(p)
	switch {
	case idx >= n && len(ins) == 0:
		return p
	case idx >= n:
		o := make(geom.Polygon, n, n+1)
		copy(o, p)
		return append(o, geom.Path(clonePoints(ins)))
	case len(ins) == 0:
		o := make(geom.Polygon, 0, n-1)
		o = append(o, p[:idx]...)
		o = append(o, p[idx+1:]...)
		if len(o) == 0 {
			return nil
		}
		return o
	default:
		o := make(geom.Polygon, n)
		copy(o, p)
		o[idx] = geom.Path(clonePoints(ins))
		return o
	}
}

func editLines(ml geom.MultiLineString, idx int, ins []geom.Point) geom.Geom {
	n := len(ml)
	switch {
	case idx >= n && len(ins) == 0:
		return ml
	case idx >= n:
		o := make(geom.MultiLineString, n, n+1)
		copy(o, ml)
		return append(o, geom.LineString(clonePoints(ins)))
	case len(ins) == 0:
		return spliceLine(ml, idx, nil)
	default:
		o := make(geom.MultiLineString, n)
		copy(o, ml)
		o[idx] = geom.LineString(clonePoints(ins))
		return o
	}
}

func editPolygons(mp geom.MultiPolygon, idx int, ins []geom.Point) geom.Geom {
	n := len(mp)
	switch {
	case idx >= n && len(ins) == 0:
		return mp
	case idx >= n:
		o := make(geom.MultiPolygon, n, n+1)
		copy(o, mp)
		return append(o, geom.Polygon{geom.Path(clonePoints(ins))})
	case len(ins) == 0:
		return splicePolygon(mp, idx, nil)
	default:
		o := make(geom.MultiPolygon, n)
		copy(o, mp)
		o[idx] = geom.Polygon{geom.Path(clonePoints(ins))}
		return o
	}
}

// spliceLine puts the result of editing member idx back into ml. A nil
// result removes the member, a MultiLineString result is flattened into ml.
func spliceLine(ml geom.MultiLineString, idx int, res geom.Geom) geom.Geom {
	o := make(geom.MultiLineString, 0, len(ml)+1)
	o = append(o, ml[:idx]...)
	removed := false
	switch t := res.(type) {
	case nil:
		removed = true
	case geom.LineString:
		o = append(o, t)
	case geom.MultiLineString:
		o = append(o, t...)
	}
	o = append(o, ml[idx+1:]...)
	if !removed {
		return o
	}
	switch len(o) {
	case 0:
		return nil
	case 1:
		return o[0]
	}
	return o
}

// splicePolygon is spliceLine for MultiPolygons.
func splicePolygon(mp geom.MultiPolygon, idx int, res geom.Geom) geom.Geom {
	o := make(geom.MultiPolygon, 0, len(mp)+1)
	o = append(o, mp[:idx]...)
	removed := false
	switch t := res.(type) {
	case nil:
		removed = true
	case geom.Polygon:
		o = append(o, t)
	case geom.MultiPolygon:
		o = append(o, t...)
	}
	o = append(o, mp[idx+1:]...)
	if !removed {
		return o
	}
	switch len(o) {
	case 0:
		return nil
	case 1:
		return o[0]
	}
	return o
}
