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

// Edit is one call to Mutate.
type Edit struct {
	Path      Path
	Insertion []geom.Point
}

// Apply applies edits to shapes in order.
func Apply(shapes []*Shape, edits ...Edit) []*Shape {
	for _, e := range edits {
		shapes = MutateAll(shapes, e.Path, e.Insertion)
	}
	return shapes
}

// Chains returns the paths of every position list in s, which sits at index
// i. The chain of a Line is [i 0]; the rings of a Polygon are [i r]; the
// members of a MultiLine are [i m]; and the rings of a MultiPolygon are
// [i m r].
func Chains(s *Shape, i int) []Path {
	var o []Path
	switch g := s.Geom.(type) {
	case geom.LineString:
		o = append(o, Path{i, 0})
	case geom.Polygon:
		for r := range g {
			o = append(o, Path{i, r})
		}
	case geom.MultiLineString:
		for m := range g {
			o = append(o, Path{i, m})
		}
	case geom.MultiPolygon:
		for m, p := range g {
			for r := range p {
				o = append(o, Path{i, m, r})
			}
		}
	}
	return o
}

// chainDepth is the length of a chain path for kind k.
func chainDepth(k Kind) int {
	if k == MultiPolygon {
		return 3
	}
	return 2
}

// ChainAt returns the positions of the chain at p. ok is false if p is not
// the path of an existing chain.
func ChainAt(shapes []*Shape, p Path) (pts []geom.Point, ok bool) {
	if len(p) < 2 || p[0] >= len(shapes) || !shapes[p[0]].Valid() {
		return nil, false
	}
	s := shapes[p[0]]
	if len(p) != chainDepth(s.Kind()) {
		return nil, false
	}
	switch g := s.Geom.(type) {
	case geom.LineString:
		if p[1] == 0 {
			return g, true
		}
	case geom.Polygon:
		if p[1] < len(g) {
			return g[p[1]], true
		}
	case geom.MultiLineString:
		if p[1] < len(g) {
			return g[p[1]], true
		}
	case geom.MultiPolygon:
		if p[1] < len(g) && p[2] < len(g[p[1]]) {
			return g[p[1]][p[2]], true
		}
	}
	return nil, false
}

// Closed reports whether the chain at p is a ring of a Plane-family shape.
func Closed(shapes []*Shape, p Path) bool {
	if len(p) == 0 || p[0] >= len(shapes) || !shapes[p[0]].Valid() {
		return false
	}
	return shapes[p[0]].Kind().Family() == PlaneFamily
}

// SplitVertex splits a vertex path into its chain path and position index.
// ok is false if p does not address an existing position.
func SplitVertex(shapes []*Shape, p Path) (chain Path, v int, ok bool) {
	if len(p) < 3 {
		return nil, 0, false
	}
	chain, v = p[:len(p)-1], p[len(p)-1]
	pts, ok := ChainAt(shapes, chain)
	if !ok || v >= len(pts) {
		return nil, 0, false
	}
	return chain.Clone(), v, true
}

// Resolve reports whether r addresses something that exists in shapes: a
// shape, a member of a plural shape, a chain or a vertex.
func Resolve(shapes []*Shape, r Ref) bool {
	p := ToPath(r)
	if len(p) == 0 || p[0] >= len(shapes) || !shapes[p[0]].Valid() {
		return false
	}
	if r.IsScalar() || len(p) == 1 {
		return true
	}
	if _, ok := ChainAt(shapes, p); ok {
		return true
	}
	if _, _, ok := SplitVertex(shapes, p); ok {
		return true
	}
	if g, ok := shapes[p[0]].Geom.(geom.MultiPolygon); ok && len(p) == 2 {
		return p[1] < len(g)
	}
	return false
}

// ChainsUnder returns the chains that r addresses or contains. A vertex ref
// returns the chain holding the vertex.
func ChainsUnder(shapes []*Shape, r Ref) []Path {
	p := ToPath(r)
	if len(p) == 0 || p[0] >= len(shapes) || !shapes[p[0]].Valid() {
		return nil
	}
	all := Chains(shapes[p[0]], p[0])
	var o []Path
	for _, c := range all {
		if Equal(PartRef(c), PartRef(p), true) {
			o = append(o, c)
		}
	}
	return o
}

// Translate returns the edits that move everything r addresses by (dx, dy).
// A vertex ref moves only that vertex.
func Translate(shapes []*Shape, r Ref, dx, dy float64) []Edit {
	if chain, v, ok := SplitVertex(shapes, ToPath(r)); ok && !r.IsScalar() {
		pts, _ := ChainAt(shapes, chain)
		p := geom.Point{X: pts[v].X + dx, Y: pts[v].Y + dy}
		return []Edit{moveVertex(shapes, chain, pts, v, p)}
	}
	var o []Edit
	for _, c := range ChainsUnder(shapes, r) {
		pts, _ := ChainAt(shapes, c)
		moved := make([]geom.Point, len(pts))
		for i, pt := range pts {
			moved[i] = geom.Point{X: pt.X + dx, Y: pt.Y + dy}
		}
		o = append(o, Edit{Path: c, Insertion: moved})
	}
	return o
}

// MoveVertex returns the edit that puts the vertex at path p at pt.
func MoveVertex(shapes []*Shape, p Path, pt geom.Point) (Edit, bool) {
	chain, v, ok := SplitVertex(shapes, p)
	if !ok {
		return Edit{}, false
	}
	pts, _ := ChainAt(shapes, chain)
	return moveVertex(shapes, chain, pts, v, pt), true
}

func moveVertex(shapes []*Shape, chain Path, pts []geom.Point, v int, pt geom.Point) Edit {
	o := clonePoints(pts)
	o[v] = pt
	if Closed(shapes, chain) && isClosed(pts) {
		switch v {
		case 0:
			o[len(o)-1] = pt
		case len(o) - 1:
			o[0] = pt
		}
	}
	return Edit{Path: chain, Insertion: o}
}

// RemoveVertex returns the edit that removes the vertex at path p. If the
// chain would be left with fewer than two positions, or a closed ring with
// fewer than four, the edit removes the whole chain instead.
func RemoveVertex(shapes []*Shape, p Path) (Edit, bool) {
	chain, v, ok := SplitVertex(shapes, p)
	if !ok {
		return Edit{}, false
	}
	pts, _ := ChainAt(shapes, chain)
	closed := Closed(shapes, chain) && isClosed(pts)
	if closed && v == len(pts)-1 {
		v = 0
	}
	o := make([]geom.Point, 0, len(pts))
	o = append(o, pts[:v]...)
	o = append(o, pts[v+1:]...)
	if closed && v == 0 && len(o) > 0 {
		o[len(o)-1] = o[0]
	}
	least := 2
	if closed {
		least = 4
	}
	if len(o) < least {
		o = nil
	}
	return Edit{Path: chain, Insertion: o}, true
}

// InsertVertex returns the edit that inserts pt into the chain at chain
// before position v.
func InsertVertex(shapes []*Shape, chain Path, v int, pt geom.Point) (Edit, bool) {
	pts, ok := ChainAt(shapes, chain)
	if !ok || v < 0 || v > len(pts) {
		return Edit{}, false
	}
	o := make([]geom.Point, 0, len(pts)+1)
	o = append(o, pts[:v]...)
	o = append(o, pt)
	o = append(o, pts[v:]...)
	return Edit{Path: chain.Clone(), Insertion: o}, true
}

// CloseRing returns pts with the first position repeated at the end, unless
// it already is.
func CloseRing(pts []geom.Point) []geom.Point {
	if len(pts) == 0 || isClosed(pts) {
		return pts
	}
	o := make([]geom.Point, len(pts), len(pts)+1)
	copy(o, pts)
	return append(o, pts[0])
}

func isClosed(pts []geom.Point) bool {
	return len(pts) > 1 && pts[0].Equals(pts[len(pts)-1])
}

// VertexPathKey is the property under which vertex handles carry their path.
const VertexPathKey = "vertex"

// VertexHandles returns one single-position shape per vertex of the given
// chains, for rendering on the points layer. The closing position of a ring
// is skipped since it repeats the first.
func VertexHandles(shapes []*Shape, chains []Path) []*Shape {
	var o []*Shape
	for _, c := range chains {
		pts, ok := ChainAt(shapes, c)
		if !ok {
			continue
		}
		n := len(pts)
		if Closed(shapes, c) && isClosed(pts) {
			n--
		}
		for v := 0; v < n; v++ {
			o = append(o, &Shape{
				Geom:       geom.LineString{pts[v]},
				Properties: Properties{VertexPathKey: c.Append(v)},
			})
		}
	}
	return o
}

// HandlePath returns the vertex path carried by a vertex handle.
func HandlePath(s *Shape) (Path, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.Properties[VertexPathKey].(Path)
	return p, ok
}
