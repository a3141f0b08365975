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
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/gonum/floats"
)

type hitKind int

// Hit kinds, in order of preference.
const (
	hitVertex hitKind = iota
	hitSegment
	hitInterior
)

// hitItem is one rendered item that can be hit.
type hitItem struct {
	path   Path
	kind   hitKind
	pts    []geom.Point
	poly   geom.Polygon
	bounds *geom.Bounds
}

func (h *hitItem) Bounds() *geom.Bounds { return h.bounds }

// Index finds the rendered item under a point.
type Index struct {
	layer string
	tol   float64
	tree  *rtree.Rtree
	n     int
}

// NewIndex returns an index of the shapes rendered on layer. Items on the
// points layer are vertex handles, so each is indexed as a vertex under the
// path it carries. On any other layer each chain is indexed as a run of
// segments and each polygon as an interior, under the chain path and the
// polygon path respectively. tolerance is the maximum distance at which a
// vertex or segment is hit.
func NewIndex(layer string, shapes []*Shape, tolerance float64) *Index {
	idx := &Index{
		layer: layer,
		tol:   tolerance,
		tree:  rtree.NewTree(25, 50),
	}
	for i, s := range shapes {
		if !s.Valid() {
			continue
		}
		if layer == PointsLayer {
			p, ok := HandlePath(s)
			pts := s.Geom.(geom.LineString)
			if !ok || len(pts) == 0 {
				continue
			}
			idx.insert(&hitItem{path: p, kind: hitVertex, pts: pts[:1]})
			continue
		}
		for _, c := range Chains(s, i) {
			pts, _ := ChainAt(shapes, c)
			idx.insert(&hitItem{path: c, kind: hitSegment, pts: pts})
		}
		switch g := s.Geom.(type) {
		case geom.Polygon:
			idx.insert(&hitItem{path: Path{i, 0}, kind: hitInterior, poly: g})
		case geom.MultiPolygon:
			for m, p := range g {
				idx.insert(&hitItem{path: Path{i, m}, kind: hitInterior, poly: p})
			}
		}
	}
	return idx
}

func (idx *Index) insert(h *hitItem) {
	b := geom.NewBounds()
	if h.kind == hitInterior {
		b.Extend(h.poly.Bounds())
	} else {
		for _, p := range h.pts {
			b.Extend(geom.NewBoundsPoint(p))
		}
	}
	if b.Empty() {
		return
	}
	b.Min.X -= idx.tol
	b.Min.Y -= idx.tol
	b.Max.X += idx.tol
	b.Max.Y += idx.tol
	h.bounds = b
	idx.tree.Insert(h)
	idx.n++
}

// Len returns the number of indexed items.
func (idx *Index) Len() int { return idx.n }

// Layer returns the layer the index was built for.
func (idx *Index) Layer() string { return idx.layer }

// Hit returns the path of the item under p. Vertices are preferred to
// segments and segments to polygon interiors; among items of the same kind
// the closest wins, and among equally close items the one drawn last.
func (idx *Index) Hit(p geom.Point) (Path, bool) {
	var (
		best     *hitItem
		bestDist = math.Inf(1)
	)
	for _, sp := range idx.tree.SearchIntersect(rtree.ToRect(p, 0)) {
		h := sp.(*hitItem)
		d, ok := h.distance(p, idx.tol)
		if !ok {
			continue
		}
		if best == nil || h.kind < best.kind ||
			(h.kind == best.kind && (d < bestDist ||
				(d == bestDist && later(h.path, best.path)))) {
			best, bestDist = h, d
		}
	}
	if best == nil {
		return nil, false
	}
	return best.path.Clone(), true
}

// distance returns the distance from p to h, and whether that is close
// enough to count as a hit.
func (h *hitItem) distance(p geom.Point, tol float64) (float64, bool) {
	switch h.kind {
	case hitVertex:
		d := pointDistance(p, h.pts[0])
		return d, d <= tol
	case hitSegment:
		d := math.Inf(1)
		for i := 1; i < len(h.pts); i++ {
			d = math.Min(d, segmentDistance(p, h.pts[i-1], h.pts[i]))
		}
		if len(h.pts) == 1 {
			d = pointDistance(p, h.pts[0])
		}
		return d, d <= tol
	case hitInterior:
		return 0, p.Within(h.poly) != geom.Outside
	}
	return 0, false
}

// later reports whether a is drawn after b.
func later(a, b Path) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return len(a) > len(b)
}

func pointDistance(a, b geom.Point) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return pointDistance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return pointDistance(p, geom.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
