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
	"fmt"
	"strconv"
	"strings"
)

// Path locates a node in a collection of shapes. The first element is the
// index of the shape and the following elements descend into its coordinate
// tree.
type Path []int

// Clone returns a copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	o := make(Path, len(p))
	copy(o, p)
	return o
}

// Append returns a new path made of p followed by idx.
func (p Path) Append(idx ...int) Path {
	o := make(Path, len(p), len(p)+len(idx))
	copy(o, p)
	return append(o, idx...)
}

// ParsePath parses a comma- or space-separated list of indices.
func ParsePath(s string) (Path, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '[' || r == ']'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("geoedit: empty path %q", s)
	}
	p := make(Path, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("geoedit: invalid path element %q in %q", f, s)
		}
		p[i] = v
	}
	return p, nil
}

// Ref is a selection reference: either a whole shape (a scalar) or a
// located sub-part of a shape (a path).
type Ref struct {
	path   Path
	scalar bool
}

// ShapeRef returns a reference to the whole shape at index i.
func ShapeRef(i int) Ref {
	return Ref{path: Path{i}, scalar: true}
}

// PartRef returns a reference to the sub-part located by p.
func PartRef(p Path) Ref {
	return Ref{path: p.Clone()}
}

// IsScalar reports whether r refers to a whole shape.
func (r Ref) IsScalar() bool { return r.scalar }

// Shape returns the index of the shape r belongs to.
func (r Ref) Shape() int { return ToScalar(r) }

// Len returns the number of path elements in r; 1 for a scalar.
func (r Ref) Len() int { return len(r.path) }

// String returns "i" for a scalar and "[i j ...]" for a path.
func (r Ref) String() string {
	if r.scalar {
		return strconv.Itoa(ToScalar(r))
	}
	return fmt.Sprint([]int(r.path))
}

// ToPath returns r in list form. A scalar becomes a one-element path.
func ToPath(r Ref) Path {
	return r.path.Clone()
}

// ToScalar returns the leading index of r.
func ToScalar(r Ref) int {
	if len(r.path) == 0 {
		return 0
	}
	return r.path[0]
}

// Equal reports whether a and b refer to the same thing. Two scalars are
// equal when their indices match. Two paths are equal when they match element
// by element; with prefix set only the first min(len(a), len(b)) elements are
// compared, so a path equals its ancestors and descendants. A scalar never
// equals a path; convert with ToPath first when that is wanted.
func Equal(a, b Ref, prefix bool) bool {
	if a.scalar != b.scalar {
		return false
	}
	if a.scalar {
		return ToScalar(a) == ToScalar(b)
	}
	n := len(a.path)
	if len(b.path) != n {
		if !prefix {
			return false
		}
		if len(b.path) < n {
			n = len(b.path)
		}
	}
	for i := 0; i < n; i++ {
		if a.path[i] != b.path[i] {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the first ref in set equal to r, or -1.
func IndexOf(set []Ref, r Ref, prefix bool) int {
	for i, s := range set {
		if Equal(s, r, prefix) {
			return i
		}
	}
	return -1
}

// Contains reports whether set holds a ref equal to r.
func Contains(set []Ref, r Ref, prefix bool) bool {
	return IndexOf(set, r, prefix) >= 0
}

// without returns set minus every ref equal to r.
func without(set []Ref, r Ref, prefix bool) []Ref {
	o := make([]Ref, 0, len(set))
	for _, s := range set {
		if !Equal(s, r, prefix) {
			o = append(o, s)
		}
	}
	return o
}

// dedupe returns refs with later duplicates removed.
func dedupe(refs []Ref) []Ref {
	o := make([]Ref, 0, len(refs))
	for _, r := range refs {
		if !Contains(o, r, false) {
			o = append(o, r)
		}
	}
	return o
}
