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

// Modifier is a set of held modifier keys.
type Modifier uint8

// These are the modifier keys.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// ModNone is the empty modifier set.
const ModNone Modifier = 0

var modNames = []struct {
	m    Modifier
	name string
}{
	{ModShift, "shift"},
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModMeta, "meta"},
}

// String returns the modifier names joined by "+".
func (m Modifier) String() string {
	if m == ModNone {
		return "none"
	}
	var names []string
	for _, n := range modNames {
		if m&n.m != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "+")
}

// ParseModifier parses names such as "shift" or "ctrl+alt".
func ParseModifier(s string) (Modifier, error) {
	var m Modifier
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '+' || r == ' ' }) {
		found := false
		for _, n := range modNames {
			if f == n.name || (f == "control" && n.m == ModCtrl) {
				m |= n.m
				found = true
			}
		}
		if !found {
			return ModNone, fmt.Errorf("geoedit: unknown modifier %q", f)
		}
	}
	return m, nil
}

// Capability is a drawing permission that is either switched on or off, or
// bound to a modifier so that it only applies while that modifier is held.
type Capability struct {
	Enabled bool

	// Modifier, if not ModNone, is the exact modifier set that must be held
	// for an enabled capability to apply.
	Modifier Modifier
}

// On and Off are the unconditional capabilities.
var (
	On  = Capability{Enabled: true}
	Off = Capability{}
)

// WithModifier returns a capability bound to m.
func WithModifier(m Modifier) Capability {
	return Capability{Enabled: true, Modifier: m}
}

// ParseCapability parses "true", "false" or a modifier name.
func ParseCapability(s string) (Capability, error) {
	if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
		return Capability{Enabled: b}, nil
	}
	m, err := ParseModifier(s)
	if err != nil {
		return Off, err
	}
	if m == ModNone {
		return Off, fmt.Errorf("geoedit: empty capability")
	}
	return WithModifier(m), nil
}

func (c Capability) String() string {
	if c.Enabled && c.Modifier != ModNone {
		return c.Modifier.String()
	}
	return strconv.FormatBool(c.Enabled)
}

// satisfied reports whether c applies while held is pressed.
func (c Capability) satisfied(held Modifier) bool {
	if !c.Enabled {
		return false
	}
	return c.Modifier == ModNone || c.Modifier == held
}

// DrawContext holds the inputs to DecideDrawMode.
type DrawContext struct {
	// Kinds are the kinds the drawing session may produce.
	Kinds Kinds

	Create, Append, Subtract Capability

	// Selected are the hovered or selected shapes the drawing would act on.
	Selected []*Shape

	// Isolated is true while a single shape is being edited on its own.
	Isolated bool

	// Held are the modifiers currently pressed.
	Held Modifier
}

// DrawMode is the operation that the next drawing would perform. At most one
// of Subtract, Extend, Append and Create is set.
type DrawMode struct {
	Subtract bool
	Extend   bool
	Append   bool
	Create   bool

	// Creatable reports whether Create would apply if its modifier, if any,
	// were held.
	Creatable bool
}

// Any reports whether any operation applies.
func (m DrawMode) Any() bool {
	return m.Subtract || m.Extend || m.Append || m.Create
}

func (m DrawMode) String() string {
	switch {
	case m.Subtract:
		return "subtract"
	case m.Extend:
		return "extend"
	case m.Append:
		return "append"
	case m.Create:
		return "create"
	}
	return "none"
}

// DecideDrawMode decides which structural operation a drawing would perform.
// The operations are tried in the order subtract, append, extend, create and
// the first that applies wins, so a modifier bound to more than one
// capability is claimed by the earliest applicable one.
//
// Subtract cuts a hole in every selected shape and needs all of them to be
// in the Plane family. Append adds a member to every selected shape and needs
// the plural kind of each to be permitted. Extend continues the one selected
// Line-family shape. Create starts a new shape when nothing is selected.
func DecideDrawMode(c DrawContext) DrawMode {
	var m DrawMode
	sel := c.Selected
	if len(sel) == 0 {
		m.Creatable = !c.Isolated && len(c.Kinds) > 0 && c.Create.Enabled
		m.Create = m.Creatable && c.Create.satisfied(c.Held)
		return m
	}
	switch {
	case c.Subtract.satisfied(c.Held) && allFamily(sel, PlaneFamily) && c.Kinds.HasFamily(PlaneFamily):
		m.Subtract = true
	case c.Append.satisfied(c.Held) && pluralsPermitted(sel, c.Kinds):
		m.Append = true
	case len(sel) == 1 && !c.Isolated && sel[0].Valid() &&
		sel[0].Kind().Family() == LineFamily && c.Kinds.Has(sel[0].Kind()):
		m.Extend = true
	}
	return m
}

func allFamily(shapes []*Shape, f Family) bool {
	for _, s := range shapes {
		if !s.Valid() || s.Kind().Family() != f {
			return false
		}
	}
	return true
}

func pluralsPermitted(shapes []*Shape, ks Kinds) bool {
	for _, s := range shapes {
		if !s.Valid() || !ks.Has(s.Kind().Family().Plural()) {
			return false
		}
	}
	return true
}
