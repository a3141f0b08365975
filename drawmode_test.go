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
	"testing"

	"github.com/ctessum/geom"
)

func TestDecideDrawMode(t *testing.T) {
	line := &Shape{Geom: l1}
	poly := &Shape{Geom: geom.Polygon{r1}}
	mpoly := &Shape{Geom: geom.MultiPolygon{{r1}, {r4}}}
	all := Kinds{Line, Polygon, MultiLine, MultiPolygon}

	tests := []struct {
		name string
		ctx  DrawContext
		want DrawMode
	}{
		{
			name: "create",
			ctx:  DrawContext{Kinds: all, Create: On},
			want: DrawMode{Create: true, Creatable: true},
		},
		{
			name: "create disabled",
			ctx:  DrawContext{Kinds: all, Create: Off},
			want: DrawMode{},
		},
		{
			name: "create needs kinds",
			ctx:  DrawContext{Create: On},
			want: DrawMode{},
		},
		{
			name: "create while isolated",
			ctx:  DrawContext{Kinds: all, Create: On, Isolated: true},
			want: DrawMode{},
		},
		{
			name: "create modifier not held",
			ctx:  DrawContext{Kinds: all, Create: WithModifier(ModCtrl)},
			want: DrawMode{Creatable: true},
		},
		{
			name: "create modifier held",
			ctx:  DrawContext{Kinds: all, Create: WithModifier(ModCtrl), Held: ModCtrl},
			want: DrawMode{Create: true, Creatable: true},
		},
		{
			name: "create modifier must match exactly",
			ctx:  DrawContext{Kinds: all, Create: WithModifier(ModCtrl), Held: ModCtrl | ModShift},
			want: DrawMode{Creatable: true},
		},
		{
			name: "subtract",
			ctx:  DrawContext{Kinds: all, Subtract: On, Append: On, Selected: []*Shape{poly, mpoly}},
			want: DrawMode{Subtract: true},
		},
		{
			name: "subtract needs plane selection",
			ctx:  DrawContext{Kinds: all, Subtract: On, Selected: []*Shape{poly, line}},
			want: DrawMode{},
		},
		{
			name: "subtract needs plane kind",
			ctx:  DrawContext{Kinds: Kinds{Line}, Subtract: On, Selected: []*Shape{poly}},
			want: DrawMode{},
		},
		{
			name: "shared modifier goes to subtract",
			ctx: DrawContext{Kinds: all, Subtract: WithModifier(ModShift), Append: WithModifier(ModShift),
				Selected: []*Shape{poly}, Held: ModShift},
			want: DrawMode{Subtract: true},
		},
		{
			name: "shared modifier goes to append for lines",
			ctx: DrawContext{Kinds: all, Subtract: WithModifier(ModShift), Append: WithModifier(ModShift),
				Selected: []*Shape{line}, Held: ModShift},
			want: DrawMode{Append: true},
		},
		{
			name: "append",
			ctx:  DrawContext{Kinds: all, Append: On, Selected: []*Shape{line}},
			want: DrawMode{Append: true},
		},
		{
			name: "append needs plural kind",
			ctx:  DrawContext{Kinds: Kinds{Line}, Append: On, Selected: []*Shape{line}},
			want: DrawMode{Extend: true},
		},
		{
			name: "extend",
			ctx:  DrawContext{Kinds: all, Append: WithModifier(ModAlt), Selected: []*Shape{line}},
			want: DrawMode{Extend: true},
		},
		{
			name: "extend needs a single shape",
			ctx:  DrawContext{Kinds: all, Selected: []*Shape{line, line}},
			want: DrawMode{},
		},
		{
			name: "no extend while isolated",
			ctx:  DrawContext{Kinds: all, Selected: []*Shape{line}, Isolated: true},
			want: DrawMode{},
		},
		{
			name: "no extend of polygons",
			ctx:  DrawContext{Kinds: all, Selected: []*Shape{poly}},
			want: DrawMode{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if have := DecideDrawMode(test.ctx); have != test.want {
				t.Errorf("have %+v, want %+v", have, test.want)
			}
		})
	}
}

func TestParseCapability(t *testing.T) {
	for s, want := range map[string]Capability{
		"true":       On,
		"false":      Off,
		"shift":      WithModifier(ModShift),
		"Ctrl+Alt":   WithModifier(ModCtrl | ModAlt),
		"control":    WithModifier(ModCtrl),
		"meta+shift": WithModifier(ModShift | ModMeta),
	} {
		have, err := ParseCapability(s)
		if err != nil {
			t.Errorf("%q: %v", s, err)
			continue
		}
		if have != want {
			t.Errorf("%q: have %+v, want %+v", s, have, want)
		}
	}
	if _, err := ParseCapability("hyper"); err == nil {
		t.Error("expected an error")
	}
	if have := WithModifier(ModCtrl | ModShift).String(); have != "shift+ctrl" {
		t.Errorf("have %q", have)
	}
}
