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


package terminal

import (
	"strings"
	"testing"
)

func TestDecodeTheme(t *testing.T) {
	th, err := DecodeTheme(strings.NewReader(`
active = "fuchsia"
fill = "░"
`))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultTheme()
	want.Active = "fuchsia"
	want.Fill = "░"
	if th != want {
		t.Errorf("have %+v, want %+v", th, want)
	}
}

func TestDecodeThemeInvalid(t *testing.T) {
	for _, s := range []string{
		`active = "notacolor"`,
		`point = "ab"`,
		`active = `,
	} {
		if _, err := DecodeTheme(strings.NewReader(s)); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}
