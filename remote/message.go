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


package remote

import (
	"fmt"
	"time"

	"github.com/ctessum/geom"
	geojson "github.com/paulmach/go.geojson"
	"github.com/spatialmodel/geoedit"
)

// These are the types of messages the server sends.
const (
	MsgRender = "render"
	MsgState  = "state"
	MsgCursor = "cursor"
	MsgError  = "error"
)

// Ref is the wire form of a geoedit.Ref.
type Ref struct {
	Path   []int `json:"path"`
	Scalar bool  `json:"scalar,omitempty"`
}

func wireRef(r geoedit.Ref) *Ref {
	return &Ref{Path: geoedit.ToPath(r), Scalar: r.IsScalar()}
}

// State is the wire form of a geoedit.FeatureState.
type State struct {
	Active   bool `json:"active"`
	Hover    bool `json:"hover"`
	Disabled bool `json:"disabled"`
}

// OutMessage is a message from the server to a client.
type OutMessage struct {
	Type string `json:"type"`

	// Layer is set for render and state messages.
	Layer string `json:"layer,omitempty"`

	// Features holds the content of the layer in a render message.
	Features *geojson.FeatureCollection `json:"features,omitempty"`

	Ref   *Ref   `json:"ref,omitempty"`
	State *State `json:"state,omitempty"`

	Cursor string `json:"cursor,omitempty"`
	Error  string `json:"error,omitempty"`
}

// InMessage is an input event sent by a client. Type is the name of a
// geoedit.EventType such as "pointerdown" or "keydown".
type InMessage struct {
	Type string `json:"type"`

	// X and Y are the pointer position in world coordinates.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Modifiers holds the held modifier names joined by "+", e.g.
	// "shift+ctrl".
	Modifiers string `json:"modifiers,omitempty"`

	Key string `json:"key,omitempty"`

	// Tolerance, if set, overrides the server hit tolerance for this
	// event. Clients send it so that hits follow the map zoom.
	Tolerance float64 `json:"tolerance,omitempty"`
}

// eventTypes holds the event types a client may send. Ticks are generated
// by the server.
var eventTypes = map[string]geoedit.EventType{}

func init() {
	for _, t := range []geoedit.EventType{geoedit.PointerDown, geoedit.PointerMove,
		geoedit.PointerUp, geoedit.Click, geoedit.KeyDown, geoedit.KeyUp} {
		eventTypes[t.String()] = t
	}
}

// Event converts m to an editor event stamped with now. The event is not
// hit tested.
func (m InMessage) Event(now time.Time) (geoedit.Event, error) {
	t, ok := eventTypes[m.Type]
	if !ok {
		return geoedit.Event{}, fmt.Errorf("remote: invalid event type %q", m.Type)
	}
	mods, err := geoedit.ParseModifier(m.Modifiers)
	if err != nil {
		return geoedit.Event{}, fmt.Errorf("remote: %v", err)
	}
	ev := geoedit.Event{
		Type:      t,
		Point:     geom.Point{X: m.X, Y: m.Y},
		Modifiers: mods,
		Time:      now,
	}
	if t == geoedit.KeyDown || t == geoedit.KeyUp {
		if m.Key == "" {
			return geoedit.Event{}, fmt.Errorf("remote: %s event without a key", m.Type)
		}
		ev.Key = m.Key
	}
	return ev, nil
}
