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
	"time"

	"github.com/ctessum/geom"
)

// These are the layers the editor renders.
const (
	FeaturesLayer = "features"
	PointsLayer   = "points"
	DraftLayer    = "draft"
)

// EventType is the type of an input event.
type EventType int

// These are the input events a Renderer delivers.
const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	Click
	KeyDown
	KeyUp
	// Tick is posted periodically by the adapter so that time-based state,
	// such as a pending hover, can be committed without other input.
	Tick
)

func (e EventType) String() string {
	switch e {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case Click:
		return "click"
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	case Tick:
		return "tick"
	}
	return "unknown"
}

// Keys that the tools react to. Adapters translate their native key codes to
// these names; any other key is passed through as its printable text.
const (
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
)

// Event is one input event.
type Event struct {
	Type EventType

	// Point is the pointer position in world coordinates.
	Point geom.Point

	// Layer and Ref identify the rendered shape under the pointer, if any.
	// Ref is only meaningful when Hit is true.
	Layer string
	Ref   Ref
	Hit   bool

	Modifiers Modifier

	// Key is set for KeyDown and KeyUp events.
	Key string

	Time time.Time
}

// Handler receives input events.
type Handler func(e Event)

// Cursor is a pointer presentation hint.
type Cursor int

// These are the cursors the tools request.
const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorMove
	CursorCrosshair
	CursorCopy
	CursorNotAllowed
)

func (c Cursor) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorMove:
		return "move"
	case CursorCrosshair:
		return "crosshair"
	case CursorCopy:
		return "copy"
	case CursorNotAllowed:
		return "not-allowed"
	}
	return "default"
}

// FeatureState is the per-ref presentation state pushed to a Renderer.
type FeatureState struct {
	Active   bool
	Hover    bool
	Disabled bool
}

// Set returns s with the flag for key set to v.
func (s FeatureState) Set(key SetKey, v bool) FeatureState {
	switch key {
	case Active:
		s.Active = v
	case Hover:
		s.Hover = v
	case Disabled:
		s.Disabled = v
	}
	return s
}

// Renderer draws shapes and delivers input. Implementations are supplied by
// adapters such as a terminal or a remote browser map.
type Renderer interface {
	// Render replaces the content of layer with shapes.
	Render(layer string, shapes []*Shape)

	// AddListener registers h for events of type ev. If layer is not empty,
	// h is only called for events that hit a shape in that layer. The
	// returned function removes the listener.
	AddListener(ev EventType, layer string, h Handler) (remove func())

	// SetCursor changes the pointer presentation. The returned function
	// restores the previous cursor.
	SetCursor(c Cursor) (reset func())

	// SetFeatureState sets the presentation state of the rendered item ref
	// in layer.
	SetFeatureState(layer string, ref Ref, state FeatureState)
}
