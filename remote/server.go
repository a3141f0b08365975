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


// Package remote serves a geoedit editing session to a browser map over a
// websocket. The browser draws the layers it is sent and reports pointer and
// key input in world coordinates.
package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geoedit"
)

// sendBuffer is the number of outbound messages queued per client before
// the client is dropped.
const sendBuffer = 256

type listener struct {
	ev    geoedit.EventType
	layer string
	h     geoedit.Handler
}

type stateEntry struct {
	ref   geoedit.Ref
	state geoedit.FeatureState
}

type layerIndex struct {
	tol float64
	idx *geoedit.Index
}

type client struct {
	ws   *websocket.Conn
	send chan []byte
}

type inbound struct {
	c   *client
	msg InMessage
}

// Server is a geoedit.Renderer whose output is broadcast to every connected
// websocket client. All editor work, including the Renderer methods, runs on
// the goroutine that calls Run; Renderer methods may also be called before
// Run starts.
type Server struct {
	Log logrus.FieldLogger

	// Tolerance is the default hit distance in world units.
	Tolerance float64

	// TickInterval is how often Run dispatches Tick events.
	TickInterval time.Duration

	upgrader websocket.Upgrader

	layers    map[string][]*geoedit.Shape
	indexes   map[string]layerIndex
	states    map[string]map[string]stateEntry
	cursor    geoedit.Cursor
	listeners []*listener
	clients   map[*client]struct{}

	leave   chan *client
	inbound chan inbound
	do      chan func()
	done    chan struct{}
}

// NewServer returns a server that is ready to be run.
func NewServer() *Server {
	return &Server{
		Log:          logrus.StandardLogger(),
		Tolerance:    1,
		TickInterval: 25 * time.Millisecond,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		layers:  make(map[string][]*geoedit.Shape),
		indexes: make(map[string]layerIndex),
		states:  make(map[string]map[string]stateEntry),
		clients: make(map[*client]struct{}),
		leave:   make(chan *client),
		inbound: make(chan inbound),
		do:      make(chan func()),
		done:    make(chan struct{}),
	}
}

// Render implements geoedit.Renderer.
func (s *Server) Render(layer string, shapes []*geoedit.Shape) {
	s.layers[layer] = shapes
	delete(s.indexes, layer)
	s.broadcast(renderMessage(layer, shapes))
}

func renderMessage(layer string, shapes []*geoedit.Shape) OutMessage {
	return OutMessage{Type: MsgRender, Layer: layer, Features: geoedit.FeatureCollection(shapes)}
}

// AddListener implements geoedit.Renderer.
func (s *Server) AddListener(ev geoedit.EventType, layer string, h geoedit.Handler) func() {
	l := &listener{ev: ev, layer: layer, h: h}
	s.listeners = append(s.listeners, l)
	return func() {
		for i, ll := range s.listeners {
			if ll == l {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetCursor implements geoedit.Renderer.
func (s *Server) SetCursor(c geoedit.Cursor) func() {
	prev := s.cursor
	s.setCursor(c)
	return func() { s.setCursor(prev) }
}

func (s *Server) setCursor(c geoedit.Cursor) {
	if c == s.cursor {
		return
	}
	s.cursor = c
	s.broadcast(OutMessage{Type: MsgCursor, Cursor: c.String()})
}

// SetFeatureState implements geoedit.Renderer.
func (s *Server) SetFeatureState(layer string, ref geoedit.Ref, st geoedit.FeatureState) {
	m, ok := s.states[layer]
	if !ok {
		m = make(map[string]stateEntry)
		s.states[layer] = m
	}
	if st == (geoedit.FeatureState{}) {
		delete(m, ref.String())
	} else {
		m[ref.String()] = stateEntry{ref: ref, state: st}
	}
	s.broadcast(stateMessage(layer, ref, st))
}

func stateMessage(layer string, ref geoedit.Ref, st geoedit.FeatureState) OutMessage {
	return OutMessage{
		Type:  MsgState,
		Layer: layer,
		Ref:   wireRef(ref),
		State: &State{Active: st.Active, Hover: st.Hover, Disabled: st.Disabled},
	}
}

// Dispatch sends ev to the listeners registered for it. It must be called
// on the Run goroutine.
func (s *Server) Dispatch(ev geoedit.Event) {
	for _, l := range append([]*listener(nil), s.listeners...) {
		if l.ev != ev.Type {
			continue
		}
		if l.layer != "" && (!ev.Hit || l.layer != ev.Layer) {
			continue
		}
		l.h(ev)
	}
}

func (s *Server) index(layer string, tol float64) *geoedit.Index {
	li, ok := s.indexes[layer]
	if !ok || li.tol != tol {
		li = layerIndex{tol: tol, idx: geoedit.NewIndex(layer, s.layers[layer], tol)}
		s.indexes[layer] = li
	}
	return li.idx
}

// hit finds the item under the pointer, trying vertex handles before
// features.
func (s *Server) hit(ev *geoedit.Event, tol float64) {
	if tol <= 0 {
		tol = s.Tolerance
	}
	for _, layer := range []string{geoedit.PointsLayer, geoedit.FeaturesLayer} {
		if p, ok := s.index(layer, tol).Hit(ev.Point); ok {
			ev.Layer, ev.Ref, ev.Hit = layer, geoedit.PartRef(p), true
			return
		}
	}
}

func (s *Server) handle(in inbound) {
	ev, err := in.msg.Event(time.Now())
	if err != nil {
		s.Log.WithError(err).Warn("remote: invalid message")
		s.send(in.c, OutMessage{Type: MsgError, Error: err.Error()})
		return
	}
	switch ev.Type {
	case geoedit.PointerDown, geoedit.PointerMove, geoedit.PointerUp, geoedit.Click:
		s.hit(&ev, in.msg.Tolerance)
	}
	s.Dispatch(ev)
}

func (s *Server) encode(m OutMessage) ([]byte, bool) {
	b, err := json.Marshal(m)
	if err != nil {
		s.Log.WithError(err).WithField("type", m.Type).Error("remote: encoding message")
		return nil, false
	}
	return b, true
}

func (s *Server) broadcast(m OutMessage) {
	if len(s.clients) == 0 {
		return
	}
	b, ok := s.encode(m)
	if !ok {
		return
	}
	for c := range s.clients {
		s.queue(c, b)
	}
}

func (s *Server) send(c *client, m OutMessage) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	if b, ok := s.encode(m); ok {
		s.queue(c, b)
	}
}

// queue hands b to the writer of c, dropping c if it has fallen behind.
func (s *Server) queue(c *client, b []byte) {
	select {
	case c.send <- b:
	default:
		s.Log.WithField("addr", c.ws.RemoteAddr().String()).Warn("remote: dropping slow client")
		s.drop(c)
	}
}

func (s *Server) drop(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}

// add registers a new client. Its queue is sized to hold the snapshot of
// the current layers, states and cursor plus sendBuffer further messages.
func (s *Server) add(c *client) {
	snap := s.snapshot()
	c.send = make(chan []byte, len(snap)+sendBuffer)
	for _, b := range snap {
		c.send <- b
	}
	s.clients[c] = struct{}{}
}

// snapshot encodes the current layers, states and cursor.
func (s *Server) snapshot() [][]byte {
	layers := make([]string, 0, len(s.layers))
	for l := range s.layers {
		layers = append(layers, l)
	}
	sort.Strings(layers)
	msgs := make([]OutMessage, 0, len(layers)+1)
	for _, l := range layers {
		msgs = append(msgs, renderMessage(l, s.layers[l]))
	}
	for _, l := range layers {
		for _, e := range s.states[l] {
			msgs = append(msgs, stateMessage(l, e.ref, e.state))
		}
	}
	msgs = append(msgs, OutMessage{Type: MsgCursor, Cursor: s.cursor.String()})
	o := make([][]byte, 0, len(msgs))
	for _, m := range msgs {
		if b, ok := s.encode(m); ok {
			o = append(o, b)
		}
	}
	return o
}

// Run dispatches client input and Tick events until ctx is done, and then
// disconnects every client. It returns ctx.Err().
func (s *Server) Run(ctx context.Context) error {
	defer close(s.done)
	defer func() {
		for c := range s.clients {
			s.drop(c)
		}
	}()
	ticker := time.NewTicker(s.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case c := <-s.leave:
			s.drop(c)
		case in := <-s.inbound:
			s.handle(in)
		case f := <-s.do:
			f()
		case now := <-ticker.C:
			s.Dispatch(geoedit.Event{Type: geoedit.Tick, Time: now})
		case <-ctx.Done():
			s.Log.Info("remote server stopped")
			return ctx.Err()
		}
	}
}

// Do runs f on the Run goroutine and waits for it to return. It returns
// false if the server has stopped.
func (s *Server) Do(f func()) bool {
	ran := make(chan struct{})
	select {
	case s.do <- func() { f(); close(ran) }:
	case <-s.done:
		return false
	}
	<-ran
	return true
}

// ServeHTTP upgrades websocket requests to an editing session and answers
// other requests ending in "/features.geojson" with the current features.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := s.Log.WithFields(logrus.Fields{
		"url":  r.URL.String(),
		"addr": r.RemoteAddr,
	})
	switch {
	case websocket.IsWebSocketUpgrade(r):
		log.Info("remote websocket request")
		s.serveWS(w, r)
	case strings.HasSuffix(r.URL.Path, "/features.geojson"):
		log.Info("remote features request")
		var b []byte
		var err error
		if !s.Do(func() { b, err = geoedit.FeatureCollection(s.layers[geoedit.FeaturesLayer]).MarshalJSON() }) {
			http.Error(w, "remote: server stopped", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(b)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.WithError(err).Warn("remote: websocket upgrade")
		return
	}
	c := &client{ws: ws}
	if !s.Do(func() { s.add(c) }) {
		ws.Close()
		return
	}
	go c.write()
	s.read(c)
}

// read forwards messages from c to the Run goroutine until the connection
// fails.
func (s *Server) read(c *client) {
	defer func() {
		select {
		case s.leave <- c:
		case <-s.done:
		}
	}()
	for {
		var m InMessage
		if err := c.ws.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Log.WithError(err).Warn("remote: reading message")
			}
			return
		}
		select {
		case s.inbound <- inbound{c: c, msg: m}:
		case <-s.done:
			return
		}
	}
}

// write sends queued messages to the connection and closes it once the
// queue is closed.
func (c *client) write() {
	defer c.ws.Close()
	for b := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
	c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
