/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

// Kelime Oyunu
//
// A real-time Turkish word-guessing party game. Players gather in a
// room, a letter and category pair is drawn on an animated dice roll,
// and players take turns naming dictionary words for the pair before
// their countdown expires. Wrong or repeated words eliminate the
// player, with the host able to retroactively accept a rejected word
// into the shared dictionary. Last player standing wins the round;
// first to the score goal wins the game.
//
// Features:
// - Single WebSocket endpoint: rooms are created and joined by message
// - Random 6-char room codes via crypto/rand, with collision check
// - First connection to create a room becomes host; the room creator
//   keeps admin rights even after host transfer
// - Turkish locale-aware word normalization and validation
// - Host decision window for words missing from the dictionary
// - Late joiners spectate until the next round starts
// - Disconnected players can rejoin under the same name
// - Per-player statistics (streaks, response times, favorite words)
// - Rooms auto-reaped after configurable idle timeout
// - QR code to share a room link, backed by go-qrcode

package main

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one WebSocket connection. The id doubles as the player's
// connection identity inside whichever room the client joins.
type client struct {
	conn *websocket.Conn
	send chan any
	id   string

	mu     sync.Mutex
	closed bool
}

func (c *client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// trySend is for use outside the room actor; it never blocks and never
// races the actor closing the channel.
func (c *client) trySend(msg any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// readPump routes inbound messages. Room creation and membership are
// handled here; everything else is forwarded to the joined room's
// event stream.
//
// The room actor owns c.send and closes it when it drops the client;
// readPump closes it directly only when no room ever held it. Leaving
// a room waits for the actor's ack so the client is never referenced
// by two rooms at once.
func (c *client) readPump(registry *RoomRegistry) {
	var room *Room

	leave := func() {
		if room == nil {
			return
		}

		ack := make(chan struct{})
		room.postEvent(clientEvent{client: c, msg: ClientMessage{Type: "leaveRoom"}, ack: ack})
		select {
		case <-ack:
		case <-room.done:
		}
		room = nil
	}

	defer func() {
		if room != nil {
			room.postUnregister(c)
		} else {
			c.closeSend()
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "createRoom":
			leave()
			room = registry.create()
			room.postJoin(joinRequest{client: c, name: msg.Name, avatar: msg.Avatar, created: true})

		case "joinRoom":
			next := registry.lookup(msg.RoomID)
			if next == nil {
				c.trySend(ErrorMessage{Type: "errorNotification", Message: "Oda bulunamadı."})
				continue
			}
			leave()
			room = next
			room.postJoin(joinRequest{client: c, name: msg.Name, avatar: msg.Avatar})

		case "leaveRoom":
			leave()

		default:
			if room != nil {
				room.postEvent(clientEvent{client: c, msg: msg})
			}
		}
	}
}

func serveWordGameWS(cfg *Config, registry *RoomRegistry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		c := &client{
			conn: conn,
			send: make(chan any, 16),
			id:   uuid.NewString(),
		}

		logf(cfg, "GAMES: Connection %s from %s", c.id, realIP(r))

		go c.writePump()
		c.readPump(registry)
	}
}

// QR handler: generates a PNG QR code linking to an existing room.
func qrHandler(cfg *Config, path string, registry *RoomRegistry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := strings.ToUpper(ps.ByName("roomid"))
		if registry.lookup(roomID) == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + path + "?room=" + roomID

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// registerWordGame sets up routes so that:
//   - $path/ws          → shared WebSocket endpoint (rooms by message)
//   - $path/qr/:roomid  → PNG QR code linking to that room
func registerWordGame(cfg *Config, path string, mux *httprouter.Router, registry *RoomRegistry) {
	mux.GET(cfg.prefix+path+"/ws", serveWordGameWS(cfg, registry))

	mux.GET(cfg.prefix+path+"/qr/:roomid", qrHandler(cfg, path, registry))
}
