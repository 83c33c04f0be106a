/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"
)

const (
	roomCodeLength   = 6
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randomRoomCode builds a room code from crypto/rand bytes, rejection
// sampled so every alphabet character is equally likely.
func randomRoomCode() string {
	var code strings.Builder
	buf := make([]byte, 1)

	for code.Len() < roomCodeLength {
		_, err := rand.Read(buf)
		if err != nil {
			continue
		}

		if int(buf[0]) < len(roomCodeAlphabet) {
			code.WriteByte(roomCodeAlphabet[buf[0]])
		}
	}

	return code.String()
}

// RoomRegistry owns the code→room index. Rooms remove themselves when
// their last player leaves; the reaper sweeps rooms idle past the
// session timeout.
type RoomRegistry struct {
	cfg   *Config
	words WordSource
	stats StatsSink

	mu    sync.Mutex
	rooms map[string]*Room
}

func newRoomRegistry(cfg *Config, words WordSource, stats StatsSink) *RoomRegistry {
	reg := &RoomRegistry{
		cfg:   cfg,
		words: words,
		stats: stats,
		rooms: make(map[string]*Room),
	}

	if cfg.sessionTimeout > 0 {
		go reg.reaperLoop()
	}

	return reg
}

// create allocates a room under a fresh code and starts its actor.
func (reg *RoomRegistry) create() *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for {
		code := randomRoomCode()
		if _, exists := reg.rooms[code]; exists {
			continue
		}

		rm := newWordRoom(code, reg.cfg, reg, reg.words, reg.stats)
		reg.rooms[code] = rm
		go rm.run()

		logf(reg.cfg, "GAMES: Created room %s (%d total)", code, len(reg.rooms))

		return rm
	}
}

// lookup is case-insensitive on the room code.
func (reg *RoomRegistry) lookup(code string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.rooms[strings.ToUpper(strings.TrimSpace(code))]
}

func (reg *RoomRegistry) remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.rooms[code]; exists {
		delete(reg.rooms, code)
		logf(reg.cfg, "GAMES: Removed room %s (%d remain)", code, len(reg.rooms))
	}
}

func (reg *RoomRegistry) count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return len(reg.rooms)
}

// reaperLoop asks idle rooms to shut themselves down. The post is
// non-blocking; the room removes itself from the registry as part of
// its own shutdown, so no lock ordering issue arises here.
func (reg *RoomRegistry) reaperLoop() {
	interval := reg.cfg.sessionTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-reg.cfg.sessionTimeout)

		reg.mu.Lock()
		for _, rm := range reg.rooms {
			if rm.idleSince().Before(cutoff) {
				rm.postReap()
			}
		}
		reg.mu.Unlock()
	}
}
