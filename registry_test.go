/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		code := randomRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(roomCodeAlphabet, r), "unexpected character %q", r)
		}
		seen[code] = true
	}

	// 32 draws from a 36^6 space colliding down to one value would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 1)
}

func TestRegistryCreateAndLookup(t *testing.T) {
	reg := newRoomRegistry(&Config{}, newStubWords(), newRecordingStats())

	rm := reg.create()
	require.NotNil(t, rm)
	assert.Equal(t, 1, reg.count())

	assert.Same(t, rm, reg.lookup(rm.code))
	assert.Same(t, rm, reg.lookup(strings.ToLower(rm.code)))
	assert.Same(t, rm, reg.lookup(" "+rm.code+" "))
	assert.Nil(t, reg.lookup("NOPE99"))

	reg.remove(rm.code)
	assert.Nil(t, reg.lookup(rm.code))
	assert.Equal(t, 0, reg.count())
}

func TestRoomRemovesItselfWhenEmpty(t *testing.T) {
	reg := newRoomRegistry(&Config{}, newStubWords(), newRecordingStats())

	rm := reg.create()
	c := &client{send: make(chan any, 256), id: uuid.NewString()}

	rm.postJoin(joinRequest{client: c, name: "Ayşe", avatar: 1, created: true})
	rm.postEvent(clientEvent{client: c, msg: ClientMessage{Type: "leaveRoom"}})

	require.Eventually(t, func() bool {
		return reg.lookup(rm.code) == nil
	}, time.Second, 5*time.Millisecond)

	select {
	case <-rm.done:
	case <-time.After(time.Second):
		t.Fatal("room done channel not closed")
	}
}

func TestReapShutsDownRoom(t *testing.T) {
	reg := newRoomRegistry(&Config{}, newStubWords(), newRecordingStats())

	rm := reg.create()
	rm.postReap()

	require.Eventually(t, func() bool {
		return reg.lookup(rm.code) == nil
	}, time.Second, 5*time.Millisecond)
}
