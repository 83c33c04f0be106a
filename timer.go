/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

import "time"

type timerKind int

const (
	timerTick timerKind = iota
	timerExpire
	timerDiceReveal
	timerAdvance
	timerResume
	timerDecisionTimeout
	timerRoundCheck
)

// timerEvent is how every countdown tick and delayed transition enters
// the room's serialized event stream. Events carrying a stale epoch are
// dropped, so a cancelled timer can never fire against mutated state.
type timerEvent struct {
	epoch       uint64
	kind        timerKind
	secondsLeft int
}

// nextEpoch invalidates every outstanding timer event and stops the
// countdown goroutine if one is running.
func (rm *Room) nextEpoch() {
	rm.epoch++
	if rm.timerStop != nil {
		close(rm.timerStop)
		rm.timerStop = nil
	}
}

// schedule posts a delayed transition carrying the current epoch.
func (rm *Room) schedule(d time.Duration, kind timerKind) {
	epoch := rm.epoch
	time.AfterFunc(d, func() {
		rm.postTimer(timerEvent{epoch: epoch, kind: kind})
	})
}

// startCountdown runs the per-turn ticker. It posts one tick per second
// and a final expiry, all tagged with the epoch captured here.
func (rm *Room) startCountdown(seconds int) {
	rm.nextEpoch()
	epoch := rm.epoch
	stop := make(chan struct{})
	rm.timerStop = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		left := seconds
		for {
			select {
			case <-ticker.C:
				left--
				if left <= 0 {
					rm.postTimer(timerEvent{epoch: epoch, kind: timerTick, secondsLeft: 0})
					rm.postTimer(timerEvent{epoch: epoch, kind: timerExpire})
					return
				}
				rm.postTimer(timerEvent{epoch: epoch, kind: timerTick, secondsLeft: left})

			case <-stop:
				return
			}
		}
	}()
}
