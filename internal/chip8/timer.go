package chip8

import (
	"math"
	"time"
)

// Timers decrement at 60 hz.
//
// see more http://devernay.free.fr/hacks/chip8/C8TECH10.HTM#2.5
const timerHz = 60

// Timer is a fractional 60 hz down-counter. The remaining budget is kept
// as a wall-clock duration so ticks of arbitrary size never drift against
// the 1/60 s grid; reads round up to whole ticks.
type Timer struct {
	remaining time.Duration
}

// Set assigns n ticks, i.e. n/60 seconds.
func (t *Timer) Set(n uint8) {
	t.remaining = time.Duration(n) * time.Second / timerHz
}

// Tick subtracts a wall-clock delta, saturating at zero.
func (t *Timer) Tick(delta time.Duration) {
	t.remaining -= delta
	if t.remaining < 0 {
		t.remaining = 0
	}
}

// Get returns the remaining budget in whole 1/60 s ticks, rounded up and
// clamped to 255.
func (t *Timer) Get() uint8 {
	if t.remaining <= 0 {
		return 0
	}
	ticks := t.remaining * timerHz
	n := int64(ticks / time.Second)
	if ticks%time.Second != 0 {
		n++
	}
	if n > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(n)
}
