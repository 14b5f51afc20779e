// Package timer implements the delay and sound countdown timers.
package timer

import "time"

// Rate is the frequency at which the host ticks the timers.
const Rate = 60

// Interval is the wall clock duration between two timer ticks.
const Interval = time.Second / Rate

// Pair holds the delay and sound timers. Both count down once per Tick
// while non-zero. Instructions can only set them, the host decrements them.
type Pair struct {
	delay uint8
	sound uint8
}

// Delay returns the delay timer value.
func (p *Pair) Delay() uint8 { return p.delay }

// SetDelay sets the delay timer value.
func (p *Pair) SetDelay(value uint8) { p.delay = value }

// Sound returns the sound timer value.
func (p *Pair) Sound() uint8 { return p.sound }

// SetSound sets the sound timer value.
func (p *Pair) SetSound(value uint8) { p.sound = value }

// Sounding returns whether the buzzer should be active.
func (p *Pair) Sounding() bool { return p.sound > 0 }

// Tick decrements both timers by one, saturating at zero.
func (p *Pair) Tick() {
	if p.delay > 0 {
		p.delay--
	}
	if p.sound > 0 {
		p.sound--
	}
}
