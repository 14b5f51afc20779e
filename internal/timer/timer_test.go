package timer

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestTick(t *testing.T) {
	var p Pair
	p.SetDelay(2)
	p.SetSound(1)
	assert.True(t, p.Sounding())

	p.Tick()
	assert.Equal(t, uint8(1), p.Delay())
	assert.Equal(t, uint8(0), p.Sound())
	assert.False(t, p.Sounding())

	p.Tick()
	p.Tick()
	assert.Equal(t, uint8(0), p.Delay())
	assert.Equal(t, uint8(0), p.Sound())
}

func TestIndependent(t *testing.T) {
	var p Pair
	p.SetSound(0xFF)

	for range 10 {
		p.Tick()
	}
	assert.Equal(t, uint8(0xF5), p.Sound())
	assert.Equal(t, uint8(0), p.Delay())
}
