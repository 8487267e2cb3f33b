package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeClock_Advance(t *testing.T) {
	clock := NewModeClock(Durations{Mode30S: 2, Mode1M: 3, Mode3M: 3, Mode5M: 5})

	assert.Empty(t, clock.Advance())
	assert.Equal(t, 1, clock.Remaining(Mode30S))

	assert.Equal(t, []Mode{Mode30S}, clock.Advance())
	assert.Equal(t, 0, clock.Remaining(Mode30S))

	// An unreset mode stays due and does not go negative.
	assert.Equal(t, []Mode{Mode30S, Mode1M, Mode3M}, clock.Advance())
	assert.Equal(t, 0, clock.Remaining(Mode30S))

	clock.Reset(Mode30S)
	assert.Equal(t, 2, clock.Remaining(Mode30S))
	assert.Equal(t, 2, clock.Duration(Mode30S))
}

func TestModeClock_AllModesShareTick(t *testing.T) {
	clock := NewModeClock(DefaultDurations())

	for i := 0; i < 29; i++ {
		assert.Empty(t, clock.Advance())
	}
	assert.Equal(t, []Mode{Mode30S}, clock.Advance())
	assert.Equal(t, 30, clock.Remaining(Mode1M))
	assert.Equal(t, 150, clock.Remaining(Mode3M))
	assert.Equal(t, 270, clock.Remaining(Mode5M))
}

func TestDurations_Validate(t *testing.T) {
	assert.NoError(t, DefaultDurations().Validate())
	assert.Error(t, Durations{Mode30S: 30}.Validate())

	d := DefaultDurations()
	d[Mode3M] = 0
	assert.Error(t, d.Validate())
}
