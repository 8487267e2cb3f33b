package game

// ModeClock holds one countdown per mode. It is driven from outside by
// Advance and carries no locking of its own.
type ModeClock struct {
	durations Durations
	remaining map[Mode]int
}

func NewModeClock(durations Durations) *ModeClock {
	c := &ModeClock{
		durations: make(Durations, len(Modes)),
		remaining: make(map[Mode]int, len(Modes)),
	}
	for _, m := range Modes {
		c.durations[m] = durations[m]
		c.remaining[m] = durations[m]
	}
	return c
}

// Advance applies one tick to every mode and returns the modes that are due
// for settlement, in Modes order. A due mode stays at zero until Reset.
func (c *ModeClock) Advance() []Mode {
	var due []Mode
	for _, m := range Modes {
		if c.remaining[m] > 0 {
			c.remaining[m]--
		}
		if c.remaining[m] <= 0 {
			c.remaining[m] = 0
			due = append(due, m)
		}
	}
	return due
}

func (c *ModeClock) Reset(m Mode) {
	c.remaining[m] = c.durations[m]
}

func (c *ModeClock) Remaining(m Mode) int {
	return c.remaining[m]
}

func (c *ModeClock) Duration(m Mode) int {
	return c.durations[m]
}
