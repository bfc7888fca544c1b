package session

import "time"

// Pacer turns wall time into whole-second ticks.
type Pacer struct {
	next time.Time
}

func (p *Pacer) Reset(now time.Time) {
	p.next = now.Add(time.Second)
}

// Due returns how many seconds have elapsed since the last call.
func (p *Pacer) Due(now time.Time) int {
	if p.next.IsZero() {
		return 0
	}
	n := 0
	for !now.Before(p.next) {
		n++
		p.next = p.next.Add(time.Second)
	}
	return n
}

// Driver runs a Session from a single render loop that has no 1 Hz timer of
// its own, such as a game window's Update.
type Driver struct {
	Session *Session
	pacer   Pacer
}

func NewDriver(s *Session) *Driver {
	return &Driver{Session: s}
}

func (d *Driver) Start(now time.Time) error {
	if err := d.Session.Start(now); err != nil {
		return err
	}
	d.pacer.Reset(now)
	return nil
}

// Frame delivers any due clock ticks, then one simulation tick. Once a clock
// tick ends the run, the frame tick is a no-op.
func (d *Driver) Frame(now time.Time, width, height float64) {
	for n := d.pacer.Due(now); n > 0; n-- {
		if d.Session.Second(now) {
			break
		}
	}
	d.Session.Frame(now, width, height)
}

func (d *Driver) Click(now time.Time, cx, cy float64) Outcome {
	return d.Session.Click(now, cx, cy)
}
