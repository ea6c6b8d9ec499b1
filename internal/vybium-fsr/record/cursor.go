package record

// Cursor scans a timeline forward. Each match consumes the events up to and
// including it, so fields are taken in the order they were recorded.
type Cursor struct {
	events []Event
	pos    int
}

// NewCursor starts a scan at the first event.
func NewCursor(events []Event) *Cursor {
	return &Cursor{events: events}
}

// NextAbsorb returns the bytes of the next absorb under label.
func (c *Cursor) NextAbsorb(label string) ([]byte, bool) {
	return c.next(KindAbsorb, label)
}

// NextChallenge returns the encoding of the next challenge under label.
func (c *Cursor) NextChallenge(label string) ([]byte, bool) {
	return c.next(KindChallenge, label)
}

// Next dispatches on kind.
func (c *Cursor) Next(kind Kind, label string) ([]byte, bool) {
	return c.next(kind, label)
}

func (c *Cursor) next(kind Kind, label string) ([]byte, bool) {
	for i := c.pos; i < len(c.events); i++ {
		if e := c.events[i]; e.Kind == kind && e.Label == label {
			c.pos = i + 1
			return e.Bytes, true
		}
	}
	return nil, false
}

// Pos is the index of the next unread event.
func (c *Cursor) Pos() int {
	return c.pos
}
