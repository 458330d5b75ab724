package view

import "context"

// VersionSlot is a write-once result of a version lookup.
type VersionSlot struct {
	done  chan struct{}
	field VersionField
}

func newVersionSlot() *VersionSlot {
	return &VersionSlot{done: make(chan struct{})}
}

func (s *VersionSlot) resolve(field VersionField) {
	s.field = field
	close(s.done)
}

// Done is closed once the lookup has finished.
func (s *VersionSlot) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the lookup finishes or ctx ends. A cancelled wait
// yields the failed field.
func (s *VersionSlot) Wait(ctx context.Context) VersionField {
	select {
	case <-s.done:
		return s.field
	case <-ctx.Done():
		return VersionField{Failed: true}
	}
}
