package idgen

import "github.com/google/uuid"

type Generator interface {
	NewID() uuid.UUID
}

// UUID generates random (v4) identifiers.
type UUID struct{}

func (UUID) NewID() uuid.UUID {
	return uuid.New()
}

// Sequence returns the given ids in order, then falls back to random ones.
type Sequence struct {
	ids []uuid.UUID
}

func NewSequence(ids ...uuid.UUID) *Sequence {
	return &Sequence{ids: ids}
}

func (s *Sequence) NewID() uuid.UUID {
	if len(s.ids) == 0 {
		return uuid.New()
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id
}
