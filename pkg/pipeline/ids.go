package pipeline

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// IDSource generates pipeline step identifiers.
type IDSource interface {
	// Next returns an identifier that was never returned before.
	Next() string
}

// UUIDSource draws random version 4 UUIDs. It is safe for concurrent use.
type UUIDSource struct{}

// Next returns a new random UUID.
func (UUIDSource) Next() string {
	return uuid.NewString()
}

// XIDSource generates globally unique, time sortable xids. It is safe for concurrent use.
type XIDSource struct{}

// Next returns a new xid.
func (XIDSource) Next() string {
	return xid.New().String()
}

// SequenceSource generates prefix-1, prefix-2, ... and is meant for tests and reproducible output.
type SequenceSource struct {
	mu     sync.Mutex
	prefix string
	last   int
}

// NewSequenceSource creates a sequence starting at prefix-1.
func NewSequenceSource(prefix string) *SequenceSource {
	return &SequenceSource{prefix: prefix}
}

// Next returns the next identifier of the sequence.
func (s *SequenceSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++

	return s.prefix + "-" + strconv.Itoa(s.last)
}

var (
	_ IDSource = UUIDSource{}
	_ IDSource = XIDSource{}
	_ IDSource = (*SequenceSource)(nil)
)
