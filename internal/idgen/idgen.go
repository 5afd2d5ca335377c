// Package idgen produces entity identifiers of the form prefix + ULID.
package idgen

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes.
const (
	PrefixDocument     = "DOC"
	PrefixCollection   = "COL"
	PrefixNews         = "NEWS"
	PrefixGallery      = "GAL"
	PrefixNotification = "NOTIF"
	PrefixResearch     = "RR"
	PrefixMessage      = "MSG"
	PrefixUser         = "USR"
	PrefixSubscriber   = "SUB"
)

var (
	mu      sync.Mutex
	entropy io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// New returns prefix followed by a ULID built from the current time and
// monotonic entropy. IDs are unique with overwhelming probability but are
// not a persisted sequence.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}

// NewAt is New with an explicit timestamp.
func NewAt(prefix string, t time.Time) string {
	mu.Lock()
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	mu.Unlock()
	if err != nil {
		// the monotonic reader overflowed within one millisecond; fall back to fresh entropy
		id = ulid.MustNew(ulid.Timestamp(t), rand.Reader)
	}
	return prefix + id.String()
}
