package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewReferenceNumber returns a lexicographically sortable identifier used as
// the public reference number citizens quote when tracking a request.
func NewReferenceNumber() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return "REQ-" + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
