package index

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures no goroutines leak across this package's tests, since
// Index is built around concurrent access behind sync.RWMutex.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
