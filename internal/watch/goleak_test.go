package watch

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain guards against goroutine leaks from the watcher's background
// loop and debounce timers, the same check the teacher runs over its own
// file watcher package.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
		goleak.IgnoreTopFunction("time.Sleep"),
	)
}
