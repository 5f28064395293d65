package tidpool

import "sync"

// DefaultCapacity is the free-list split point used by the one
// process-wide Pool. It is independent of any individual container's own
// primary-page capacity (set via ThreadLocal.WithCapacity): the
// allocator is shared by every container in the process, so it needs one
// fixed split, not one per container.
const DefaultCapacity = 16

var (
	globalOnce sync.Once
	global     *Pool
)

// Global returns the one process-wide Pool, created lazily behind a
// sync.Once on first use and never destroyed (per spec §9 "Global
// allocator state").
func Global() *Pool {
	globalOnce.Do(func() {
		global = New(DefaultCapacity)
	})
	return global
}
