package potls

import (
	"runtime"
	"sync"

	"github.com/quininer/per-thread-object/internal/tidpool"
)

// Token is this goroutine's handle into every ThreadLocal it uses. It
// must be obtained once (NewToken) and reused for every call on every
// container the goroutine touches - it is the Go stand-in for both the
// spec's "stack token" and its PerThreadState: the dense thread id, plus
// the registry of (container -> destructor) entries recording which
// containers this goroutine has written a value into.
//
// A Token must not be shared between concurrently-running goroutines:
// exactly like a native TLS slot, a given Token's slot in any container
// is written and read by one logical thread of execution at a time.
//
// A Token's reachability is load-bearing: a *T returned by Get/GetOrInit
// /GetOrTryInit stays valid only while its Token is still reachable (see
// those methods' doc comments). Once a Token becomes unreachable to the
// garbage collector, its thread-exit cleanup may run at any time,
// clearing every container slot it ever wrote - including one a caller
// is still using without having referenced the Token again since. See
// SPEC_FULL.md §0 for why this package keeps the reference-returning API
// (plus this documented obligation) rather than spec.md's alternative
// scoped-closure form.
type Token struct {
	tid int
	box *dtorBox
}

// dtorBox is the part of a Token's state a container is allowed to hold
// a weak reference to. It is deliberately not reachable from dtorBox
// back to Token, so that a container's weak.Pointer[dtorBox] does not
// keep the Token (and therefore the goroutine's slot registrations)
// alive past the point the Token itself becomes unreachable.
type dtorBox struct {
	tid   int
	mu    sync.Mutex
	dtors map[*registry]func()
}

// NewToken allocates a dense thread id and returns a Token bound to it.
// The id is returned to the process-wide allocator, and every slot this
// Token ever wrote is cleared, once the Token becomes unreachable to the
// garbage collector.
func NewToken() *Token {
	tid := tidpool.Global().Alloc()
	box := &dtorBox{
		tid:   tid,
		dtors: make(map[*registry]func()),
	}
	tok := &Token{tid: tid, box: box}
	runtime.AddCleanup(tok, threadExitCleanup, box)
	return tok
}

// threadExitCleanup is the thread-exit half of the cleanup protocol. It
// runs once, asynchronously, after the Token that owns box becomes
// unreachable. It atomically takes box's destructor map (so that any
// container attempting the container-drop half concurrently sees an
// empty map and becomes a no-op for each entry this call claims), then
// for every claimed (container, destructor) pair removes the
// container-side registration before invoking the destructor - matching
// the reciprocal-registration invariant's removal order.
func threadExitCleanup(box *dtorBox) {
	box.mu.Lock()
	taken := box.dtors
	box.dtors = nil
	box.mu.Unlock()

	for reg, fn := range taken {
		reg.forget(box.tid)
		fn()
	}

	tidpool.Global().Dealloc(box.tid)
}
