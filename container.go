package potls

import (
	"runtime"

	"github.com/quininer/per-thread-object/internal/pagestore"
)

// defaultPageCapacity is the library's default primary-page size, used
// by New and shared with the process-wide id allocator's small/large
// free-list split (internal/tidpool.DefaultCapacity).
const defaultPageCapacity = 16

// ThreadLocal associates a distinct value of type T with each goroutine
// that calls Get/GetOrInit/GetOrTryInit with its own Token, bounded by
// this container's lifetime: see package doc for how Token lifetime
// stands in for thread lifetime in Go.
//
// A *ThreadLocal[T] must be constructed with New or WithCapacity; its
// zero value is not usable.
type ThreadLocal[T any] struct {
	store *pagestore.Store[T]
	reg   *registry
}

// New constructs a ThreadLocal with the library's default primary-page
// capacity.
func New[T any]() *ThreadLocal[T] {
	return WithCapacity[T](defaultPageCapacity)
}

// WithCapacity constructs a ThreadLocal whose primary page holds n
// slots; tune n to the expected number of concurrently-live goroutines
// that will use this container, to avoid paying the overflow store's
// locking cost. Panics if n is not positive.
func WithCapacity[T any](n int) *ThreadLocal[T] {
	return &ThreadLocal[T]{
		store: pagestore.New[T](n),
		reg:   newRegistry(),
	}
}

// Get returns the calling goroutine's value in this container, or false
// if it has not yet been initialized (via GetOrInit/GetOrTryInit). It
// never allocates, and never takes a lock when tok's thread id is
// within the primary page's capacity and the slot is already occupied.
//
// The returned *T is only valid to dereference for as long as tok stays
// reachable: tok's thread-exit cleanup (see package doc) can fire and
// clear this slot the instant the garbage collector observes tok is
// unreachable, even if that happens while the returned value is still
// in use further down the same goroutine's call stack. Callers that
// keep using the returned value without otherwise referencing tok again
// must call runtime.KeepAlive(tok) once they are done with it.
func (tl *ThreadLocal[T]) Get(tok *Token) (*T, bool) {
	slot := tl.store.Get(tok.tid)
	if slot == nil {
		runtime.KeepAlive(tok)
		return nil, false
	}
	v := slot.Load()
	runtime.KeepAlive(tok)
	return v, v != nil
}

// GetOrInit returns the calling goroutine's value in this container,
// running init to produce one if the slot is empty. Further calls by
// the same goroutine return the same value without invoking init again.
//
// See Get's doc comment for the liveness contract on tok and the
// returned *T.
func (tl *ThreadLocal[T]) GetOrInit(tok *Token, init func() T) *T {
	v, _ := tl.GetOrTryInit(tok, func() (T, error) {
		return init(), nil
	})
	runtime.KeepAlive(tok)
	return v
}

// GetOrTryInit is the fallible form of GetOrInit. If init returns an
// error, the slot is left empty, no cross-container/thread links are
// registered, and the error is returned unchanged - a later call may
// still succeed.
//
// See Get's doc comment for the liveness contract on tok and the
// returned *T.
func (tl *ThreadLocal[T]) GetOrTryInit(tok *Token, init func() (T, error)) (*T, error) {
	slot := tl.store.GetOrCreate(tok.tid)
	if v := slot.Load(); v != nil {
		runtime.KeepAlive(tok)
		return v, nil
	}

	val, err := init()
	if err != nil {
		runtime.KeepAlive(tok)
		return nil, err
	}

	// both halves of the cross-link must be in place before the slot
	// transitions to Occupied and becomes observable elsewhere.
	tl.registerCrossLink(tok, slot)
	slot.Store(&val)

	runtime.KeepAlive(tok)
	return &val, nil
}

// Clean clears the calling goroutine's own slot in this container
// immediately, running its destructor and removing the cross-link, as
// if the goroutine had exited (for this container only). A later Get
// returns false, and GetOrInit/GetOrTryInit will initialize again.
func (tl *ThreadLocal[T]) Clean(tok *Token) {
	tok.box.mu.Lock()
	fn, ok := tok.box.dtors[tl.reg]
	if ok {
		delete(tok.box.dtors, tl.reg)
	}
	tok.box.mu.Unlock()

	if !ok {
		runtime.KeepAlive(tok)
		return
	}

	tl.reg.forget(tok.tid)
	fn()
	runtime.KeepAlive(tok)
}

// Close runs the container-drop half of the cleanup protocol: every
// goroutine that has ever written a value into this container (and has
// not since exited) has that value destructed now, and its cross-link
// removed, regardless of whether that goroutine is still running. Close
// is idempotent. It does not itself free the container - that happens
// when the last reference to it is dropped, per normal Go GC.
func (tl *ThreadLocal[T]) Close() {
	tl.reg.dropAll()
}

// registerCrossLink installs both halves of the reciprocal-registration
// invariant for (tok, tl): a destructor entry in tok's box, keyed by
// tl's registry, and a weak handle to tok's box in tl's registry, keyed
// by tok's thread id.
func (tl *ThreadLocal[T]) registerCrossLink(tok *Token, slot *pagestore.Slot[T]) {
	tok.box.mu.Lock()
	tok.box.dtors[tl.reg] = func() { slot.Store(nil) }
	tok.box.mu.Unlock()

	tl.reg.track(tok.tid, tok.box)
}
