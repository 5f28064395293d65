// Package potls implements per-object thread-local storage (POTLS): a
// container, ThreadLocal[T], that associates a distinct value of type T
// with each goroutine that observes a given container instance. Unlike
// package-level globals wrapped in a map, the values here are owned by
// the container, and multiple independent containers coexist with
// disjoint per-goroutine slot planes.
//
// Go has no hook equivalent to an OS thread's TLS destructor, and
// goroutines have no exit callback. This package approximates thread
// lifetime with the lifetime of a *Token: a small handle a goroutine
// obtains once (typically near the top of the function it runs) and
// passes to every ThreadLocal it touches, in the same way a
// context.Context is threaded through a call tree. When a Token becomes
// unreachable - normally because the goroutine holding it has returned -
// the garbage collector eventually runs its cleanup, which performs the
// thread-exit half of the cross-container cleanup protocol described in
// SPEC_FULL.md. This is best-effort and GC-timing dependent, not
// synchronous with goroutine return; see DESIGN.md for the resolved
// open question.
//
// The fast path (a goroutine whose Token was allocated a small id, and
// whose slot is already occupied) never allocates and never takes a
// lock: Get and GetOrInit read and write through sync/atomic only.
// Thread ids beyond the container's primary-page capacity fall back to
// a mutex-guarded overflow store.
package potls
