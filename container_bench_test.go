package potls

import "testing"

// BenchmarkThreadLocal_FastPath measures the lock-free path: a
// goroutine whose thread id is within the primary page, reading an
// already-initialized slot. Grounded in original_source/benches/tls.rs.
func BenchmarkThreadLocal_FastPath(b *testing.B) {
	tl := New[int]()
	tok := NewToken()
	tl.GetOrInit(tok, func() int { return 1 })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tl.Get(tok)
	}
}

// BenchmarkThreadLocal_OverflowPath measures the mutex-guarded overflow
// path, by forcing a primary-page capacity of 1 so every benchmark
// iteration's fixed token lands past it.
func BenchmarkThreadLocal_OverflowPath(b *testing.B) {
	tl := WithCapacity[int](1)

	var tok *Token
	for tok = NewToken(); tok.tid < 1; tok = NewToken() {
	}
	tl.GetOrInit(tok, func() int { return 1 })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tl.Get(tok)
	}
}
