package keypad

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestBufferPoolReuse(t *testing.T) {
	bp := NewBufferPool(ResponseBufferSize)

	buf := bp.Get()
	if len(buf) != ResponseBufferSize {
		t.Fatalf("expected %d byte buffer, got %d", ResponseBufferSize, len(buf))
	}
	buf[0] = 0xaa
	bp.Put(buf)

	again := bp.Get()
	if again[0] != 0 {
		t.Fatal("returned buffer was not cleared")
	}

	// wrong-sized buffers are not pooled
	bp.Put(make([]byte, 16))

	stats := bp.Stats()
	if stats.Gets != 2 {
		t.Fatalf("expected 2 gets, got %d", stats.Gets)
	}
	if stats.Puts != 1 {
		t.Fatalf("expected 1 put, got %d", stats.Puts)
	}
}

// BenchmarkReadOnceWithPooling measures the bounded-read path with the
// session's pooled buffers.
func BenchmarkReadOnceWithPooling(b *testing.B) {
	mp := newMockPort()
	mp.readDelay = 0
	s := newSession(mp, testConfig(), zerolog.Nop())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.readOnce()
	}
}

// BenchmarkGetPut measures raw pool churn.
func BenchmarkGetPut(b *testing.B) {
	bp := NewBufferPool(ResponseBufferSize)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf := bp.Get()
		bp.Put(buf)
	}
}
