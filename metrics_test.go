package keypad

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestMetricsCounting(t *testing.T) {
	mp := newMockPort()
	mp.queueResponse([]byte("ok\n"))
	s := newSession(mp, testConfig(), zerolog.Nop())

	if _, err := s.SendAndWait("g 1"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	// second read finds nothing queued and times out empty
	if _, err := s.SendAndWait("g 2"); err != nil {
		t.Fatalf("second send: %v", err)
	}

	snap := s.Metrics().Snapshot()
	if snap.WriteOperations != 2 {
		t.Fatalf("expected 2 writes, got %d", snap.WriteOperations)
	}
	if snap.BytesWritten != int64(len("g 1\n")+len("g 2\n")) {
		t.Fatalf("unexpected bytes written: %d", snap.BytesWritten)
	}
	if snap.ReadOperations != 2 {
		t.Fatalf("expected 2 reads, got %d", snap.ReadOperations)
	}
	if snap.Responses != 1 {
		t.Fatalf("expected 1 response, got %d", snap.Responses)
	}
	if snap.EmptyReads != 1 {
		t.Fatalf("expected 1 empty read, got %d", snap.EmptyReads)
	}
	if snap.BytesRead != int64(len("ok\n")) {
		t.Fatalf("unexpected bytes read: %d", snap.BytesRead)
	}
}
