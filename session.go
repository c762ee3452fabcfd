package keypad

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
	"go.uber.org/atomic"
)

// Session owns exactly one open serial port, from open to close, for one
// invocation of the tool.
type Session struct {
	handle  portHandle
	cfg     Config
	log     zerolog.Logger
	metrics *Metrics
	bufPool *BufferPool

	closed atomic.Bool
}

// Open opens a session on the configured port. The port's read timeout is
// set once here and bounds every subsequent read attempt.
func Open(cfg Config, log zerolog.Logger) (*Session, error) {
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	mode := &serial.Mode{BaudRate: cfg.BaudRate}
	h, err := openPort(cfg.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", cfg.PortName, err)
	}
	if err = h.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("setting read timeout on %s: %w", cfg.PortName, err)
	}

	log.Debug().
		Str("device", cfg.PortName).
		Int("baud", cfg.BaudRate).
		Dur("read_timeout", cfg.ReadTimeout).
		Msg("port opened")

	return newSession(h, cfg, log), nil
}

// newSession constructs a Session around an existing port handle.
func newSession(h portHandle, cfg Config, log zerolog.Logger) *Session {
	return &Session{
		handle:  h,
		cfg:     cfg,
		log:     log,
		metrics: &Metrics{},
		bufPool: NewBufferPool(ResponseBufferSize),
	}
}

// Metrics exposes the session's I/O counters.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Close closes the underlying port. It is safe to call multiple times.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	snap := s.metrics.Snapshot()
	s.log.Debug().
		Int64("reads", snap.ReadOperations).
		Int64("empty_reads", snap.EmptyReads).
		Int64("read_errors", snap.ReadErrors).
		Int64("bytes_read", snap.BytesRead).
		Int64("writes", snap.WriteOperations).
		Int64("write_errors", snap.WriteErrors).
		Int64("bytes_written", snap.BytesWritten).
		Msg("closing session")

	return s.handle.Close()
}

// SendAndWait writes a command and performs exactly one bounded read for
// the reply. A reply larger than ResponseBufferSize, or spread over more
// than one timeout window, is truncated to its first chunk; raise the read
// timeout when that happens. An empty result means the device sent nothing
// within the window, which is not an error.
func (s *Session) SendAndWait(cmd string) (string, error) {
	if err := s.writeLine(cmd); err != nil {
		return "", err
	}
	return s.readOnce()
}

// Interactive runs a duplex session on the open port: a background reader
// prints every non-empty response to out while the foreground loop forwards
// input lines to the device. The session ends on end-of-input, on the
// literal command "exit", or after either side hits a transport fault. The
// reader is always joined before Interactive returns, so the caller may
// close the session immediately afterwards.
//
// Shutdown cannot interrupt a blocked input read: after a reader fault the
// loop still waits for the next input line (or end-of-input) before it
// notices the cleared flag.
func (s *Session) Interactive(in io.Reader, out io.Writer) error {
	keepReading := atomic.NewBool(true)
	readerDone := make(chan struct{})

	go s.responseReader(keepReading, readerDone, out)

	s.log.Debug().Msg("start interactive mode, reading input until end-of-file (ctrl-d, or type exit)")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || !keepReading.Load() {
			s.log.Debug().Msg("stopping")
			break
		}
		s.log.Debug().Str("line", line).Msg("send")
		if err := s.writeLine(line); err != nil {
			// A write fault ends the session the same way a read fault does.
			s.log.Error().Err(err).Msg("error sending command")
			keepReading.Store(false)
			break
		}
	}
	err := scanner.Err()
	s.log.Debug().Msg("end of interactive mode")

	// Clearing the flag is idempotent; the join guarantees no read is in
	// flight when the caller closes the port.
	keepReading.Store(false)
	<-readerDone
	return err
}

// responseReader keeps reading and printing responses until keepReading is
// cleared or a read fails. An in-flight read is allowed to complete (or
// time out) before the flag is re-checked, so shutdown latency is bounded
// by one read-timeout window.
func (s *Session) responseReader(keepReading *atomic.Bool, done chan<- struct{}, out io.Writer) {
	defer close(done)

	s.log.Debug().Msg("start background reader for responses")
	for keepReading.Load() {
		resp, err := s.readOnce()
		if err != nil {
			s.log.Error().Err(err).Msg("error reading response")
			keepReading.Store(false)
			return
		}
		if resp != "" {
			fmt.Fprintln(out, resp)
		}
	}
	s.log.Debug().Msg("end background reader for responses")
}

// writeLine appends the line terminator and writes the command to the port
// as a single write call.
func (s *Session) writeLine(cmd string) error {
	if s.closed.Load() {
		return ErrPortNotOpen
	}

	data := []byte(cmd + "\n")
	s.metrics.WriteOperations.Inc()
	n, err := s.handle.Write(data)
	if err != nil {
		s.metrics.WriteErrors.Inc()
		return fmt.Errorf("writing command: %w", err)
	}
	s.metrics.BytesWritten.Add(int64(n))
	return nil
}

// readOnce performs one bounded read of up to ResponseBufferSize bytes and
// decodes the result as trimmed UTF-8 text. Zero bytes within the timeout
// window yields ("", nil).
func (s *Session) readOnce() (string, error) {
	if s.closed.Load() {
		return "", ErrPortNotOpen
	}

	buf := s.bufPool.Get()
	defer s.bufPool.Put(buf)

	s.metrics.ReadOperations.Inc()
	n, err := s.handle.Read(buf)
	if err != nil {
		s.metrics.ReadErrors.Inc()
		return "", fmt.Errorf("reading response: %w", err)
	}
	if n == 0 {
		s.metrics.EmptyReads.Inc()
		return "", nil
	}
	s.metrics.BytesRead.Add(int64(n))

	if !utf8.Valid(buf[:n]) {
		s.metrics.ReadErrors.Inc()
		return "", ErrInvalidResponse
	}

	resp := strings.TrimSpace(string(buf[:n]))
	if resp != "" {
		s.metrics.Responses.Inc()
	}
	return resp, nil
}
