package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// LogstashWriter is a zapcore.WriteSyncer shipping newline-delimited JSON to a
// Logstash TCP input. Entries that cannot be delivered are counted and dropped.
type LogstashWriter struct {
	addr         string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	backoff      time.Duration

	mu       sync.Mutex
	conn     net.Conn
	offline  time.Time
	shutdown bool
	dropped  uint64
}

type Option func(*LogstashWriter)

func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryInterval sets how long the writer stays offline after a failure.
func WithRetryInterval(d time.Duration) Option {
	return func(w *LogstashWriter) { w.backoff = d }
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("logstash: empty address")
	}
	w := &LogstashWriter{
		addr:         addr,
		dialTimeout:  2 * time.Second,
		writeTimeout: time.Second,
		backoff:      5 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Write reports success for undeliverable entries so zap keeps logging to
// stdout; it only errors after Close.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	line := make([]byte, 0, len(p)+1)
	line = append(line, p...)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.shutdown {
		return 0, io.ErrClosedPipe
	}

	conn := w.connect()
	if conn == nil {
		w.dropped++
		return len(p), nil
	}
	if w.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	if _, err := conn.Write(line); err != nil {
		w.dropped++
		w.goOffline()
	}
	return len(p), nil
}

func (w *LogstashWriter) Sync() error { return nil }

func (w *LogstashWriter) Dropped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.shutdown {
		return nil
	}
	w.shutdown = true
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

// connect returns the live connection, dialing if the writer is not offline.
// Callers hold w.mu.
func (w *LogstashWriter) connect() net.Conn {
	if w.conn != nil {
		return w.conn
	}
	if time.Now().Before(w.offline) {
		return nil
	}
	conn, err := net.DialTimeout("tcp", w.addr, w.dialTimeout)
	if err != nil {
		w.goOffline()
		return nil
	}
	w.conn = conn
	w.offline = time.Time{}
	return conn
}

func (w *LogstashWriter) goOffline() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.offline = time.Now().Add(w.backoff)
}
