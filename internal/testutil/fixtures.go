package testutil

import (
	"bytes"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/junioryono/singleton"
)

// LockingModes lists every locking mode for table-driven tests.
var LockingModes = []singleton.LockingMode{
	singleton.SerializedLocking,
	singleton.PerKeyLocking,
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// LogBuffer is a goroutine-safe sink for captured log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// BufferLogger returns a debug-level logger writing into a LogBuffer.
func BufferLogger() (*log.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	logger := log.NewWithOptions(buf, log.Options{
		Level:  log.DebugLevel,
		Prefix: "singleton",
	})
	return logger, buf
}
