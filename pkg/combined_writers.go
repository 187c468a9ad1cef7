package pkg

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers, e.g. the log file
// and stdout. A failing writer does not stop the others; its error is returned
// and also kept in Err.
type CombinedWriter struct {
	mu      sync.Mutex
	Writers []io.Writer
	Err     error
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports len(p) when at least one writer took the whole message.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	var (
		err       error
		delivered bool
	)
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		delivered = true
	}

	cw.Err = multierr.Append(cw.Err, err)
	if !delivered {
		return 0, err
	}
	return len(p), err
}
