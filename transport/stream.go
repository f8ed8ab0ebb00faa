package transport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// Stream is a lazily-read, finite, non-restartable byte sequence over an
// open connection. The Stream owns the connection from the moment it is
// returned; Close is the only legitimate way to release it, and release
// happens exactly once no matter how many exit paths race for it.
type Stream struct {
	status int
	header http.Header
	body   io.ReadCloser
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

func newStream(resp *http.Response, logger *slog.Logger) *Stream {
	return &Stream{
		status: resp.StatusCode,
		header: resp.Header,
		body:   resp.Body,
		logger: logger,
	}
}

// StatusCode returns the response status observed when the stream opened.
func (s *Stream) StatusCode() int { return s.status }

// Header returns the response headers observed when the stream opened.
func (s *Stream) Header() http.Header { return s.header }

// ContentType returns the declared media type of the streamed body.
func (s *Stream) ContentType() string { return s.header.Get("Content-Type") }

// Read implements io.Reader. A failure mid-read closes the underlying
// connection before the error propagates, so an aborted stream never
// leaks its connection.
func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.body.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		if cerr := s.Close(); cerr != nil {
			s.logger.Error("closing stream after read failure", "error", cerr)
		}
	}

	return n, err
}

// Close releases the underlying connection, aborting any in-flight read.
// Subsequent calls return the first close's result.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})

	return s.closeErr
}

// Bytes drains the remaining stream into memory and closes it.
// Prefer Read or Save for large content.
func (s *Stream) Bytes() ([]byte, error) {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing drained stream", "error", err)
		}
	}()

	b, err := io.ReadAll(s.body)
	if err != nil {
		return nil, fmt.Errorf("draining stream: %w", err)
	}

	return b, nil
}

// Save streams the remaining content to destPath and closes the stream.
// Data lands in a temp file in the same directory, renamed to destPath
// on success and removed on failure, so a partial download never
// replaces an existing file.
func (s *Stream) Save(destPath string) error {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing saved stream", "error", err)
		}
	}()

	file, err := os.CreateTemp(filepath.Dir(destPath), ".linekit-content-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			s.logger.Error("closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				s.logger.Error("removing temp file", "error", err)
			}
		}
	}()

	if _, err := io.Copy(file, s.body); err != nil {
		return fmt.Errorf("copying stream to file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("flushing temp file: %w", err)
	}

	if err := os.Rename(file.Name(), destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	successful = true

	return nil
}
