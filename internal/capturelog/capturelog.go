// Package capturelog durably records the raw datagram stream an Observer
// processes, for later replay against observer.ProcessDatagram. This
// supplements spec.md's explicit non-goal of "simulating missing messages":
// it never synthesizes anything, it only records and replays the exact
// sequence a process actually observed (SPEC_FULL.md §D).
//
// Each frame is Snappy-block-compressed before being appended to the active
// capture file. The active file is rotated when the next frame would push it
// past the configured size (there is no age-based rotation), and the rotated
// file is gzip-compressed.
package capturelog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"

	"crewwire/internal/logging"
)

// frameHeaderSize is the length prefix written before each snappy-compressed
// datagram block: a little-endian uint32 byte count.
const frameHeaderSize = 4

// Writer appends captured datagrams to a rotating capture file on disk.
type Writer struct {
	mu        sync.Mutex
	dir       string
	maxSize   int64
	file      *os.File
	buffered  *bufio.Writer
	size      int64
	logger    *logging.Logger
	sequence  int
}

// NewWriter opens (creating if necessary) the capture directory and its
// first active capture file.
func NewWriter(dir string, maxSizeMB int, logger *logging.Logger) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("capturelog: directory must be provided")
	}
	if maxSizeMB <= 0 {
		return nil, fmt.Errorf("capturelog: max size must be positive")
	}
	if logger == nil {
		logger = logging.L()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("capturelog: create directory: %w", err)
	}
	w := &Writer{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger,
	}
	if err := w.openActiveLocked(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) activePath() string {
	return filepath.Join(w.dir, "active.cap")
}

func (w *Writer) openActiveLocked() error {
	file, err := os.OpenFile(w.activePath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("capturelog: open active file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("capturelog: stat active file: %w", err)
	}
	w.file = file
	w.buffered = bufio.NewWriter(file)
	w.size = info.Size()
	return nil
}

// Append compresses payload with Snappy and writes it as a length-prefixed
// frame to the active capture file, rotating first if the size threshold
// would be exceeded.
func (w *Writer) Append(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	encoded := snappy.Encode(nil, payload)
	if w.size+int64(frameHeaderSize+len(encoded)) > w.maxSize {
		if err := w.rotateLocked(); err != nil {
			return err
		}
	}

	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(encoded)))
	if _, err := w.buffered.Write(header[:]); err != nil {
		return fmt.Errorf("capturelog: write frame header: %w", err)
	}
	if _, err := w.buffered.Write(encoded); err != nil {
		return fmt.Errorf("capturelog: write frame body: %w", err)
	}
	w.size += int64(frameHeaderSize + len(encoded))
	return nil
}

// Flush forces buffered writes to the active file.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffered.Flush()
}

// Close flushes and closes the active capture file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buffered.Flush(); err != nil {
		return err
	}
	return w.file.Close()
}

// rotateLocked closes the active file, gzip-compresses it alongside a
// sequence-numbered name, and opens a fresh active file. Caller holds w.mu.
func (w *Writer) rotateLocked() error {
	if err := w.buffered.Flush(); err != nil {
		return fmt.Errorf("capturelog: flush before rotate: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("capturelog: close before rotate: %w", err)
	}
	w.sequence++
	rotatedName := fmt.Sprintf("capture-%s-%04d.cap.gz", time.Now().UTC().Format("20060102T150405"), w.sequence)
	rotatedPath := filepath.Join(w.dir, rotatedName)
	if err := gzipFile(w.activePath(), rotatedPath); err != nil {
		w.logger.Warn("capturelog: failed to gzip rotated capture", logging.Error(err))
	} else if err := os.Remove(w.activePath()); err != nil {
		w.logger.Warn("capturelog: failed to remove rotated active file", logging.Error(err))
	}
	return w.openActiveLocked()
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// Reader streams previously captured datagrams back out in their original
// order, decompressing each Snappy frame as it is read.
type Reader struct {
	r io.Reader
}

// OpenReader opens a plain (non-gzipped) capture file for replay. For a
// rotated, gzip-compressed capture file, wrap a *gzip.Reader and pass it to
// NewReader instead.
func OpenReader(path string) (*Reader, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("capturelog: open capture file: %w", err)
	}
	return NewReader(bufio.NewReader(file)), file, nil
}

// NewReader wraps an arbitrary byte stream of capture frames.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next decompressed datagram, or io.EOF when the stream is
// exhausted.
func (r *Reader) Next() ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("capturelog: truncated frame header: %w", err)
		}
		return nil, err
	}
	length := binary.LittleEndian.Uint32(header[:])
	encoded := make([]byte, length)
	if _, err := io.ReadFull(r.r, encoded); err != nil {
		return nil, fmt.Errorf("capturelog: truncated frame body: %w", err)
	}
	return snappy.Decode(nil, encoded)
}

// Replay invokes fn for every captured datagram in order until the stream is
// exhausted or fn returns an error.
func Replay(r *Reader, fn func(payload []byte) error) error {
	for {
		payload, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(payload); err != nil {
			return err
		}
	}
}
