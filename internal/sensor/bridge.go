package sensor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/banshee-data/irpointer/internal/pointing"
)

// Port is the minimal interface needed from a serial port. It lets tests
// drive a Bridge without hardware.
type Port interface {
	io.Reader
	io.Closer
}

// Bridge reads tick records from a serial-attached sensor bridge.
//
// Lines are read continuously in the background. Next returns the newest
// tick available, discarding older queued ones, so a slow poller always
// sees the current marker positions rather than a backlog.
type Bridge struct {
	port  Port
	lines chan string
	done  chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	readErr   error
	skipped   uint64
}

// OpenBridge opens the serial device at path and starts reading from it.
func OpenBridge(path string, opts PortOptions) (*Bridge, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}

	logf("opened bridge on %s at %d baud", path, mode.BaudRate)
	return NewBridge(port), nil
}

// NewBridge starts reading tick lines from port.
func NewBridge(port Port) *Bridge {
	b := &Bridge{
		port:  port,
		lines: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go b.readLoop()
	return b
}

func (b *Bridge) readLoop() {
	defer close(b.lines)
	scan := bufio.NewScanner(b.port)
	for scan.Scan() {
		select {
		case b.lines <- scan.Text():
		case <-b.done:
			return
		}
	}
	if err := scan.Err(); err != nil {
		select {
		case <-b.done:
		default:
			b.mu.Lock()
			b.readErr = err
			b.mu.Unlock()
		}
	}
}

// Next blocks until at least one tick line has arrived and returns the
// newest parseable tick. Malformed lines are logged and skipped. When the
// port reaches EOF Next returns io.EOF, or the read error that ended it.
func (b *Bridge) Next(ctx context.Context) (pointing.PointSet, error) {
	var (
		latest pointing.PointSet
		have   bool
	)
	for {
		if have {
			select {
			case line, ok := <-b.lines:
				if !ok {
					return latest, nil
				}
				if ps, ok := b.parse(line); ok {
					latest = ps
				}
				continue
			default:
				return latest, nil
			}
		}

		select {
		case <-ctx.Done():
			return pointing.PointSet{}, ctx.Err()
		case line, ok := <-b.lines:
			if !ok {
				return pointing.PointSet{}, b.endErr()
			}
			latest, have = b.parse(line)
		}
	}
}

func (b *Bridge) parse(line string) (pointing.PointSet, bool) {
	_, ps, err := ParseTick(line)
	if err != nil {
		b.mu.Lock()
		b.skipped++
		b.mu.Unlock()
		if !errors.Is(err, ErrNotTick) {
			logf("skipping bridge line: %v", err)
		}
		return ps, false
	}
	return ps, true
}

func (b *Bridge) endErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readErr != nil {
		return b.readErr
	}
	return io.EOF
}

// Skipped returns the number of lines that were not valid tick records.
func (b *Bridge) Skipped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.skipped
}

// Close stops the reader and closes the port.
func (b *Bridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		err = b.port.Close()
	})
	return err
}
