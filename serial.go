package serial

import (
	"iter"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// BaudRate is a line speed from the supported set. The kernel accepts
// only the encoded Bxxx constants, not arbitrary integers, so rates
// outside the table below are rejected before the device is opened.
type BaudRate int

const (
	Baud9600    BaudRate = 9600
	Baud19200   BaudRate = 19200
	Baud38400   BaudRate = 38400
	Baud57600   BaudRate = 57600
	Baud115200  BaudRate = 115200
	Baud230400  BaudRate = 230400
	Baud460800  BaudRate = 460800
	Baud500000  BaudRate = 500000
	Baud576000  BaudRate = 576000
	Baud921600  BaudRate = 921600
	Baud1000000 BaudRate = 1000000
	Baud1152000 BaudRate = 1152000
	Baud1500000 BaudRate = 1500000
	Baud2000000 BaudRate = 2000000
	Baud2500000 BaudRate = 2500000
	Baud3000000 BaudRate = 3000000
	Baud3500000 BaudRate = 3500000
	Baud4000000 BaudRate = 4000000
)

var baudCodes = map[BaudRate]uint32{
	Baud9600:    unix.B9600,
	Baud19200:   unix.B19200,
	Baud38400:   unix.B38400,
	Baud57600:   unix.B57600,
	Baud115200:  unix.B115200,
	Baud230400:  unix.B230400,
	Baud460800:  unix.B460800,
	Baud500000:  unix.B500000,
	Baud576000:  unix.B576000,
	Baud921600:  unix.B921600,
	Baud1000000: unix.B1000000,
	Baud1152000: unix.B1152000,
	Baud1500000: unix.B1500000,
	Baud2000000: unix.B2000000,
	Baud2500000: unix.B2500000,
	Baud3000000: unix.B3000000,
	Baud3500000: unix.B3500000,
	Baud4000000: unix.B4000000,
}

// Options holds the line settings used to open a port. The port always
// runs raw 8N1 with flow control disabled; only speed, read timing and
// the per-read buffer size vary.
type Options struct {
	Baud BaudRate
	// TimeoutDeciseconds is the VTIME slot: how long a read waits for
	// data, in tenths of a second. Zero disables the timer.
	TimeoutDeciseconds uint8
	// MinRead is the VMIN slot: how many bytes must arrive before a
	// read returns.
	MinRead uint8
	// BufferSize caps how many bytes a single Read can return.
	// Defaults to 255 when zero or negative.
	BufferSize int
}

const defaultBufferSize = 255

// Port is an open serial device. It owns exactly one file descriptor,
// created by Open and released by Close; every operation after Close
// fails with KindClosed.
//
// Operations issued sequentially execute in order, each wrapping one
// blocking syscall. The internal mutex only guards the descriptor
// field and the closed flag, not whole reads, so Close may be called
// while a Read blocks; the pending read then surfaces whatever the
// kernel reports for the closed descriptor. Concurrent reads from
// multiple goroutines are not serialized.
type Port struct {
	drv  Driver
	opts Options

	mu     sync.Mutex
	fd     int
	closed bool
}

// Open opens and configures the serial device at path: raw 8N1, flow
// control disabled, speed and read timing from opts. The device never
// becomes the controlling terminal and writes are synchronous.
func Open(path string, opts Options) (*Port, error) {
	return OpenWith(hostDriver{}, path, opts)
}

// OpenWith is Open running on an explicit Driver.
func OpenWith(drv Driver, path string, opts Options) (*Port, error) {
	code, ok := baudCodes[opts.Baud]
	if !ok {
		return nil, &PortError{Kind: KindConfig, Op: "open", Path: path}
	}

	fd, err := drv.Open(path)
	if err != nil || fd < 0 {
		return nil, &PortError{Kind: KindOpen, Op: "open", Path: path, Errno: errnoOf(err)}
	}

	var img ControlImage
	if err := drv.GetAttrs(fd, &img); err != nil {
		drv.Close(fd)
		return nil, &PortError{Kind: KindGetAttr, Op: "tcgetattr", Path: path, Errno: errnoOf(err)}
	}

	img.SetSpeed(code)
	img.ApplyRaw8N1()
	img.SetTimeout(opts.TimeoutDeciseconds)
	img.SetMinRead(opts.MinRead)

	if err := drv.SetAttrs(fd, &img); err != nil {
		drv.Close(fd)
		return nil, &PortError{Kind: KindSetAttr, Op: "tcsetattr", Path: path, Errno: errnoOf(err)}
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	return &Port{drv: drv, opts: opts, fd: fd}, nil
}

func (p *Port) handle(op string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, &PortError{Kind: KindClosed, Op: op}
	}
	return p.fd, nil
}

// Read issues one read of at most Options.BufferSize bytes and returns
// the bytes actually received. An empty result means the VTIME timeout
// elapsed with no data; that is not an error.
func (p *Port) Read() ([]byte, error) {
	fd, err := p.handle("read")
	if err != nil {
		return nil, err
	}
	buf := make([]byte, p.opts.BufferSize)
	n, err := p.drv.Read(fd, buf)
	if err != nil {
		return nil, &PortError{Kind: KindIO, Op: "read", Errno: errnoOf(err)}
	}
	return buf[:n], nil
}

// ReadString is Read decoded as UTF-8 text. Malformed sequences pass
// through byte-for-byte; decoding never fails.
func (p *Port) ReadString() (string, error) {
	b, err := p.Read()
	return string(b), err
}

// Lines returns a pull iterator over newline-delimited lines. Each
// step reads the port, splits off complete lines without their '\n',
// and keeps the trailing partial chunk for the next step. The sequence
// never ends on its own: each call to Lines starts with an empty
// pending buffer and blocks per the VTIME/VMIN settings. Stop it by
// breaking out of the range loop or by closing the port, which makes
// the next read fail; a read failure is yielded once with an empty
// line and the sequence stops.
func (p *Port) Lines() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var pending string
		for {
			chunk, err := p.ReadString()
			if err != nil {
				yield("", err)
				return
			}
			pending += chunk
			for {
				idx := strings.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				if !yield(pending[:idx], nil) {
					return
				}
				pending = pending[idx+1:]
			}
		}
	}
}

// Write issues one write of the full buffer. Serial devices may accept
// fewer bytes than offered; that surfaces as KindShortWrite and is not
// retried here.
func (p *Port) Write(data []byte) error {
	fd, err := p.handle("write")
	if err != nil {
		return err
	}
	n, err := p.drv.Write(fd, data)
	if err != nil {
		return &PortError{Kind: KindIO, Op: "write", Errno: errnoOf(err)}
	}
	if n < len(data) {
		return &PortError{Kind: KindShortWrite, Op: "write"}
	}
	return nil
}

// WriteString writes the UTF-8 bytes of s.
func (p *Port) WriteString(s string) error {
	return p.Write([]byte(s))
}

// Close releases the descriptor. The port transitions to closed even
// if the OS close fails; a second Close reports KindClosed without
// touching the descriptor again.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return &PortError{Kind: KindClosed, Op: "close"}
	}
	p.closed = true
	if err := p.drv.Close(p.fd); err != nil {
		return &PortError{Kind: KindClose, Op: "close", Errno: errnoOf(err)}
	}
	return nil
}
