package serial

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ControlImage is a raw termios buffer as the kernel fills it via
// TCGETS. The four mode-flag words and the control-character array sit
// at fixed offsets; the buffer is oversized so layout growth across
// kernel versions cannot clip it. All multi-byte access uses the
// host's native byte order, since the image only ever round-trips
// through in-process ioctls.
type ControlImage struct {
	raw [controlImageSize]byte
}

const controlImageSize = 100

// struct termios field offsets.
const (
	offInputFlags   = 0
	offOutputFlags  = 4
	offControlFlags = 8
	offLocalFlags   = 12
	offControlChars = 17
)

// hostOrder is the native byte order, detected once.
var hostOrder = func() binary.ByteOrder {
	var probe uint16 = 1
	if *(*byte)(unsafe.Pointer(&probe)) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

func (img *ControlImage) InputFlags() uint32 {
	return hostOrder.Uint32(img.raw[offInputFlags:])
}

func (img *ControlImage) SetInputFlags(v uint32) {
	hostOrder.PutUint32(img.raw[offInputFlags:], v)
}

func (img *ControlImage) OutputFlags() uint32 {
	return hostOrder.Uint32(img.raw[offOutputFlags:])
}

func (img *ControlImage) SetOutputFlags(v uint32) {
	hostOrder.PutUint32(img.raw[offOutputFlags:], v)
}

func (img *ControlImage) ControlFlags() uint32 {
	return hostOrder.Uint32(img.raw[offControlFlags:])
}

func (img *ControlImage) SetControlFlags(v uint32) {
	hostOrder.PutUint32(img.raw[offControlFlags:], v)
}

func (img *ControlImage) LocalFlags() uint32 {
	return hostOrder.Uint32(img.raw[offLocalFlags:])
}

func (img *ControlImage) SetLocalFlags(v uint32) {
	hostOrder.PutUint32(img.raw[offLocalFlags:], v)
}

// Timeout reads the VTIME slot: read timeout in deciseconds.
func (img *ControlImage) Timeout() uint8 {
	return img.raw[offControlChars+unix.VTIME]
}

// SetTimeout writes the VTIME slot. The uint8 parameter makes the
// 0..255 range unrepresentable to violate.
func (img *ControlImage) SetTimeout(deciseconds uint8) {
	img.raw[offControlChars+unix.VTIME] = deciseconds
}

// MinRead reads the VMIN slot: minimum bytes before a read returns.
func (img *ControlImage) MinRead() uint8 {
	return img.raw[offControlChars+unix.VMIN]
}

// SetMinRead writes the VMIN slot.
func (img *ControlImage) SetMinRead(count uint8) {
	img.raw[offControlChars+unix.VMIN] = count
}

// ApplyRaw8N1 puts the line in raw 8N1 mode with flow control
// disabled: no parity, one stop bit, eight data bits, receiver
// enabled, modem control lines ignored. Input, output and local flags
// are zeroed entirely, so the driver performs no character
// translation, echo or line editing.
func (img *ControlImage) ApplyRaw8N1() {
	img.SetInputFlags(0)
	img.SetOutputFlags(0)
	img.SetLocalFlags(0)

	cf := img.ControlFlags()
	cf &^= unix.PARENB | unix.CSTOPB | unix.CSIZE | unix.CRTSCTS
	cf |= unix.CS8 | unix.CREAD | unix.CLOCAL
	img.SetControlFlags(cf)
}

// SetSpeed replaces the CBAUD field of the control flags with the
// encoded baud constant, the way cfsetospeed does on Linux.
func (img *ControlImage) SetSpeed(code uint32) {
	cf := img.ControlFlags()
	cf &^= unix.CBAUD
	cf |= code
	img.SetControlFlags(cf)
}
