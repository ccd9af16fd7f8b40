package serial

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Driver is the syscall surface a Port runs on. The package default is
// hostDriver; tests substitute an in-memory implementation via
// OpenWith. Errors returned by a Driver should be unix.Errno values so
// the OS description reaches the caller.
type Driver interface {
	Open(path string) (fd int, err error)
	Close(fd int) error
	Read(fd int, p []byte) (int, error)
	Write(fd int, p []byte) (int, error)
	GetAttrs(fd int, img *ControlImage) error
	SetAttrs(fd int, img *ControlImage) error
}

// hostDriver issues real syscalls. O_SYNC makes writes block until the
// driver has accepted the data; O_NOCTTY keeps the device from
// becoming the controlling terminal.
type hostDriver struct{}

func (hostDriver) Open(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_SYNC, 0666)
}

func (hostDriver) Close(fd int) error {
	return unix.Close(fd)
}

func (hostDriver) Read(fd int, p []byte) (int, error) {
	n, err := unix.Read(fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (hostDriver) Write(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (hostDriver) GetAttrs(fd int, img *ControlImage) error {
	return ioctlTermios(fd, unix.TCGETS, img)
}

// SetAttrs commits with TCSETS: apply now, no drain or flush.
func (hostDriver) SetAttrs(fd int, img *ControlImage) error {
	return ioctlTermios(fd, unix.TCSETS, img)
}

func ioctlTermios(fd int, req uint, img *ControlImage) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req),
		uintptr(unsafe.Pointer(&img.raw[0])))
	if errno != 0 {
		return errno
	}
	return nil
}
