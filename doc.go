// Package serial opens Linux serial devices in raw 8N1 mode and
// exposes byte-stream reads and writes plus a line-oriented iterator.
//
// The port is configured entirely through termios: the requested baud
// rate, a read timeout in deciseconds (VTIME) and a minimum byte count
// (VMIN). Read timing is enforced by the kernel driver, not by this
// package; a timed-out read simply returns no bytes. Flow control is
// always disabled and the framing is always 8 data bits, no parity,
// one stop bit.
//
// Features:
//   - Raw syscall-based serial I/O on Linux, no buffering beyond the driver
//   - VTIME/VMIN read timing, set at open
//   - Newline-delimited line iteration via iter.Seq2
//   - Typed errors carrying the OS errno and its description
//   - Driver interface for syscall-free testing
//
// This package does **not** support Windows.
//
// Example usage:
//
//	port, err := serial.Open("/dev/ttyUSB0", serial.Options{
//	    Baud:               serial.Baud115200,
//	    TimeoutDeciseconds: 10, // wait up to 1s per read
//	    MinRead:            0,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	// Consume lines until the port fails or is closed
//	go func() {
//	    for line, err := range port.Lines() {
//	        if err != nil {
//	            log.Println("read error:", err)
//	            return
//	        }
//	        fmt.Println("received:", line)
//	    }
//	}()
//
//	// Write a command
//	if err := port.WriteString("C,START\n"); err != nil {
//	    log.Println("write failed:", err)
//	}
//
//	// ... to stop reading, call port.Close() from another goroutine
package serial
