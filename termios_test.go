package serial

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestControlImageFieldOffsets(t *testing.T) {
	var img ControlImage
	img.SetInputFlags(0x11111111)
	img.SetOutputFlags(0x22222222)
	img.SetControlFlags(0x33333333)
	img.SetLocalFlags(0x44444444)
	img.SetTimeout(7)
	img.SetMinRead(9)

	require.Equal(t, uint32(0x11111111), hostOrder.Uint32(img.raw[0:]))
	require.Equal(t, uint32(0x22222222), hostOrder.Uint32(img.raw[4:]))
	require.Equal(t, uint32(0x33333333), hostOrder.Uint32(img.raw[8:]))
	require.Equal(t, uint32(0x44444444), hostOrder.Uint32(img.raw[12:]))
	require.Equal(t, byte(7), img.raw[17+unix.VTIME])
	require.Equal(t, byte(9), img.raw[17+unix.VMIN])
}

func TestTimingSlotsRoundTrip(t *testing.T) {
	var img ControlImage
	for v := 0; v <= 255; v++ {
		img.SetTimeout(uint8(v))
		img.SetMinRead(uint8(255 - v))
		require.Equal(t, uint8(v), img.Timeout())
		require.Equal(t, uint8(255-v), img.MinRead())
	}
}

func TestApplyRaw8N1(t *testing.T) {
	var img ControlImage
	// Start from a dirty line: canonical mode, echo, parity, two stop
	// bits, seven data bits, hardware flow control.
	img.SetInputFlags(unix.ICRNL | unix.IXON | unix.BRKINT)
	img.SetOutputFlags(unix.OPOST | unix.ONLCR)
	img.SetLocalFlags(unix.ICANON | unix.ECHO | unix.ISIG)
	img.SetControlFlags(unix.PARENB | unix.CSTOPB | unix.CS7 | unix.CRTSCTS | unix.B9600)

	img.ApplyRaw8N1()

	require.Zero(t, img.InputFlags())
	require.Zero(t, img.OutputFlags())
	require.Zero(t, img.LocalFlags())

	cf := img.ControlFlags()
	require.Equal(t, uint32(unix.CS8), cf&unix.CSIZE)
	require.Zero(t, cf&unix.PARENB)
	require.Zero(t, cf&unix.CSTOPB)
	require.Zero(t, cf&unix.CRTSCTS)
	require.NotZero(t, cf&unix.CREAD)
	require.NotZero(t, cf&unix.CLOCAL)
	// Speed bits survive the transformation.
	require.Equal(t, uint32(unix.B9600), cf&unix.CBAUD)
}

func TestSetSpeedReplacesBaudBits(t *testing.T) {
	var img ControlImage
	img.SetControlFlags(unix.CS8 | unix.CREAD | unix.B9600)

	img.SetSpeed(unix.B3000000)

	cf := img.ControlFlags()
	require.Equal(t, uint32(unix.B3000000), cf&unix.CBAUD)
	// Non-speed bits untouched.
	require.Equal(t, uint32(unix.CS8), cf&unix.CSIZE)
	require.NotZero(t, cf&unix.CREAD)
}
