package startlight

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		expected uint32
		hasError bool
	}{
		{9600, unix.B9600, false},
		{57600, unix.B57600, false},
		{115200, unix.B115200, false},
		{921600, unix.B921600, false},
		{123456, 0, true},
		{0, 0, true},
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if err != ErrInvalidBaudRate {
				t.Errorf("Expected ErrInvalidBaudRate for %d, got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for baud rate %d: %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("getBaudRate(%d) = %d, expected %d", test.input, result, test.expected)
		}
	}
}

func TestTranslateErrno(t *testing.T) {
	tests := []struct {
		errno    error
		expected error
	}{
		{unix.ENOENT, ErrDeviceNotFound},
		{unix.ENXIO, ErrDeviceNotFound},
		{unix.EACCES, ErrPermissionDenied},
		{unix.EPERM, ErrPermissionDenied},
		{unix.EBUSY, ErrDeviceInUse},
	}

	for _, test := range tests {
		err := translateErrno(test.errno)
		if !errors.Is(err, test.expected) {
			t.Errorf("translateErrno(%v) = %v, expected %v", test.errno, err, test.expected)
		}
		if !errors.Is(err, test.errno) {
			t.Errorf("translateErrno(%v) lost the errno", test.errno)
		}
	}

	if err := translateErrno(unix.EIO); err != unix.EIO {
		t.Errorf("Unmapped errno changed: %v", err)
	}
}

func TestTermiosOpenErrors(t *testing.T) {
	d := TermiosDriver{}

	_, err := d.Open("/dev/nonexistent", Mode{BaudRate: 9600, PreventReset: true})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}

	_, err = d.Open("/dev/null", Mode{BaudRate: 123456})
	if err != ErrInvalidBaudRate {
		t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
	}

	// /dev/null is a character device but not a tty
	if _, err := d.Open("/dev/null", Mode{BaudRate: 9600}); err == nil {
		t.Error("Expected termios failure on /dev/null")
	}
}

func TestTermiosPortReadWriteClose(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	r := &termiosPort{fd: fds[0]}
	w := &termiosPort{fd: fds[1]}
	defer w.Close()

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	if n != 0 || err != nil {
		t.Errorf("Empty read returned (%d, %v), expected (0, nil)", n, err)
	}

	if _, err := w.Write([]byte("OK\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	n, err = r.Read(buf)
	if err != nil || string(buf[:n]) != "OK\n" {
		t.Errorf("Read returned (%q, %v)", buf[:n], err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := r.Close(); err != ErrSessionClosed {
		t.Errorf("Expected ErrSessionClosed on second close, got %v", err)
	}
	if _, err := r.Read(buf); err != ErrSessionClosed {
		t.Errorf("Expected ErrSessionClosed on read after close, got %v", err)
	}
	if _, err := r.Buffered(); err != ErrSessionClosed {
		t.Errorf("Expected ErrSessionClosed on Buffered after close, got %v", err)
	}
}
