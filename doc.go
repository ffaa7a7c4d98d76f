// Package startlight arms a serial start-light controller: it opens the
// device, sends a start command and waits for the device to confirm.
//
// # Basic Usage
//
// Create a handler over a driver, wrap it in a manager and configure the
// endpoint:
//
//	h, err := startlight.NewHandler(startlight.BugstDriver{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := startlight.NewManager(h)
//	m.ValidateAndSet("/dev/ttyACM0", 9600, 10.0)
//
//	res := m.SendStartSync()
//	if !res.OK {
//	    fmt.Println("start failed:", res.Code())
//	}
//
// # Asynchronous Sends
//
// SendStartAsync never blocks the caller. The callback runs on the worker
// goroutine, so GUI and TUI hosts must post the result back onto their own
// event loop:
//
//	m.SendStartAsync(func(res startlight.Result) {
//	    program.Send(resultMsg{res}) // bubbletea, fyne, ...
//	})
//
// # Wire Protocol
//
// The payload is the ASCII line "start\n". The send succeeds as soon as the
// bytes received so far contain "ok" in any letter case, anywhere. Every send
// opens and closes its own connection; nothing is kept open between sends.
//
// # Outcomes
//
// Failures never panic. Each send yields a Result whose Reason is one of:
//
//	ok                     confirmation received
//	timeout                no confirmation before the deadline
//	open_error             endpoint could not be opened after retries
//	write_error            the command could not be written
//	read_error             reading the response failed
//	transport_unavailable  no driver, or no endpoint configured
//
// Result.Err wraps the package sentinels (ErrOpenFailed, ErrWriteFailed,
// ErrReadFailed, ErrNotConfigured, ...) for use with errors.Is.
//
// # Prevent-Reset Mode
//
// Many Arduino-style boards reboot when DTR is raised. By default drivers
// hold DTR and RTS low while opening; disable with WithPreventReset(false)
// for devices that need those lines.
//
// # Drivers
//
//   - BugstDriver: go.bug.st/serial, Linux, macOS and Windows
//   - TermiosDriver: raw Linux termios, reports waiting byte counts
//   - SimDriver: scripted in-memory device for tests and demos
//
// # Default Configuration
//
//   - BaudRate: 9600
//   - Timeout: 10s at the manager, 2s for a bare handler
//   - Retries: 2, 120ms apart
//   - PollInterval: 10ms
//   - PreventReset: on
package startlight
