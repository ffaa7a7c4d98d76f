package startlight

import (
	"log/slog"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Retries != 2 {
		t.Errorf("Expected Retries 2, got %d", config.Retries)
	}

	if config.RetryDelay != 120*time.Millisecond {
		t.Errorf("Expected RetryDelay 120ms, got %v", config.RetryDelay)
	}

	if config.PollInterval != 10*time.Millisecond {
		t.Errorf("Expected PollInterval 10ms, got %v", config.PollInterval)
	}

	if !config.PreventReset {
		t.Error("Expected PreventReset enabled by default")
	}

	if config.Logger == nil {
		t.Error("Expected a non-nil default logger")
	}
}

func TestFunctionalOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
		check   func(Config) bool
	}{
		{"retries 3", WithRetries(3), false, func(c Config) bool { return c.Retries == 3 }},
		{"retries 0", WithRetries(0), true, nil},
		{"retry delay 0", WithRetryDelay(0), false, func(c Config) bool { return c.RetryDelay == 0 }},
		{"retry delay negative", WithRetryDelay(-time.Millisecond), true, nil},
		{"settle delay 5ms", WithSettleDelay(5 * time.Millisecond), false, func(c Config) bool { return c.SettleDelay == 5*time.Millisecond }},
		{"settle delay negative", WithSettleDelay(-1), true, nil},
		{"poll interval 1ms", WithPollInterval(time.Millisecond), false, func(c Config) bool { return c.PollInterval == time.Millisecond }},
		{"poll interval 0", WithPollInterval(0), true, nil},
		{"prevent reset off", WithPreventReset(false), false, func(c Config) bool { return !c.PreventReset }},
		{"logger", WithLogger(slog.Default()), false, func(c Config) bool { return c.Logger == slog.Default() }},
		{"nil logger", WithLogger(nil), true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := tt.opt(&config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err != ErrInvalidConfig {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if tt.check != nil && !tt.check(config) {
				t.Errorf("option not applied: %+v", config)
			}
		})
	}
}

func TestParamsWithDefaults(t *testing.T) {
	p := Params{Endpoint: "COM7"}.withDefaults(DefaultHandlerTimeout)
	if p.BaudRate != 9600 {
		t.Errorf("Expected BaudRate 9600, got %d", p.BaudRate)
	}
	if p.Timeout != 2*time.Second {
		t.Errorf("Expected Timeout 2s, got %v", p.Timeout)
	}

	p = Params{BaudRate: 115200, Timeout: time.Second}.withDefaults(DefaultTimeout)
	if p.BaudRate != 115200 || p.Timeout != time.Second {
		t.Errorf("Explicit values overwritten: %+v", p)
	}
	if p.Configured() {
		t.Error("Params without endpoint should not be configured")
	}
}

func TestNewDriver(t *testing.T) {
	for _, name := range []string{"", "bugst", "BUGST", "termios"} {
		d, err := NewDriver(name)
		if err != nil {
			t.Errorf("NewDriver(%q) failed: %v", name, err)
			continue
		}
		if d == nil {
			t.Errorf("NewDriver(%q) returned nil driver", name)
		}
	}

	if _, err := NewDriver("carrier-pigeon"); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
