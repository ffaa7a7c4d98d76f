package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/allbin/startlight"
	"github.com/spf13/viper"
)

// executeCommand runs the root command with args against a throwaway
// config file
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "startlight.yaml")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func simManager(t *testing.T, endpoint string, timeout any) *startlight.Manager {
	t.Helper()
	h, err := startlight.NewHandler(demoSimDriver(), startlight.WithRetryDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	m := startlight.NewManager(h)
	m.ValidateAndSet(endpoint, 9600, timeout)
	return m
}

func TestGetPortType(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"/dev/ttyUSB0", "USB Serial"},
		{"/dev/ttyACM1", "USB CDC/ACM"},
		{"/dev/cu.usbmodem1401", "USB CDC/ACM"},
		{"/dev/tty.usbserial-A50285BI", "USB Serial"},
		{"/dev/ttyAMA0", "ARM Serial"},
		{"/dev/ttyS0", "Standard Serial"},
		{"/dev/ttySAC2", "Samsung Serial"},
		{"COM7", "COM Port"},
		{`\\.\COM12`, "COM Port"},
		{"SIM1", "Simulated"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		if got := getPortType(test.name); got != test.expected {
			t.Errorf("getPortType(%s) = %s, expected %s", test.name, got, test.expected)
		}
	}
}

func TestFilterPorts(t *testing.T) {
	ports := []startlight.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true},
		{Name: "/dev/ttyACM0", IsUSB: true},
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyAMA0"},
		{Name: "COM3"},
	}

	tests := []struct {
		filter   string
		expected int
	}{
		{"", 5},
		{"all", 5},
		{"usb", 2},
		{"USB", 2},
		{"standard", 2},
		{"arm", 1},
		{"bogus", 0},
	}

	for _, test := range tests {
		if got := filterPorts(ports, test.filter); len(got) != test.expected {
			t.Errorf("filterPorts(%q) returned %d ports, expected %d", test.filter, len(got), test.expected)
		}
	}
}

func TestRenderTable(t *testing.T) {
	ports := []startlight.PortDetails{
		{Name: "/dev/ttyACM0", Description: "USB CDC/ACM Device", IsUSB: true, VendorID: "2341", ProductID: "0043", Product: "Arduino Uno"},
		{Name: "/dev/ttyS0", Description: "Standard Serial Port"},
	}

	plain := renderTable(ports, false)
	for _, want := range []string{"Port", "/dev/ttyACM0", "/dev/ttyS0", "Standard Serial"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Table missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "2341:0043") {
		t.Error("USB IDs shown without --details")
	}

	detailed := renderTable(ports, true)
	if !strings.Contains(detailed, "2341:0043") {
		t.Errorf("Detailed table missing USB IDs:\n%s", detailed)
	}
}

func TestRenderDetails(t *testing.T) {
	var out bytes.Buffer
	renderDetails(&out, []startlight.PortDetails{
		{Name: "/dev/ttyUSB0", Description: "USB Serial Port", IsUSB: true, VendorID: "0403", ProductID: "6001", SerialNumber: "A50285BI"},
		{Name: "/dev/ttyS0", Description: "Standard Serial Port"},
	})

	got := out.String()
	for _, want := range []string{"/dev/ttyUSB0", "0403:6001", "A50285BI", "/dev/ttyS0", "Standard Serial"} {
		if !strings.Contains(got, want) {
			t.Errorf("Details missing %q:\n%s", want, got)
		}
	}
}

func TestNewDriver(t *testing.T) {
	for _, name := range []string{"sim", " SIM "} {
		d, err := newDriver(name)
		if err != nil {
			t.Fatalf("newDriver(%q) failed: %v", name, err)
		}
		if d.Name() != "sim" {
			t.Errorf("newDriver(%q) returned %s driver", name, d.Name())
		}
	}

	if _, err := newDriver("nope"); err == nil {
		t.Error("Expected error for unknown driver")
	}
}

func TestRunStart(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		async    bool
		override time.Duration
		wantErr  bool
		want     string
	}{
		{"confirmed", "SIM1", false, 0, false, "Start confirmed"},
		{"confirmed async", "SIM1", true, 0, false, "Start confirmed"},
		{"confirmed after busy open", "SIM3", false, 0, false, "Start confirmed"},
		{"silent device", "SIM2", false, 200 * time.Millisecond, true, "timeout"},
		{"silent device async", "SIM2", true, 200 * time.Millisecond, true, "timeout"},
		{"no endpoint", "", false, 0, true, "--endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := simManager(t, tt.endpoint, 2)

			var out bytes.Buffer
			err := runStart(&out, m, tt.async, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runStart error = %v, wantErr %v\n%s", err, tt.wantErr, out.String())
			}
			if err != nil && !errors.Is(err, errStartFailed) {
				t.Errorf("Expected errStartFailed, got %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("Output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startlight.yaml")
	if err := os.WriteFile(path, []byte("log-max-size: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := startlight.Params{Endpoint: "/dev/ttyACM0", BaudRate: 115200, Timeout: 2500 * time.Millisecond}
	if err := saveConfig(path, p); err != nil {
		t.Fatalf("saveConfig failed: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if v.GetString("endpoint") != "/dev/ttyACM0" {
		t.Errorf("endpoint = %q", v.GetString("endpoint"))
	}
	if v.GetInt("baud") != 115200 {
		t.Errorf("baud = %d", v.GetInt("baud"))
	}
	if v.GetFloat64("timeout") != 2.5 {
		t.Errorf("timeout = %v", v.GetFloat64("timeout"))
	}
	if v.GetInt("log-max-size") != 50 {
		t.Error("Existing keys were dropped")
	}
}

func TestListCommandWithSimDriver(t *testing.T) {
	out, err := executeCommand(t, "--driver", "sim", "list", "--table=false", "--details=false", "--filter", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"SIM1", "SIM2", "SIM3"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %s:\n%s", want, out)
		}
	}
}

func TestStartCommandWithSimDriver(t *testing.T) {
	out, err := executeCommand(t, "--driver", "sim", "--endpoint", "SIM1", "--timeout", "not-a-number",
		"start", "--async=false", "--timeout-override", "0")
	if err != nil {
		t.Fatalf("start failed: %v\n%s", err, out)
	}
	// Invalid timeout falls back to 10s
	if !strings.Contains(out, "waiting up to 10s") {
		t.Errorf("Expected coerced timeout in output:\n%s", out)
	}
	if !strings.Contains(out, "Start confirmed") {
		t.Errorf("Expected confirmation:\n%s", out)
	}

	out, err = executeCommand(t, "--driver", "sim", "--endpoint", "SIM2", "--timeout", "0.2",
		"start", "--async=false", "--timeout-override", "0")
	if !errors.Is(err, errStartFailed) {
		t.Fatalf("Expected errStartFailed, got %v\n%s", err, out)
	}
}
