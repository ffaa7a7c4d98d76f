package startlight

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	devDir      = "/dev"
	sysClassTTY = "/sys/class/tty"
)

// Device families that can host a start-light controller
var serialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
	regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices (most Arduinos)
	regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
	regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
	regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
	regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
	regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
	regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
}

// ListPorts scans /dev for serial character devices, sorted by path.
// Virtual terminals and pseudo-terminals never match.
func ListPorts() ([]string, error) {
	return listPortsIn(devDir)
}

func listPortsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		if !isSerialName(entry.Name()) {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

func isSerialName(name string) bool {
	for _, pattern := range serialPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// GetPortDetails describes a device path. USB metadata is read from sysfs
// for ttyUSB and ttyACM devices when available.
func GetPortDetails(path string) PortDetails {
	name := filepath.Base(path)
	d := PortDetails{
		Name:        path,
		Description: portDescription(name),
		IsUSB:       strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM"),
	}
	if d.IsUSB {
		enrichUSBDetails(&d, filepath.Join(sysClassTTY, name, "device"))
	}
	return d
}

// portDescription provides human-readable descriptions for different port types
func portDescription(name string) string {
	name = filepath.Base(name)
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(name, "tty.usbmodem"), strings.HasPrefix(name, "cu.usbmodem"):
		return "USB Modem"
	case strings.HasPrefix(name, "tty.usbserial"), strings.HasPrefix(name, "cu.usbserial"):
		return "USB Serial Port"
	case strings.HasPrefix(strings.ToUpper(name), "COM"):
		return "COM Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBDetails walks up from the tty's sysfs device node to the USB
// device directory holding idVendor and friends. ttyACM nodes point at the
// interface, ttyUSB nodes one level below it.
func enrichUSBDetails(d *PortDetails, deviceLink string) {
	dir, err := filepath.EvalSymlinks(deviceLink)
	if err != nil {
		return
	}

	for range 3 {
		if vid := readSysfsAttr(dir, "idVendor"); vid != "" {
			d.VendorID = vid
			d.ProductID = readSysfsAttr(dir, "idProduct")
			d.SerialNumber = readSysfsAttr(dir, "serial")
			d.Product = readSysfsAttr(dir, "product")
			return
		}
		dir = filepath.Dir(dir)
	}
}

func readSysfsAttr(dir, attr string) string {
	data, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
