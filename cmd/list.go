/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/allbin/startlight"
	"github.com/allbin/startlight/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial endpoints",
	Long: `List the serial endpoints the selected driver can see.

With --details, USB metadata (vendor/product IDs, serial number, product
name) is shown where the driver can read it. With --table the listing is
rendered as a styled table.

Example usage:
  startlight list
  startlight list --table
  startlight list --details --filter usb
  startlight --driver sim list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")
		details, _ := cmd.Flags().GetBool("details")

		ports := filterPorts(m.ListDetailed(), filterType)
		out := cmd.OutOrStdout()

		if len(ports) == 0 {
			if filterType != "" && filterType != "all" {
				fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Fprintln(out, "No serial ports found")
			}
			return nil
		}

		switch {
		case tableFormat:
			fmt.Fprintf(out, "Found %d serial port(s):\n\n", len(ports))
			fmt.Fprintln(out, renderTable(ports, details))
		case details:
			renderDetails(out, ports)
		default:
			for _, p := range ports {
				fmt.Fprintln(out, p.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().Bool("table", false, "Display output in a styled table format")
	listCmd.Flags().BoolP("details", "d", false, "Show USB metadata")
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []startlight.PortDetails, filterType string) []startlight.PortDetails {
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []startlight.PortDetails
	for _, p := range ports {
		portType := getPortType(p.Name)
		switch strings.ToLower(filterType) {
		case "usb":
			if p.IsUSB || strings.HasPrefix(portType, "USB") {
				filtered = append(filtered, p)
			}
		case "standard":
			if portType == "Standard Serial" || portType == "COM Port" {
				filtered = append(filtered, p)
			}
		case "arm":
			if portType == "ARM Serial" {
				filtered = append(filtered, p)
			}
		}
	}
	return filtered
}

const (
	columnKeyPort    = "port"
	columnKeyType    = "type"
	columnKeyDesc    = "desc"
	columnKeyUSBID   = "usbid"
	columnKeySerial  = "serial"
	columnKeyProduct = "product"
)

// renderTable renders the port list as a static bubble-table
func renderTable(ports []startlight.PortDetails, details bool) string {
	columns := []table.Column{
		table.NewColumn(columnKeyPort, "Port", 22),
		table.NewColumn(columnKeyType, "Type", 16),
		table.NewColumn(columnKeyDesc, "Description", 24),
	}
	if details {
		columns = append(columns,
			table.NewColumn(columnKeyUSBID, "VID:PID", 11),
			table.NewColumn(columnKeySerial, "Serial", 22),
			table.NewColumn(columnKeyProduct, "Product", 24),
		)
	}

	rows := make([]table.Row, 0, len(ports))
	for _, p := range ports {
		data := table.RowData{
			columnKeyPort: p.Name,
			columnKeyType: getPortType(p.Name),
			columnKeyDesc: p.Description,
		}
		if details {
			data[columnKeyUSBID] = usbID(p)
			data[columnKeySerial] = p.SerialNumber
			data[columnKeyProduct] = p.Product
		}
		rows = append(rows, table.NewRow(data))
	}

	return table.New(columns).
		WithRows(rows).
		HeaderStyle(styles.HeaderStyle).
		WithBaseStyle(lipgloss.NewStyle().
			BorderForeground(lipgloss.Color("240")).
			Align(lipgloss.Left)).
		BorderRounded().
		View()
}

// renderDetails prints one block per port, like the info command of old
func renderDetails(out io.Writer, ports []startlight.PortDetails) {
	for i, p := range ports {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s\n", styles.HeaderStyle.Render(p.Name))
		fmt.Fprintf(out, "  Description: %s\n", p.Description)
		fmt.Fprintf(out, "  Type:        %s\n", getPortType(p.Name))

		if !p.IsUSB && p.VendorID == "" {
			continue
		}
		if id := usbID(p); id != "" {
			fmt.Fprintf(out, "  VID:PID:     %s\n", id)
		}
		if p.SerialNumber != "" {
			fmt.Fprintf(out, "  Serial:      %s\n", p.SerialNumber)
		}
		if p.Product != "" {
			fmt.Fprintf(out, "  Product:     %s\n", p.Product)
		}
	}
}

func usbID(p startlight.PortDetails) string {
	if p.VendorID == "" && p.ProductID == "" {
		return ""
	}
	return strings.ToLower(p.VendorID + ":" + p.ProductID)
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.ToLower(base)

	switch {
	case strings.HasPrefix(base, "ttyusb"), strings.Contains(base, "usbserial"):
		return "USB Serial"
	case strings.HasPrefix(base, "ttyacm"), strings.Contains(base, "usbmodem"):
		return "USB CDC/ACM"
	case strings.HasPrefix(base, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(base, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(base, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(base, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(base, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(base, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(base, "com"):
		return "COM Port"
	case strings.HasPrefix(base, "sim"):
		return "Simulated"
	default:
		return "Serial Port"
	}
}
