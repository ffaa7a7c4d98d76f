/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/allbin/startlight"
	"github.com/allbin/startlight/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration startlight would use, after flags, environment
variables and the config file have been merged and coerced.

Invalid baud rates fall back to 9600 and invalid timeouts to 10 seconds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		showConfig(cmd.OutOrStdout(), m.Params())
		return nil
	},
}

// configSaveCmd represents the config save command
var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist endpoint, baud rate and timeout",
	Long: `Write the effective endpoint, baud rate and timeout to the config file,
so later runs need no flags.

Example usage:
  startlight config save --endpoint /dev/ttyACM0 --baud 9600 --timeout 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		path, err := configPath()
		if err != nil {
			return err
		}
		if err := saveConfig(path, m.Params()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Saved to %s\n", styles.SuccessStyle.Render("✓"), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSaveCmd)
}

func showConfig(out io.Writer, p startlight.Params) {
	source := viper.ConfigFileUsed()
	if source == "" {
		source = "(none)"
	}

	fmt.Fprintf(out, "%s\n", styles.HeaderStyle.Render("Effective configuration"))
	fmt.Fprintf(out, "  Config file:   %s\n", source)
	fmt.Fprintf(out, "  Driver:        %s\n", viper.GetString("driver"))
	fmt.Fprintf(out, "  Endpoint:      %s\n", p.Endpoint)
	fmt.Fprintf(out, "  Baud rate:     %d\n", p.BaudRate)
	fmt.Fprintf(out, "  Timeout:       %s\n", p.Timeout)
	fmt.Fprintf(out, "  Prevent reset: %t\n", viper.GetBool("prevent-reset"))
}

// configPath is the file in use, or $HOME/.startlight.yaml
func configPath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".startlight.yaml"), nil
}

// saveConfig writes the connection settings, keeping any other keys that
// were read from the file
func saveConfig(path string, p startlight.Params) error {
	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	v.Set("endpoint", p.Endpoint)
	v.Set("baud", p.BaudRate)
	v.Set("timeout", p.Timeout.Seconds())
	v.Set("driver", viper.GetString("driver"))

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
