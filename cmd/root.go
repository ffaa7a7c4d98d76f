/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/allbin/startlight/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "startlight",
	Short: "Arm a serial start-light controller",
	Long: `startlight talks to a race start-light controller over a serial line.

It opens the configured endpoint, sends "start" and waits for the device to
answer "ok". Settings come from flags, STARTLIGHT_* environment variables or
$HOME/.startlight.yaml.

Example usage:
  startlight list --table
  startlight start --endpoint /dev/ttyACM0 --timeout 5
  startlight arm
  startlight --driver sim --endpoint SIM1 start`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorStyle.Render("✗"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.startlight.yaml)")
	flags.String("driver", "bugst", "Serial driver: bugst, termios, sim")
	flags.StringP("endpoint", "e", "", "Serial endpoint, e.g. /dev/ttyACM0 or COM7")
	flags.StringP("baud", "b", "9600", "Baud rate")
	flags.StringP("timeout", "t", "10", "Seconds to wait for the device to confirm")
	flags.Bool("prevent-reset", true, "Hold DTR and RTS low while opening")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("log-file", "", "Write JSON logs to this file with rotation")

	for _, name := range []string{"driver", "endpoint", "baud", "timeout", "prevent-reset", "verbose", "log-file"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}

	viper.SetDefault("log-max-size", 10)
	viper.SetDefault("log-max-backups", 3)
	viper.SetDefault("log-max-age", 28)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".startlight")
	}

	viper.SetEnvPrefix("STARTLIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is normal
	_ = viper.ReadInConfig()
}
