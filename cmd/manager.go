/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"strings"
	"time"

	"github.com/allbin/startlight"
	"github.com/spf13/viper"
)

// newDriver resolves the --driver setting. "sim" yields a demo device set:
// SIM1 confirms after 300ms, SIM2 never answers, SIM3 is busy on the first
// open and confirms on the retry.
func newDriver(name string) (startlight.Driver, error) {
	if strings.EqualFold(strings.TrimSpace(name), "sim") {
		return demoSimDriver(), nil
	}
	return startlight.NewDriver(name)
}

func demoSimDriver() *startlight.SimDriver {
	return startlight.NewSimDriver().
		Add("SIM1", startlight.SimEndpoint{Replies: []startlight.SimReply{
			{Data: []byte("pending...\n")},
			{After: 300 * time.Millisecond, Data: []byte("OK\n")},
		}}).
		Add("SIM2", startlight.SimEndpoint{}).
		Add("SIM3", startlight.SimEndpoint{
			OpenFailures: 1,
			Replies:      []startlight.SimReply{{After: 50 * time.Millisecond, Data: []byte("ok\r\n")}},
		})
}

// newManager builds a manager from the effective configuration
func newManager() (*startlight.Manager, error) {
	driver, err := newDriver(viper.GetString("driver"))
	if err != nil {
		return nil, err
	}

	h, err := startlight.NewHandler(driver,
		startlight.WithPreventReset(viper.GetBool("prevent-reset")),
		startlight.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	m := startlight.NewManager(h)
	m.ValidateAndSet(viper.GetString("endpoint"), viper.Get("baud"), viper.Get("timeout"))
	return m, nil
}
