// Command btctl is a small demonstration CLI exercising every
// protocol-layer sequencer this module provides: LE scanning, MGMT
// pairing, and GATT/SDP/AVDTP service discovery against one remote
// peer at a time.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/nullbt/btstack/core"
)

func main() {
	app := &cli.App{
		Name:  "btctl",
		Usage: "exercise the LE scan, pairing and GATT/SDP/AVDTP discovery sequencers",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "device", Aliases: []string{"d"}, Value: 0, Usage: "HCI device index"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			scanCommand,
			pairCommand,
			gattDiscoverCommand,
			sdpDiscoverCommand,
			avdtpDiscoverCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "btctl:", err)
		os.Exit(1)
	}
}

func parseAddr(c *cli.Context, pos int, t core.AddressType) (core.Address, error) {
	s := c.Args().Get(pos)
	if s == "" {
		return core.Address{}, fmt.Errorf("missing address argument")
	}
	return core.ParseAddress(s, t)
}
