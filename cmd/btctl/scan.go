package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/discovery"
	"github.com/nullbt/btstack/hci"
)

var scanCommand = &cli.Command{
	Name:  "scan",
	Usage: "run an LE active scan, printing each newly seen or changed advertisement",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "duration", Aliases: []string{"t"}, Value: 10 * time.Second},
		&cli.BoolFlag{Name: "passive"},
	},
	Action: func(c *cli.Context) error {
		tr, err := openHCI(c.Int("device"))
		if err != nil {
			return err
		}
		defer tr.Close()

		engine := hci.NewEngine(tr)
		go tr.run(engine.HandlePacket)

		if r := engine.ResetDevice(); r != core.OK {
			return fmt.Errorf("controller bring-up failed: %w", r)
		}

		cache := discovery.NewPeerCache()
		scanner := discovery.NewScanner(engine, cache)
		scanner.Discovered = func(r hci.AdvertisingReport) {
			fmt.Printf("%s  rssi=%d  type=%d  data=% x\n", r.Address, r.RSSI, r.EventType, r.Data)
		}

		scan := hci.NewScanState(engine)
		if r := scan.Scan(c.Duration("duration"), false, c.Bool("passive")); r != core.OK {
			return fmt.Errorf("scan failed: %w", r)
		}
		return nil
	},
}
