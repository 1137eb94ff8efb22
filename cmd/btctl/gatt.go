package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nullbt/btstack/att"
	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/l2cap"
)

var gattDiscoverCommand = &cli.Command{
	Name:      "gatt-discover",
	Usage:     "walk a peer's GATT service/characteristic/descriptor tree and print it",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
		&cli.BoolFlag{Name: "custom", Usage: "also walk non-short-form (128-bit) UUID characteristics"},
	},
	Action: func(c *cli.Context) error {
		addr, err := parseAddr(c, 0, core.AddressLERandom)
		if err != nil {
			return err
		}

		conn, err := l2cap.Dial(addr, 0, l2cap.CIDATT, 0)
		if err != nil {
			return err
		}
		defer conn.Close()

		engine := att.NewEngine(conn)
		conn.OnFrame(engine.HandlePacket)
		go conn.Run()

		if r := engine.Start(att.DefaultClientMTU, 2*time.Second); r != core.OK {
			return fmt.Errorf("mtu negotiation failed: %w", r)
		}

		seq := att.NewSequencer(engine)
		services, r := seq.Discover(time.Now().Add(c.Duration("timeout")), c.Bool("custom"))
		if r != core.OK {
			return fmt.Errorf("discovery failed: %w", r)
		}

		for _, svc := range services {
			fmt.Printf("service %s [0x%04x-0x%04x]\n", svc.UUID, svc.Start, svc.End)
			for _, ch := range svc.Characteristics {
				fmt.Printf("  characteristic %s handle=0x%04x rights=%#02x value=% x\n",
					ch.UUID, ch.ValueHandle, ch.Rights, ch.Value)
				for _, d := range ch.Descriptors {
					fmt.Printf("    descriptor %s handle=0x%04x\n", d.UUID, d.Handle)
				}
			}
		}
		return nil
	},
}
