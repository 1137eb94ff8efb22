package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nullbt/btstack/avdtp"
	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/l2cap"
)

var avdtpDiscoverCommand = &cli.Command{
	Name:      "avdtp-discover",
	Usage:     "enumerate a peer's AVDTP stream endpoints and their capabilities",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
	},
	Action: func(c *cli.Context) error {
		addr, err := parseAddr(c, 0, core.AddressBREDR)
		if err != nil {
			return err
		}

		conn, err := l2cap.Dial(addr, l2cap.PSMAVDTP, 0, 0)
		if err != nil {
			return err
		}
		defer conn.Close()

		engine := avdtp.NewEngine(conn)
		conn.OnFrame(engine.HandlePacket)
		go conn.Run()

		seq := avdtp.NewSequencer(engine)
		endpoints, r := seq.Discover(time.Now().Add(c.Duration("timeout")))
		if r != core.OK {
			return fmt.Errorf("discovery failed: %w", r)
		}

		for _, ep := range endpoints {
			fmt.Println(ep.SEPRecord.String())
			for _, capEntry := range ep.Capabilities {
				fmt.Printf("  category=0x%02x value=% x\n", capEntry.Category, capEntry.Value)
			}
		}
		return nil
	},
}
