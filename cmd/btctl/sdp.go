package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/l2cap"
	"github.com/nullbt/btstack/sdp"
)

var sdpDiscoverCommand = &cli.Command{
	Name:      "sdp-discover",
	Usage:     "search a peer's SDP service records and print their attributes",
	ArgsUsage: "<address> [service-class-uuid ...]",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
	},
	Action: func(c *cli.Context) error {
		addr, err := parseAddr(c, 0, core.AddressBREDR)
		if err != nil {
			return err
		}
		var uuids []core.UUID
		for i := 1; i < c.Args().Len(); i++ {
			u, err := core.ParseUUID(c.Args().Get(i))
			if err != nil {
				return fmt.Errorf("invalid uuid %q: %w", c.Args().Get(i), err)
			}
			uuids = append(uuids, u)
		}
		if len(uuids) == 0 {
			uuids = []core.UUID{core.UUID16(0x0100)} // L2CAP, matches everything registered over it
		}

		conn, err := l2cap.Dial(addr, l2cap.PSMSDP, 0, 0)
		if err != nil {
			return err
		}
		defer conn.Close()

		engine := sdp.NewEngine(conn)
		conn.OnFrame(engine.HandlePacket)
		go conn.Run()

		seq := sdp.NewSequencer(engine)
		services, r := seq.Discover(time.Now().Add(c.Duration("timeout")), uuids)
		if r != core.OK {
			return fmt.Errorf("discovery failed: %w", r)
		}

		for _, svc := range services {
			fmt.Printf("service handle=0x%08x\n", svc.Handle)
			for _, cls := range svc.ServiceClassIDs {
				fmt.Printf("  class %s\n", cls)
			}
			for _, p := range svc.Profiles {
				fmt.Printf("  profile %s v%d.%d\n", p.UUID, p.VersionMajor, p.VersionMinor)
			}
			for _, p := range svc.Protocols {
				fmt.Printf("  protocol %s\n", p.UUID)
			}
		}
		return nil
	},
}
