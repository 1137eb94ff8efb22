package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/mgmt"
)

var pairCommand = &cli.Command{
	Name:      "pair",
	Usage:     "pair with a remote device via the management socket",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&cli.UintFlag{Name: "io-capability", Value: 3, Usage: "0=display-only 1=display-yesno 2=keyboard-only 3=no-input-no-output 4=keyboard-display"},
		&cli.BoolFlag{Name: "random-address"},
	},
	Action: func(c *cli.Context) error {
		addrType := core.AddressBREDR
		if c.Bool("random-address") {
			addrType = core.AddressLERandom
		}
		addr, err := parseAddr(c, 0, addrType)
		if err != nil {
			return err
		}

		tr, err := openMgmt()
		if err != nil {
			return err
		}
		defer tr.Close()

		engine := mgmt.NewEngine(tr)
		go tr.run(engine.HandlePacket)
		engine.UserConfirmRequest = func(index uint16, addr core.Address, addrType core.AddressType, passkey uint32, confirmHint uint8) {
			fmt.Printf("confirm pairing with %s, passkey %06d? auto-accepting\n", addr, passkey)
			engine.Execute(mgmt.NewCommand(mgmt.UserConfirmReply{Address: addr}, 0), nil)
		}

		cmd := mgmt.NewCommand(mgmt.PairDevice{Address: addr, IOCapability: uint8(c.Uint("io-capability"))}, uint16(c.Int("device")))
		r := engine.ExecuteSync(cmd)
		if r != core.OK {
			return fmt.Errorf("pair failed: %w", r)
		}
		fmt.Println("paired with", addr)
		return nil
	},
}
