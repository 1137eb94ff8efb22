package mgmt

import (
	"testing"

	"github.com/nullbt/btstack/core"
)

func TestEngineExecuteSyncCompletesOnCmdComplete(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr)

	resultc := make(chan core.Result, 1)
	cmd := NewCommand(ReadVersion{}, IndexNonController)
	e.Execute(cmd, func(r core.Result) { resultc <- r })

	if len(tr.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(tr.writes))
	}

	op := uint16(OpReadVersion)
	body := []byte{byte(op), byte(op >> 8), StatusSuccess, 1, 0}
	frame := append([]byte{
		byte(EvtCommandComplete), byte(EvtCommandComplete >> 8),
		0xff, 0xff,
		byte(len(body)), 0,
	}, body...)
	e.HandlePacket(frame)

	select {
	case r := <-resultc:
		if r != core.OK {
			t.Fatalf("result = %v, want OK", r)
		}
	default:
		t.Fatal("command did not complete")
	}
}

func TestEngineDispatchesDeviceFound(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr)

	var got DeviceFoundEvent
	var gotIndex uint16
	e.DeviceFound = func(index uint16, ev DeviceFoundEvent) {
		gotIndex = index
		got = ev
	}

	body := []byte{
		6, 5, 4, 3, 2, 1, byte(core.AddressLEPublic), // address + type
		0xEC, // rssi = -20
		0, 0, 0, 0, // flags
		2, 0, // eir len
		0xAA, 0xBB,
	}
	frame := append([]byte{
		byte(EvtDeviceFound), byte(EvtDeviceFound >> 8),
		0, 0,
		byte(len(body)), 0,
	}, body...)
	e.HandlePacket(frame)

	if gotIndex != 0 {
		t.Fatalf("index = %d, want 0", gotIndex)
	}
	if got.RSSI != -20 {
		t.Fatalf("rssi = %d, want -20", got.RSSI)
	}
	if len(got.EIR) != 2 || got.EIR[0] != 0xAA {
		t.Fatalf("eir = %v, want [AA BB]", got.EIR)
	}
}
