package main

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/nullbt/btstack/internal/sysbt"
)

// fileTransport adapts an *os.File wrapping a Bluetooth socket to
// core.Transport, and drives a read loop dispatching inbound packets
// to handle. It is the cmd/btctl analogue of l2cap.Conn for the raw
// HCI and MGMT sockets, which have no connection-oriented framing of
// their own to wrap.
type fileTransport struct {
	f *os.File
}

func (t *fileTransport) Write(b []byte) (int, error) { return t.f.Write(b) }

func (t *fileTransport) run(handle func([]byte)) {
	buf := make([]byte, 1024)
	for {
		n, err := t.f.Read(buf)
		if err != nil {
			return
		}
		if n > 0 {
			handle(append([]byte{}, buf[:n]...))
		}
	}
}

func (t *fileTransport) Close() error { return t.f.Close() }

// openHCI opens a raw HCI socket bound to devID's user channel, the
// mode the hci package's bring-up sequence expects.
func openHCI(devID int) (*fileTransport, error) {
	fd, err := sysbt.Socket(unix.SOCK_RAW, sysbt.ProtoHCI)
	if err != nil {
		return nil, sysbt.Errno("socket(hci)", err)
	}
	if err := sysbt.BindHCI(fd, devID, sysbt.ChannelUser); err != nil {
		unix.Close(fd)
		return nil, sysbt.Errno("bind(hci)", err)
	}
	return &fileTransport{f: os.NewFile(uintptr(fd), "hci")}, nil
}

// openMgmt opens the management socket, bound to the control channel
// that addresses every controller index at once (index 0xffff).
func openMgmt() (*fileTransport, error) {
	fd, err := sysbt.Socket(unix.SOCK_RAW, sysbt.ProtoHCI)
	if err != nil {
		return nil, sysbt.Errno("socket(mgmt)", err)
	}
	if err := sysbt.BindHCI(fd, 0xffff, sysbt.ChannelControl); err != nil {
		unix.Close(fd)
		return nil, sysbt.Errno("bind(mgmt)", err)
	}
	return &fileTransport{f: os.NewFile(uintptr(fd), "mgmt")}, nil
}
