// Package l2cap implements the sequenced-packet attribute transport
// used by the att, sdp and avdtp packages: a connection-oriented
// socket where every Read/Write boundary is one full PDU, plus
// connection-info retrieval and security-level negotiation.
package l2cap

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/internal/sysbt"
)

// ATT and L2CAP signaling fixed channel identifiers, and the PSMs used
// to reach the SDP and AVDTP servers over a PSM-addressed (rather than
// fixed-CID) L2CAP channel.
const (
	CIDATT    = 0x0004
	CIDSignal = 0x0001
	PSMSDP    = 0x0001
	PSMAVDTP  = 0x0019
)

// ConnInfo reports the underlying link's HCI handle and remote class
// of device, as returned by Conn.ConnInfo, which queries the socket on
// every call.
type ConnInfo struct {
	HCIHandle uint16
	DevClass  [3]byte
}

// Conn is one connected L2CAP socket. It implements core.Transport so
// a core.Channel can drive request/response traffic over it, and it
// runs its own read loop surfacing inbound PDUs to a notification
// callback — the asynchronous side every higher protocol (ATT
// notifications, SDP events are request/response only, AVDTP
// peer-initiated signals) relies on.
type Conn struct {
	fd   int
	file *os.File

	mu      sync.Mutex
	closed  bool
	onFrame func([]byte)
}

// Dial opens an L2CAP socket and connects it to addr on the given PSM
// (psm != 0) or fixed channel (cid != 0), at the requested minimum
// security level.
func Dial(addr core.Address, psm, cid uint16, secLevel uint8) (*Conn, error) {
	fd, err := sysbt.Socket(unix.SOCK_SEQPACKET, sysbt.ProtoL2CAP)
	if err != nil {
		return nil, sysbt.Errno("socket", err)
	}
	if secLevel != 0 {
		if err := sysbt.SetL2CAPSecurity(fd, secLevel, 16); err != nil {
			unix.Close(fd)
			return nil, sysbt.Errno("setsockopt(security)", err)
		}
	}
	if err := sysbt.ConnectL2CAP(fd, addr.Bytes(), psm, cid); err != nil {
		unix.Close(fd)
		return nil, sysbt.Errno("connect", err)
	}
	return newConn(fd), nil
}

func newConn(fd int) *Conn {
	return &Conn{fd: fd, file: os.NewFile(uintptr(fd), "l2cap")}
}

// Write implements core.Transport: one Write is one full outbound PDU.
func (c *Conn) Write(b []byte) (int, error) {
	return c.file.Write(b)
}

// ConnInfo retrieves the HCI handle and remote class of device
// underlying this connection; valid only once the socket is connected.
func (c *Conn) ConnInfo() (ConnInfo, error) {
	r, err := sysbt.GetL2CAPConnInfo(c.fd)
	if err != nil {
		return ConnInfo{}, sysbt.Errno("getsockopt(conninfo)", err)
	}
	return ConnInfo{HCIHandle: r.HCIHandle, DevClass: r.DevClass}, nil
}

// OnFrame installs the callback invoked with every inbound PDU once
// Run is started. It must be set before calling Run.
func (c *Conn) OnFrame(fn func([]byte)) {
	c.mu.Lock()
	c.onFrame = fn
	c.mu.Unlock()
}

// Run reads PDUs until the connection closes or an error occurs,
// dispatching each to the OnFrame callback. It blocks and is meant to
// run on its own goroutine.
func (c *Conn) Run() error {
	buf := make([]byte, 1024)
	for {
		n, err := c.file.Read(buf)
		if err != nil {
			return err
		}
		c.mu.Lock()
		cb := c.onFrame
		c.mu.Unlock()
		if cb != nil && n > 0 {
			frame := append([]byte{}, buf[:n]...)
			cb(frame)
		}
	}
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}

// Fd exposes the raw descriptor for callers that need to hand it to
// another socket-option helper not wrapped here.
func (c *Conn) Fd() int { return c.fd }

func (c *Conn) String() string {
	return fmt.Sprintf("l2cap.Conn{fd=%d}", c.fd)
}
