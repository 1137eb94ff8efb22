package l2cap

import (
	"os"
	"testing"
	"time"
)

func TestConnRunDispatchesFrames(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer w.Close()

	c := &Conn{fd: int(r.Fd()), file: r}

	got := make(chan []byte, 1)
	c.OnFrame(func(b []byte) { got <- b })

	go c.Run()

	msg := []byte{0x01, 0x02, 0x03}
	if _, err := w.Write(msg); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case frame := <-got:
		if len(frame) != len(msg) || frame[0] != msg[0] {
			t.Fatalf("frame = %v, want %v", frame, msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}

	c.Close()
}

func TestConnWrite(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()

	c := &Conn{fd: int(w.Fd()), file: w}

	n, err := c.Write([]byte{0xAA, 0xBB})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
}
