package hci

import (
	"sync"
	"time"

	"github.com/nullbt/btstack/core"
)

// ScanFlag is a bit in the scan state machine's bitmask.
type ScanFlag uint8

const (
	FlagInquiring ScanFlag = 1 << iota
	FlagScanning
	FlagDiscovering
	FlagAdvertising
	FlagAbortInquiring
	FlagAbortScanning
)

// ScanState is the HCI scan/inquiry/discovery state machine: a bitmask
// over {Inquiring, Scanning, Discovering, Advertising, AbortInquiring,
// AbortScanning}, guarded by a condition-variable pair so callers can
// block until a flag changes instead of polling.
type ScanState struct {
	engine *Engine

	mu    sync.Mutex
	cond  *sync.Cond
	flags ScanFlag
}

// NewScanState builds a scan state machine driving HCI commands through
// engine.
func NewScanState(engine *Engine) *ScanState {
	s := &ScanState{engine: engine}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *ScanState) has(f ScanFlag) bool { return s.flags&f != 0 }

func (s *ScanState) set(f ScanFlag) {
	s.mu.Lock()
	s.flags |= f
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *ScanState) clear(f ScanFlag) {
	s.mu.Lock()
	s.flags &^= f
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Flags returns a snapshot of the current state bitmask.
func (s *ScanState) Flags() ScanFlag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

// waitUntil blocks until either cond is signalled with f set, or
// deadline passes, whichever comes first. It returns true if f became
// set before the deadline.
func (s *ScanState) waitUntil(f ScanFlag, deadline time.Time) bool {
	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		for !s.has(f) && time.Now().Before(deadline) {
			s.cond.Wait()
		}
		s.mu.Unlock()
		close(done)
	}()
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case <-done:
		return s.has(f)
	case <-timer.C:
		s.mu.Lock()
		s.cond.Broadcast() // wake the waiter goroutine so it can exit
		s.mu.Unlock()
		<-done
		return false
	}
}

// Inquiry runs a BR/EDR inquiry for scanTime, issuing HCI Inquiry with
// length=30 (about 38s) and InquiryCancel between rounds, until
// scanTime elapses or AbortInquiry is observed. It is only valid when
// no action, or only Scanning, is in progress.
func (s *ScanState) Inquiry(scanTime time.Duration, limited bool) core.Result {
	s.mu.Lock()
	if s.flags&^FlagScanning != 0 {
		s.mu.Unlock()
		return core.IllegalState
	}
	s.flags |= FlagInquiring
	s.mu.Unlock()
	defer s.clear(FlagInquiring)

	lap := GIAC
	if limited {
		lap = LIAC
	}

	deadline := time.Now().Add(scanTime)
	for time.Now().Before(deadline) {
		if s.has(FlagAbortInquiring) {
			break
		}
		round := 30 * time.Second
		if remain := time.Until(deadline); remain < round {
			round = remain
		}
		s.engine.ExecuteSync(NewCommand(Inquiry{LAP: lap, InquiryLength: 30, NumResponses: 0}))
		time.Sleep(round)
		s.engine.ExecuteSync(NewCommand(InquiryCancel{}))
		if s.has(FlagAbortInquiring) {
			break
		}
	}
	s.clear(FlagAbortInquiring)
	return core.OK
}

// Scan runs an LE active or passive scan for scanTime, issuing LE Scan
// Parameters then LE Scan Enable=1, waiting, then LE Scan Enable=0. It
// is only valid when no action, or only Inquiring, is in progress.
func (s *ScanState) Scan(scanTime time.Duration, limited, passive bool) core.Result {
	s.mu.Lock()
	if s.flags&^FlagInquiring != 0 {
		s.mu.Unlock()
		return core.IllegalState
	}
	s.flags |= FlagScanning
	s.mu.Unlock()
	defer s.clear(FlagScanning)

	scanType := uint8(1)
	if passive {
		scanType = 0
	}
	s.engine.ExecuteSync(NewCommand(LESetScanParameters{
		ScanType:             scanType,
		ScanInterval:         0x0010,
		ScanWindow:           0x0010,
		OwnAddressType:       0,
		ScanningFilterPolicy: 0,
	}))
	s.engine.ExecuteSync(NewCommand(LESetScanEnable{Enable: 1, FilterDuplicates: 1}))

	s.waitUntil(FlagAbortScanning, time.Now().Add(scanTime))

	s.engine.ExecuteSync(NewCommand(LESetScanEnable{Enable: 0, FilterDuplicates: 1}))
	s.clear(FlagAbortScanning)
	return core.OK
}

// Discovery toggles a standing passive LE scan with longer intervals,
// exclusive with Inquiry/Scan, left running until Discovery(false).
func (s *ScanState) Discovery(on bool) core.Result {
	s.mu.Lock()
	if on {
		if s.flags&(FlagInquiring|FlagScanning) != 0 {
			s.mu.Unlock()
			return core.IllegalState
		}
		s.flags |= FlagDiscovering
	} else {
		s.flags &^= FlagDiscovering
	}
	s.mu.Unlock()

	scanType := uint8(0)
	enable := uint8(0)
	if on {
		enable = 1
	}
	s.engine.ExecuteSync(NewCommand(LESetScanParameters{
		ScanType:             scanType,
		ScanInterval:         0x0060,
		ScanWindow:           0x0030,
		OwnAddressType:       0,
		ScanningFilterPolicy: 0,
	}))
	s.engine.ExecuteSync(NewCommand(LESetScanEnable{Enable: enable, FilterDuplicates: 1}))
	return core.OK
}

// Advertising sets or clears LE advertising, standalone (independent of
// the other flags).
func (s *ScanState) Advertising(on bool, intMin, intMax uint16, channelMap uint8) core.Result {
	if on {
		s.engine.ExecuteSync(NewCommand(LESetAdvertisingParameters{
			IntervalMin: intMin,
			IntervalMax: intMax,
			ChannelMap:  channelMap,
		}))
	}
	enable := uint8(0)
	if on {
		enable = 1
	}
	r := s.engine.ExecuteSync(NewCommand(LESetAdvertiseEnable{Enable: enable}))
	if r == core.OK {
		if on {
			s.set(FlagAdvertising)
		} else {
			s.clear(FlagAdvertising)
		}
	}
	return r
}

// AbortInquiry requests the running Inquiry stop at the next round
// boundary; Inquiring clears within one round of the request.
func (s *ScanState) AbortInquiry() core.Result {
	if !s.has(FlagInquiring) {
		return core.IllegalState
	}
	s.set(FlagAbortInquiring)
	return core.OK
}

// AbortScan requests the running Scan stop; its LE Scan Enable=0 is
// issued as soon as the waiting goroutine observes the flag.
func (s *ScanState) AbortScan() core.Result {
	if !s.has(FlagScanning) {
		return core.IllegalState
	}
	s.set(FlagAbortScanning)
	return core.OK
}
