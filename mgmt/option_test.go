package mgmt

import (
	"testing"
	"time"

	"github.com/nullbt/btstack/core"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := defaultEngineConfig()
	if cfg.defaultTimeout != DefaultTimeout {
		t.Fatalf("defaultTimeout = %v, want %v", cfg.defaultTimeout, DefaultTimeout)
	}
	if cfg.ioCapability != 3 {
		t.Fatalf("ioCapability = %d, want 3 (NoInputNoOutput)", cfg.ioCapability)
	}
}

func TestWithIOCapabilityOverridesDefault(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr, WithIOCapability(1))
	if got := e.DefaultIOCapability(); got != 1 {
		t.Fatalf("DefaultIOCapability() = %d, want 1", got)
	}
}

func TestWithDefaultTimeoutOverridesExecute(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr, WithDefaultTimeout(5*time.Millisecond))
	if e.cfg.defaultTimeout != 5*time.Millisecond {
		t.Fatalf("defaultTimeout = %v, want 5ms", e.cfg.defaultTimeout)
	}

	// tr never replies, so the overridden (short) timeout is what ends the
	// call rather than the package default.
	r := e.ExecuteSync(NewCommand(ReadVersion{}, IndexNonController))
	if r != core.TimedOut {
		t.Fatalf("result = %v, want TimedOut", r)
	}
}
