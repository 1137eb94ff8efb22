package hci

import "time"

// engineConfig holds the bring-up parameters an Option can override,
// generalizing the teacher's per-platform Option (LnxAdvertisingIntervalMin,
// LnxAdvertisingChannelMap, ...) into the HCI bring-up sequence this
// package drives instead of the teacher's advertising setup.
type engineConfig struct {
	classOfDevice  [3]byte
	pageTimeout    uint16
	defaultTimeout time.Duration
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		classOfDevice:  [3]byte{0x40, 0x02, 0x04},
		pageTimeout:    0x2000,
		defaultTimeout: DefaultTimeout,
	}
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

// WithClassOfDevice overrides the class-of-device value ResetDevice
// writes during bring-up.
func WithClassOfDevice(b [3]byte) Option {
	return func(c *engineConfig) { c.classOfDevice = b }
}

// WithPageTimeout overrides the page timeout (in 0.625ms units)
// ResetDevice writes during bring-up.
func WithPageTimeout(slots uint16) Option {
	return func(c *engineConfig) { c.pageTimeout = slots }
}

// WithDefaultTimeout overrides the per-command wait ExecuteSync uses
// when the bring-up sequence runs.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *engineConfig) { c.defaultTimeout = d }
}
