// Package delivery selects, installs, and removes the mechanism that
// re-applies the panel dimension override on every boot. Two mechanisms
// exist: a boot-triggered scheduled task (race-prone but harmless to install)
// and a kernel driver (race-free but test-signed, so gated). They are
// mutually exclusive; this package owns that exclusivity — the state store
// accessor underneath knows nothing about it.
package delivery

import (
	"git.home.luguber.info/inful/panelctl/internal/device"
)

// Mechanism identifies which boot-time override delivery is installed.
type Mechanism int

const (
	None Mechanism = iota
	ScheduledTask
	KernelDriver
)

func (m Mechanism) String() string {
	switch m {
	case ScheduledTask:
		return "scheduled-task"
	case KernelDriver:
		return "kernel-driver"
	default:
		return "none"
	}
}

// LegalMechanisms returns the mechanisms installable on the given device
// class. None (uninstalling) is always legal and not listed.
//
// Handhelds need no override at all. Laptops only get the scheduled task:
// the kernel driver would require the user to disable Secure Boot, which is
// not a reasonable ask on a laptop. Desktops may use either.
func LegalMechanisms(c device.Class) []Mechanism {
	switch c {
	case device.Handheld:
		return nil
	case device.Laptop:
		return []Mechanism{ScheduledTask}
	default:
		return []Mechanism{ScheduledTask, KernelDriver}
	}
}

// Legal reports whether m may be installed on class c.
func Legal(c device.Class, m Mechanism) bool {
	if m == None {
		return true
	}
	for _, allowed := range LegalMechanisms(c) {
		if allowed == m {
			return true
		}
	}
	return false
}

// SelectInputs are the gating signals for automatic mechanism selection.
type SelectInputs struct {
	Class device.Class
	// TestSigning reports whether the boot config allows test-signed
	// drivers; the kernel driver is unselectable without it.
	TestSigning bool
	// PanelOutsideEnvelope is true when the native panel diagonal exceeds
	// the handheld envelope (or was never set).
	PanelOutsideEnvelope bool
	// BlockDriverOnLargePanels is the configured safety flag: when set
	// together with PanelOutsideEnvelope, the kernel driver is
	// force-disabled regardless of test signing.
	BlockDriverOnLargePanels bool
}

// Select picks the preferred mechanism for the device. The kernel driver is
// preferred wherever it is legal and not gated off, because it is the only
// race-free delivery; otherwise the scheduled task; a handheld gets None.
func Select(in SelectInputs) Mechanism {
	if in.Class == device.Handheld {
		return None
	}
	if DriverSelectable(in) {
		return KernelDriver
	}
	return ScheduledTask
}

// DriverSelectable reports whether the kernel driver may be chosen for the
// device described by in.
func DriverSelectable(in SelectInputs) bool {
	if !Legal(in.Class, KernelDriver) {
		return false
	}
	if in.PanelOutsideEnvelope && in.BlockDriverOnLargePanels {
		return false
	}
	return in.TestSigning
}
