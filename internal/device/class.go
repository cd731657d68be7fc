// Package device classifies the machine panelctl is running on. The class
// constrains which override delivery mechanisms may be installed: a handheld
// needs none, a laptop only gets the scheduled task (the kernel driver would
// require disabling Secure Boot, which is not something to ask of laptop
// users), and a desktop may use either.
package device

import (
	"strings"

	"git.home.luguber.info/inful/panelctl/internal/panel"
)

// Class is the derived device class. It is never stored; it is re-inferred
// from hardware probes on every run.
type Class int

const (
	Desktop Class = iota
	Laptop
	Handheld
)

func (c Class) String() string {
	switch c {
	case Handheld:
		return "handheld"
	case Laptop:
		return "laptop"
	default:
		return "desktop"
	}
}

// Probe carries the raw hardware signals Classify derives the class from.
type Probe struct {
	// HasBattery is false on desktops (no system battery reported).
	HasBattery bool
	// Panel holds the native panel dimensions when PanelKnown is true.
	Panel      panel.Dimensions
	PanelKnown bool
}

// Classify derives the device class. A panel within the handheld envelope
// wins outright; otherwise battery presence separates laptop from desktop.
// An unknown or never-set panel is treated as outside the envelope.
func Classify(p Probe) Class {
	if p.PanelKnown && !p.Panel.OverrideRequired() {
		return Handheld
	}
	if p.HasBattery {
		return Laptop
	}
	return Desktop
}

// ParseTestSigningOutput scans `bcdedit /enum {current}` output for the
// testsigning element. bcdedit prints option rows as "name<spaces>value";
// only an explicit Yes enables the option.
func ParseTestSigningOutput(out string) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && strings.EqualFold(fields[0], "testsigning") {
			return strings.EqualFold(fields[1], "Yes")
		}
	}
	return false
}
