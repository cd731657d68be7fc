// Package status derives one composite feature status from the independent
// signals the rest of the system exposes: feature/registry state, the panel
// size classification, and which delivery mechanism is installed.
package status

import (
	"git.home.luguber.info/inful/panelctl/internal/delivery"
)

// State is the composite status shown to the user.
type State int

const (
	Disabled State = iota
	Enabled
	NeedsFix
	DriverError
	// Unknown is the degraded result when inspection itself failed; the
	// cause goes to the log, never to a crash.
	Unknown
)

func (s State) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case NeedsFix:
		return "needs-fix"
	case DriverError:
		return "driver-error"
	case Unknown:
		return "unknown"
	default:
		return "disabled"
	}
}

// Inputs are the signals the derivation consumes. Each is produced
// independently; this package never touches the OS itself.
type Inputs struct {
	// CoreEnabled is true when the feature flags and registry value are all
	// set.
	CoreEnabled bool
	// ScreenOverrideRequired is true when the current panel dimensions are
	// outside the handheld envelope or were never set.
	ScreenOverrideRequired bool
	ActiveMechanism        delivery.Mechanism
}

// Derive computes the composite state. The checks run in precedence order;
// in particular a broken kernel driver (installed, yet the dimensions are
// still wrong) must never be classified as merely NeedsFix: re-running the
// enable flow would reinstall over the broken driver without fixing it and
// mask the fault. It has to force an explicit disable-then-retry cycle.
func Derive(in Inputs) State {
	switch {
	case in.CoreEnabled && !in.ScreenOverrideRequired:
		return Enabled
	case in.CoreEnabled && in.ActiveMechanism == delivery.KernelDriver:
		return DriverError
	case in.CoreEnabled:
		return NeedsFix
	default:
		return Disabled
	}
}

// Action is the single safe next step for a given state.
type Action int

const (
	ActionNone Action = iota
	ActionEnable
	ActionRepair
	ActionDisable
)

func (a Action) String() string {
	switch a {
	case ActionEnable:
		return "enable"
	case ActionRepair:
		return "repair (re-run enable)"
	case ActionDisable:
		return "disable"
	default:
		return "none"
	}
}

// NextAction maps each state to its one safe recovery/progress action.
func (s State) NextAction() Action {
	switch s {
	case Disabled:
		return ActionEnable
	case NeedsFix:
		// The enable flow overwrites/repairs the delivery mechanism.
		return ActionRepair
	case Enabled, DriverError:
		// For DriverError, disabling everything is the only safe move.
		return ActionDisable
	default:
		return ActionNone
	}
}
