// Package experience orchestrates the full-screen experience lifecycle:
// enabling the feature flags, stamping the panel dimensions, installing a
// delivery mechanism, and reconciling all of it into one status.
package experience

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/panelctl/internal/delivery"
	"git.home.luguber.info/inful/panelctl/internal/device"
	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
	"git.home.luguber.info/inful/panelctl/internal/panel"
	"git.home.luguber.info/inful/panelctl/internal/status"
)

// PanelStore reads and writes the panel dimension state slot.
type PanelStore interface {
	Query() (panel.Dimensions, bool, error)
	Set(panel.Dimensions) error
}

// FeatureStore toggles the feature flags and the device-form registry value.
type FeatureStore interface {
	Enabled() (bool, error)
	Enable() error
	Disable() error
}

// Delivery manages the override delivery mechanisms.
type Delivery interface {
	Active(ctx context.Context) delivery.Mechanism
	Install(ctx context.Context, target delivery.Mechanism) error
	Uninstall(ctx context.Context) error
}

// Environment provides the hardware and boot-config signals used for
// mechanism gating.
type Environment interface {
	Probe() device.Probe
	TestSigning(ctx context.Context) bool
}

// Mode selects which delivery mechanism an enable run should use.
type Mode int

const (
	// ModeAuto picks the preferred mechanism for the device class.
	ModeAuto Mode = iota
	ModeTask
	ModeDriver
)

func (m Mode) String() string {
	switch m {
	case ModeTask:
		return "task"
	case ModeDriver:
		return "driver"
	default:
		return "auto"
	}
}

// ParseMode maps the CLI flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "task":
		return ModeTask, nil
	case "driver":
		return ModeDriver, nil
	default:
		return ModeAuto, pcerrors.ValidationFailed("mode", "must be one of auto, task, driver")
	}
}

// Report is the reconciled view produced by Inspect.
type Report struct {
	State      status.State
	Action     status.Action
	Class      device.Class
	Panel      panel.Dimensions
	PanelKnown bool
	Mechanism  delivery.Mechanism
	// Err carries the inspection failure when State is Unknown.
	Err error
}

// Service wires the stores together. All dependencies are interfaces so the
// flows are testable off-Windows.
type Service struct {
	Panel    PanelStore
	Features FeatureStore
	Delivery Delivery
	Env      Environment

	// Target is the panel size written during enable.
	Target panel.Dimensions
	// BlockDriverOnLargePanels is the configured safety flag passed through
	// to mechanism gating.
	BlockDriverOnLargePanels bool
}

// Enable turns the experience on end to end and returns the mechanism it
// installed. Any step failure rolls back the steps already taken, in reverse
// order, so a failed enable leaves the system no worse than before.
func (s Service) Enable(ctx context.Context, mode Mode) (delivery.Mechanism, error) {
	op := uuid.NewString()
	log := slog.With("operation", "enable", "operation_id", op)

	probe := s.Env.Probe()
	class := device.Classify(probe)
	inputs := delivery.SelectInputs{
		Class:                    class,
		TestSigning:              s.Env.TestSigning(ctx),
		PanelOutsideEnvelope:     !probe.PanelKnown || probe.Panel.OverrideRequired(),
		BlockDriverOnLargePanels: s.BlockDriverOnLargePanels,
	}

	mech, err := s.resolveMechanism(mode, inputs)
	if err != nil {
		return delivery.None, err
	}
	log.Info("Enabling full-screen experience",
		"class", class, "mechanism", mech, "target", s.Target.String())

	// Each completed step pushes its undo; on failure they run in reverse.
	var undo []func()

	if err := s.Features.Enable(); err != nil {
		return delivery.None, err
	}
	undo = append(undo, func() {
		if derr := s.Features.Disable(); derr != nil {
			log.Error("Rollback of feature flags failed", "error", derr)
		}
	})

	prev, prevKnown, qerr := s.Panel.Query()
	if qerr != nil {
		log.Warn("Could not read current panel dimensions before overwrite", "error", qerr)
	}
	if err := s.Panel.Set(s.Target); err != nil {
		s.rollback(log, undo)
		return delivery.None, err
	}
	if prevKnown && prev != s.Target {
		prev := prev
		undo = append(undo, func() {
			if derr := s.Panel.Set(prev); derr != nil {
				log.Error("Rollback of panel dimensions failed", "error", derr)
			}
		})
	}

	if mech != delivery.None {
		if err := s.Delivery.Install(ctx, mech); err != nil {
			s.rollback(log, undo)
			return delivery.None, err
		}
	}

	log.Info("Full-screen experience enabled", "mechanism", mech)
	return mech, nil
}

// Disable tears everything down. Both the delivery mechanisms and the
// feature flags are attempted even when one of them fails; the panel state
// slot is left alone because it is inert without the flags.
func (s Service) Disable(ctx context.Context) error {
	op := uuid.NewString()
	log := slog.With("operation", "disable", "operation_id", op)
	log.Info("Disabling full-screen experience")

	err := errors.Join(s.Delivery.Uninstall(ctx), s.Features.Disable())
	if err != nil {
		return err
	}
	log.Info("Full-screen experience disabled")
	return nil
}

// Inspect gathers the live signals and derives the composite status. A
// failing probe degrades to Unknown with the cause in Report.Err instead of
// returning an error.
func (s Service) Inspect(ctx context.Context) Report {
	probe := s.Env.Probe()
	rep := Report{
		Class:      device.Classify(probe),
		Panel:      probe.Panel,
		PanelKnown: probe.PanelKnown,
		Mechanism:  s.Delivery.Active(ctx),
	}

	enabled, err := s.Features.Enabled()
	if err != nil {
		rep.State = status.Unknown
		rep.Action = status.Unknown.NextAction()
		rep.Err = err
		return rep
	}

	rep.State = status.Derive(status.Inputs{
		CoreEnabled:            enabled,
		ScreenOverrideRequired: !probe.PanelKnown || probe.Panel.OverrideRequired(),
		ActiveMechanism:        rep.Mechanism,
	})
	rep.Action = rep.State.NextAction()
	return rep
}

// resolveMechanism validates an explicit mode against the gating table, or
// delegates to automatic selection.
func (s Service) resolveMechanism(mode Mode, in delivery.SelectInputs) (delivery.Mechanism, error) {
	switch mode {
	case ModeTask:
		if !delivery.Legal(in.Class, delivery.ScheduledTask) {
			return delivery.None, pcerrors.ValidationFailed("mode",
				"scheduled task delivery is not available on a "+in.Class.String()).
				WithContext("class", in.Class.String())
		}
		return delivery.ScheduledTask, nil
	case ModeDriver:
		if !delivery.Legal(in.Class, delivery.KernelDriver) {
			return delivery.None, pcerrors.ValidationFailed("mode",
				"kernel driver delivery is not available on a "+in.Class.String()).
				WithContext("class", in.Class.String())
		}
		if !delivery.DriverSelectable(in) {
			return delivery.None, pcerrors.ValidationFailed("mode",
				"kernel driver delivery is gated off (test signing disabled or large-panel block active)").
				WithContext("test_signing", in.TestSigning).
				WithContext("panel_outside_envelope", in.PanelOutsideEnvelope)
		}
		return delivery.KernelDriver, nil
	default:
		return delivery.Select(in), nil
	}
}

func (s Service) rollback(log *slog.Logger, undo []func()) {
	log.Warn("Enable failed, rolling back completed steps", "steps", len(undo))
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}
