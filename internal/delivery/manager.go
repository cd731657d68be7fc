package delivery

import (
	"context"
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/panelctl/internal/schtask"
)

// TaskMechanism is the scheduled-task lifecycle (schtask.Manager in
// production).
type TaskMechanism interface {
	Install(ctx context.Context, def schtask.Definition) error
	Installed(ctx context.Context) bool
	Uninstall(ctx context.Context) error
}

// DriverMechanism is the kernel-driver lifecycle (driver.Manager in
// production).
type DriverMechanism interface {
	Install(ctx context.Context) error
	Installed(ctx context.Context) bool
	Uninstall(ctx context.Context) error
}

// Manager transitions the machine between delivery mechanisms, keeping at
// most one installed.
type Manager struct {
	Task   TaskMechanism
	Driver DriverMechanism
	// TaskDefinition is the job registered when the scheduled task
	// mechanism is chosen.
	TaskDefinition schtask.Definition
}

// Active reports which mechanism is currently installed. If both are present
// (a state the install paths never create, but external meddling can), the
// kernel driver wins: it is the one that actually applies the override first,
// and reconciliation must judge the machine by it.
func (m Manager) Active(ctx context.Context) Mechanism {
	if m.Driver.Installed(ctx) {
		return KernelDriver
	}
	if m.Task.Installed(ctx) {
		return ScheduledTask
	}
	return None
}

// Install transitions to the target mechanism: the competing mechanism is
// removed first, then the target installed. A failed driver install is
// rolled back with an explicit uninstall so no partially-applied driver
// state survives the attempt.
func (m Manager) Install(ctx context.Context, target Mechanism) error {
	switch target {
	case ScheduledTask:
		if err := m.Driver.Uninstall(ctx); err != nil {
			return err
		}
		return m.Task.Install(ctx, m.TaskDefinition)

	case KernelDriver:
		if err := m.Task.Uninstall(ctx); err != nil {
			return err
		}
		if err := m.Driver.Install(ctx); err != nil {
			slog.Warn("Driver install failed, rolling back", "error", err)
			if rbErr := m.Driver.Uninstall(ctx); rbErr != nil {
				slog.Error("Driver rollback failed", "error", rbErr)
			}
			return err
		}
		return nil

	default:
		return m.Uninstall(ctx)
	}
}

// Uninstall removes both mechanisms. Each removal is idempotent on its own;
// both are always attempted so one failure does not strand the other.
func (m Manager) Uninstall(ctx context.Context) error {
	return errors.Join(m.Task.Uninstall(ctx), m.Driver.Uninstall(ctx))
}
