package schtask

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
	"git.home.luguber.info/inful/panelctl/internal/toolrun"
)

// Runner is the slice of toolrun.Runner this package needs; tests substitute
// a fake.
type Runner interface {
	Run(ctx context.Context, tool string, args ...string) (toolrun.Result, error)
}

// Manager installs, inspects, and removes the boot task through schtasks.exe.
type Manager struct {
	Runner Runner
	// Name is the full task path, e.g. `\PanelCtl\ApplyPanelOverride`.
	Name string
}

// Install registers the task, overwriting any existing task of the same name
// (/F), which makes installation idempotent. The job XML goes through a
// temporary file because schtasks has no stdin mode for definitions.
func (m Manager) Install(ctx context.Context, def Definition) error {
	body, err := def.XML()
	if err != nil {
		return pcerrors.TaskInstallError(m.Name, err)
	}

	xmlPath := filepath.Join(os.TempDir(), "panelctl-task.xml")
	if err := os.WriteFile(xmlPath, body, 0o600); err != nil {
		return pcerrors.TaskInstallError(m.Name, err)
	}
	defer os.Remove(xmlPath)

	if _, err := m.Runner.Run(ctx, "schtasks", "/Create", "/TN", m.Name, "/XML", xmlPath, "/F"); err != nil {
		return pcerrors.TaskInstallError(m.Name, err)
	}
	slog.Info("Scheduled task installed", "task", m.Name)
	return nil
}

// Installed reports whether the task is currently registered. schtasks exits
// non-zero for an unknown task name, so any query failure reads as absent;
// presence detection does not need to parse localized output.
func (m Manager) Installed(ctx context.Context) bool {
	_, err := m.Runner.Run(ctx, "schtasks", "/Query", "/TN", m.Name)
	return err == nil
}

// Uninstall removes the task if present. Removing an absent task is success,
// not an error: the query-first shape avoids having to classify localized
// "task does not exist" messages out of schtasks' stderr.
func (m Manager) Uninstall(ctx context.Context) error {
	if !m.Installed(ctx) {
		slog.Debug("Scheduled task already absent", "task", m.Name)
		return nil
	}
	if _, err := m.Runner.Run(ctx, "schtasks", "/Delete", "/TN", m.Name, "/F"); err != nil {
		return pcerrors.TaskRemoveError(m.Name, err)
	}
	slog.Info("Scheduled task removed", "task", m.Name)
	return nil
}
