package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/panelctl/internal/schtask"
)

type fakeTask struct {
	installed    bool
	installErr   error
	uninstallErr error
	log          *[]string
}

func (f *fakeTask) Install(_ context.Context, _ schtask.Definition) error {
	*f.log = append(*f.log, "task.install")
	if f.installErr == nil {
		f.installed = true
	}
	return f.installErr
}

func (f *fakeTask) Installed(context.Context) bool { return f.installed }

func (f *fakeTask) Uninstall(context.Context) error {
	*f.log = append(*f.log, "task.uninstall")
	if f.uninstallErr == nil {
		f.installed = false
	}
	return f.uninstallErr
}

type fakeDriver struct {
	installed    bool
	installErr   error
	uninstallErr error
	log          *[]string
}

func (f *fakeDriver) Install(context.Context) error {
	*f.log = append(*f.log, "driver.install")
	if f.installErr == nil {
		f.installed = true
	}
	return f.installErr
}

func (f *fakeDriver) Installed(context.Context) bool { return f.installed }

func (f *fakeDriver) Uninstall(context.Context) error {
	*f.log = append(*f.log, "driver.uninstall")
	if f.uninstallErr == nil {
		f.installed = false
	}
	return f.uninstallErr
}

func newManager() (Manager, *fakeTask, *fakeDriver, *[]string) {
	log := &[]string{}
	task := &fakeTask{log: log}
	drv := &fakeDriver{log: log}
	m := Manager{Task: task, Driver: drv, TaskDefinition: schtask.Definition{Command: `C:\panelctl.exe`, Arguments: "set 155 87"}}
	return m, task, drv, log
}

func TestInstallTaskRemovesDriverFirst(t *testing.T) {
	m, task, drv, log := newManager()
	drv.installed = true

	require.NoError(t, m.Install(context.Background(), ScheduledTask))
	assert.Equal(t, []string{"driver.uninstall", "task.install"}, *log)
	assert.True(t, task.installed)
	assert.False(t, drv.installed)
}

func TestInstallDriverRemovesTaskFirst(t *testing.T) {
	m, task, drv, log := newManager()
	task.installed = true

	require.NoError(t, m.Install(context.Background(), KernelDriver))
	assert.Equal(t, []string{"task.uninstall", "driver.install"}, *log)
	assert.True(t, drv.installed)
	assert.False(t, task.installed)
}

func TestDriverInstallFailureRollsBack(t *testing.T) {
	m, _, drv, log := newManager()
	cause := errors.New("pnputil failed")
	drv.installErr = cause

	err := m.Install(context.Background(), KernelDriver)
	require.ErrorIs(t, err, cause)
	// The explicit rollback uninstall must follow the failed install.
	assert.Equal(t, []string{"task.uninstall", "driver.install", "driver.uninstall"}, *log)
}

func TestInstallNoneRemovesBoth(t *testing.T) {
	m, task, drv, _ := newManager()
	task.installed = true
	drv.installed = true

	require.NoError(t, m.Install(context.Background(), None))
	assert.False(t, task.installed)
	assert.False(t, drv.installed)
}

func TestUninstallAttemptsBothDespiteFailure(t *testing.T) {
	m, task, drv, log := newManager()
	task.uninstallErr = errors.New("schtasks failed")
	drv.installed = true

	err := m.Uninstall(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"task.uninstall", "driver.uninstall"}, *log)
	assert.False(t, drv.installed, "driver removal must still run")
}

func TestActivePrecedence(t *testing.T) {
	m, task, drv, _ := newManager()
	ctx := context.Background()

	assert.Equal(t, None, m.Active(ctx))

	task.installed = true
	assert.Equal(t, ScheduledTask, m.Active(ctx))

	// Both present: the driver is what actually wins the boot race, so the
	// machine is judged by it.
	drv.installed = true
	assert.Equal(t, KernelDriver, m.Active(ctx))
}
