package schtask

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/panelctl/internal/toolrun"
)

func TestDefinitionXML(t *testing.T) {
	def := Definition{Command: `C:\Program Files\PanelCtl\panelctl.exe`, Arguments: "set 155 87"}
	body, err := def.XML()
	require.NoError(t, err)
	s := string(body)

	// Boot trigger, SYSTEM principal, highest run level, time-critical
	// priority: the properties that give the task its best shot at running
	// before the shell reads the panel state.
	assert.Contains(t, s, "<BootTrigger>")
	assert.Contains(t, s, "<UserId>S-1-5-18</UserId>")
	assert.Contains(t, s, "<RunLevel>HighestAvailable</RunLevel>")
	assert.Contains(t, s, "<Priority>0</Priority>")
	assert.Contains(t, s, `xmlns="http://schemas.microsoft.com/windows/2004/02/mit/task"`)
	assert.Contains(t, s, "<Command>C:\\Program Files\\PanelCtl\\panelctl.exe</Command>")
	assert.Contains(t, s, "<Arguments>set 155 87</Arguments>")
	assert.True(t, strings.HasPrefix(s, "<?xml"))
}

func TestDefinitionXMLRequiresCommand(t *testing.T) {
	_, err := Definition{}.XML()
	require.Error(t, err)
}

// fakeRunner scripts tool outcomes keyed by the first argument after the tool
// name (the schtasks verb).
type fakeRunner struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, tool string, args ...string) (toolrun.Result, error) {
	verb := args[0]
	f.calls = append(f.calls, tool+" "+verb)
	if f.fail[verb] {
		return toolrun.Result{ExitCode: 1}, assertErr
	}
	return toolrun.Result{}, nil
}

var assertErr = errFake{}

type errFake struct{}

func (errFake) Error() string { return "tool failed" }

func TestUninstallAbsentTaskIsSuccess(t *testing.T) {
	f := &fakeRunner{fail: map[string]bool{"/Query": true}}
	m := Manager{Runner: f, Name: `\PanelCtl\ApplyPanelOverride`}

	require.NoError(t, m.Uninstall(context.Background()))
	// Delete must not have been attempted.
	assert.Equal(t, []string{"schtasks /Query"}, f.calls)
}

func TestUninstallPresentTask(t *testing.T) {
	f := &fakeRunner{fail: map[string]bool{}}
	m := Manager{Runner: f, Name: `\PanelCtl\ApplyPanelOverride`}

	require.NoError(t, m.Uninstall(context.Background()))
	assert.Equal(t, []string{"schtasks /Query", "schtasks /Delete"}, f.calls)
}

func TestUninstallDeleteFailureIsError(t *testing.T) {
	f := &fakeRunner{fail: map[string]bool{"/Delete": true}}
	m := Manager{Runner: f, Name: `\PanelCtl\ApplyPanelOverride`}

	require.Error(t, m.Uninstall(context.Background()))
}

func TestInstallRunsCreateWithForce(t *testing.T) {
	f := &fakeRunner{fail: map[string]bool{}}
	m := Manager{Runner: f, Name: `\PanelCtl\ApplyPanelOverride`}

	def := Definition{Command: `C:\panelctl.exe`, Arguments: "set 155 87"}
	require.NoError(t, m.Install(context.Background(), def))
	assert.Equal(t, []string{"schtasks /Create"}, f.calls)
}

func TestInstalled(t *testing.T) {
	present := &fakeRunner{fail: map[string]bool{}}
	absent := &fakeRunner{fail: map[string]bool{"/Query": true}}

	assert.True(t, Manager{Runner: present, Name: "x"}.Installed(context.Background()))
	assert.False(t, Manager{Runner: absent, Name: "x"}.Installed(context.Background()))
}
