package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/panelctl/internal/delivery"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want State
	}{
		{
			name: "fully enabled",
			in:   Inputs{CoreEnabled: true, ScreenOverrideRequired: false, ActiveMechanism: delivery.ScheduledTask},
			want: Enabled,
		},
		{
			name: "enabled without any mechanism still enabled when panel fits",
			in:   Inputs{CoreEnabled: true, ScreenOverrideRequired: false, ActiveMechanism: delivery.None},
			want: Enabled,
		},
		{
			name: "task installed but panel still wrong",
			in:   Inputs{CoreEnabled: true, ScreenOverrideRequired: true, ActiveMechanism: delivery.ScheduledTask},
			want: NeedsFix,
		},
		{
			name: "no mechanism and panel wrong",
			in:   Inputs{CoreEnabled: true, ScreenOverrideRequired: true, ActiveMechanism: delivery.None},
			want: NeedsFix,
		},
		{
			name: "driver installed but panel still wrong",
			in:   Inputs{CoreEnabled: true, ScreenOverrideRequired: true, ActiveMechanism: delivery.KernelDriver},
			want: DriverError,
		},
		{
			name: "core disabled",
			in:   Inputs{CoreEnabled: false, ScreenOverrideRequired: true, ActiveMechanism: delivery.KernelDriver},
			want: Disabled,
		},
		{
			name: "core disabled with nothing else",
			in:   Inputs{},
			want: Disabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.in))
		})
	}
}

// A broken driver must never be reported as the repairable NeedsFix state,
// regardless of how the remaining inputs are combined.
func TestDeriveDriverErrorPrecedence(t *testing.T) {
	got := Derive(Inputs{
		CoreEnabled:            true,
		ScreenOverrideRequired: true,
		ActiveMechanism:        delivery.KernelDriver,
	})
	assert.Equal(t, DriverError, got)
	assert.NotEqual(t, NeedsFix, got)
}

func TestNextAction(t *testing.T) {
	assert.Equal(t, ActionEnable, Disabled.NextAction())
	assert.Equal(t, ActionRepair, NeedsFix.NextAction())
	assert.Equal(t, ActionDisable, Enabled.NextAction())
	assert.Equal(t, ActionDisable, DriverError.NextAction())
	assert.Equal(t, ActionNone, Unknown.NextAction())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "enabled", Enabled.String())
	assert.Equal(t, "needs-fix", NeedsFix.String())
	assert.Equal(t, "driver-error", DriverError.String())
	assert.Equal(t, "disabled", Disabled.String())
	assert.Equal(t, "unknown", Unknown.String())
}
