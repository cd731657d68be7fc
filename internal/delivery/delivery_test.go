package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/panelctl/internal/device"
)

func TestLegalMechanisms(t *testing.T) {
	assert.Empty(t, LegalMechanisms(device.Handheld))
	assert.Equal(t, []Mechanism{ScheduledTask}, LegalMechanisms(device.Laptop))
	assert.Equal(t, []Mechanism{ScheduledTask, KernelDriver}, LegalMechanisms(device.Desktop))
}

func TestLaptopNeverGetsDriver(t *testing.T) {
	// Even with test signing enabled and no safety gate, the driver stays
	// unavailable on laptops.
	in := SelectInputs{Class: device.Laptop, TestSigning: true, PanelOutsideEnvelope: true}
	assert.False(t, DriverSelectable(in))
	assert.Equal(t, ScheduledTask, Select(in))
}

func TestHandheldSelectsNone(t *testing.T) {
	in := SelectInputs{Class: device.Handheld, TestSigning: true}
	assert.Equal(t, None, Select(in))
}

func TestDesktopPrefersDriverWithTestSigning(t *testing.T) {
	in := SelectInputs{Class: device.Desktop, TestSigning: true, PanelOutsideEnvelope: true}
	assert.Equal(t, KernelDriver, Select(in))
}

func TestDesktopWithoutTestSigningFallsBackToTask(t *testing.T) {
	in := SelectInputs{Class: device.Desktop, TestSigning: false, PanelOutsideEnvelope: true}
	assert.Equal(t, ScheduledTask, Select(in))
}

func TestSafetyFlagForceDisablesDriver(t *testing.T) {
	in := SelectInputs{
		Class:                    device.Desktop,
		TestSigning:              true,
		PanelOutsideEnvelope:     true,
		BlockDriverOnLargePanels: true,
	}
	assert.False(t, DriverSelectable(in))
	assert.Equal(t, ScheduledTask, Select(in))
}

func TestSafetyFlagIgnoredInsideEnvelope(t *testing.T) {
	in := SelectInputs{
		Class:                    device.Desktop,
		TestSigning:              true,
		PanelOutsideEnvelope:     false,
		BlockDriverOnLargePanels: true,
	}
	assert.True(t, DriverSelectable(in))
}

func TestLegal(t *testing.T) {
	assert.True(t, Legal(device.Laptop, None))
	assert.True(t, Legal(device.Laptop, ScheduledTask))
	assert.False(t, Legal(device.Laptop, KernelDriver))
	assert.False(t, Legal(device.Handheld, ScheduledTask))
	assert.True(t, Legal(device.Desktop, KernelDriver))
}

func TestMechanismString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "scheduled-task", ScheduledTask.String())
	assert.Equal(t, "kernel-driver", KernelDriver.String())
}
