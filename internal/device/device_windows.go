//go:build windows

package device

import (
	"context"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"git.home.luguber.info/inful/panelctl/internal/panel"
	"git.home.luguber.info/inful/panelctl/internal/toolrun"
)

var (
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procGetSystemPowerStatus = kernel32.NewProc("GetSystemPowerStatus")
)

// systemPowerStatus mirrors SYSTEM_POWER_STATUS.
type systemPowerStatus struct {
	ACLineStatus        byte
	BatteryFlag         byte
	BatteryLifePercent  byte
	SystemStatusFlag    byte
	BatteryLifeTime     uint32
	BatteryFullLifeTime uint32
}

const batteryFlagNoBattery = 128

// hasBattery reports whether the OS sees a system battery. A failed call is
// treated as "no battery": the conservative read, since it only ever widens
// the allowed mechanisms toward the desktop column of the gating table.
func hasBattery() bool {
	var sps systemPowerStatus
	r, _, _ := procGetSystemPowerStatus.Call(uintptr(unsafe.Pointer(&sps)))
	if r == 0 {
		return false
	}
	return sps.BatteryFlag&batteryFlagNoBattery == 0
}

// CollectProbe gathers the hardware signals for Classify. The panel is read
// fresh from the state store; a never-set slot leaves PanelKnown false.
func CollectProbe() Probe {
	p := Probe{HasBattery: hasBattery()}
	dims, ok, err := panel.Query()
	if err != nil {
		slog.Warn("Panel query failed during device probing", "error", err)
		return p
	}
	p.Panel = dims
	p.PanelKnown = ok
	return p
}

// Runner invokes external tools (toolrun.Runner in production).
type Runner interface {
	Run(ctx context.Context, tool string, args ...string) (toolrun.Result, error)
}

// TestSigningEnabled reports whether the boot configuration has test signing
// on, a prerequisite for installing the test-signed kernel driver. bcdedit
// needs elevation; without it the query fails and the answer is false, which
// simply keeps the driver mechanism unavailable.
func TestSigningEnabled(ctx context.Context, runner Runner) bool {
	res, err := runner.Run(ctx, "bcdedit", "/enum", "{current}")
	if err != nil {
		slog.Debug("bcdedit query failed, assuming test signing off", "error", err)
		return false
	}
	return ParseTestSigningOutput(res.Output)
}
