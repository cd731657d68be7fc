// Package feature flips the OS feature-flag bits and the OEM device-form
// registry value that gate the full screen experience shell. Status
// reconciliation only consumes the combined boolean result; nothing else in
// the program reads registry state.
package feature

// featureIDs are the hidden feature-management override ids that gate the
// full screen experience shell. They are opaque constants: referenced
// literally, never computed.
var featureIDs = []uint32{52580392, 47557358, 45317806}

const (
	overridesKeyPath = `SYSTEM\CurrentControlSet\Control\FeatureManagement\Overrides\8`
	oemKeyPath       = `SYSTEM\CurrentControlSet\Control\OEM`
	deviceFormValue  = "DeviceForm"

	// deviceFormHandheld is the OEM device-form code for a gaming handheld.
	deviceFormHandheld uint32 = 46

	// enabledState 2 marks a feature override as force-enabled.
	enabledStateOn uint32 = 2
)
