//go:build windows

package feature

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"golang.org/x/sys/windows/registry"

	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
)

// Store reads and writes the feature state under HKLM. All operations need
// elevation; a non-elevated process can still read.
type Store struct{}

// Enabled reports whether the core feature state is fully set: every feature
// override present and force-enabled, and the OEM device form set to the
// handheld code. Missing keys read as disabled, not as errors.
func (Store) Enabled() (bool, error) {
	for _, id := range featureIDs {
		on, err := overrideEnabled(id)
		if err != nil {
			return false, err
		}
		if !on {
			return false, nil
		}
	}
	return deviceFormIsHandheld()
}

func overrideEnabled(id uint32) (bool, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, overrideKeyPath(id), registry.QUERY_VALUE)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, pcerrors.RegistryError("open feature override", err)
	}
	defer key.Close()

	state, _, err := key.GetIntegerValue("EnabledState")
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, pcerrors.RegistryError("read feature override", err)
	}
	return uint32(state) == enabledStateOn, nil
}

func deviceFormIsHandheld() (bool, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, oemKeyPath, registry.QUERY_VALUE)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, pcerrors.RegistryError("open OEM key", err)
	}
	defer key.Close()

	form, _, err := key.GetIntegerValue(deviceFormValue)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, pcerrors.RegistryError("read device form", err)
	}
	return uint32(form) == deviceFormHandheld, nil
}

// Enable sets every feature override and the handheld device form.
func (Store) Enable() error {
	for _, id := range featureIDs {
		key, _, err := registry.CreateKey(registry.LOCAL_MACHINE, overrideKeyPath(id), registry.SET_VALUE)
		if err != nil {
			return pcerrors.RegistryError("create feature override", err)
		}
		err = key.SetDWordValue("EnabledState", enabledStateOn)
		if err == nil {
			err = key.SetDWordValue("EnabledStateOptions", 0)
		}
		key.Close()
		if err != nil {
			return pcerrors.RegistryError("write feature override", err)
		}
	}

	key, _, err := registry.CreateKey(registry.LOCAL_MACHINE, oemKeyPath, registry.SET_VALUE)
	if err != nil {
		return pcerrors.RegistryError("create OEM key", err)
	}
	defer key.Close()
	if err := key.SetDWordValue(deviceFormValue, deviceFormHandheld); err != nil {
		return pcerrors.RegistryError("write device form", err)
	}
	slog.Info("Feature state enabled", "overrides", len(featureIDs))
	return nil
}

// Disable removes every feature override and clears the device form value.
// Deleting state that is already absent is success.
func (Store) Disable() error {
	for _, id := range featureIDs {
		err := registry.DeleteKey(registry.LOCAL_MACHINE, overrideKeyPath(id))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return pcerrors.RegistryError("delete feature override", err)
		}
	}

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, oemKeyPath, registry.SET_VALUE)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return pcerrors.RegistryError("open OEM key", err)
	}
	defer key.Close()
	if err := key.DeleteValue(deviceFormValue); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return pcerrors.RegistryError("delete device form", err)
	}
	slog.Info("Feature state disabled")
	return nil
}

func overrideKeyPath(id uint32) string {
	return fmt.Sprintf(`%s\%d`, overridesKeyPath, id)
}
