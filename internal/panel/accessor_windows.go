//go:build windows

package panel

import (
	"git.home.luguber.info/inful/panelctl/internal/errors"
	"git.home.luguber.info/inful/panelctl/internal/wnf"
)

// Query reads the dimensions currently published in the panel state slot.
// ok is false when no override has ever been set (or the slot held a
// malformed payload, which is treated the same way). The result is read fresh
// on every call; the underlying state can change at any time from outside
// this process, so it is never cached.
func Query() (d Dimensions, ok bool, err error) {
	blob, ok, err := wnf.QueryStateData(wnf.PanelDimensionsState)
	if err != nil || !ok {
		return Dimensions{}, false, err
	}
	return Decode(blob), true, nil
}

// QueryViaCallback is Query over the callback-based native read surface.
// Behavior is identical; it exists so the alternative read path stays
// exercised and diagnosable from the CLI.
func QueryViaCallback() (d Dimensions, ok bool, err error) {
	blob, ok, err := wnf.QueryStateDataViaCallback(wnf.PanelDimensionsState)
	if err != nil || !ok {
		return Dimensions{}, false, err
	}
	return Decode(blob), true, nil
}

// SetDisplaySize publishes d to the panel state slot. The write is
// unconditional (no changestamp check) and requires SYSTEM privileges; a
// rejected write surfaces the raw NTSTATUS through the returned error.
func SetDisplaySize(d Dimensions) error {
	status, err := wnf.UpdateStateData(wnf.PanelDimensionsState, d.Encode())
	if err != nil {
		return err
	}
	if status != 0 {
		return errors.WNFWriteRejected(uint32(status))
	}
	return nil
}
