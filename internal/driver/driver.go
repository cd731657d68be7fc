// Package driver installs and removes the kernel-mode panel override driver.
// The driver applies the dimension override before user-mode boot sequencing
// begins, which eliminates the boot race the scheduled task mechanism has; in
// exchange it is test-signed only, so it requires its certificate in the
// machine trusted-root store and test signing enabled in the boot config.
//
// All steps are opaque external commands (certutil, pnputil). A failed
// install reports failure and stops; it is the caller's job to roll back by
// uninstalling, this package does not self-heal.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
	"git.home.luguber.info/inful/panelctl/internal/toolrun"
)

// Runner is the slice of toolrun.Runner this package needs; tests substitute
// a fake.
type Runner interface {
	Run(ctx context.Context, tool string, args ...string) (toolrun.Result, error)
}

// Manager drives the driver package lifecycle.
type Manager struct {
	Runner Runner
	// InfPath and CertPath locate the driver package artifacts on disk.
	InfPath  string
	CertPath string
	// OriginalInfName is the source inf filename to match when locating the
	// oemNN.inf identifier the driver store assigned at install time; the
	// install step does not return that identifier directly.
	OriginalInfName string
	// DeviceID is the root-enumerated device instance the driver binds to.
	DeviceID string
}

// DefaultDeviceID is the software device node the panel override driver
// creates under the root enumerator.
const DefaultDeviceID = `ROOT\SYSTEM\PANELDIM`

// Install runs the three install steps in order: verify the package files
// exist, add the signing certificate to the machine trusted-root store, and
// stage+install the driver package. The first failing step aborts the whole
// operation; completed steps are left for the caller's rollback.
func (m Manager) Install(ctx context.Context) error {
	for _, path := range []string{m.InfPath, m.CertPath} {
		if _, err := os.Stat(path); err != nil {
			return pcerrors.DriverInstallError("verify-files", err)
		}
	}

	if _, err := m.Runner.Run(ctx, "certutil", "-addstore", "-f", "Root", m.CertPath); err != nil {
		return pcerrors.DriverInstallError("certificate", err)
	}

	if _, err := m.Runner.Run(ctx, "pnputil", "/add-driver", m.InfPath, "/install"); err != nil {
		return pcerrors.DriverInstallError("add-driver", err)
	}

	slog.Info("Kernel driver installed", "inf", m.InfPath)
	return nil
}

// Installed reports whether a driver package with the known original inf
// name is present in the driver store.
func (m Manager) Installed(ctx context.Context) bool {
	res, err := m.Runner.Run(ctx, "pnputil", "/enum-drivers")
	if err != nil {
		slog.Debug("Driver enumeration failed", "error", err)
		return false
	}
	_, found := FindPublishedName(res.Output, m.OriginalInfName)
	return found
}

// Uninstall removes the device node and then the driver store package. Both
// halves are ensure-absent: a missing device node is skipped, and if no
// package matches the original inf name the uninstall is already complete.
// Only a deletion that fails for a reason other than "did not exist" is an
// error.
func (m Manager) Uninstall(ctx context.Context) error {
	deviceID := m.DeviceID
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}

	// The device may never have been created (failed install, manual
	// cleanup); removal failure here is the absent case, not an error.
	if _, err := m.Runner.Run(ctx, "pnputil", "/remove-device", deviceID); err != nil {
		slog.Debug("Device node not removed (likely absent)", "device", deviceID)
	}

	res, err := m.Runner.Run(ctx, "pnputil", "/enum-drivers")
	if err != nil {
		return pcerrors.DriverRemoveError(err)
	}
	published, found := FindPublishedName(res.Output, m.OriginalInfName)
	if !found {
		slog.Debug("Driver package already absent", "inf", m.OriginalInfName)
		return nil
	}

	// /force removes the package even if a device is still using it.
	if _, err := m.Runner.Run(ctx, "pnputil", "/delete-driver", published, "/uninstall", "/force"); err != nil {
		return pcerrors.DriverRemoveError(err)
	}
	slog.Info("Kernel driver removed", "package", published)
	return nil
}

// FindPublishedName scans `pnputil /enum-drivers` output for the package
// whose original inf name matches originalInf, returning the just-in-time
// oemNN.inf identifier the driver store assigned it. Matching is
// case-insensitive; inf names are not case-sensitive on Windows.
func FindPublishedName(enumOutput, originalInf string) (string, bool) {
	var published string
	sc := bufio.NewScanner(strings.NewReader(enumOutput))
	for sc.Scan() {
		key, value, ok := splitField(sc.Text())
		if !ok {
			continue
		}
		switch key {
		case "published name":
			published = value
		case "original name":
			if published != "" && strings.EqualFold(value, originalInf) {
				return published, true
			}
		}
	}
	return "", false
}

// splitField parses one "Key:   value" line of pnputil output.
func splitField(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	value = strings.TrimSpace(line[idx+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

// String describes the manager for logs.
func (m Manager) String() string {
	return fmt.Sprintf("driver{inf: %s}", m.OriginalInfName)
}
