//go:build windows

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/panelctl/internal/config"
	"git.home.luguber.info/inful/panelctl/internal/delivery"
	"git.home.luguber.info/inful/panelctl/internal/device"
	"git.home.luguber.info/inful/panelctl/internal/driver"
	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
	"git.home.luguber.info/inful/panelctl/internal/experience"
	"git.home.luguber.info/inful/panelctl/internal/feature"
	"git.home.luguber.info/inful/panelctl/internal/panel"
	"git.home.luguber.info/inful/panelctl/internal/schtask"
	"git.home.luguber.info/inful/panelctl/internal/toolrun"
	"git.home.luguber.info/inful/panelctl/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"panelctl.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version information and exit"`

	Get struct {
		Callback bool `help:"Read through the callback-based query path instead of the direct one"`
	} `cmd:"" help:"Print the stored panel dimensions"`

	Set struct {
		WidthMm  uint32 `arg:"" help:"Panel width in millimetres"`
		HeightMm uint32 `arg:"" help:"Panel height in millimetres"`
	} `cmd:"" help:"Write panel dimensions to the state store"`

	Status struct{} `cmd:"" help:"Show the reconciled full-screen experience status"`

	Enable struct {
		Mode string `help:"Delivery mechanism to install" default:"auto" enum:"auto,task,driver"`
	} `cmd:"" help:"Enable the full-screen experience"`

	Disable struct{} `cmd:"" help:"Disable the full-screen experience"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Write an example configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("panelctl"),
		kong.Description("Toggle the hidden full-screen experience shell and manage its panel dimension override."),
		kong.Vars{"version": version.Version},
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	ctx := context.Background()

	switch kctx.Command() {
	case "get":
		if err := runGet(CLI.Get.Callback); err != nil {
			slog.Error("Get failed", "error", err)
			os.Exit(1)
		}
	case "set <width-mm> <height-mm>":
		if err := runSet(panel.Dimensions{WidthMm: CLI.Set.WidthMm, HeightMm: CLI.Set.HeightMm}); err != nil {
			slog.Error("Set failed", "error", err)
			os.Exit(1)
		}
	case "status":
		if err := runStatus(ctx); err != nil {
			slog.Error("Status failed", "error", err)
			os.Exit(1)
		}
	case "enable":
		if err := runEnable(ctx, CLI.Enable.Mode); err != nil {
			slog.Error("Enable failed", "error", err)
			os.Exit(1)
		}
	case "disable":
		if err := runDisable(ctx); err != nil {
			slog.Error("Disable failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration written to %s\n", CLI.Config)
	}
}

func runGet(viaCallback bool) error {
	var (
		dims panel.Dimensions
		ok   bool
		err  error
	)
	if viaCallback {
		dims, ok, err = panel.QueryViaCallback()
	} else {
		dims, ok, err = panel.Query()
	}
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Panel dimensions have never been set.")
		os.Exit(1)
	}
	fmt.Println(dims.String())
	return nil
}

func runSet(dims panel.Dimensions) error {
	if err := panel.SetDisplaySize(dims); err != nil {
		var perr *pcerrors.PanelCtlError
		if errors.As(err, &perr) {
			if hex, ok := perr.Context["ntstatus_hex"]; ok {
				fmt.Fprintf(os.Stderr, "NtUpdateWnfStateData failed with NTSTATUS %v\n", hex)
			}
		}
		return err
	}
	fmt.Printf("Panel dimensions set to %s\n", dims.String())
	return nil
}

func runStatus(ctx context.Context) error {
	svc, err := loadService()
	if err != nil {
		return err
	}

	rep := svc.Inspect(ctx)
	fmt.Printf("State:      %s\n", rep.State)
	fmt.Printf("Device:     %s\n", rep.Class)
	if rep.PanelKnown {
		fmt.Printf("Panel:      %s\n", rep.Panel.String())
	} else {
		fmt.Printf("Panel:      never set\n")
	}
	fmt.Printf("Mechanism:  %s\n", rep.Mechanism)
	fmt.Printf("Next step:  %s\n", rep.Action)
	if rep.Err != nil {
		fmt.Printf("Problem:    %v\n", rep.Err)
		os.Exit(1)
	}
	return nil
}

func runEnable(ctx context.Context, mode string) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	m, err := experience.ParseMode(mode)
	if err != nil {
		return err
	}

	mech, err := svc.Enable(ctx, m)
	if err != nil {
		return err
	}
	if mech == delivery.None {
		fmt.Println("Full-screen experience enabled. No override delivery needed on this device.")
	} else {
		fmt.Printf("Full-screen experience enabled using %s delivery. A reboot is required.\n", mech)
	}
	return nil
}

func runDisable(ctx context.Context) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	if err := svc.Disable(ctx); err != nil {
		return err
	}
	fmt.Println("Full-screen experience disabled. A reboot is required.")
	return nil
}

// loadService assembles the production experience service from the
// configuration file and the real Windows-facing stores.
func loadService() (experience.Service, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return experience.Service{}, err
	}

	runner := toolrun.Runner{Timeout: cfg.Tools.Timeout()}
	target := panel.Dimensions{WidthMm: cfg.Target.WidthMm, HeightMm: cfg.Target.HeightMm}

	exe, err := os.Executable()
	if err != nil {
		return experience.Service{}, err
	}

	return experience.Service{
		Panel:    panelStore{},
		Features: feature.Store{},
		Delivery: delivery.Manager{
			Task: schtask.Manager{Runner: runner, Name: cfg.Task.Name},
			Driver: driver.Manager{
				Runner:          runner,
				InfPath:         cfg.Driver.InfPath,
				CertPath:        cfg.Driver.CertPath,
				OriginalInfName: cfg.Driver.OriginalInfName,
				DeviceID:        driver.DefaultDeviceID,
			},
			TaskDefinition: schtask.Definition{
				Command:   exe,
				Arguments: fmt.Sprintf("set %d %d", target.WidthMm, target.HeightMm),
			},
		},
		Env:                      environment{runner: runner},
		Target:                   target,
		BlockDriverOnLargePanels: cfg.Driver.BlockOnLargePanels,
	}, nil
}

// panelStore adapts the package-level state accessors to the service
// interface.
type panelStore struct{}

func (panelStore) Query() (panel.Dimensions, bool, error) { return panel.Query() }
func (panelStore) Set(d panel.Dimensions) error           { return panel.SetDisplaySize(d) }

type environment struct{ runner toolrun.Runner }

func (environment) Probe() device.Probe { return device.CollectProbe() }

func (e environment) TestSigning(ctx context.Context) bool {
	return device.TestSigningEnabled(ctx, e.runner)
}
