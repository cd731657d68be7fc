// Package config loads the optional panelctl configuration file. The tool is
// expected to work with zero setup, so a missing file yields defaults; the
// file exists to relocate driver artifacts, rename the scheduled task, or
// loosen the large-panel driver safety gate.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Target TargetConfig `yaml:"target"`
	Task   TaskConfig   `yaml:"task"`
	Driver DriverConfig `yaml:"driver"`
	Tools  ToolsConfig  `yaml:"tools"`
}

// TargetConfig is the panel size the delivery mechanisms apply on every boot.
type TargetConfig struct {
	WidthMm  uint32 `yaml:"width_mm"`
	HeightMm uint32 `yaml:"height_mm"`
}

// TaskConfig names the boot-triggered scheduled task.
type TaskConfig struct {
	// Name is the full task path in the Task Scheduler library.
	Name string `yaml:"name"`
}

// DriverConfig locates the kernel driver package artifacts and carries the
// safety gate for installing it on large-panel devices.
type DriverConfig struct {
	InfPath  string `yaml:"inf_path"`
	CertPath string `yaml:"cert_path"`
	// OriginalInfName is the source inf filename the driver store records at
	// install time; uninstall matches on it to find the oemNN.inf package.
	OriginalInfName string `yaml:"original_inf_name"`
	// BlockOnLargePanels force-disables the kernel driver when the native
	// panel diagonal is outside the handheld envelope, regardless of test
	// signing, falling back to the scheduled task. A safety valve for users
	// who prefer never to touch driver installation on oversized panels.
	BlockOnLargePanels bool `yaml:"block_on_large_panels"`
}

// ToolsConfig bounds external tool invocations.
type ToolsConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the configured tool timeout as a duration.
func (t ToolsConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Target.WidthMm == 0 && c.Target.HeightMm == 0 {
		c.Target.WidthMm = 155
		c.Target.HeightMm = 87
	}
	if c.Task.Name == "" {
		c.Task.Name = `\PanelCtl\ApplyPanelOverride`
	}
	if c.Driver.InfPath == "" {
		c.Driver.InfPath = `driver\paneldim.inf`
	}
	if c.Driver.CertPath == "" {
		c.Driver.CertPath = `driver\paneldim.cer`
	}
	if c.Driver.OriginalInfName == "" {
		c.Driver.OriginalInfName = "paneldim.inf"
	}
	if c.Tools.TimeoutSeconds <= 0 {
		c.Tools.TimeoutSeconds = 60
	}
}

// Load loads configuration from the specified file. A missing file is not an
// error; defaults are returned so the CLI works without any setup.
func Load(configPath string) (*Config, error) {
	// Pick up .env overrides first so ${VAR} expansion below sees them.
	// Absence of a .env file is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, pcerrors.ConfigInvalid(configPath, err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, pcerrors.ConfigInvalid(configPath, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	return os.WriteFile(configPath, []byte(exampleConfig), 0o644)
}

const exampleConfig = `# panelctl configuration. Every key is optional; the defaults shown here are
# what the tool uses when this file is absent.

# Panel size (mm) applied by the boot-time override, modeling a ~7" handheld.
target:
  width_mm: 155
  height_mm: 87

# Boot-triggered scheduled task identity in the Task Scheduler library.
task:
  name: \PanelCtl\ApplyPanelOverride

driver:
  # Kernel driver package artifacts, relative to the working directory.
  inf_path: driver\paneldim.inf
  cert_path: driver\paneldim.cer
  # Source inf filename recorded by the driver store at install time.
  original_inf_name: paneldim.inf
  # Set to force the scheduled task even where the kernel driver would be
  # selectable, on devices whose native panel is outside the handheld envelope.
  block_on_large_panels: false

tools:
  # Upper bound for a single schtasks/pnputil/certutil/bcdedit invocation.
  timeout_seconds: 60
`
