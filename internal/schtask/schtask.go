// Package schtask manages the boot-triggered scheduled task that re-applies
// the panel dimension override on every boot.
//
// This is the race-prone delivery mechanism: the OS does not order a boot
// trigger relative to shell initialization, so on a fast-booting machine the
// shell can read the old panel state before the task has run. The task runs
// as SYSTEM at time-critical priority to win that race as often as possible;
// the kernel driver mechanism exists for when "as often as possible" is not
// good enough.
package schtask

import (
	"encoding/xml"
	"fmt"
)

// Definition describes the task to register.
type Definition struct {
	// Command is the absolute path of the panel-setter executable.
	Command string
	// Arguments is the argument string, e.g. "set 155 87".
	Arguments string
}

// taskXML mirrors the Task Scheduler 1.2 job schema, limited to the elements
// this task needs.
type taskXML struct {
	XMLName          xml.Name         `xml:"Task"`
	Version          string           `xml:"version,attr"`
	Xmlns            string           `xml:"xmlns,attr"`
	RegistrationInfo registrationInfo `xml:"RegistrationInfo"`
	Triggers         triggers         `xml:"Triggers"`
	Principals       principals       `xml:"Principals"`
	Settings         settings         `xml:"Settings"`
	Actions          actions          `xml:"Actions"`
}

type registrationInfo struct {
	Description string `xml:"Description"`
}

type triggers struct {
	BootTrigger bootTrigger `xml:"BootTrigger"`
}

type bootTrigger struct {
	Enabled bool `xml:"Enabled"`
}

type principals struct {
	Principal principal `xml:"Principal"`
}

type principal struct {
	ID       string `xml:"id,attr"`
	UserID   string `xml:"UserId"`
	RunLevel string `xml:"RunLevel"`
}

type settings struct {
	// Priority 0 is time-critical scheduling, the best chance of applying
	// the override before the shell reads the panel state.
	Priority                   int    `xml:"Priority"`
	Enabled                    bool   `xml:"Enabled"`
	AllowStartOnDemand         bool   `xml:"AllowStartOnDemand"`
	DisallowStartIfOnBatteries bool   `xml:"DisallowStartIfOnBatteries"`
	StopIfGoingOnBatteries     bool   `xml:"StopIfGoingOnBatteries"`
	ExecutionTimeLimit         string `xml:"ExecutionTimeLimit"`
}

type actions struct {
	Context string     `xml:"Context,attr"`
	Exec    execAction `xml:"Exec"`
}

type execAction struct {
	Command   string `xml:"Command"`
	Arguments string `xml:"Arguments"`
}

const (
	systemSID = "S-1-5-18" // NT AUTHORITY\SYSTEM

	taskSchemaNS = "http://schemas.microsoft.com/windows/2004/02/mit/task"
)

// XML renders the job definition for `schtasks /Create /XML`.
func (d Definition) XML() ([]byte, error) {
	if d.Command == "" {
		return nil, fmt.Errorf("task definition requires a command")
	}
	t := taskXML{
		Version: "1.2",
		Xmlns:   taskSchemaNS,
		RegistrationInfo: registrationInfo{
			Description: "Applies the physical panel dimension override at boot.",
		},
		Triggers: triggers{BootTrigger: bootTrigger{Enabled: true}},
		Principals: principals{Principal: principal{
			ID:       "Author",
			UserID:   systemSID,
			RunLevel: "HighestAvailable",
		}},
		Settings: settings{
			Priority:           0,
			Enabled:            true,
			AllowStartOnDemand: true,
			ExecutionTimeLimit: "PT1M",
		},
		Actions: actions{
			Context: "Author",
			Exec:    execAction{Command: d.Command, Arguments: d.Arguments},
		},
	}
	body, err := xml.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
