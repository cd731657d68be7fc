package errors

import "fmt"

// Convenience functions for common error patterns

// Config errors

func ConfigInvalid(path string, cause error) *PanelCtlError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *PanelCtlError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Native state store errors

// WNFCallFailed reports that a WNF query or update could not even be issued
// (missing export, call-level failure). A non-success NTSTATUS from a write
// goes through WNFWriteRejected instead.
func WNFCallFailed(call string, cause error) *PanelCtlError {
	return Wrap(cause, CategoryWNF, SeverityFatal, "native state call failed").
		WithContext("call", call)
}

// WNFWriteRejected reports a rejected state update. The NTSTATUS is carried
// both numerically and pre-formatted in hex for CLI diagnostics; the common
// cause is missing SYSTEM privilege.
func WNFWriteRejected(status uint32) *PanelCtlError {
	return New(CategoryWNF, SeverityError, "display size update rejected (requires SYSTEM privileges)").
		WithContext("ntstatus", status).
		WithContext("ntstatus_hex", fmt.Sprintf("0x%08X", status))
}

// Registry errors

func RegistryError(operation string, cause error) *PanelCtlError {
	return Wrap(cause, CategoryRegistry, SeverityFatal, "registry operation failed").
		WithContext("operation", operation)
}

// Delivery mechanism errors

func TaskInstallError(name string, cause error) *PanelCtlError {
	return Wrap(cause, CategoryTask, SeverityFatal, "scheduled task installation failed").
		WithContext("task", name)
}

func TaskRemoveError(name string, cause error) *PanelCtlError {
	return Wrap(cause, CategoryTask, SeverityFatal, "scheduled task removal failed").
		WithContext("task", name)
}

func DriverInstallError(step string, cause error) *PanelCtlError {
	return Wrap(cause, CategoryDriver, SeverityFatal, "driver installation failed").
		WithContext("step", step)
}

func DriverRemoveError(cause error) *PanelCtlError {
	return Wrap(cause, CategoryDriver, SeverityFatal, "driver removal failed")
}

// External tool errors

func ToolFailed(tool string, cause error, output string) *PanelCtlError {
	return Wrap(cause, CategoryTool, SeverityError, "external tool failed").
		WithContext("tool", tool).
		WithContext("output", output)
}

// Internal errors

func InternalError(message string, cause error) *PanelCtlError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
