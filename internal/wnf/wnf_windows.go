//go:build windows

package wnf

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"git.home.luguber.info/inful/panelctl/internal/errors"
)

var (
	ntdll = windows.NewLazySystemDLL("ntdll.dll")

	procNtQueryWnfStateData  = ntdll.NewProc("NtQueryWnfStateData")
	procNtUpdateWnfStateData = ntdll.NewProc("NtUpdateWnfStateData")
	procRtlQueryWnfStateData = ntdll.NewProc("RtlQueryWnfStateData")
)

// QueryStateData issues a direct NtQueryWnfStateData read against name. No
// type qualifier and no explicit scope are passed. The returned blob is valid
// only when ok is true; ok is false when the state has never been published,
// the read failed with a non-success status, or the payload was not exactly
// 8 bytes. err is non-nil only when the call could not be issued at all.
func QueryStateData(name StateName) (blob uint64, ok bool, err error) {
	if ferr := procNtQueryWnfStateData.Find(); ferr != nil {
		return 0, false, errors.WNFCallFailed("NtQueryWnfStateData", ferr)
	}

	var changeStamp uint32
	var raw uint64
	bufferSize := uint32(PayloadSize)

	status, _, _ := procNtQueryWnfStateData.Call(
		uintptr(unsafe.Pointer(&name)),
		0, // TypeId
		0, // ExplicitScope
		uintptr(unsafe.Pointer(&changeStamp)),
		uintptr(unsafe.Pointer(&raw)),
		uintptr(unsafe.Pointer(&bufferSize)),
	)
	if status != 0 || bufferSize != PayloadSize {
		return 0, false, nil
	}
	return raw, true, nil
}

// queryContext carries the decoded result out of the WNF user callback. One
// instance lives on the caller's stack for exactly one RtlQueryWnfStateData
// call; nothing else ever sees it.
type queryContext struct {
	blob uint64
	ok   bool
}

// queryCallback is the single process-lifetime WNF_USER_CALLBACK trampoline.
// Go callbacks created with windows.NewCallback can never be released, so one
// is created up front and the per-call state travels through the context
// pointer instead. The callback copies the payload into the context and
// returns STATUS_SUCCESS regardless of what it found: the callback contract
// gives the OS no channel for callback-reported errors, so a malformed buffer
// simply leaves ok unset and behaves like "state not set".
//
// The state name and buffer size arrive as register-width values, which on
// windows/amd64 and windows/arm64 holds the full 64-bit state name.
var queryCallback = windows.NewCallback(func(stateName, changeStamp, typeID, callbackContext, buffer, bufferSize uintptr) uintptr {
	ctx := (*queryContext)(unsafe.Pointer(callbackContext))
	if buffer != 0 && bufferSize == PayloadSize {
		ctx.blob = *(*uint64)(unsafe.Pointer(buffer))
		ctx.ok = true
	}
	return 0 // STATUS_SUCCESS
})

// QueryStateDataViaCallback reads the same slot through RtlQueryWnfStateData,
// the callback-based read surface. Result semantics match QueryStateData.
func QueryStateDataViaCallback(name StateName) (blob uint64, ok bool, err error) {
	if ferr := procRtlQueryWnfStateData.Find(); ferr != nil {
		return 0, false, errors.WNFCallFailed("RtlQueryWnfStateData", ferr)
	}

	var changeStamp uint32
	var ctx queryContext
	packed := uint64(name.Data2)<<32 | uint64(name.Data1)

	status, _, _ := procRtlQueryWnfStateData.Call(
		uintptr(unsafe.Pointer(&changeStamp)),
		uintptr(packed), // WNF_STATE_NAME is passed by value here
		queryCallback,
		uintptr(unsafe.Pointer(&ctx)),
		0, // TypeId
	)
	if status != 0 || !ctx.ok {
		return 0, false, nil
	}
	return ctx.blob, true, nil
}

// UpdateStateData writes an 8-byte payload to name via NtUpdateWnfStateData.
// No type qualifier, no explicit scope, and no changestamp precondition
// (MatchingChangeStamp=0, CheckStamp=0): the write is unconditional and the
// last writer wins. The raw NTSTATUS is returned; zero means success, and the
// most common non-zero outcome is a privilege rejection when the caller is
// not running as SYSTEM. err is non-nil only when the call could not be
// issued at all.
func UpdateStateData(name StateName, blob uint64) (status windows.NTStatus, err error) {
	if ferr := procNtUpdateWnfStateData.Find(); ferr != nil {
		return 0, errors.WNFCallFailed("NtUpdateWnfStateData", ferr)
	}

	r, _, _ := procNtUpdateWnfStateData.Call(
		uintptr(unsafe.Pointer(&name)),
		uintptr(unsafe.Pointer(&blob)),
		PayloadSize,
		0, // TypeId
		0, // ExplicitScope
		0, // MatchingChangeStamp
		0, // CheckStamp
	)
	return windows.NTStatus(r), nil
}
