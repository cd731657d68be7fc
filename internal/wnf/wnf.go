// Package wnf provides narrow read/write access to the Windows Notification
// Facility, the OS-internal key-value state store. It is used purely as a
// key-value slot here; the facility's subscription side is not exposed.
//
// Both operations are single, non-blocking OS calls with no retry and no
// locking. Concurrent writers (this process, the kernel driver, the shell)
// race with last-write-wins semantics; the update path deliberately passes no
// changestamp precondition.
package wnf

// StateName identifies a WNF state slot: two opaque 32-bit words. State names
// are well-known constants, never computed.
type StateName struct {
	Data1 uint32
	Data2 uint32
}

// PanelDimensionsState is the state slot holding the physical panel
// dimensions (WNF_DX_INTERNAL_PANEL_DIMENSIONS). Its payload is a single
// 64-bit value, always exactly 8 bytes on the wire.
var PanelDimensionsState = StateName{Data1: 0xA3BC4875, Data2: 0x41C61629}

// PayloadSize is the only payload size this package accepts for the panel
// dimension slot. Reads returning any other byte count are treated as
// "state not set".
const PayloadSize = 8
