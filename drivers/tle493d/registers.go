package tle493d

// 7-bit I²C addresses per strapping option.
//
// Datasheets often quote 8-bit write addresses (7-bit << 1); e.g. 0x44 write
// is 0x22 here.
const (
	AddressW2B6A0 = 0x1F // most common
	AddressW2B6A1 = 0x22 // 8-bit 0x44/0x45
	AddressW2B6A2 = 0x6E
	AddressW2B6A3 = 0x44

	AddressP3B6A0 = 0x35 // most common
	AddressP3B6A1 = 0x22 // shared with W2B6-A1
	AddressP3B6A2 = 0x78 // 8-bit 0xF0/0xF1
	AddressP3B6A3 = 0x5D // 8-bit 0xBA/0xBB

	// Boards with no declared part number were strapped for one of these.
	AddressPrimary   = 0x1F
	AddressSecondary = 0x5E
)

// Register map (subset).
const (
	regBx    = 0x00 // Bx[11:4]; burst read starts here
	regMOD1  = 0x0A
	regMOD2  = 0x0B
	dataSize = 4 // Bx hi, Bx lo, By hi, By lo
)

// MOD1 / MOD2 values used by the throttle HAL.
const (
	// Master controlled mode, fast mode, low-power mode disabled.
	MOD1MasterFast = 0xC6
	// Temperature measurement disabled (0x00 enables it).
	MOD2TempOff = 0x02
)
