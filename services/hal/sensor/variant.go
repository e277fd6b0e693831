package sensor

import (
	"strings"

	"throttlehal-go/drivers/as5600"
	"throttlehal-go/drivers/mt6701"
	"throttlehal-go/drivers/tle493d"
	"throttlehal-go/errcode"
	"throttlehal-go/x/conv"
)

// Address is a 7-bit I²C address.
type Address uint8

// Unbound marks "no address" (analog sensors, or not yet initialised).
const Unbound Address = 0xFF

// String renders the address as "0xNN", or "none" for Unbound.
func (a Address) String() string {
	if a == Unbound {
		return "none"
	}
	var b [4]byte
	return string(conv.U8Hex(b[:], uint8(a)))
}

// Variant is the sensor technology family.
type Variant uint8

const (
	VariantRotaryA      Variant = iota + 1 // AS5600 family
	VariantRotaryB                         // MT6701
	VariantDualAxisHall                    // TLE493D family
	VariantAnalog                          // Hall output on an ADC pin
)

func (v Variant) String() string {
	switch v {
	case VariantRotaryA:
		return "rotary_a"
	case VariantRotaryB:
		return "rotary_b"
	case VariantDualAxisHall:
		return "dual_axis_hall"
	case VariantAnalog:
		return "analog"
	default:
		return "unknown"
	}
}

// ParseVariant is the inverse of Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rotary_a":
		return VariantRotaryA, nil
	case "rotary_b":
		return VariantRotaryB, nil
	case "dual_axis_hall":
		return VariantDualAxisHall, nil
	case "analog":
		return VariantAnalog, nil
	}
	return 0, &errcode.E{C: errcode.UnknownVariant, Op: "sensor.ParseVariant", Msg: s}
}

// Candidate is one address a model may answer on.
type Candidate struct {
	Addr  Address
	Label string
}

// Model describes one supported part: its family, the addresses it may be
// strapped to (in probe order) and where to fall back when none answers.
type Model struct {
	Name       string
	Variant    Variant
	Candidates []Candidate
	Fallback   Address
}

// Built-in models, in listing order.
var models = []Model{
	{
		Name:       "as5600",
		Variant:    VariantRotaryA,
		Candidates: []Candidate{{as5600.Address, "AS5600"}},
		Fallback:   as5600.Address,
	},
	{
		Name:       "as5600l",
		Variant:    VariantRotaryA,
		Candidates: []Candidate{{as5600.AddressL, "AS5600L"}},
		Fallback:   as5600.AddressL,
	},
	// 0x06 is in the I²C reserved range; controllers that refuse reserved
	// addresses (TinyGo rp2) cannot reach this model.
	{
		Name:       "mt6701",
		Variant:    VariantRotaryB,
		Candidates: []Candidate{{mt6701.Address, "MT6701"}},
		Fallback:   mt6701.Address,
	},
	{
		Name:    "tle493d-w2b6",
		Variant: VariantDualAxisHall,
		Candidates: []Candidate{
			{tle493d.AddressW2B6A0, "W2B6-A0"},
			{tle493d.AddressW2B6A1, "W2B6-A1"},
			{tle493d.AddressW2B6A2, "W2B6-A2"},
			{tle493d.AddressW2B6A3, "W2B6-A3"},
		},
		Fallback: tle493d.AddressW2B6A0,
	},
	{
		Name:    "tle493d-p3b6",
		Variant: VariantDualAxisHall,
		Candidates: []Candidate{
			{tle493d.AddressP3B6A0, "P3B6-A0"},
			{tle493d.AddressP3B6A1, "P3B6-A1"},
			{tle493d.AddressP3B6A2, "P3B6-A2"}, // reserved 0x78: unreachable on TinyGo rp2
			{tle493d.AddressP3B6A3, "P3B6-A3"},
		},
		Fallback: tle493d.AddressP3B6A0,
	},
	{
		Name:    "tle493d",
		Variant: VariantDualAxisHall,
		Candidates: []Candidate{
			{tle493d.AddressPrimary, "primary"},
			{tle493d.AddressSecondary, "secondary"},
		},
		Fallback: tle493d.AddressPrimary,
	},
	{
		Name:     "analog",
		Variant:  VariantAnalog,
		Fallback: Unbound,
	},
}

// Lookup returns the built-in model with the given key (case-insensitive).
func Lookup(name string) (Model, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, m := range models {
		if m.Name == key {
			m.Candidates = append([]Candidate(nil), m.Candidates...)
			return m, nil
		}
	}
	return Model{}, &errcode.E{C: errcode.UnknownModel, Op: "sensor.Lookup", Msg: name}
}

// Models lists the built-in model keys.
func Models() []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.Name
	}
	return out
}
