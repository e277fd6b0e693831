package conv

import "testing"

func TestU8Hex(t *testing.T) {
	var b [4]byte
	cases := map[uint8]string{0x00: "0x00", 0x1F: "0x1F", 0x6E: "0x6E", 0xFF: "0xFF"}
	for n, want := range cases {
		if got := string(U8Hex(b[:], n)); got != want {
			t.Fatalf("U8Hex(%d) = %q, want %q", n, got, want)
		}
	}
	if got := U8Hex(b[:3], 1); len(got) != 0 {
		t.Fatalf("short buffer should yield empty slice, got %q", got)
	}
}

func TestItoaUtoa(t *testing.T) {
	var b [20]byte
	if got := string(Itoa(b[:], -2700)); got != "-2700" {
		t.Fatalf("Itoa = %q", got)
	}
	if got := string(Itoa(b[:], 0)); got != "0" {
		t.Fatalf("Itoa(0) = %q", got)
	}
	if got := string(Utoa(b[:], 3599)); got != "3599" {
		t.Fatalf("Utoa = %q", got)
	}
}

func TestU32Hex(t *testing.T) {
	var b [8]byte
	if got := string(U32Hex(b[:], 0xC602)); got != "0000C602" {
		t.Fatalf("U32Hex = %q", got)
	}
}
