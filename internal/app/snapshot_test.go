package app

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gones/internal/cartridge"
)

func TestCPUSnapshotAfterReset(t *testing.T) {
	cart, err := cartridge.LoadFromReader(bytes.NewReader(minimalNROM()), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	m := New(cart, nil)

	got := m.CPUSnapshot()
	want := CPUState{
		PC:     0x8000,
		SP:     0xFD,
		Cycles: 7,
		Flags:  CPUFlags{I: true, B: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CPUSnapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestPPUSnapshotAfterReset(t *testing.T) {
	cart, err := cartridge.LoadFromReader(bytes.NewReader(minimalNROM()), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	m := New(cart, nil)

	got := m.PPUSnapshot()
	want := PPUState{Scanline: 261, Dot: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("PPUSnapshot() mismatch (-want +got):\n%s", diff)
	}
}
