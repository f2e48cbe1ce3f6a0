package cpu

import "testing"

// testBus is a flat 64KiB RAM bus with no device side effects, enough
// to drive the CPU through arbitrary programs in isolation.
type testBus struct {
	mem [65536]uint8
}

func (b *testBus) Read(addr uint16) uint8  { return b.mem[addr] }
func (b *testBus) Peek(addr uint16) uint8  { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

func newTestCPU() (*CPU, *testBus) {
	bus := &testBus{}
	c := New(bus)
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0xC0
	c.Reset()
	return c, bus
}

func runToBoundary(c *CPU) {
	c.Tick()
	for c.cyclesRemaining > 0 {
		c.Tick()
	}
}

func TestResetVector(t *testing.T) {
	c, _ := newTestCPU()
	if c.PC != 0xC000 {
		t.Fatalf("PC = %#04x, want 0xC000", c.PC)
	}
	if c.Status != flagI|flagU|flagB {
		t.Fatalf("status = %#02x, want I|U|B", c.Status)
	}
	if c.TotalCycles() != 7 {
		t.Fatalf("reset should charge 7 cycles, got %d", c.TotalCycles())
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xC000] = 0x6C
	bus.mem[0xC001] = 0xFF
	bus.mem[0xC002] = 0x02
	bus.mem[0x02FF] = 0x40
	bus.mem[0x0200] = 0xC0 // NOT 0x0300, the documented wrap bug
	bus.mem[0x0300] = 0xFF
	runToBoundary(c)
	if c.PC != 0xC040 {
		t.Fatalf("PC = %#04x, want 0xC040 (page-wrap bug)", c.PC)
	}
}

func TestPHPPLPRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.A, c.X, c.Y = 0x11, 0x22, 0x33
	c.setFlag(flagC, true)
	c.setFlag(flagN, true)
	before := c.Status
	bus.mem[0xC000] = 0x08 // PHP
	bus.mem[0xC001] = 0x28 // PLP
	runToBoundary(c)
	runToBoundary(c)
	// PLP ignores the Break bit on the stack and leaves it clear in the
	// register, so every bit except Break must round-trip.
	if c.Status&^flagB != before&^flagB {
		t.Fatalf("status after PHP/PLP = %#02x, want %#02x (Break ignored)", c.Status, before)
	}
	if c.A != 0x11 || c.X != 0x22 || c.Y != 0x33 {
		t.Fatalf("A/X/Y mutated by PHP/PLP")
	}
}

func TestCycleCountingWithPageCross(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0xFF
	bus.mem[0xC000] = 0xBD // LDA abs,X
	bus.mem[0xC001] = 0x01
	bus.mem[0xC002] = 0x02 // base 0x0201 + 0xFF = 0x0300, page cross
	bus.mem[0x0300] = 0x42
	start := c.TotalCycles()
	runToBoundary(c)
	if c.TotalCycles()-start != 5 {
		t.Fatalf("LDA abs,X with page cross took %d cycles, want 5", c.TotalCycles()-start)
	}
	if c.A != 0x42 {
		t.Fatalf("A = %#02x, want 0x42", c.A)
	}
}

func TestBranchTakenAndPageCrossPenalty(t *testing.T) {
	c, bus := newTestCPU()
	c.setFlag(flagZ, true)
	bus.mem[0xC000] = 0xF0 // BEQ
	bus.mem[0xC001] = 0x80 // -128 from $C002 lands on $BF82, the previous page
	start := c.TotalCycles()
	runToBoundary(c)
	if c.TotalCycles()-start != 4 {
		t.Fatalf("branch taken + page cross took %d cycles, want 4", c.TotalCycles()-start)
	}
}

func TestNMIServicedAtInstructionBoundary(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFA] = 0x00
	bus.mem[0xFFFB] = 0xD0
	bus.mem[0xC000] = 0xEA // NOP
	bus.mem[0xC001] = 0xEA
	c.SetNMI()
	runToBoundary(c) // the pending NMI is serviced before the NOP is fetched
	if c.PC != 0xD000 {
		t.Fatalf("PC after NMI = %#04x, want 0xD000", c.PC)
	}
}

func TestUndocumentedLAX(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xC000] = 0xA7 // LAX zp
	bus.mem[0xC001] = 0x10
	bus.mem[0x0010] = 0x77
	runToBoundary(c)
	if c.A != 0x77 || c.X != 0x77 {
		t.Fatalf("LAX: A=%#02x X=%#02x, want both 0x77", c.A, c.X)
	}
}
