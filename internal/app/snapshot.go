package app

// CPUFlags decodes the status register's individual flags for
// introspection (tests, CLI stats output) without exposing the raw
// bitmask everywhere a caller wants one flag.
type CPUFlags struct {
	N, V, B, D, I, Z, C bool
}

// CPUState is a read-only snapshot of the CPU's visible registers.
type CPUState struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	Cycles  uint64
	Flags   CPUFlags
}

// PPUState is a read-only snapshot of the PPU's timing position and a
// few commonly-inspected status bits.
type PPUState struct {
	Scanline   int
	Dot        int
	VBlank     bool
	NMIEnabled bool
}

const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

// CPUSnapshot reports the current CPU register state.
func (m *Machine) CPUSnapshot() CPUState {
	status := m.CPU.Status
	return CPUState{
		PC:     m.CPU.PC,
		A:      m.CPU.A,
		X:      m.CPU.X,
		Y:      m.CPU.Y,
		SP:     m.CPU.SP,
		Cycles: m.CPU.TotalCycles(),
		Flags: CPUFlags{
			N: status&flagN != 0,
			V: status&flagV != 0,
			B: status&flagB != 0,
			D: status&flagD != 0,
			I: status&flagI != 0,
			Z: status&flagZ != 0,
			C: status&flagC != 0,
		},
	}
}

// PPUSnapshot reports the current PPU timing/status state. reg 0 is
// PPUCTRL, reg 2 is PPUSTATUS; both are read with the side-effect-free
// peek so introspection never perturbs emulation.
func (m *Machine) PPUSnapshot() PPUState {
	ctrl := m.PPU.PeekRegister(0)
	status := m.PPU.PeekRegister(2)
	return PPUState{
		Scanline:   m.PPU.Scanline(),
		Dot:        m.PPU.Dot(),
		VBlank:     status&0x80 != 0,
		NMIEnabled: ctrl&0x80 != 0,
	}
}
