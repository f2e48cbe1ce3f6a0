// Package cpu implements the 6502-family CPU core (the NES's "2A03",
// decimal mode present in the flags but never applied to arithmetic).
package cpu

// Bus is the memory interface the CPU drives. Read performs any
// register side effects the target device defines (e.g. PPUSTATUS
// clearing VBlank); Peek must never trigger such side effects and is
// used when resolving the address of a store so the resolution itself
// cannot corrupt device state.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	Peek(addr uint16) uint8
}

// AddressMode tags how an instruction's operand address is resolved.
type AddressMode uint8

const (
	Implied AddressMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// opFunc executes the opcode's action given the already-resolved
// operand address. It returns the number of extra cycles to add on
// top of the instruction's base cycle count; only branches return a
// nonzero value (taken-branch and page-cross penalties).
type opFunc func(c *CPU, addr uint16, mode AddressMode) int

// instruction is one of the 256 decode table entries.
type instruction struct {
	name   string
	bytes  uint8
	cycles uint8
	mode   AddressMode
	op     opFunc
	// pageCross marks instructions that charge an extra cycle when
	// address resolution crosses a page boundary (loads and reads,
	// never stores or RMW).
	pageCross bool
}

const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

// CPU is the tick-based 6502 state machine. A single call to Tick
// advances exactly one cycle; there is no other place instruction
// execution happens.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Status  uint8

	bus Bus

	cyclesRemaining int
	totalCycles     uint64
	stallCycles     int

	nmiPending bool
	irqLine    bool

	curOpcode uint8
	curAddr   uint16
	curMode   AddressMode
	curExtra  int
}

// New creates a CPU wired to bus. Reset must be called before use.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset sets the CPU to its post-reset state: PC loaded from the reset
// vector, SP decremented by 3 (as the real 6502 does, three phantom
// stack writes with the R/W line suppressed), status $34 (I=1, U=1,
// B=1), and charges the 7-cycle reset sequence up front so TotalCycles
// accounting stays consistent with a freshly booted machine.
func (c *CPU) Reset() {
	lo := uint16(c.bus.Peek(0xFFFC))
	hi := uint16(c.bus.Peek(0xFFFD))
	c.PC = hi<<8 | lo
	c.SP -= 3
	c.Status = flagI | flagU | flagB
	c.cyclesRemaining = 0
	c.stallCycles = 0
	c.nmiPending = false
	c.irqLine = false
	c.totalCycles += 7
}

// Stall adds n cycles during which Tick performs no instruction work;
// used by OAM DMA.
func (c *CPU) Stall(n int) {
	c.stallCycles += n
}

// SetNMI raises the NMI latch. It is edge-sensitive from the caller's
// perspective: call it once per assertion, and it stays pending until
// serviced at the next instruction boundary.
func (c *CPU) SetNMI() {
	c.nmiPending = true
}

// SetIRQLine sets the level-sensitive IRQ line state.
func (c *CPU) SetIRQLine(asserted bool) {
	c.irqLine = asserted
}

// TotalCycles returns the number of cycles executed since construction.
func (c *CPU) TotalCycles() uint64 { return c.totalCycles }

func (c *CPU) getFlag(f uint8) bool { return c.Status&f != 0 }

func (c *CPU) setFlag(f uint8, v bool) {
	if v {
		c.Status |= f
	} else {
		c.Status &^= f
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, v&0x80 != 0)
}

func (c *CPU) push(v uint8) {
	c.bus.Write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(0x0100 | uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// Tick advances the CPU by exactly one cycle.
func (c *CPU) Tick() {
	if c.stallCycles > 0 {
		c.stallCycles--
		c.totalCycles++
		return
	}
	if c.cyclesRemaining == 0 {
		c.startInstruction()
	}
	c.cyclesRemaining--
	c.totalCycles++
}

func (c *CPU) startInstruction() {
	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(0xFFFA, false)
		return
	}
	if c.irqLine && !c.getFlag(flagI) {
		c.serviceInterrupt(0xFFFE, false)
		return
	}

	opcode := c.bus.Read(c.PC)
	c.PC++
	ins := &decodeTable[opcode]
	c.curOpcode = opcode
	c.curMode = ins.mode

	addr, pageCrossed := c.resolveAddress(ins.mode, isStoreOnly(opcode))
	c.curAddr = addr

	extra := 0
	if pageCrossed && ins.pageCross {
		extra++
	}
	extra += ins.op(c, addr, ins.mode)

	c.cyclesRemaining = int(ins.cycles) + extra
}

func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.pushWord(c.PC)
	status := c.Status | flagU
	if brk {
		status |= flagB
	} else {
		status &^= flagB
	}
	c.push(status)
	c.setFlag(flagI, true)
	lo := uint16(c.bus.Read(vector))
	hi := uint16(c.bus.Read(vector + 1))
	c.PC = hi<<8 | lo
	c.cyclesRemaining = 7
}

// isStoreOnly reports whether an opcode only ever writes its resolved
// address (never reads it as part of forming the value it acts on).
// Address resolution for these must use Peek so it can never trip a
// device read side-effect (e.g. a PPU register).
func isStoreOnly(opcode uint8) bool {
	switch opcode {
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91, // STA
		0x86, 0x96, 0x8E, // STX
		0x84, 0x94, 0x8C, // STY
		0x87, 0x97, 0x8F, 0x83: // SAX
		return true
	}
	return false
}

// resolveAddress computes the operand address for mode, returning
// whether resolution crossed a page boundary. peekOnly forces
// side-effect-free reads for indexed/indirect resolution steps.
func (c *CPU) resolveAddress(mode AddressMode, peekOnly bool) (uint16, bool) {
	rd := c.bus.Read
	if peekOnly {
		rd = c.bus.Peek
	}
	switch mode {
	case Implied, Accumulator:
		return 0, false
	case Immediate:
		addr := c.PC
		c.PC++
		return addr, false
	case ZeroPage:
		addr := uint16(rd(c.PC))
		c.PC++
		return addr, false
	case ZeroPageX:
		addr := uint16(rd(c.PC)+c.X) & 0xFF
		c.PC++
		return addr, false
	case ZeroPageY:
		addr := uint16(rd(c.PC)+c.Y) & 0xFF
		c.PC++
		return addr, false
	case Relative:
		off := int8(rd(c.PC))
		c.PC++
		addr := uint16(int32(c.PC) + int32(off))
		crossed := addr&0xFF00 != c.PC&0xFF00
		return addr, crossed
	case Absolute:
		lo := uint16(rd(c.PC))
		hi := uint16(rd(c.PC + 1))
		c.PC += 2
		return hi<<8 | lo, false
	case AbsoluteX:
		lo := uint16(rd(c.PC))
		hi := uint16(rd(c.PC + 1))
		c.PC += 2
		base := hi<<8 | lo
		addr := base + uint16(c.X)
		return addr, addr&0xFF00 != base&0xFF00
	case AbsoluteY:
		lo := uint16(rd(c.PC))
		hi := uint16(rd(c.PC + 1))
		c.PC += 2
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		return addr, addr&0xFF00 != base&0xFF00
	case Indirect:
		lo := uint16(rd(c.PC))
		hi := uint16(rd(c.PC + 1))
		c.PC += 2
		ptr := hi<<8 | lo
		// Documented page-wrap bug: if the pointer's low byte is
		// 0xFF, the high byte is fetched from the same page, not
		// the next.
		loAddr := ptr
		hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
		rlo := uint16(rd(loAddr))
		rhi := uint16(rd(hiAddr))
		return rhi<<8 | rlo, false
	case IndexedIndirect:
		zp := rd(c.PC) + c.X
		c.PC++
		lo := uint16(rd(uint16(zp)))
		hi := uint16(rd(uint16(zp + 1)))
		return hi<<8 | lo, false
	case IndirectIndexed:
		zp := rd(c.PC)
		c.PC++
		lo := uint16(rd(uint16(zp)))
		hi := uint16(rd(uint16(zp + 1)))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		return addr, addr&0xFF00 != base&0xFF00
	}
	return 0, false
}

func (c *CPU) operand(addr uint16, mode AddressMode) uint8 {
	if mode == Accumulator {
		return c.A
	}
	return c.bus.Read(addr)
}

func (c *CPU) storeResult(addr uint16, mode AddressMode, v uint8) {
	if mode == Accumulator {
		c.A = v
		return
	}
	c.bus.Write(addr, v)
}
