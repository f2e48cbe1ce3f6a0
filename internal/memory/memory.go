// Package memory implements the bus: CPU and PPU address decoding,
// internal RAM, nametable/palette storage, controller I/O, and OAM DMA.
package memory

import "gones/internal/cartridge"

// PPU is the subset of the PPU's register interface the bus drives.
type PPU interface {
	ReadRegister(reg uint8) uint8
	PeekRegister(reg uint8) uint8
	WriteRegister(reg uint8, val uint8)
	WriteOAM(index uint8, val uint8)
}

// Cartridge is the subset of cartridge.Cartridge the bus needs.
type Cartridge interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, val uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)
	GetMirrorMode() cartridge.MirrorMode
}

// Controller is the subset of input.Controller the bus drives.
type Controller interface {
	Read() uint8
	Write(val uint8)
}

// Stallable is implemented by the CPU; OAM DMA stalls it for 513 cycles.
type Stallable interface {
	Stall(n int)
}

// Bus is the CPU-side address space: internal RAM, PPU register
// window, controller ports, OAM DMA trigger, and cartridge delegation.
// The PPU-side 14-bit address space is served to the PPU as ppu.VRAM
// through the PPUBus view returned by VRAM.
type Bus struct {
	ram [0x800]uint8

	ppu  PPU
	cart Cartridge
	cpu  Stallable

	controller1 Controller
	controller2 Controller

	vram       [0x800]uint8 // nametable RAM: two logical 1 KiB tables, mirrored per cartridge
	paletteRAM [32]uint8
}

// New creates a Bus wired to cart. The PPU is wired separately with
// SetPPU, since the PPU itself is constructed from this Bus's VRAM
// view; SetCPU and SetControllers must likewise be called before OAM
// DMA or controller I/O are exercised.
func New(cart Cartridge) *Bus {
	b := &Bus{cart: cart}
	for i := 0; i < 32; i += 4 {
		b.paletteRAM[i] = 0x0F
	}
	return b
}

// SetPPU wires the PPU register/OAM interface.
func (b *Bus) SetPPU(ppu PPU) { b.ppu = ppu }

// SetCPU wires the CPU so OAM DMA can stall it.
func (b *Bus) SetCPU(cpu Stallable) { b.cpu = cpu }

// SetControllers wires the two controller ports.
func (b *Bus) SetControllers(c1, c2 Controller) {
	b.controller1 = c1
	b.controller2 = c2
}

// Read performs a CPU-side read, including any device side effects
// (PPU register reads may clear flags or advance internal pointers).
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(uint8(addr & 0x0007))
	case addr == 0x4016:
		if b.controller1 != nil {
			return b.controller1.Read()
		}
		return 0
	case addr == 0x4017:
		return 0
	case addr < 0x4020:
		return 0 // APU/expansion: open-bus
	default:
		return b.cart.ReadPRG(addr)
	}
}

// Peek is Read without side effects, used by the CPU to resolve store
// addresses. PPU registers expose a side-effect-free variant; RAM,
// controllers (stateless here beyond the shift already consumed by a
// real read) and the cartridge have none to avoid.
func (b *Bus) Peek(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.PeekRegister(uint8(addr & 0x0007))
	case addr == 0x4016 || addr == 0x4017:
		return 0
	case addr < 0x4020:
		return 0
	default:
		return b.cart.ReadPRG(addr)
	}
}

// Write performs a CPU-side write.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = val
	case addr < 0x4000:
		b.ppu.WriteRegister(uint8(addr&0x0007), val)
	case addr == 0x4014:
		b.oamDMA(val)
	case addr == 0x4016:
		if b.controller1 != nil {
			b.controller1.Write(val)
		}
		if b.controller2 != nil {
			b.controller2.Write(val)
		}
	case addr < 0x4020:
		// $4000-$4013, $4015, $4017 (APU), $4018-$401F: ignored.
	default:
		b.cart.WritePRG(addr, val)
	}
}

// oamDMA copies 256 bytes from CPU page (page<<8) into PPU OAM and
// stalls the CPU for 513 cycles.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAM(uint8(i), b.Read(base+uint16(i)))
	}
	if b.cpu != nil {
		b.cpu.Stall(513)
	}
}

// ---- PPU-side 14-bit address space (ppu.VRAM) ----

// PeekVRAM is the side-effect-free equivalent of ReadVRAM, exposed for
// debug introspection; the PPU-side store has no read side effects of
// its own, so this is currently identical to ReadVRAM.
func (b *Bus) PeekVRAM(addr uint16) uint8 { return b.ReadVRAM(addr) }

// ReadVRAM performs a PPU-side read: pattern tables, nametables with
// mirroring, or palette RAM.
func (b *Bus) ReadVRAM(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return b.cart.ReadCHR(addr)
	case addr < 0x3F00:
		return b.vram[b.nametableIndex(addr)]
	default:
		return b.paletteRAM[b.paletteIndex(addr)]
	}
}

// WriteVRAM performs a PPU-side write.
func (b *Bus) WriteVRAM(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		b.cart.WriteCHR(addr, val)
	case addr < 0x3F00:
		b.vram[b.nametableIndex(addr)] = val
	default:
		b.paletteRAM[b.paletteIndex(addr)] = val
	}
}

// PPUBus adapts a Bus to ppu.VRAM: the PPU's Read/Write take 14-bit
// addresses, distinct from the CPU-side Bus.Read/Bus.Write above, so
// the two sides get separate method sets on separate types.
type PPUBus struct{ bus *Bus }

// VRAM returns the PPU-side view of b.
func (b *Bus) VRAM() *PPUBus { return &PPUBus{bus: b} }

func (v *PPUBus) Read(addr uint16) uint8        { return v.bus.ReadVRAM(addr) }
func (v *PPUBus) Write(addr uint16, val uint8) { v.bus.WriteVRAM(addr, val) }

// nametableIndex maps a $2000-$3EFF address to one of the two physical
// 1 KiB nametables per the cartridge's mirroring mode.
func (b *Bus) nametableIndex(addr uint16) uint16 {
	offset := (addr - 0x2000) & 0x0FFF
	table := offset >> 10
	within := offset & 0x03FF

	var physical uint16
	switch b.cart.GetMirrorMode() {
	case cartridge.MirrorVertical:
		physical = table & 0x01
	case cartridge.MirrorSingleScreen0:
		physical = 0
	case cartridge.MirrorSingleScreen1:
		physical = 1
	case cartridge.MirrorFourScreen:
		physical = table % 2 // four-screen needs 4 KiB VRAM; approximate with 2 within our 2 KiB store
	default: // MirrorHorizontal
		physical = table >> 1
	}
	return physical*0x400 + within
}

// paletteIndex maps a $3F00-$3FFF address to one of 32 palette entries,
// collapsing the four background-color aliases.
func (b *Bus) paletteIndex(addr uint16) uint16 {
	index := (addr - 0x3F00) & 0x1F
	if index&0x03 == 0 {
		index = 0
	}
	return index
}
