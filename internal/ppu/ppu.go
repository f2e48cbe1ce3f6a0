// Package ppu implements the NES Picture Processing Unit: a
// 341-dot x 262-scanline pipeline that fetches background tiles and
// evaluates sprites in lockstep with pixel output, producing a
// 256x240 frame buffer of 6-bit palette indices.
package ppu

// VRAM is the PPU-side 14-bit address space: pattern tables (mapper),
// nametables, and palette RAM. It is implemented by the bus.
type VRAM interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

const (
	screenWidth  = 256
	screenHeight = 240
)

// PPU is the dot-stepped rendering pipeline.
type PPU struct {
	vram VRAM

	// Registers
	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	// Loopy scroll state
	v, t  uint16
	fineX uint8
	w     bool

	dataBuffer uint8

	oam [256]uint8

	// Timing
	scanline int // 0-261, 261 = pre-render
	dot      int // 0-340
	oddFrame bool

	nmiPending bool

	// Background pipeline
	ntByte, atByte, ptLo, ptHi uint8
	bgShiftLo, bgShiftHi       uint16
	atShiftLo, atShiftHi       uint16

	// Sprite pipeline (evaluated for the scanline being rendered)
	spriteCount   int
	spriteShiftLo [8]uint8
	spriteShiftHi [8]uint8
	spriteX       [8]uint8
	spriteAttr    [8]uint8
	spriteIsZero  [8]bool

	FrameBuffer [screenWidth * screenHeight]uint8
}

// New creates a PPU reading/writing through vram.
func New(vram VRAM) *PPU {
	p := &PPU{vram: vram}
	p.Reset()
	return p
}

// Reset returns the PPU to its post-power-up state: pre-render line,
// dot 0, all flags clear, even frame.
func (p *PPU) Reset() {
	p.scanline = 261
	p.dot = 0
	p.oddFrame = false
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.v, p.t, p.fineX, p.w = 0, 0, 0, false
	p.dataBuffer = 0
	p.nmiPending = false
}

// Scanline and Dot expose current timing position (used by Clock to
// detect frame completion).
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }

// NMIPending reports whether the PPU has an NMI waiting to be latched
// into the CPU. ClearNMI consumes it.
func (p *PPU) NMIPending() bool { return p.nmiPending }
func (p *PPU) ClearNMI()        { p.nmiPending = false }

func (p *PPU) renderingEnabled() bool { return p.mask&0x18 != 0 }
func (p *PPU) bgEnabled() bool        { return p.mask&0x08 != 0 }
func (p *PPU) spritesEnabled() bool   { return p.mask&0x10 != 0 }

// --- CPU-facing register access -------------------------------------------

// ReadRegister services a CPU read of $2000-$2007 (register index 0-7).
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		v := p.status&0xE0 | p.dataBuffer&0x1F
		p.status &^= 0x80
		p.w = false
		return v
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readData()
	}
	return p.dataBuffer
}

// PeekRegister is the side-effect-free equivalent used by CPU
// addressing-mode resolution and debug introspection.
func (p *PPU) PeekRegister(reg uint8) uint8 {
	switch reg & 7 {
	case 0:
		return p.ctrl
	case 2:
		return p.status&0xE0 | p.dataBuffer&0x1F
	case 4:
		return p.oam[p.oamAddr]
	default:
		return p.dataBuffer
	}
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(reg uint8, val uint8) {
	switch reg & 7 {
	case 0: // PPUCTRL
		wasNMIOut := p.ctrl&0x80 != 0
		p.ctrl = val
		p.t = p.t&0xF3FF | uint16(val&0x03)<<10
		if !wasNMIOut && p.ctrl&0x80 != 0 && p.status&0x80 != 0 {
			p.nmiPending = true
		}
	case 1: // PPUMASK
		p.mask = val
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.fineX = val & 0x07
			p.t = p.t&0xFFE0 | uint16(val>>3)
		} else {
			p.t = p.t&0x8FFF | uint16(val&0x07)<<12
			p.t = p.t&0xFC1F | uint16(val&0xF8)<<2
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.w {
			p.t = p.t&0x00FF | uint16(val&0x3F)<<8
		} else {
			p.t = p.t&0xFF00 | uint16(val)
			p.v = p.t
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.writeData(val)
	}
}

func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var ret uint8
	if addr < 0x3F00 {
		ret = p.dataBuffer
		p.dataBuffer = p.vram.Read(addr)
	} else {
		ret = p.vram.Read(addr)
		p.dataBuffer = p.vram.Read(addr - 0x1000)
	}
	p.v += p.addrIncrement()
	return ret
}

func (p *PPU) writeData(val uint8) {
	p.vram.Write(p.v&0x3FFF, val)
	p.v += p.addrIncrement()
}

// WriteOAM services $4014-driven OAM DMA: one of the 256 bytes copied
// from CPU space during the DMA transfer.
func (p *PPU) WriteOAM(index uint8, val uint8) {
	p.oam[index] = val
}

// RawOAM exposes the primary OAM table. OAM DMA does not use it; the
// bus copies bytes in through WriteOAM.
func (p *PPU) RawOAM() *[256]uint8 { return &p.oam }

// OAMAddr exposes the current OAM write pointer.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

// --- dot pipeline ------------------------------------------------------

// StepDot advances the PPU by exactly one dot.
func (p *PPU) StepDot() {
	p.processScanline()
	p.advanceDot()
}

func (p *PPU) advanceDot() {
	// Odd-frame skip: on an odd frame with rendering enabled the
	// pre-render line jumps from dot 339 straight to (0,0), so dot 340
	// is not run and the frame is one dot shorter.
	if p.scanline == 261 && p.dot == 339 && p.oddFrame && p.renderingEnabled() {
		p.dot = 0
		p.scanline = 0
		p.oddFrame = false
		return
	}
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) processScanline() {
	visible := p.scanline >= 0 && p.scanline <= 239
	preRender := p.scanline == 261

	if preRender && p.dot == 1 {
		p.status &^= 0xE0 // clear VBlank, Sprite0Hit, SpriteOverflow
		p.nmiPending = false
	}

	if (visible || preRender) && p.renderingEnabled() {
		p.runBackgroundPipeline()
	}

	if visible && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel()
	}

	if (visible || preRender) && p.renderingEnabled() {
		if p.dot == 256 {
			p.incrementY()
		}
		if p.dot == 257 {
			p.copyX()
			p.evaluateSprites()
		}
		if preRender && p.dot >= 280 && p.dot <= 304 {
			p.copyY()
		}
	}

	if p.scanline == 241 && p.dot == 1 {
		p.status |= 0x80
		if p.ctrl&0x80 != 0 {
			p.nmiPending = true
		}
	}
}

func (p *PPU) runBackgroundPipeline() {
	inFetchWindow := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if inFetchWindow {
		p.bgShiftLo <<= 1
		p.bgShiftHi <<= 1
		p.atShiftLo <<= 1
		p.atShiftHi <<= 1
		p.fetchBackgroundByte()
	}
}

func (p *PPU) fetchBackgroundByte() {
	switch p.dot % 8 {
	case 1:
		p.reloadShifters()
		ntAddr := 0x2000 | (p.v & 0x0FFF)
		p.ntByte = p.vram.Read(ntAddr)
	case 3:
		atAddr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		at := p.vram.Read(atAddr)
		shift := ((p.v >> 4) & 4) | (p.v & 2)
		p.atByte = (at >> shift) & 0x03
	case 5:
		base := uint16(0)
		if p.ctrl&0x10 != 0 {
			base = 0x1000
		}
		fineY := (p.v >> 12) & 0x07
		p.ptLo = p.vram.Read(base + uint16(p.ntByte)*16 + fineY)
	case 7:
		base := uint16(0)
		if p.ctrl&0x10 != 0 {
			base = 0x1000
		}
		fineY := (p.v >> 12) & 0x07
		p.ptHi = p.vram.Read(base + uint16(p.ntByte)*16 + fineY + 8)
		p.incrementX()
	}
}

func (p *PPU) reloadShifters() {
	p.bgShiftLo = p.bgShiftLo&0xFF00 | uint16(p.ptLo)
	p.bgShiftHi = p.bgShiftHi&0xFF00 | uint16(p.ptHi)
	lo := uint16(0)
	hi := uint16(0)
	if p.atByte&0x01 != 0 {
		lo = 0xFF
	}
	if p.atByte&0x02 != 0 {
		hi = 0xFF
	}
	p.atShiftLo = p.atShiftLo&0xFF00 | lo
	p.atShiftHi = p.atShiftHi&0xFF00 | hi
}

func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&^uint16(0x03E0) | y<<5
}

func (p *PPU) copyX() {
	p.v = p.v&0xFBE0 | p.t&0x041F
}

func (p *PPU) copyY() {
	p.v = p.v&0x841F | p.t&0x7BE0
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// spriteHeight returns 8 or 16 per PPUCTRL bit 5.
func (p *PPU) spriteHeight() int {
	if p.ctrl&0x20 != 0 {
		return 16
	}
	return 8
}

func (p *PPU) evaluateSprites() {
	nextScanline := p.scanline + 1
	height := p.spriteHeight()

	count := 0
	for i := 0; i < 64 && count < 8; i++ {
		y := int(p.oam[i*4]) + 1
		if nextScanline < y || nextScanline >= y+height {
			continue
		}
		tile := p.oam[i*4+1]
		attr := p.oam[i*4+2]
		x := p.oam[i*4+3]

		row := nextScanline - y
		if attr&0x80 != 0 { // vertical flip
			row = height - 1 - row
		}

		var patternAddr uint16
		if height == 16 {
			table := uint16(tile&0x01) * 0x1000
			tileIndex := uint16(tile &^ 0x01)
			if row >= 8 {
				tileIndex++
				row -= 8
			}
			patternAddr = table + tileIndex*16 + uint16(row)
		} else {
			table := uint16(0)
			if p.ctrl&0x08 != 0 {
				table = 0x1000
			}
			patternAddr = table + uint16(tile)*16 + uint16(row)
		}

		lo := p.vram.Read(patternAddr)
		hi := p.vram.Read(patternAddr + 8)
		if attr&0x40 != 0 { // horizontal flip
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.spriteShiftLo[count] = lo
		p.spriteShiftHi[count] = hi
		p.spriteX[count] = x
		p.spriteAttr[count] = attr
		p.spriteIsZero[count] = i == 0
		count++
	}

	// A ninth matching sprite sets the overflow flag even though it is
	// not stored.
	for i := count; i < 64; i++ {
		y := int(p.oam[i*4]) + 1
		if nextScanline >= y && nextScanline < y+height {
			p.status |= 0x20
			break
		}
	}

	p.spriteCount = count
}

func (p *PPU) renderPixel() {
	x := p.dot - 1

	bgPixel := uint8(0)
	bgPalette := uint8(0)
	if p.bgEnabled() && !(x < 8 && p.mask&0x02 == 0) {
		mask := uint16(0x8000) >> p.fineX
		b0, b1 := uint8(0), uint8(0)
		if p.bgShiftLo&mask != 0 {
			b0 = 1
		}
		if p.bgShiftHi&mask != 0 {
			b1 = 1
		}
		bgPixel = b0 | b1<<1

		a0, a1 := uint8(0), uint8(0)
		if p.atShiftLo&mask != 0 {
			a0 = 1
		}
		if p.atShiftHi&mask != 0 {
			a1 = 1
		}
		bgPalette = a0 | a1<<1
	}

	spPixel := uint8(0)
	spPalette := uint8(0)
	spPriority := uint8(0)
	spIsZero := false
	spriteLeftHidden := x < 8 && p.mask&0x04 == 0
	if p.spritesEnabled() && !spriteLeftHidden {
		for i := 0; i < p.spriteCount; i++ {
			offset := x - int(p.spriteX[i])
			if offset < 0 || offset > 7 {
				continue
			}
			shift := uint(offset)
			lo := (p.spriteShiftLo[i] >> (7 - shift)) & 1
			hi := (p.spriteShiftHi[i] >> (7 - shift)) & 1
			pix := lo | hi<<1
			if pix == 0 {
				continue
			}
			spPixel = pix
			spPalette = p.spriteAttr[i]&0x03 + 4
			spPriority = (p.spriteAttr[i] >> 5) & 1
			spIsZero = p.spriteIsZero[i]
			break
		}
	}

	leftClipped := x < 8 && (p.mask&0x02 == 0 || p.mask&0x04 == 0)
	if bgPixel != 0 && spPixel != 0 && spIsZero &&
		p.bgEnabled() && p.spritesEnabled() && x != 255 && !leftClipped {
		p.status |= 0x40 // Sprite0Hit
	}

	var palette uint8
	switch {
	case bgPixel == 0 && spPixel == 0:
		palette = 0
	case bgPixel == 0:
		palette = spPalette<<2 | spPixel
	case spPixel == 0:
		palette = bgPalette<<2 | bgPixel
	case spPriority == 0:
		palette = spPalette<<2 | spPixel
	default:
		palette = bgPalette<<2 | bgPixel
	}

	p.FrameBuffer[p.scanline*screenWidth+x] = p.paletteRead(palette) & 0x3F
}

func (p *PPU) paletteRead(index uint8) uint8 {
	return p.vram.Read(0x3F00 | uint16(index))
}
