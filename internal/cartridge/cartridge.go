// Package cartridge implements iNES ROM loading and the cartridge
// mapper abstraction: bank-switched PRG/CHR access behind a small,
// common operation set.
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// MirrorMode is the nametable mirroring strategy a cartridge declares
// (or, for MMC1, can change at runtime via its control register).
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// Mapper is the polymorphic cartridge bank-switching contract: four
// operations, address parameters are the original CPU/PPU addresses,
// and the mapper owns all bank translation.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, val uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)
}

// mirrorSource is implemented by mappers whose control register can
// override the header-declared mirroring mode at runtime (MMC1).
type mirrorSource interface {
	MirrorMode() MirrorMode
}

// Cartridge owns the loaded ROM image, the PRG-RAM, the CHR store
// (ROM, or 8 KiB of RAM when the header declares no CHR banks) and the
// active mapper. NROM and CNROM index into that CHR store; MMC1 and
// UxROM serve CHR-RAM from their own arrays.
type Cartridge struct {
	prgROM []uint8
	chrROM []uint8

	mapperID uint8
	mapper   Mapper

	mirror MirrorMode

	hasBattery bool
	sram       [0x2000]uint8

	hasCHRRAM bool
}

var (
	// ErrBadHeader reports a file that is not a well-formed iNES image.
	ErrBadHeader = errors.New("cartridge: not an iNES file (bad magic)")
	// ErrEmptyPRG reports a header declaring zero PRG banks.
	ErrEmptyPRG = errors.New("cartridge: PRG ROM size cannot be zero")
)

// iNESHeader is the 16-byte header every iNES file starts with.
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // 16 KiB units
	CHRROMSize uint8 // 8 KiB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8
	TVSystem1  uint8
	TVSystem2  uint8
	Padding    [5]uint8
}

// LoadFromFile loads a cartridge from an iNES file on disk. logger may
// be nil, in which case fallback warnings (unsupported mapper ID) are
// discarded. forceID, if non-negative, overrides the header-declared
// mapper ID, for ROMs with a malformed or absent header.
func LoadFromFile(filename string, forceID int, logger logrus.FieldLogger) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cartridge: open %s: %w", filename, err)
	}
	defer file.Close()

	return LoadFromReader(file, forceID, logger)
}

// LoadFromReader parses an iNES image from r and constructs the
// appropriate Mapper for its declared mapper ID, or for forceID when
// forceID is non-negative.
func LoadFromReader(r io.Reader, forceID int, logger logrus.FieldLogger) (*Cartridge, error) {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("cartridge: read header: %w", err)
	}
	if string(header.Magic[:]) != "NES\x1A" {
		return nil, ErrBadHeader
	}
	if header.PRGROMSize == 0 {
		return nil, ErrEmptyPRG
	}

	mapperID := (header.Flags6 >> 4) | (header.Flags7 & 0xF0)
	if forceID >= 0 {
		logger.WithFields(logrus.Fields{"header_mapper_id": mapperID, "forced_mapper_id": forceID}).
			Info("overriding header mapper ID")
		mapperID = uint8(forceID)
	}

	cart := &Cartridge{
		mapperID:   mapperID,
		hasBattery: header.Flags6&0x02 != 0,
	}

	switch {
	case header.Flags6&0x08 != 0:
		cart.mirror = MirrorFourScreen
	case header.Flags6&0x01 != 0:
		cart.mirror = MirrorVertical
	default:
		cart.mirror = MirrorHorizontal
	}

	if header.Flags6&0x04 != 0 {
		trainer := make([]uint8, 512)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, fmt.Errorf("cartridge: read trainer: %w", err)
		}
	}

	cart.prgROM = make([]uint8, int(header.PRGROMSize)*16384)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, fmt.Errorf("cartridge: read PRG ROM: %w", err)
	}

	chrSize := int(header.CHRROMSize) * 8192
	if chrSize > 0 {
		cart.chrROM = make([]uint8, chrSize)
		if _, err := io.ReadFull(r, cart.chrROM); err != nil {
			return nil, fmt.Errorf("cartridge: read CHR ROM: %w", err)
		}
	} else {
		cart.hasCHRRAM = true
		cart.chrROM = make([]uint8, 8192)
	}

	cart.mapper = createMapper(cart.mapperID, cart, logger)
	return cart, nil
}

// createMapper builds the Mapper for id, falling back to NROM (with a
// logged warning) for any ID outside the four supported variants.
func createMapper(id uint8, cart *Cartridge, logger logrus.FieldLogger) Mapper {
	switch id {
	case 0:
		return NewMapper000(cart)
	case 1:
		return NewMapper001(cart)
	case 2:
		return NewMapper002(cart)
	case 3:
		return NewMapper003(cart)
	default:
		logger.WithField("mapper_id", id).Warn("unsupported mapper, falling back to NROM")
		return NewMapper000(cart)
	}
}

func (c *Cartridge) ReadPRG(addr uint16) uint8  { return c.mapper.ReadPRG(addr) }
func (c *Cartridge) WritePRG(addr uint16, v uint8) { c.mapper.WritePRG(addr, v) }
func (c *Cartridge) ReadCHR(addr uint16) uint8  { return c.mapper.ReadCHR(addr) }
func (c *Cartridge) WriteCHR(addr uint16, v uint8) { c.mapper.WriteCHR(addr, v) }

// GetMirrorMode returns the cartridge's current nametable mirroring
// mode: the header-declared mode, unless the active mapper overrides
// it at runtime (MMC1's control register).
func (c *Cartridge) GetMirrorMode() MirrorMode {
	if ms, ok := c.mapper.(mirrorSource); ok {
		return ms.MirrorMode()
	}
	return c.mirror
}

// MapperID returns the iNES mapper number this cartridge was loaded with.
func (c *Cartridge) MapperID() uint8 { return c.mapperID }
