package cartridge

import (
	"bytes"
	"testing"
)

// buildINES assembles a minimal iNES image: header + prg + chr, no
// trainer, mapperID encoded across flags 6/7.
func buildINES(mapperID uint8, prgBanks, chrBanks int, prg, chr []uint8) []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.WriteByte(uint8(prgBanks))
	buf.WriteByte(uint8(chrBanks))
	buf.WriteByte(mapperID << 4)
	buf.WriteByte(mapperID & 0xF0)
	buf.Write(make([]byte, 8)) // PRGRAM size + TV system + padding

	prgData := make([]byte, prgBanks*16384)
	copy(prgData, prg)
	buf.Write(prgData)

	if chrBanks > 0 {
		chrData := make([]byte, chrBanks*8192)
		copy(chrData, chr)
		buf.Write(chrData)
	}
	return buf.Bytes()
}

func TestNROM16KiBMirror(t *testing.T) {
	prg := make([]uint8, 16384)
	prg[0x2000] = 0x99 // offset within the single 16 KiB bank
	data := buildINES(0, 1, 1, prg, nil)

	cart, err := LoadFromReader(bytes.NewReader(data), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if got := cart.ReadPRG(0xA000); got != 0x99 {
		t.Fatalf("ReadPRG($A000) = %#02x, want 0x99", got)
	}
	if got := cart.ReadPRG(0xE000); got != 0x99 {
		t.Fatalf("ReadPRG($E000) = %#02x, want 0x99 (mirrored from $A000)", got)
	}
}

func TestBadHeaderRejected(t *testing.T) {
	data := append([]byte("XXXX"), make([]byte, 12)...)
	if _, err := LoadFromReader(bytes.NewReader(data), -1, nil); err != ErrBadHeader {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestEmptyPRGRejected(t *testing.T) {
	data := buildINES(0, 0, 0, nil, nil)
	// buildINES writes a zero PRG size which must be rejected before
	// any further parsing, regardless of CHR contents.
	if _, err := LoadFromReader(bytes.NewReader(data), -1, nil); err != ErrEmptyPRG {
		t.Fatalf("err = %v, want ErrEmptyPRG", err)
	}
}

func TestForceIDOverridesHeaderMapper(t *testing.T) {
	prg := make([]uint8, 16384)
	data := buildINES(1, 1, 1, prg, nil) // header declares MMC1

	cart, err := LoadFromReader(bytes.NewReader(data), 0, nil) // force NROM
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cart.MapperID() != 0 {
		t.Fatalf("MapperID() = %d, want 0 (forced)", cart.MapperID())
	}
	if _, ok := cart.mapper.(*Mapper000); !ok {
		t.Fatalf("mapper = %T, want *Mapper000", cart.mapper)
	}
}

func TestUnsupportedMapperFallsBackToNROM(t *testing.T) {
	prg := make([]uint8, 16384)
	prg[0] = 0x42
	data := buildINES(200, 1, 1, prg, nil)

	cart, err := LoadFromReader(bytes.NewReader(data), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if _, ok := cart.mapper.(*Mapper000); !ok {
		t.Fatalf("mapper = %T, want *Mapper000 fallback", cart.mapper)
	}
}

func TestMMC1SerialShiftCommitsCHRBank0(t *testing.T) {
	data := buildINES(1, 2, 2, nil, nil)
	cart, err := LoadFromReader(bytes.NewReader(data), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	m := cart.mapper.(*Mapper001)

	// Reset the shift register, then write LSBs 1,0,0,0,1 to $A000.
	cart.WritePRG(0x8000, 0x80) // reset bit
	for _, bit := range []uint8{1, 0, 0, 0, 1} {
		cart.WritePRG(0xA000, bit)
	}

	if m.chrBank0 != 0b10001 {
		t.Fatalf("chrBank0 = %#05b, want 0b10001", m.chrBank0)
	}
}

func TestMMC1PRGFixLastBank(t *testing.T) {
	prg := make([]uint8, 16384*4)
	prg[3*16384] = 0x55 // start of the last (4th) 16 KiB bank
	data := buildINES(1, 4, 0, prg, nil)
	cart, err := LoadFromReader(bytes.NewReader(data), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	// Power-up control register (0x0C) fixes the last bank at $C000.
	if got := cart.ReadPRG(0xC000); got != 0x55 {
		t.Fatalf("ReadPRG($C000) = %#02x, want 0x55 (last bank fixed)", got)
	}
}

func TestUxROMBankSwitch(t *testing.T) {
	prg := make([]uint8, 16384*3)
	prg[0] = 0x11               // bank 0
	prg[16384] = 0x22           // bank 1
	prg[2*16384] = 0x33         // bank 2 (last, fixed at $C000)
	data := buildINES(2, 3, 0, prg, nil)
	cart, err := LoadFromReader(bytes.NewReader(data), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if got := cart.ReadPRG(0x8000); got != 0x11 {
		t.Fatalf("bank 0 at $8000 = %#02x, want 0x11", got)
	}
	cart.WritePRG(0x8000, 1)
	if got := cart.ReadPRG(0x8000); got != 0x22 {
		t.Fatalf("after bank select 1, $8000 = %#02x, want 0x22", got)
	}
	if got := cart.ReadPRG(0xC000); got != 0x33 {
		t.Fatalf("$C000 = %#02x, want 0x33 (fixed last bank)", got)
	}

	if got := cart.ReadCHR(0x0000); got != 0 {
		t.Fatalf("CHR-RAM initial read = %#02x, want 0", got)
	}
	cart.WriteCHR(0x0000, 0x7E)
	if got := cart.ReadCHR(0x0000); got != 0x7E {
		t.Fatalf("CHR-RAM read after write = %#02x, want 0x7E", got)
	}
}

func TestCNROMBankSwitch(t *testing.T) {
	chr := make([]uint8, 8192*4)
	chr[0] = 0xAA        // bank 0
	chr[3*8192] = 0xBB   // bank 3
	data := buildINES(3, 1, 4, nil, chr)
	cart, err := LoadFromReader(bytes.NewReader(data), -1, nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if got := cart.ReadCHR(0x0000); got != 0xAA {
		t.Fatalf("CHR bank 0 = %#02x, want 0xAA", got)
	}
	cart.WritePRG(0x8000, 3)
	if got := cart.ReadCHR(0x0000); got != 0xBB {
		t.Fatalf("after select 3, CHR = %#02x, want 0xBB", got)
	}
	cart.WriteCHR(0x0000, 0x99) // CHR-ROM writes are ignored
	if got := cart.ReadCHR(0x0000); got != 0xBB {
		t.Fatalf("CHR-ROM mutated by write: got %#02x", got)
	}
}
