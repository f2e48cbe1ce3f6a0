package cpu

// decodeTable is the 256-entry opcode dispatch table, built once at
// package init. Unassigned entries decode as a 2-cycle implied NOP,
// the sink for illegal opcodes.

var decodeTable [256]instruction

func entry(name string, bytes, cycles uint8, mode AddressMode, op opFunc, pageCross bool) instruction {
	return instruction{name: name, bytes: bytes, cycles: cycles, mode: mode, op: op, pageCross: pageCross}
}

func init() {
	for i := range decodeTable {
		decodeTable[i] = entry("NOP", 1, 2, Implied, opNOP, false)
	}

	set := func(op uint8, name string, bytes, cycles uint8, mode AddressMode, fn opFunc, pageCross bool) {
		decodeTable[op] = entry(name, bytes, cycles, mode, fn, pageCross)
	}

	// Loads
	set(0xA9, "LDA", 2, 2, Immediate, opLDA, false)
	set(0xA5, "LDA", 2, 3, ZeroPage, opLDA, false)
	set(0xB5, "LDA", 2, 4, ZeroPageX, opLDA, false)
	set(0xAD, "LDA", 3, 4, Absolute, opLDA, false)
	set(0xBD, "LDA", 3, 4, AbsoluteX, opLDA, true)
	set(0xB9, "LDA", 3, 4, AbsoluteY, opLDA, true)
	set(0xA1, "LDA", 2, 6, IndexedIndirect, opLDA, false)
	set(0xB1, "LDA", 2, 5, IndirectIndexed, opLDA, true)

	set(0xA2, "LDX", 2, 2, Immediate, opLDX, false)
	set(0xA6, "LDX", 2, 3, ZeroPage, opLDX, false)
	set(0xB6, "LDX", 2, 4, ZeroPageY, opLDX, false)
	set(0xAE, "LDX", 3, 4, Absolute, opLDX, false)
	set(0xBE, "LDX", 3, 4, AbsoluteY, opLDX, true)

	set(0xA0, "LDY", 2, 2, Immediate, opLDY, false)
	set(0xA4, "LDY", 2, 3, ZeroPage, opLDY, false)
	set(0xB4, "LDY", 2, 4, ZeroPageX, opLDY, false)
	set(0xAC, "LDY", 3, 4, Absolute, opLDY, false)
	set(0xBC, "LDY", 3, 4, AbsoluteX, opLDY, true)

	// Stores
	set(0x85, "STA", 2, 3, ZeroPage, opSTA, false)
	set(0x95, "STA", 2, 4, ZeroPageX, opSTA, false)
	set(0x8D, "STA", 3, 4, Absolute, opSTA, false)
	set(0x9D, "STA", 3, 5, AbsoluteX, opSTA, false)
	set(0x99, "STA", 3, 5, AbsoluteY, opSTA, false)
	set(0x81, "STA", 2, 6, IndexedIndirect, opSTA, false)
	set(0x91, "STA", 2, 6, IndirectIndexed, opSTA, false)

	set(0x86, "STX", 2, 3, ZeroPage, opSTX, false)
	set(0x96, "STX", 2, 4, ZeroPageY, opSTX, false)
	set(0x8E, "STX", 3, 4, Absolute, opSTX, false)

	set(0x84, "STY", 2, 3, ZeroPage, opSTY, false)
	set(0x94, "STY", 2, 4, ZeroPageX, opSTY, false)
	set(0x8C, "STY", 3, 4, Absolute, opSTY, false)

	// Arithmetic
	set(0x69, "ADC", 2, 2, Immediate, opADC, false)
	set(0x65, "ADC", 2, 3, ZeroPage, opADC, false)
	set(0x75, "ADC", 2, 4, ZeroPageX, opADC, false)
	set(0x6D, "ADC", 3, 4, Absolute, opADC, false)
	set(0x7D, "ADC", 3, 4, AbsoluteX, opADC, true)
	set(0x79, "ADC", 3, 4, AbsoluteY, opADC, true)
	set(0x61, "ADC", 2, 6, IndexedIndirect, opADC, false)
	set(0x71, "ADC", 2, 5, IndirectIndexed, opADC, true)

	set(0xE9, "SBC", 2, 2, Immediate, opSBC, false)
	set(0xE5, "SBC", 2, 3, ZeroPage, opSBC, false)
	set(0xF5, "SBC", 2, 4, ZeroPageX, opSBC, false)
	set(0xED, "SBC", 3, 4, Absolute, opSBC, false)
	set(0xFD, "SBC", 3, 4, AbsoluteX, opSBC, true)
	set(0xF9, "SBC", 3, 4, AbsoluteY, opSBC, true)
	set(0xE1, "SBC", 2, 6, IndexedIndirect, opSBC, false)
	set(0xF1, "SBC", 2, 5, IndirectIndexed, opSBC, true)
	set(0xEB, "SBC", 2, 2, Immediate, opSBC, false) // unofficial duplicate

	// Logical
	set(0x29, "AND", 2, 2, Immediate, opAND, false)
	set(0x25, "AND", 2, 3, ZeroPage, opAND, false)
	set(0x35, "AND", 2, 4, ZeroPageX, opAND, false)
	set(0x2D, "AND", 3, 4, Absolute, opAND, false)
	set(0x3D, "AND", 3, 4, AbsoluteX, opAND, true)
	set(0x39, "AND", 3, 4, AbsoluteY, opAND, true)
	set(0x21, "AND", 2, 6, IndexedIndirect, opAND, false)
	set(0x31, "AND", 2, 5, IndirectIndexed, opAND, true)

	set(0x09, "ORA", 2, 2, Immediate, opORA, false)
	set(0x05, "ORA", 2, 3, ZeroPage, opORA, false)
	set(0x15, "ORA", 2, 4, ZeroPageX, opORA, false)
	set(0x0D, "ORA", 3, 4, Absolute, opORA, false)
	set(0x1D, "ORA", 3, 4, AbsoluteX, opORA, true)
	set(0x19, "ORA", 3, 4, AbsoluteY, opORA, true)
	set(0x01, "ORA", 2, 6, IndexedIndirect, opORA, false)
	set(0x11, "ORA", 2, 5, IndirectIndexed, opORA, true)

	set(0x49, "EOR", 2, 2, Immediate, opEOR, false)
	set(0x45, "EOR", 2, 3, ZeroPage, opEOR, false)
	set(0x55, "EOR", 2, 4, ZeroPageX, opEOR, false)
	set(0x4D, "EOR", 3, 4, Absolute, opEOR, false)
	set(0x5D, "EOR", 3, 4, AbsoluteX, opEOR, true)
	set(0x59, "EOR", 3, 4, AbsoluteY, opEOR, true)
	set(0x41, "EOR", 2, 6, IndexedIndirect, opEOR, false)
	set(0x51, "EOR", 2, 5, IndirectIndexed, opEOR, true)

	// Shifts/rotates
	set(0x0A, "ASL", 1, 2, Accumulator, opASL, false)
	set(0x06, "ASL", 2, 5, ZeroPage, opASL, false)
	set(0x16, "ASL", 2, 6, ZeroPageX, opASL, false)
	set(0x0E, "ASL", 3, 6, Absolute, opASL, false)
	set(0x1E, "ASL", 3, 7, AbsoluteX, opASL, false)

	set(0x4A, "LSR", 1, 2, Accumulator, opLSR, false)
	set(0x46, "LSR", 2, 5, ZeroPage, opLSR, false)
	set(0x56, "LSR", 2, 6, ZeroPageX, opLSR, false)
	set(0x4E, "LSR", 3, 6, Absolute, opLSR, false)
	set(0x5E, "LSR", 3, 7, AbsoluteX, opLSR, false)

	set(0x2A, "ROL", 1, 2, Accumulator, opROL, false)
	set(0x26, "ROL", 2, 5, ZeroPage, opROL, false)
	set(0x36, "ROL", 2, 6, ZeroPageX, opROL, false)
	set(0x2E, "ROL", 3, 6, Absolute, opROL, false)
	set(0x3E, "ROL", 3, 7, AbsoluteX, opROL, false)

	set(0x6A, "ROR", 1, 2, Accumulator, opROR, false)
	set(0x66, "ROR", 2, 5, ZeroPage, opROR, false)
	set(0x76, "ROR", 2, 6, ZeroPageX, opROR, false)
	set(0x6E, "ROR", 3, 6, Absolute, opROR, false)
	set(0x7E, "ROR", 3, 7, AbsoluteX, opROR, false)

	// Compare
	set(0xC9, "CMP", 2, 2, Immediate, opCMP, false)
	set(0xC5, "CMP", 2, 3, ZeroPage, opCMP, false)
	set(0xD5, "CMP", 2, 4, ZeroPageX, opCMP, false)
	set(0xCD, "CMP", 3, 4, Absolute, opCMP, false)
	set(0xDD, "CMP", 3, 4, AbsoluteX, opCMP, true)
	set(0xD9, "CMP", 3, 4, AbsoluteY, opCMP, true)
	set(0xC1, "CMP", 2, 6, IndexedIndirect, opCMP, false)
	set(0xD1, "CMP", 2, 5, IndirectIndexed, opCMP, true)

	set(0xE0, "CPX", 2, 2, Immediate, opCPX, false)
	set(0xE4, "CPX", 2, 3, ZeroPage, opCPX, false)
	set(0xEC, "CPX", 3, 4, Absolute, opCPX, false)

	set(0xC0, "CPY", 2, 2, Immediate, opCPY, false)
	set(0xC4, "CPY", 2, 3, ZeroPage, opCPY, false)
	set(0xCC, "CPY", 3, 4, Absolute, opCPY, false)

	// Inc/Dec
	set(0xE6, "INC", 2, 5, ZeroPage, opINC, false)
	set(0xF6, "INC", 2, 6, ZeroPageX, opINC, false)
	set(0xEE, "INC", 3, 6, Absolute, opINC, false)
	set(0xFE, "INC", 3, 7, AbsoluteX, opINC, false)

	set(0xC6, "DEC", 2, 5, ZeroPage, opDEC, false)
	set(0xD6, "DEC", 2, 6, ZeroPageX, opDEC, false)
	set(0xCE, "DEC", 3, 6, Absolute, opDEC, false)
	set(0xDE, "DEC", 3, 7, AbsoluteX, opDEC, false)

	set(0xE8, "INX", 1, 2, Implied, opINX, false)
	set(0xCA, "DEX", 1, 2, Implied, opDEX, false)
	set(0xC8, "INY", 1, 2, Implied, opINY, false)
	set(0x88, "DEY", 1, 2, Implied, opDEY, false)

	// Transfers
	set(0xAA, "TAX", 1, 2, Implied, opTAX, false)
	set(0x8A, "TXA", 1, 2, Implied, opTXA, false)
	set(0xA8, "TAY", 1, 2, Implied, opTAY, false)
	set(0x98, "TYA", 1, 2, Implied, opTYA, false)
	set(0xBA, "TSX", 1, 2, Implied, opTSX, false)
	set(0x9A, "TXS", 1, 2, Implied, opTXS, false)

	// Stack
	set(0x48, "PHA", 1, 3, Implied, opPHA, false)
	set(0x68, "PLA", 1, 4, Implied, opPLA, false)
	set(0x08, "PHP", 1, 3, Implied, opPHP, false)
	set(0x28, "PLP", 1, 4, Implied, opPLP, false)

	// Flags
	set(0x18, "CLC", 1, 2, Implied, opCLC, false)
	set(0x38, "SEC", 1, 2, Implied, opSEC, false)
	set(0x58, "CLI", 1, 2, Implied, opCLI, false)
	set(0x78, "SEI", 1, 2, Implied, opSEI, false)
	set(0xB8, "CLV", 1, 2, Implied, opCLV, false)
	set(0xD8, "CLD", 1, 2, Implied, opCLD, false)
	set(0xF8, "SED", 1, 2, Implied, opSED, false)

	// Control flow
	set(0x4C, "JMP", 3, 3, Absolute, opJMP, false)
	set(0x6C, "JMP", 3, 5, Indirect, opJMP, false)
	set(0x20, "JSR", 3, 6, Absolute, opJSR, false)
	set(0x60, "RTS", 1, 6, Implied, opRTS, false)
	set(0x40, "RTI", 1, 6, Implied, opRTI, false)

	// Branches
	set(0x90, "BCC", 2, 2, Relative, opBCC, false)
	set(0xB0, "BCS", 2, 2, Relative, opBCS, false)
	set(0xD0, "BNE", 2, 2, Relative, opBNE, false)
	set(0xF0, "BEQ", 2, 2, Relative, opBEQ, false)
	set(0x10, "BPL", 2, 2, Relative, opBPL, false)
	set(0x30, "BMI", 2, 2, Relative, opBMI, false)
	set(0x50, "BVC", 2, 2, Relative, opBVC, false)
	set(0x70, "BVS", 2, 2, Relative, opBVS, false)

	// Misc
	set(0x24, "BIT", 2, 3, ZeroPage, opBIT, false)
	set(0x2C, "BIT", 3, 4, Absolute, opBIT, false)
	set(0xEA, "NOP", 1, 2, Implied, opNOP, false)
	set(0x00, "BRK", 1, 7, Implied, opBRK, false)

	// Unofficial single-byte NOPs
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", 1, 2, Implied, opNOP, false)
	}
	// Unofficial immediate NOPs (DOP)
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", 2, 2, Immediate, opNOP, false)
	}
	// Unofficial zero-page NOPs
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", 2, 3, ZeroPage, opNOP, false)
	}
	// Unofficial zero-page,X NOPs
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", 2, 4, ZeroPageX, opNOP, false)
	}
	// Unofficial absolute / absolute,X NOPs (TOP/SKB)
	set(0x0C, "NOP", 3, 4, Absolute, opNOP, false)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", 3, 4, AbsoluteX, opNOP, true)
	}

	// Unofficial opcodes
	set(0xA7, "LAX", 2, 3, ZeroPage, opLAX, false)
	set(0xB7, "LAX", 2, 4, ZeroPageY, opLAX, false)
	set(0xAF, "LAX", 3, 4, Absolute, opLAX, false)
	set(0xBF, "LAX", 3, 4, AbsoluteY, opLAX, true)
	set(0xA3, "LAX", 2, 6, IndexedIndirect, opLAX, false)
	set(0xB3, "LAX", 2, 5, IndirectIndexed, opLAX, true)

	set(0x87, "SAX", 2, 3, ZeroPage, opSAX, false)
	set(0x97, "SAX", 2, 4, ZeroPageY, opSAX, false)
	set(0x8F, "SAX", 3, 4, Absolute, opSAX, false)
	set(0x83, "SAX", 2, 6, IndexedIndirect, opSAX, false)

	set(0xC7, "DCP", 2, 5, ZeroPage, opDCP, false)
	set(0xD7, "DCP", 2, 6, ZeroPageX, opDCP, false)
	set(0xCF, "DCP", 3, 6, Absolute, opDCP, false)
	set(0xDF, "DCP", 3, 7, AbsoluteX, opDCP, false)
	set(0xDB, "DCP", 3, 7, AbsoluteY, opDCP, false)
	set(0xC3, "DCP", 2, 8, IndexedIndirect, opDCP, false)
	set(0xD3, "DCP", 2, 8, IndirectIndexed, opDCP, false)

	set(0xE7, "ISC", 2, 5, ZeroPage, opISC, false)
	set(0xF7, "ISC", 2, 6, ZeroPageX, opISC, false)
	set(0xEF, "ISC", 3, 6, Absolute, opISC, false)
	set(0xFF, "ISC", 3, 7, AbsoluteX, opISC, false)
	set(0xFB, "ISC", 3, 7, AbsoluteY, opISC, false)
	set(0xE3, "ISC", 2, 8, IndexedIndirect, opISC, false)
	set(0xF3, "ISC", 2, 8, IndirectIndexed, opISC, false)

	set(0x07, "SLO", 2, 5, ZeroPage, opSLO, false)
	set(0x17, "SLO", 2, 6, ZeroPageX, opSLO, false)
	set(0x0F, "SLO", 3, 6, Absolute, opSLO, false)
	set(0x1F, "SLO", 3, 7, AbsoluteX, opSLO, false)
	set(0x1B, "SLO", 3, 7, AbsoluteY, opSLO, false)
	set(0x03, "SLO", 2, 8, IndexedIndirect, opSLO, false)
	set(0x13, "SLO", 2, 8, IndirectIndexed, opSLO, false)

	set(0x27, "RLA", 2, 5, ZeroPage, opRLA, false)
	set(0x37, "RLA", 2, 6, ZeroPageX, opRLA, false)
	set(0x2F, "RLA", 3, 6, Absolute, opRLA, false)
	set(0x3F, "RLA", 3, 7, AbsoluteX, opRLA, false)
	set(0x3B, "RLA", 3, 7, AbsoluteY, opRLA, false)
	set(0x23, "RLA", 2, 8, IndexedIndirect, opRLA, false)
	set(0x33, "RLA", 2, 8, IndirectIndexed, opRLA, false)

	set(0x47, "SRE", 2, 5, ZeroPage, opSRE, false)
	set(0x57, "SRE", 2, 6, ZeroPageX, opSRE, false)
	set(0x4F, "SRE", 3, 6, Absolute, opSRE, false)
	set(0x5F, "SRE", 3, 7, AbsoluteX, opSRE, false)
	set(0x5B, "SRE", 3, 7, AbsoluteY, opSRE, false)
	set(0x43, "SRE", 2, 8, IndexedIndirect, opSRE, false)
	set(0x53, "SRE", 2, 8, IndirectIndexed, opSRE, false)

	set(0x67, "RRA", 2, 5, ZeroPage, opRRA, false)
	set(0x77, "RRA", 2, 6, ZeroPageX, opRRA, false)
	set(0x6F, "RRA", 3, 6, Absolute, opRRA, false)
	set(0x7F, "RRA", 3, 7, AbsoluteX, opRRA, false)
	set(0x7B, "RRA", 3, 7, AbsoluteY, opRRA, false)
	set(0x63, "RRA", 2, 8, IndexedIndirect, opRRA, false)
	set(0x73, "RRA", 2, 8, IndirectIndexed, opRRA, false)

	set(0x0B, "ANC", 2, 2, Immediate, opANC, false)
	set(0x2B, "ANC", 2, 2, Immediate, opANC, false)
	set(0x4B, "ALR", 2, 2, Immediate, opALR, false)
	set(0x6B, "ARR", 2, 2, Immediate, opARR, false)
	set(0xCB, "AXS", 2, 2, Immediate, opAXS, false)
	set(0xAB, "ATX", 2, 2, Immediate, opATX, false)
	set(0x8B, "XAA", 2, 2, Immediate, opXAA, false)
	set(0x9F, "AHX", 3, 5, AbsoluteY, opAHX, false)
	set(0x93, "AHX", 2, 6, IndirectIndexed, opAHX, false)
	set(0x9E, "SHX", 3, 5, AbsoluteY, opSHX, false)
	set(0x9C, "SHY", 3, 5, AbsoluteX, opSHY, false)
	set(0xBB, "LAR", 3, 4, AbsoluteY, opLAR, true)
}
