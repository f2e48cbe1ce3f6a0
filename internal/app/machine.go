package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/memory"
	"gones/internal/ppu"
)

// Machine is the single-owner aggregate binding the bus, CPU, PPU,
// cartridge, and both controller ports together. All of it is driven
// through one Clock.
type Machine struct {
	Bus         *memory.Bus
	CPU         *cpu.CPU
	PPU         *ppu.PPU
	Cartridge   *cartridge.Cartridge
	Controller1 *input.Controller
	Controller2 *input.Controller

	clock *Clock
	log   logrus.FieldLogger
}

// New constructs a Machine from an already-loaded cartridge.
func New(cart *cartridge.Cartridge, log logrus.FieldLogger) *Machine {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	m := &Machine{
		Cartridge:   cart,
		Controller1: input.New(),
		Controller2: input.New(),
		log:         log,
	}

	// Bus and PPU each need the other: the PPU reads/writes through the
	// bus's VRAM view, and the bus dispatches $2000-$3FFF CPU accesses
	// to the PPU's registers. Build the bus first, hand it to the PPU,
	// then wire the PPU back in.
	m.Bus = memory.New(cart)
	m.PPU = ppu.New(m.Bus.VRAM())
	m.Bus.SetPPU(m.PPU)
	m.Bus.SetControllers(m.Controller1, m.Controller2)

	m.CPU = cpu.New(m.Bus)
	m.Bus.SetCPU(m.CPU)

	m.clock = NewClock(m.CPU, m.PPU)

	m.Reset()
	return m
}

// Reset resets the CPU and PPU to their post-power-up state.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.PPU.Reset()
	m.log.Debug("machine reset")
}

// StepFrame runs the Clock until a full frame completes, returning the
// frame buffer (256x240 6-bit palette indices).
func (m *Machine) StepFrame() *[256 * 240]uint8 {
	for {
		m.clock.Step()
		if m.clock.ConsumeFrameComplete() {
			break
		}
	}
	return &m.PPU.FrameBuffer
}

// Press and Release forward to controller 1, the host-facing input
// surface.
func (m *Machine) Press(button input.Button)   { m.Controller1.Press(button) }
func (m *Machine) Release(button input.Button) { m.Controller1.Release(button) }

// String reports basic machine identity for logging.
func (m *Machine) String() string {
	return fmt.Sprintf("gones machine (mapper %d)", m.Cartridge.MapperID())
}
