package app

// ticker is the CPU's per-cycle step; it is satisfied by cpu.CPU.
type ticker interface {
	Tick()
}

// dotStepper is the PPU's per-dot step, plus the bits the Clock needs
// to detect frame completion and forward NMI.
type dotStepper interface {
	StepDot()
	Scanline() int
	Dot() int
	NMIPending() bool
	ClearNMI()
}

// nmiLatch is implemented by the CPU; the Clock forwards the PPU's
// NMI-pending latch into it.
type nmiLatch interface {
	SetNMI()
}

// Clock drives the CPU and PPU in lockstep: one step is one CPU tick
// followed by three PPU dots, matching the 1:3 master-clock ratio
// between the two chips. It tracks frame completion by watching for
// the PPU's transition to (scanline=0, dot=0).
type Clock struct {
	cpu interface {
		ticker
		nmiLatch
	}
	ppu dotStepper

	prevScanline, prevDot int
	frameComplete         bool
}

// NewClock creates a Clock driving cpu and ppu.
func NewClock(cpu interface {
	ticker
	nmiLatch
}, ppu dotStepper) *Clock {
	return &Clock{cpu: cpu, ppu: ppu}
}

// Step performs one CPU tick and three PPU dots, forwarding any
// pending NMI after each dot and updating the frame-complete flag.
func (c *Clock) Step() {
	c.cpu.Tick()
	for i := 0; i < 3; i++ {
		c.ppu.StepDot()
		if c.ppu.NMIPending() {
			c.cpu.SetNMI()
			c.ppu.ClearNMI()
		}
		if c.ppu.Scanline() == 0 && c.ppu.Dot() == 0 &&
			!(c.prevScanline == 0 && c.prevDot == 0) {
			c.frameComplete = true
		}
		c.prevScanline, c.prevDot = c.ppu.Scanline(), c.ppu.Dot()
	}
}

// FrameComplete reports whether a frame has finished since the last
// ConsumeFrameComplete call.
func (c *Clock) FrameComplete() bool { return c.frameComplete }

// ConsumeFrameComplete clears and returns the frame-complete flag.
func (c *Clock) ConsumeFrameComplete() bool {
	v := c.frameComplete
	c.frameComplete = false
	return v
}
