// Package chip8 implements the CHIP-8 virtual machine: 4 KiB of RAM, 16
// general registers, a 64x32 monochrome framebuffer, a 16-key hex keypad
// and two 60 hz timers, driven by a host that supplies wall-clock deltas.
package chip8

import (
	"fmt"
	"time"
)

// DefaultCPUHz is the instruction rate the scheduler targets unless the
// configuration overrides it.
const DefaultCPUHz = 700

// Config tunes the interpreter. The zero value is the modern
// (post-SUPER-CHIP) behavior at the default clock.
type Config struct {
	// LegacyShift makes 8XY6/8XYE copy VY into VX before shifting, as the
	// original COSMAC VIP interpreter did.
	LegacyShift bool

	// LegacyLoadStore makes FX55/FX65 leave I pointing past the last
	// register, as the original COSMAC VIP interpreter did.
	LegacyLoadStore bool

	// CPUHz is the target instruction rate. Zero means DefaultCPUHz.
	CPUHz int

	// RandByte supplies random bytes for CXNN. Tests inject a
	// deterministic source; nil means math/rand.
	RandByte func() byte
}

// Emulator owns the machine components and schedules execution against
// wall-clock time. It is created paused and unpauses on a successful rom
// load. It is not safe for concurrent use: the host must not feed key
// events while Emulate runs.
type Emulator struct {
	cpu        CPU
	register   Register
	memory     Memory
	display    Display
	keypad     Keypad
	delayTimer Timer
	soundTimer Timer

	rom     Rom
	paused  bool
	beeping bool

	// monotonic accumulator of emulated time, quantized to whole
	// execute intervals when counting CPU steps
	time            time.Duration
	executeInterval time.Duration
}

func New() *Emulator {
	return NewFromConfig(Config{})
}

func NewFromConfig(conf Config) *Emulator {
	hz := conf.CPUHz
	if hz <= 0 {
		hz = DefaultCPUHz
	}
	e := &Emulator{
		cpu:             NewCPU(conf),
		register:        NewRegister(),
		paused:          true,
		executeInterval: time.Second / time.Duration(hz),
	}
	e.memory.LoadFont(font)
	return e
}

// LoadRom writes the rom at the entry point and unpauses the machine.
func (e *Emulator) LoadRom(rom Rom) error {
	if err := e.memory.LoadRom(rom.Data); err != nil {
		return fmt.Errorf("load rom %s: %w", rom.Name, err)
	}
	e.rom = rom
	e.paused = false
	return nil
}

// Emulate advances the machine by a wall-clock delta: both timers tick
// once, then as many CPU steps run as execute-interval boundaries fall
// inside the delta. Step counting uses integer microseconds so jittery
// host deltas never drift the long-run rate. A runtime error pauses the
// machine and is returned.
func (e *Emulator) Emulate(delta time.Duration) error {
	if e.paused {
		return nil
	}

	b1 := e.soundTimer.Get()
	e.delayTimer.Tick(delta)
	e.soundTimer.Tick(delta)
	b2 := e.soundTimer.Get()
	// a beep fires on every 60 hz decrement while the timer is active
	e.beeping = b2 > 0 && b1 != b2

	target := e.time + delta
	steps := target.Microseconds()/e.executeInterval.Microseconds() -
		e.time.Microseconds()/e.executeInterval.Microseconds()
	e.time = target

	for ; steps > 0; steps-- {
		if err := e.step(); err != nil {
			e.paused = true
			return err
		}
	}
	return nil
}

func (e *Emulator) step() error {
	return e.cpu.Step(&e.register, &e.display, &e.keypad, &e.memory, &e.delayTimer, &e.soundTimer)
}

// StepExecute runs a single fetch-decode-execute cycle regardless of the
// paused flag. Debug hosts use it to single-step. A runtime error pauses the
// machine and is returned.
func (e *Emulator) StepExecute() error {
	if err := e.step(); err != nil {
		e.paused = true
		return err
	}
	return nil
}

func (e *Emulator) IsPixelOn(x, y int) bool {
	return e.display.IsPixelOn(x, y)
}

func (e *Emulator) IsBeeping() bool {
	return e.beeping
}

func (e *Emulator) KeyPressed(key uint8) {
	e.keypad.Press(key)
}

func (e *Emulator) KeyReleased(key uint8) {
	e.keypad.Release(key)
}

func (e *Emulator) IsPaused() bool {
	return e.paused
}

func (e *Emulator) TogglePause() {
	e.paused = !e.paused
}

func (e *Emulator) GetRomName() string {
	return e.rom.Name
}

func (e *Emulator) ScreenWidth() int {
	return ScreenWidth
}

func (e *Emulator) ScreenHeight() int {
	return ScreenHeight
}

func (e *Emulator) ScreenSize() (int, int) {
	return ScreenWidth, ScreenHeight
}

// Debug is a copy of the machine state for external inspectors.
type Debug struct {
	DelayTimer uint8
	SoundTimer uint8
	I          uint16
	PC         uint16
	Stack      []uint16
	V          []uint8
	Ram        []byte
}

func (e *Emulator) GetDebug() Debug {
	v := make([]uint8, 0x10)
	for x := range v {
		v[x] = e.register.GetV(uint8(x))
	}
	return Debug{
		DelayTimer: e.delayTimer.Get(),
		SoundTimer: e.soundTimer.Get(),
		I:          e.register.GetI(),
		PC:         e.register.GetPC(),
		Stack:      e.register.Stack(),
		V:          v,
		Ram:        e.memory.Ram(),
	}
}
