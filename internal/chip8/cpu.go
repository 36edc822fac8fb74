package chip8

import (
	"context"
	"fmt"
	"log/slog"
	v2 "math/rand/v2"
)

// CPU executes one instruction per step against the components it is
// handed. It carries no machine state of its own, only the compatibility
// configuration and the random byte source, so a single value can be
// reused across steps and tests can drive each opcode in isolation.
type CPU struct {
	legacyShift     bool
	legacyLoadStore bool
	randByte        func() byte
}

func NewCPU(conf Config) CPU {
	randByte := conf.RandByte
	if randByte == nil {
		randByte = func() byte { return byte(v2.IntN(0x100)) }
	}
	return CPU{
		legacyShift:     conf.LegacyShift,
		legacyLoadStore: conf.LegacyLoadStore,
		randByte:        randByte,
	}
}

// Step runs a single fetch-decode-execute cycle. The program counter
// advances by 2 afterwards unless the instruction wrote it directly:
// jumps and calls set it, a return restores the address of its call and
// then advances past it, skips advance an extra word, and the key wait
// leaves it untouched until a key is held so the same instruction is
// fetched again next step.
func (c CPU) Step(reg *Register, disp *Display, pad *Keypad, mem *Memory, delay, sound *Timer) error {
	pc := reg.GetPC()
	in, err := ParseInstruction(mem.GetByte(pc), mem.GetByte(pc+1))
	if err != nil {
		return fmt.Errorf("decode at %04X: %w", pc, err)
	}

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("exec",
			"pc", fmt.Sprintf("%04X", pc),
			"instr", in.String(),
		)
	}

	switch in.Kind {
	case OpClearScreen:
		disp.Clear()

	case OpReturn:
		addr, err := reg.Pop()
		if err != nil {
			return fmt.Errorf("return at %04X: %w", pc, err)
		}
		reg.SetPC(addr)

	case OpSys:
		// only used on the old computers chip-8 originally ran on

	case OpJump:
		reg.SetPC(in.NNN)
		return nil

	case OpCall:
		if err := reg.Push(pc); err != nil {
			return fmt.Errorf("call %03X at %04X: %w", in.NNN, pc, err)
		}
		reg.SetPC(in.NNN)
		return nil

	case OpSkipIfEqualNN:
		if reg.GetV(in.X) == in.NN {
			reg.IncrementPC()
		}

	case OpSkipIfNotEqualNN:
		if reg.GetV(in.X) != in.NN {
			reg.IncrementPC()
		}

	case OpSkipIfEqual:
		if reg.GetV(in.X) == reg.GetV(in.Y) {
			reg.IncrementPC()
		}

	case OpSetRegister:
		reg.SetV(in.X, in.NN)

	case OpAddToRegister:
		// wrapping add, the flag register is untouched
		reg.SetV(in.X, reg.GetV(in.X)+in.NN)

	case OpSet:
		reg.SetV(in.X, reg.GetV(in.Y))

	case OpOr:
		reg.SetV(in.X, reg.GetV(in.X)|reg.GetV(in.Y))

	case OpAnd:
		reg.SetV(in.X, reg.GetV(in.X)&reg.GetV(in.Y))

	case OpXor:
		reg.SetV(in.X, reg.GetV(in.X)^reg.GetV(in.Y))

	case OpAdd:
		sum := uint16(reg.GetV(in.X)) + uint16(reg.GetV(in.Y))
		reg.SetV(in.X, uint8(sum))
		if sum > 0xff {
			reg.SetV(0xf, 1)
		} else {
			reg.SetV(0xf, 0)
		}

	case OpSub:
		vx, vy := reg.GetV(in.X), reg.GetV(in.Y)
		reg.SetV(in.X, vx-vy)
		if vx > vy {
			reg.SetV(0xf, 1)
		} else {
			reg.SetV(0xf, 0)
		}

	case OpShiftRight:
		if c.legacyShift {
			reg.SetV(in.X, reg.GetV(in.Y))
		}
		vx := reg.GetV(in.X)
		reg.SetV(in.X, vx>>1)
		reg.SetV(0xf, vx&0x01)

	case OpSubReverse:
		vx, vy := reg.GetV(in.X), reg.GetV(in.Y)
		reg.SetV(in.X, vy-vx)
		if vy > vx {
			reg.SetV(0xf, 1)
		} else {
			reg.SetV(0xf, 0)
		}

	case OpShiftLeft:
		if c.legacyShift {
			reg.SetV(in.X, reg.GetV(in.Y))
		}
		vx := reg.GetV(in.X)
		reg.SetV(in.X, vx<<1)
		reg.SetV(0xf, vx>>7)

	case OpSkipIfNotEqual:
		if reg.GetV(in.X) != reg.GetV(in.Y) {
			reg.IncrementPC()
		}

	case OpSetIndex:
		reg.SetI(in.NNN)

	case OpJumpWithOffset:
		reg.SetPC(in.NNN + uint16(reg.GetV(0x0)))
		return nil

	case OpRandom:
		reg.SetV(in.X, c.randByte()&in.NN)

	case OpDraw:
		c.draw(reg, disp, mem, in)

	case OpSkipIfKeyPressed:
		if pad.IsPressed(reg.GetV(in.X)) {
			reg.IncrementPC()
		}

	case OpSkipIfKeyNotPressed:
		if !pad.IsPressed(reg.GetV(in.X)) {
			reg.IncrementPC()
		}

	case OpReadDelayTimer:
		reg.SetV(in.X, delay.Get())

	case OpWaitForKey:
		key, ok := pad.ReadLast()
		if !ok {
			// keep the program counter on this instruction so it is
			// fetched again next step
			return nil
		}
		reg.SetV(in.X, key)

	case OpSetDelayTimer:
		delay.Set(reg.GetV(in.X))

	case OpSetSoundTimer:
		sound.Set(reg.GetV(in.X))

	case OpAddToIndex:
		reg.SetI(reg.GetI() + uint16(reg.GetV(in.X)))

	case OpLoadFontSprite:
		reg.SetI(FontOffset + uint16(reg.GetV(in.X)&0x0f)*fontSpriteSize)

	case OpStoreBCD:
		vx := reg.GetV(in.X)
		i := reg.GetI()
		mem.SetByte(i, vx/100)
		mem.SetByte(i+1, vx/10%10)
		mem.SetByte(i+2, vx%10)

	case OpStoreRegisters:
		i := reg.GetI()
		for off := uint16(0); off <= uint16(in.X); off++ {
			mem.SetByte(i+off, reg.GetV(uint8(off)))
		}
		if c.legacyLoadStore {
			reg.SetI(i + uint16(in.X) + 1)
		}

	case OpLoadRegisters:
		i := reg.GetI()
		for off := uint16(0); off <= uint16(in.X); off++ {
			reg.SetV(uint8(off), mem.GetByte(i+off))
		}
		if c.legacyLoadStore {
			reg.SetI(i + uint16(in.X) + 1)
		}
	}

	reg.IncrementPC()
	return nil
}

// draw XORs an 8-wide, N-high sprite at (V[x] mod 64, V[y] mod 32). Rows
// past the bottom edge and pixels past the right edge are clipped, not
// wrapped. VF reports whether any pixel was turned off.
func (c CPU) draw(reg *Register, disp *Display, mem *Memory, in Instruction) {
	xs := int(reg.GetV(in.X)) % ScreenWidth
	ys := int(reg.GetV(in.Y)) % ScreenHeight
	reg.SetV(0xf, 0)

	for row := 0; row < int(in.N); row++ {
		py := ys + row
		if py >= ScreenHeight {
			break
		}
		sprite := mem.GetByte(reg.GetI() + uint16(row))

		for pixel := 0; pixel < 8; pixel++ {
			px := xs + pixel
			if px >= ScreenWidth {
				break
			}
			if (sprite>>(7-pixel))&0x1 == 0 {
				continue
			}
			if disp.IsPixelOn(px, py) {
				disp.SetPixel(px, py, false)
				reg.SetV(0xf, 1)
			} else {
				disp.SetPixel(px, py, true)
			}
		}
	}
}
