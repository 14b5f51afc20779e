package cpu

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// execute dispatches on the opcode family. PC already points to the
// following instruction.
func (c *CPU) execute(ins instruction.Instruction) error {
	switch ins.Family {
	case 0x0:
		return c.executeSystem(ins)
	case 0x1:
		c.PC = ins.NNN
	case 0x2:
		if err := c.stack.Push(c.PC); err != nil {
			return fmt.Errorf("calling subroutine: %w", err)
		}
		c.PC = ins.NNN
	case 0x3:
		c.skipIf(c.V[ins.X] == ins.NN)
	case 0x4:
		c.skipIf(c.V[ins.X] != ins.NN)
	case 0x5:
		if ins.N != 0 {
			c.unknown(ins)
			return nil
		}
		c.skipIf(c.V[ins.X] == c.V[ins.Y])
	case 0x6:
		c.V[ins.X] = ins.NN
	case 0x7:
		c.V[ins.X] += ins.NN
	case 0x8:
		c.executeArithmetic(ins)
	case 0x9:
		if ins.N != 0 {
			c.unknown(ins)
			return nil
		}
		c.skipIf(c.V[ins.X] != c.V[ins.Y])
	case 0xA:
		c.I = ins.NNN
	case 0xB:
		c.jumpWithOffset(ins)
	case 0xC:
		c.V[ins.X] = uint8(c.random.UintN(256)) & ins.NN
	case 0xD:
		return c.draw(ins)
	case 0xE:
		c.executeKeySkip(ins)
	case 0xF:
		return c.executeMisc(ins)
	}
	return nil
}

func (c *CPU) executeSystem(ins instruction.Instruction) error {
	switch ins.Word {
	case 0x00E0:
		c.display.Clear()
	case 0x00EE:
		address, err := c.stack.Pop()
		if err != nil {
			return fmt.Errorf("returning from subroutine: %w", err)
		}
		c.PC = address
	default:
		c.unknown(ins)
	}
	return nil
}

// executeArithmetic executes the 8XY_ family. VF is written after the
// result so that a flag producing instruction targeting VF keeps the flag.
func (c *CPU) executeArithmetic(ins instruction.Instruction) {
	vx, vy := c.V[ins.X], c.V[ins.Y]

	switch ins.N {
	case 0x0:
		c.V[ins.X] = vy
	case 0x1:
		c.V[ins.X] = vx | vy
	case 0x2:
		c.V[ins.X] = vx & vy
	case 0x3:
		c.V[ins.X] = vx ^ vy
	case 0x4:
		sum := uint16(vx) + uint16(vy)
		c.V[ins.X] = uint8(sum)
		c.V[FlagRegister] = flag(sum > 0xFF)
	case 0x5:
		c.V[ins.X] = vx - vy
		c.V[FlagRegister] = flag(vx >= vy)
	case 0x7:
		c.V[ins.X] = vy - vx
		c.V[FlagRegister] = flag(vy >= vx)
	case 0x6:
		if c.opts.Quirks.ShiftUsesVY {
			vx = vy
		}
		c.V[ins.X] = vx >> 1
		c.V[FlagRegister] = vx & 0x01
	case 0xE:
		if c.opts.Quirks.ShiftUsesVY {
			vx = vy
		}
		c.V[ins.X] = vx << 1
		c.V[FlagRegister] = vx >> 7
	default:
		c.unknown(ins)
	}
}

// jumpWithOffset executes BNNN, the register added to NNN depends on the
// quirks.
func (c *CPU) jumpWithOffset(ins instruction.Instruction) {
	offset := c.V[0]
	if c.opts.Quirks.JumpUsesVX {
		offset = c.V[ins.X]
	}
	c.PC = ins.NNN + uint16(offset)
}

// draw XORs an 8 pixel wide sprite of N rows read from I onto the display.
// The origin wraps around the screen, the sprite itself is clipped at the
// right and bottom edges.
func (c *CPU) draw(ins instruction.Instruction) error {
	originX := int(c.V[ins.X]) % display.Width
	originY := int(c.V[ins.Y]) % display.Height

	sprite, err := c.memory.Slice(c.I, int(ins.N))
	if err != nil {
		return fmt.Errorf("reading sprite: %w", err)
	}

	var collision bool
	for row, data := range sprite {
		y := originY + row
		if y >= display.Height {
			break
		}

		for bit := range 8 {
			x := originX + bit
			if x >= display.Width {
				break
			}
			if data&(0x80>>bit) == 0 {
				continue
			}

			on := c.display.Get(x, y)
			if on {
				collision = true
			}
			c.display.Set(x, y, !on)
		}
	}

	c.V[FlagRegister] = flag(collision)
	return nil
}

func (c *CPU) executeKeySkip(ins instruction.Instruction) {
	key := c.V[ins.X] & 0x0F

	switch ins.NN {
	case 0x9E:
		c.skipIf(c.keypad.IsDown(key))
	case 0xA1:
		c.skipIf(!c.keypad.IsDown(key))
	default:
		c.unknown(ins)
	}
}

func (c *CPU) executeMisc(ins instruction.Instruction) error {
	switch ins.NN {
	case 0x07:
		c.V[ins.X] = c.timers.Delay()
	case 0x0A:
		c.waitForKey(ins)
	case 0x15:
		c.timers.SetDelay(c.V[ins.X])
	case 0x18:
		c.timers.SetSound(c.V[ins.X])
	case 0x1E:
		sum := uint32(c.I) + uint32(c.V[ins.X])
		c.I = uint16(sum)
		if c.opts.Quirks.IndexOverflowFlag {
			c.V[FlagRegister] = flag(sum > 0xFFFF)
		}
	case 0x29:
		c.I = memory.FontAddress(c.V[ins.X])
	case 0x33:
		return c.storeBCD(ins)
	case 0x55:
		return c.storeRegisters(ins)
	case 0x65:
		return c.loadRegisters(ins)
	default:
		c.unknown(ins)
	}
	return nil
}

// waitForKey executes FX0A by rewinding PC until a key transitioned to
// pressed.
func (c *CPU) waitForKey(ins instruction.Instruction) {
	if c.state == Ready {
		// only presses that happen while waiting complete the wait
		_, _ = c.keypad.JustPressed()
		c.PC -= instruction.Size
		c.state = WaitingForKey
		return
	}

	key, ok := c.keypad.JustPressed()
	if !ok {
		c.PC -= instruction.Size
		c.state = WaitingForKey
		return
	}

	c.V[ins.X] = key
	c.state = Ready
}

func (c *CPU) storeBCD(ins instruction.Instruction) error {
	buf, err := c.memory.Slice(c.I, 3)
	if err != nil {
		return fmt.Errorf("storing BCD: %w", err)
	}

	value := c.V[ins.X]
	buf[0] = value / 100
	buf[1] = value / 10 % 10
	buf[2] = value % 10
	return nil
}

func (c *CPU) storeRegisters(ins instruction.Instruction) error {
	count := int(ins.X) + 1
	buf, err := c.memory.Slice(c.I, count)
	if err != nil {
		return fmt.Errorf("storing registers: %w", err)
	}

	copy(buf, c.V[:count])
	c.incrementIndex(count)
	return nil
}

func (c *CPU) loadRegisters(ins instruction.Instruction) error {
	count := int(ins.X) + 1
	buf, err := c.memory.Slice(c.I, count)
	if err != nil {
		return fmt.Errorf("loading registers: %w", err)
	}

	copy(c.V[:count], buf)
	c.incrementIndex(count)
	return nil
}

func (c *CPU) incrementIndex(count int) {
	if c.opts.Quirks.IndexAutoincrement {
		c.I += uint16(count)
	}
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.PC += instruction.Size
	}
}

// unknown handles instructions that are not part of the instruction set as
// no-op.
func (c *CPU) unknown(ins instruction.Instruction) {
	c.logger.Warn("Unknown opcode",
		log.Hex("address", c.PC-instruction.Size),
		log.String("opcode", ins.String()))
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
