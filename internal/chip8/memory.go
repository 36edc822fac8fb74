package chip8

import "fmt"

const (
	RamSizeBytes = 0x1000 // 4096
	EntryPoint   = 0x200  // 512

	// from 0x000 to 0x1FF is reserved for the interpreter
	//
	// see more http://devernay.free.fr/hacks/chip8/C8TECH10.HTM#2.1
	RomMaxSizeBytes = RamSizeBytes - EntryPoint

	// addrMask keeps I + offset accesses inside RAM. GetByte and SetByte
	// mask every address with it, so out-of-range accesses wrap instead of
	// erroring out.
	addrMask = RamSizeBytes - 1
)

// Memory is the 4 KiB linear address space. Programs live at the entry
// point; the hex font occupies part of the interpreter area below it.
type Memory struct {
	ram [RamSizeBytes]byte
}

// LoadFont writes the hex digit sprites into the interpreter area.
func (m *Memory) LoadFont(font []byte) {
	copy(m.ram[FontOffset:], font)
}

// LoadRom writes the rom image starting at the entry point.
func (m *Memory) LoadRom(data []byte) error {
	if len(data) > RomMaxSizeBytes {
		return fmt.Errorf("%w: %d bytes, max is %d bytes", ErrRomTooLarge, len(data), RomMaxSizeBytes)
	}
	copy(m.ram[EntryPoint:], data)
	return nil
}

func (m *Memory) GetByte(addr uint16) byte {
	return m.ram[addr&addrMask]
}

func (m *Memory) SetByte(addr uint16, b byte) {
	m.ram[addr&addrMask] = b
}

// Ram returns a copy of the whole address space for external inspectors.
func (m *Memory) Ram() []byte {
	out := make([]byte, RamSizeBytes)
	copy(out, m.ram[:])
	return out
}
