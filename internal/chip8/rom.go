package chip8

import (
	"fmt"
	"os"
	"path"
)

// Rom is an opaque program image. Instruction words are big-endian, with
// the high byte at even addresses.
type Rom struct {
	Name string
	Data []byte
}

func NewRomFromFile(romPath string) (Rom, error) {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return Rom{}, fmt.Errorf("read rom file %s: %w", romPath, err)
	}

	if len(data) > RomMaxSizeBytes {
		return Rom{}, fmt.Errorf("rom file %s: %w: %d bytes, max is %d bytes",
			romPath, ErrRomTooLarge, len(data), RomMaxSizeBytes,
		)
	}

	return Rom{
		Name: path.Base(romPath),
		Data: data,
	}, nil
}
