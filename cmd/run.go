package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/okvm/go-chip8/internal/chip8"
	"github.com/okvm/go-chip8/internal/renderer"
)

var (
	fgColorHex      string
	bgColorHex      string
	cpuHz           int
	legacyShift     bool
	legacyLoadStore bool
	debugMode       bool
	traceExec       bool
)

// runCmd loads a rom and drives the emulator in a window until the user
// closes it
var runCmd = &cobra.Command{
	Use:   "run `path/to/rom`",
	Short: "run a CHIP-8 rom",
	Args:  cobra.ExactArgs(1),
	Run:   runEmulator,
}

func init() {
	runCmd.Flags().StringVar(&fgColorHex, "fg", "FFFFFFFF", "rgba foreground color in hex. white is default")
	runCmd.Flags().StringVar(&bgColorHex, "bg", "000000FF", "rgba background color in hex. black is default")
	runCmd.Flags().IntVar(&cpuHz, "hz", chip8.DefaultCPUHz, "cpu clock in instructions per second")
	runCmd.Flags().BoolVar(&legacyShift, "legacy-shift", false, "8XY6/8XYE copy VY into VX before shifting (COSMAC VIP)")
	runCmd.Flags().BoolVar(&legacyLoadStore, "legacy-load-store", false, "FX55/FX65 leave I past the last register (COSMAC VIP)")
	runCmd.Flags().BoolVar(&debugMode, "debug", false, "start with the debug overlay enabled")
	runCmd.Flags().BoolVar(&traceExec, "trace", false, "log every executed instruction")
}

func runEmulator(cmd *cobra.Command, args []string) {
	if traceExec {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	fgColor, err := renderer.DecodeColorFromHex(fgColorHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't decode fg color from hex %s: %s\n", fgColorHex, err.Error())
		os.Exit(1)
	}
	bgColor, err := renderer.DecodeColorFromHex(bgColorHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't decode bg color from hex %s: %s\n", bgColorHex, err.Error())
		os.Exit(1)
	}

	rom, err := chip8.NewRomFromFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't create a rom from the file: %s\n", err.Error())
		os.Exit(1)
	}

	emu := chip8.NewFromConfig(chip8.Config{
		LegacyShift:     legacyShift,
		LegacyLoadStore: legacyLoadStore,
		CPUHz:           cpuHz,
	})
	if err := emu.LoadRom(rom); err != nil {
		fmt.Fprintf(os.Stderr, "couldn't load the rom: %s\n", err.Error())
		os.Exit(1)
	}

	r, err := renderer.NewFromConfig(emu, renderer.Config{
		FgColor: fgColor,
		BgColor: bgColor,
		Debug:   debugMode,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't create a renderer: %s\n", err.Error())
		os.Exit(1)
	}
	if err := r.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "couldn't run the renderer: %s\n", err.Error())
		os.Exit(1)
	}
}
