package renderer

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/okvm/go-chip8/internal/beep"
	"github.com/okvm/go-chip8/internal/chip8"
)

// ====================
// keyboard key mapping
// ====================
//
//	1 2 3 C  -> 1 2 3 4
//	4 5 6 D  -> Q W E R
//	7 8 9 E  -> A S D F
//	A 0 B F  -> Z X C V
var keyboardMapping = map[uint8]ebiten.Key{
	0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3, 0xC: ebiten.Key4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

const (
	hostTPS = 60

	debugScale       = 4
	debugPanelHeight = 56
)

type Config struct {
	FgColor color.Color
	BgColor color.Color
	Debug   bool
}

// Renderer drives the emulator from the ebiten game loop: it forwards
// keyboard edges to the keypad, feeds wall-clock deltas to Emulate,
// plays a tone on beep edges and blits the framebuffer.
type Renderer struct {
	emu    *chip8.Emulator
	beeper *beep.Beep

	fgColor color.Color
	bgColor color.Color

	debugMode  bool
	lastTick   time.Time
	wasBeeping bool
}

func NewFromConfig(emu *chip8.Emulator, conf Config) (*Renderer, error) {
	beeper, err := beep.New()
	if err != nil {
		return nil, fmt.Errorf("create beeper: %w", err)
	}

	return &Renderer{
		emu:    emu,
		beeper: beeper,

		fgColor: conf.FgColor,
		bgColor: conf.BgColor,

		debugMode: conf.Debug,
	}, nil
}

func (r *Renderer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		r.emu.TogglePause()
		r.setWindowTitle()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		r.debugMode = !r.debugMode
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		r.beeper.VolumeUp()
	case inpututil.IsKeyJustPressed(ebiten.Key9):
		r.beeper.VolumeDown()
	}

	for chip8Key, ebitenKey := range keyboardMapping {
		if inpututil.IsKeyJustPressed(ebitenKey) {
			r.emu.KeyPressed(chip8Key)
		}
		if inpututil.IsKeyJustReleased(ebitenKey) {
			r.emu.KeyReleased(chip8Key)
		}
	}

	now := time.Now()
	delta := now.Sub(r.lastTick)
	r.lastTick = now

	if r.emu.IsPaused() {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			if err := r.emu.StepExecute(); err != nil {
				return fmt.Errorf("step: %w", err)
			}
		}
		return nil
	}

	if err := r.emu.Emulate(delta); err != nil {
		return fmt.Errorf("emulate: %w", err)
	}

	beeping := r.emu.IsBeeping()
	if beeping && !r.wasBeeping {
		r.beeper.Play()
	}
	r.wasBeeping = beeping

	return nil
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	scale := 1
	if r.debugMode {
		scale = debugScale
	}

	for x := 0; x < r.emu.ScreenWidth(); x++ {
		for y := 0; y < r.emu.ScreenHeight(); y++ {
			pixelColor := r.bgColor
			if r.emu.IsPixelOn(x, y) {
				pixelColor = r.fgColor
			}

			if scale == 1 {
				screen.Set(x, y, pixelColor)
				continue
			}
			vector.DrawFilledRect(screen,
				float32(x*scale),
				float32(y*scale),
				float32(scale),
				float32(scale),
				pixelColor, false,
			)
		}
	}

	if r.debugMode {
		r.drawDebugPanel(screen)
	}
}

// drawDebugPanel prints the facade snapshot under the scaled screen.
func (r *Renderer) drawDebugPanel(screen *ebiten.Image) {
	d := r.emu.GetDebug()

	var sb strings.Builder
	fmt.Fprintf(&sb, "PC %04X  I %04X  DT %02X  ST %02X\n", d.PC, d.I, d.DelayTimer, d.SoundTimer)

	sb.WriteString("V ")
	for _, v := range d.V {
		fmt.Fprintf(&sb, "%02X ", v)
	}

	sb.WriteString("\nstack ")
	for _, addr := range d.Stack {
		fmt.Fprintf(&sb, "%03X ", addr)
	}

	if int(d.PC)+1 < len(d.Ram) {
		if in, err := chip8.ParseInstruction(d.Ram[d.PC], d.Ram[d.PC+1]); err == nil {
			fmt.Fprintf(&sb, "\nnext %s", in.String())
		}
	}

	ebitenutil.DebugPrintAt(screen, sb.String(), 2, r.emu.ScreenHeight()*debugScale+2)
}

func (r *Renderer) Layout(int, int) (int, int) {
	w, h := r.emu.ScreenSize()
	if r.debugMode {
		return w * debugScale, h*debugScale + debugPanelHeight
	}
	return w, h
}

func (r *Renderer) Run() error {
	ebiten.SetTPS(hostTPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	r.setWindowTitle()

	r.lastTick = time.Now()
	if err := ebiten.RunGame(r); err != nil {
		return fmt.Errorf("run renderer: %w", err)
	}
	return nil
}

func (r *Renderer) setWindowTitle() {
	state := "running"
	if r.emu.IsPaused() {
		state = "paused"
	}
	ebiten.SetWindowTitle("CHIP8 Emulator: " + r.emu.GetRomName() + " (" + state + ")")
}

func DecodeColorFromHex(s string) (color.Color, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode a hex string: %w", err)
	}
	if len(data) != 3 && len(data) != 4 {
		return nil, fmt.Errorf("color must be in rgb or rgba format")
	}

	c := color.RGBA{
		R: data[0],
		G: data[1],
		B: data[2],
		A: 0xff,
	}
	if len(data) == 4 {
		c.A = data[3]
	}

	return c, nil
}
