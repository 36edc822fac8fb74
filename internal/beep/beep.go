// Package beep plays the sine tone the sound timer gates. The
// core only exposes a beeping flag; the host replays this tone on each
// rising edge.
package beep

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	sampleRate = 44100
	beepHz     = 440

	// four sound-timer ticks; the player is rewound on every beep edge
	duration = time.Second / 60 * 4

	volumeStep = 0.2
	volumeMax  = 1.0
	volumeMin  = 0.0
)

type Beep struct {
	p *audio.Player
}

func New() (*Beep, error) {
	audioCtx := audio.NewContext(sampleRate)
	player, err := audioCtx.NewPlayer(bytes.NewReader(tone()))
	if err != nil {
		return nil, fmt.Errorf("couldn't create an audio player: %w", err)
	}

	return &Beep{
		p: player,
	}, nil
}

// tone renders the beep as 16-bit little-endian mono-as-stereo samples.
func tone() []byte {
	numSamples := int(duration * sampleRate / time.Second)
	buf := make([]byte, numSamples*4)
	for i := 0; i < numSamples; i++ {
		a := math.Sin(2.0 * math.Pi * float64(beepHz) * float64(i) / float64(sampleRate))
		s := int16(a * math.MaxInt16)
		// left and right channels carry the same sample
		buf[4*i] = byte(s)
		buf[4*i+1] = byte(s >> 8)
		buf[4*i+2] = byte(s)
		buf[4*i+3] = byte(s >> 8)
	}
	return buf
}

func (b *Beep) Play() {
	if err := b.p.Rewind(); err != nil {
		log.Printf("couldn't rewind the audio player: %s\n", err.Error())
		return
	}
	b.p.Play()
}

func (b *Beep) VolumeUp() {
	b.SetVolume(b.p.Volume() + volumeStep)
}

func (b *Beep) VolumeDown() {
	b.SetVolume(b.p.Volume() - volumeStep)
}

func (b *Beep) SetVolume(volume float64) {
	volume = min(volume, volumeMax)
	volume = max(volume, volumeMin)
	b.p.SetVolume(volume)
}
