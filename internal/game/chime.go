package game

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"

	"github.com/iburimskiy/led-ring/internal/animation"
)

const (
	chimeSampleRate = beep.SampleRate(44100)
	chimeLength     = 120 * time.Millisecond
	chimeVolume     = 0.3
)

// chimePitch gives every pattern its own note so changes can be told apart
// by ear.
var chimePitch = map[animation.Kind]float64{
	animation.Solid:   440,
	animation.Rainbow: 659.25,
	animation.Breath:  329.63,
	animation.Loop:    523.25,
}

// Chime plays a short blip through the speaker whenever a command is applied.
type Chime struct {
	sr beep.SampleRate
}

// NewChime initialises the speaker. Call it once per process.
func NewChime() (*Chime, error) {
	sr := chimeSampleRate
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return nil, errors.Wrap(err, "init speaker")
	}
	return &Chime{sr: sr}, nil
}

// Play queues the note for cmd and returns immediately.
func (c *Chime) Play(cmd animation.Command) {
	speaker.Play(tone(c.sr, chimePitch[cmd.Kind], chimeLength))
}

// tone is a sine wave of freq Hz with a linear fade out, d long.
func tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.Take(total, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			fade := 1 - float64(pos)/float64(total)
			if fade < 0 {
				fade = 0
			}
			v := chimeVolume * fade * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	}))
}
