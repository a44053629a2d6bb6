package platform

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrAudioUnavailable indicates the audio backend could not be opened.
var ErrAudioUnavailable = errors.New("audio unavailable")

const (
	toneSampleRate = 44100
	toneFrequency  = 800.0
	toneDuration   = 500 * time.Millisecond
	toneStartGain  = 0.3
	toneEndGain    = 0.01
)

// TonePlayer renders and plays the completion tone. The audio backend is
// opened lazily on first playback; an init failure is remembered and
// returned on every later call instead of retrying a dead backend.
type TonePlayer struct {
	mu      sync.Mutex
	context *oto.Context
	initErr error
	pcm     []byte
}

// NewTonePlayer returns a player. No audio resources are touched until
// the first PlayTone call.
func NewTonePlayer() *TonePlayer {
	return &TonePlayer{pcm: pcmTone()}
}

// PlayTone starts asynchronous playback of the completion tone and
// returns without waiting for it to finish.
func (player *TonePlayer) PlayTone() error {
	context, err := player.audioContext()
	if err != nil {
		return err
	}

	tone := context.NewPlayer(bytes.NewReader(player.pcm))
	tone.Play()
	go func() {
		for tone.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		_ = tone.Close()
	}()
	return nil
}

func (player *TonePlayer) audioContext() (*oto.Context, error) {
	player.mu.Lock()
	defer player.mu.Unlock()

	if player.context != nil {
		return player.context, nil
	}
	if player.initErr != nil {
		return nil, player.initErr
	}

	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   toneSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		player.initErr = fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
		return nil, player.initErr
	}
	<-ready
	player.context = context
	return context, nil
}

// pcmTone renders the tone as mono signed 16-bit little-endian samples:
// a sine at toneFrequency whose amplitude decays exponentially from
// toneStartGain to toneEndGain over toneDuration.
func pcmTone() []byte {
	samples := int(float64(toneSampleRate) * toneDuration.Seconds())
	decay := math.Log(toneEndGain/toneStartGain) / float64(samples)
	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		gain := toneStartGain * math.Exp(decay*float64(i))
		value := gain * math.Sin(2*math.Pi*toneFrequency*float64(i)/toneSampleRate)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(value*math.MaxInt16)))
	}
	return pcm
}
