package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errInvalidWAV = errors.New("not a readable PCM WAV file")

// loadImpulseResponse reads the first channel of a PCM WAV file, scaled to
// [-1, 1], together with its sample rate.
func loadImpulseResponse(path string) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: %w", path, errInvalidWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	return firstChannel(buf), float64(buf.Format.SampleRate), nil
}

func firstChannel(buf *audio.IntBuffer) []float64 {
	channels := max(buf.Format.NumChannels, 1)
	scale := float64(audio.IntMaxSignedValue(buf.SourceBitDepth))
	if scale == 0 {
		scale = 1
	}

	out := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		out = append(out, float64(buf.Data[i])/scale)
	}
	return out
}
