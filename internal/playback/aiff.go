package playback

import (
	"bytes"
	"fmt"

	"github.com/faiface/beep"
	"github.com/go-audio/aiff"
)

// decodeAIFF reads a whole AIFF payload into memory. The macOS voices behind
// the backend produce short mono clips, so there is no need to stream.
func decodeAIFF(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	d := aiff.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, beep.Format{}, fmt.Errorf("not a valid AIFF file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, beep.Format{}, err
	}

	channels := int(d.NumChans)
	bitDepth := int(d.BitDepth)
	if channels < 1 || bitDepth < 8 || bitDepth > 32 || d.SampleRate <= 0 {
		return nil, beep.Format{}, fmt.Errorf("unsupported AIFF layout: %d channels, %d bits, %d Hz", channels, bitDepth, d.SampleRate)
	}

	// samples are signed integers of bitDepth bits
	scale := float64(int64(1) << (bitDepth - 1))
	frames := make([][2]float64, len(buf.Data)/channels)
	for i := range frames {
		left := float64(buf.Data[i*channels]) / scale
		right := left
		if channels > 1 {
			right = float64(buf.Data[i*channels+1]) / scale
		}
		frames[i] = [2]float64{left, right}
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(d.SampleRate),
		NumChannels: min(channels, 2),
		Precision:   (bitDepth + 7) / 8,
	}
	return &pcmStreamer{frames: frames}, format, nil
}

// pcmStreamer plays decoded frames held in memory.
type pcmStreamer struct {
	frames [][2]float64
	pos    int
}

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if p.pos >= len(p.frames) {
		return 0, false
	}
	n := copy(samples, p.frames[p.pos:])
	p.pos += n
	return n, true
}

func (p *pcmStreamer) Err() error    { return nil }
func (p *pcmStreamer) Len() int      { return len(p.frames) }
func (p *pcmStreamer) Position() int { return p.pos }
func (p *pcmStreamer) Close() error  { return nil }

func (p *pcmStreamer) Seek(pos int) error {
	if pos < 0 || pos > len(p.frames) {
		return fmt.Errorf("seek position %d out of range [0, %d]", pos, len(p.frames))
	}
	p.pos = pos
	return nil
}
