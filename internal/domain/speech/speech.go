package speech

import "strings"

// Request describes one synthesis call
type Request struct {
	Text    string
	VoiceID string
	Rate    int
}

// Format identifies the container of a synthesized payload.
type Format string

const (
	FormatUnknown Format = ""
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
	FormatAIFF    Format = "aiff"
)

// Audio is a synthesized payload ready to be handed to a player
type Audio struct {
	Data        []byte
	ContentType string
}

// Format sniffs the payload, falling back to the content type.
func (a *Audio) Format() Format {
	d := a.Data
	switch {
	case len(d) >= 12 && string(d[0:4]) == "RIFF" && string(d[8:12]) == "WAVE":
		return FormatWAV
	case len(d) >= 12 && string(d[0:4]) == "FORM" && (string(d[8:12]) == "AIFF" || string(d[8:12]) == "AIFC"):
		return FormatAIFF
	case len(d) >= 3 && string(d[0:3]) == "ID3":
		return FormatMP3
	case len(d) >= 2 && d[0] == 0xFF && d[1]&0xE0 == 0xE0:
		return FormatMP3
	}

	ct := strings.ToLower(a.ContentType)
	switch {
	case strings.Contains(ct, "mpeg"), strings.Contains(ct, "mp3"):
		return FormatMP3
	case strings.Contains(ct, "wav"):
		return FormatWAV
	case strings.Contains(ct, "aiff"):
		return FormatAIFF
	}
	return FormatUnknown
}
