package tts

import (
	"quicknote/internal/domain/voice"
	"regexp"
	"strings"
)

// "Alex                en_US    # Most people recognize me by my voice."
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9]{2,4})\s+#`)

func parseSayVoices(output string) []voice.Voice {
	voices := make([]voice.Voice, 0)

	for _, line := range strings.Split(output, "\n") {
		m := sayVoiceLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, voice.Voice{
			ID:   name,
			Name: name,
			Lang: []string{m[2]},
		})
	}

	return voices
}
