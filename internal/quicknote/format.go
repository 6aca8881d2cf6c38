package quicknote

import (
	"encoding/json"
	"fmt"
	"io"
	"quicknote/internal/cli/scheme/colours"
	"quicknote/internal/domain/note"
	"quicknote/internal/domain/voice"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, v any, format string) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(v)
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

// writeResult prints a process result for machine consumption. Action items are
// always a list, empty when there are none.
func writeResult(w io.Writer, result *note.Result, format string) error {
	out := struct {
		Summary     string   `json:"summary" yaml:"summary"`
		ActionItems []string `json:"action_items" yaml:"action_items"`
	}{
		Summary:     result.Summary,
		ActionItems: result.ActionItems,
	}
	if out.ActionItems == nil {
		out.ActionItems = []string{}
	}
	return writeStructured(w, out, format)
}

func writeVoices(w io.Writer, voices []voice.Voice, format string) error {
	if format != FormatText {
		if voices == nil {
			voices = []voice.Voice{}
		}
		return writeStructured(w, voices, format)
	}
	printVoiceList(w, voices, "")
	return nil
}

func printVoiceList(w io.Writer, voices []voice.Voice, selected string) {
	if len(voices) == 0 {
		colours.Warning.Fprintln(w, "🔍 No voices match.")
		return
	}

	colours.Title.Fprintf(w, "🎤 %d voices\n", len(voices))
	for i, v := range voices {
		marker := " "
		if v.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(w, " %s%3d. ", marker, i+1)
		colours.Voice.Fprint(w, v.Label())
		colours.Muted.Fprintf(w, "  [%s]\n", v.ID)
	}
}
