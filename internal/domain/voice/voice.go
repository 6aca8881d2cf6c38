package voice

import (
	"fmt"
	"strings"
)

// Voice is a selectable TTS voice as served by the voice catalog
type Voice struct {
	ID   string   `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
	Lang []string `json:"lang" yaml:"lang"`
}

// Language returns the primary language of the voice, or "" when none is listed.
func (v Voice) Language() string {
	if len(v.Lang) == 0 {
		return ""
	}
	return v.Lang[0]
}

// Label is the text shown for the voice in a picker: "name (lang)".
func (v Voice) Label() string {
	return fmt.Sprintf("%s (%s)", v.Name, v.Language())
}

// Catalog is the ordered master list of voices. It is never modified in place.
type Catalog []Voice

// Filter returns the voices whose lowercased label contains the lowercased
// search term, in catalog order. An empty term matches every voice.
func (c Catalog) Filter(searchTerm string) []Voice {
	term := strings.ToLower(searchTerm)

	filtered := make([]Voice, 0, len(c))
	for _, v := range c {
		key := strings.ToLower(v.Name) + " (" + strings.ToLower(v.Language()) + ")"
		if strings.Contains(key, term) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// Find looks a voice up by ID.
func (c Catalog) Find(id string) (Voice, bool) {
	for _, v := range c {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}
