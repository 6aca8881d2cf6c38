package note

// NoActionItems is shown in place of an empty action item list.
const NoActionItems = "No action items found."

// Result is the response of the process endpoint
type Result struct {
	Summary     string   `json:"summary" yaml:"summary"`
	ActionItems []string `json:"action_items,omitempty" yaml:"action_items"`
}

// DisplayItems returns the action items as rendered in a list, with a single
// placeholder entry when there are none.
func (r Result) DisplayItems() []string {
	if len(r.ActionItems) == 0 {
		return []string{NoActionItems}
	}
	items := make([]string, len(r.ActionItems))
	copy(items, r.ActionItems)
	return items
}

// HasSummary reports whether the summary can be read aloud.
func (r Result) HasSummary() bool {
	return r.Summary != ""
}
