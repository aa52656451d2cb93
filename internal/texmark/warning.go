package texmark

import "fmt"

// Warning reports a construct the parser skipped. Parsing is best-effort:
// warnings are collected and surfaced, never fatal.
type Warning struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Section, w.Message)
}
