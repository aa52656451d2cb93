package resume

import (
	"fmt"

	"resumed/internal/schema"
)

// Section is one repeating section with its ordered entries.
type Section struct {
	Type    schema.SectionType `json:"type"`
	Entries []Entry            `json:"entries"`
}

// Document is the in-memory resume: singleton header and profile plus the
// repeating sections in render order. Entry order within a section is
// user-controlled and preserved verbatim across load/edit/save.
type Document struct {
	Header   HeaderInfo `json:"header"`
	Profile  string     `json:"profile"`
	Sections []Section  `json:"sections"`
}

// New returns an empty document with sections in canonical order. The
// header lives in the preamble, so every other section — including the
// profile, whose entries are always empty — appears in the order list.
func New() *Document {
	d := &Document{}
	for _, s := range schema.All() {
		if s.Type == schema.Header {
			continue
		}
		d.Sections = append(d.Sections, Section{Type: s.Type})
	}
	return d
}

// EnsureSections appends any missing repeating sections in canonical order.
// Used after parsing, where the file dictates the order of sections present.
func (d *Document) EnsureSections() {
	present := make(map[schema.SectionType]bool, len(d.Sections))
	for _, s := range d.Sections {
		present[s.Type] = true
	}
	for _, s := range schema.All() {
		if s.Type == schema.Header || present[s.Type] {
			continue
		}
		d.Sections = append(d.Sections, Section{Type: s.Type})
	}
}

func (d *Document) section(t schema.SectionType) (*Section, error) {
	spec, err := schema.Lookup(t)
	if err != nil {
		return nil, err
	}
	if spec.Singleton {
		return nil, fmt.Errorf("section %q does not hold entries", t)
	}
	for i := range d.Sections {
		if d.Sections[i].Type == t {
			return &d.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %q not present in document", t)
}

// Entries returns a copy of the entry slice for the given section.
func (d *Document) Entries(t schema.SectionType) ([]Entry, error) {
	s, err := d.section(t)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(s.Entries))
	copy(out, s.Entries)
	return out, nil
}

// Append adds an entry to the end of its section and returns its index.
func (d *Document) Append(e Entry) (int, error) {
	s, err := d.section(e.Section())
	if err != nil {
		return 0, err
	}
	s.Entries = append(s.Entries, e)
	return len(s.Entries) - 1, nil
}

// Update replaces the entry at index i within the entry's own section.
func (d *Document) Update(i int, e Entry) error {
	s, err := d.section(e.Section())
	if err != nil {
		return err
	}
	if i < 0 || i >= len(s.Entries) {
		return fmt.Errorf("entry index %d out of range for %q", i, e.Section())
	}
	s.Entries[i] = e
	return nil
}

// Delete removes the entry at index i, preserving the order of the rest.
func (d *Document) Delete(t schema.SectionType, i int) error {
	s, err := d.section(t)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(s.Entries) {
		return fmt.Errorf("entry index %d out of range for %q", i, t)
	}
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	return nil
}

// Move swaps the entry at index i with its neighbour: delta -1 moves it up,
// +1 moves it down. Moves past either boundary are no-ops. The resulting
// index of the entry is returned.
func (d *Document) Move(t schema.SectionType, i, delta int) (int, error) {
	s, err := d.section(t)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(s.Entries) {
		return 0, fmt.Errorf("entry index %d out of range for %q", i, t)
	}
	j := i + delta
	if j < 0 || j >= len(s.Entries) {
		return i, nil
	}
	s.Entries[i], s.Entries[j] = s.Entries[j], s.Entries[i]
	return j, nil
}
