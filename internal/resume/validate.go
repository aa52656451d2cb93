package resume

import (
	"fmt"
	"strings"

	"resumed/internal/schema"
)

// FieldError reports a single invalid field on an entry.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidationError blocks committing an entry to the document.
type ValidationError struct {
	Section schema.SectionType `json:"section"`
	Fields  []FieldError       `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("invalid %s entry: %s", e.Section, strings.Join(msgs, "; "))
}

// Validate checks an entry against its section's schema: required fields
// must be non-blank, and no value may contain characters the content format
// cannot carry (control characters; field values are single-line).
func Validate(e Entry) error {
	spec := schema.MustLookup(e.Section())
	var fields []FieldError
	for _, f := range spec.Fields {
		v, ok := e.Field(f.Name)
		if !ok {
			continue
		}
		if f.Required && strings.TrimSpace(v) == "" {
			fields = append(fields, FieldError{Field: f.Name, Message: "required"})
			continue
		}
		if err := checkText(v); err != nil {
			fields = append(fields, FieldError{Field: f.Name, Message: err.Error()})
		}
	}
	for i, b := range Bullets(e) {
		if err := checkText(b); err != nil {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("bullets[%d]", i),
				Message: err.Error(),
			})
		}
	}
	if exp, ok := e.(ExperienceEntry); ok {
		for i, sr := range exp.SubRoles {
			if strings.TrimSpace(sr.Title) == "" {
				fields = append(fields, FieldError{
					Field:   fmt.Sprintf("sub_roles[%d].title", i),
					Message: "required",
				})
			}
			for _, v := range append([]string{sr.Title, sr.Date}, sr.Bullets...) {
				if err := checkText(v); err != nil {
					fields = append(fields, FieldError{
						Field:   fmt.Sprintf("sub_roles[%d]", i),
						Message: err.Error(),
					})
					break
				}
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Section: e.Section(), Fields: fields}
	}
	return nil
}

// ValidateHeader checks the header singleton. Icon names and link URLs
// pass through to the output unescaped, so they are held to a stricter
// character set than ordinary text.
func ValidateHeader(h HeaderInfo) error {
	var fields []FieldError
	if strings.TrimSpace(h.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "required"})
	}
	for _, pair := range [][2]string{{"name", h.Name}, {"headline", h.Headline}} {
		if err := checkText(pair[1]); err != nil {
			fields = append(fields, FieldError{Field: pair[0], Message: err.Error()})
		}
	}
	for li, line := range [][]Contact{h.ContactLine1, h.ContactLine2} {
		for ci, contact := range line {
			where := fmt.Sprintf("contact_line%d[%d]", li+1, ci)
			if strings.TrimSpace(contact.Text) == "" {
				fields = append(fields, FieldError{Field: where + ".text", Message: "required"})
			}
			if err := checkText(contact.Text); err != nil {
				fields = append(fields, FieldError{Field: where + ".text", Message: err.Error()})
			}
			if err := checkRawText(contact.Icon); err != nil {
				fields = append(fields, FieldError{Field: where + ".icon", Message: err.Error()})
			}
			if contact.Kind == ContactLink {
				if strings.TrimSpace(contact.URL) == "" {
					fields = append(fields, FieldError{Field: where + ".url", Message: "required"})
				}
				if err := checkRawText(contact.URL); err != nil {
					fields = append(fields, FieldError{Field: where + ".url", Message: err.Error()})
				}
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Section: schema.Header, Fields: fields}
	}
	return nil
}

// checkRawText guards values emitted without escaping.
func checkRawText(s string) error {
	if strings.ContainsAny(s, "{}\\%") {
		return fmt.Errorf("may not contain braces, backslashes or percent signs")
	}
	return checkText(s)
}

// checkText rejects values the serializer could not represent on one line.
func checkText(s string) error {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("contains control character %q", r)
		}
	}
	return nil
}
