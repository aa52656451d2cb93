package resume

import (
	"fmt"

	"resumed/internal/schema"
)

// ContactKind distinguishes plain contact items from hyperlinks.
type ContactKind string

const (
	ContactItem ContactKind = "item"
	ContactLink ContactKind = "link"
)

// Contact is one element of a header contact line.
type Contact struct {
	Kind ContactKind `json:"kind"`
	Icon string      `json:"icon"`
	Text string      `json:"text"`
	URL  string      `json:"url,omitempty"`
}

// HeaderInfo holds the document preamble: name, headline and two contact lines.
type HeaderInfo struct {
	Name         string    `json:"name"`
	Headline     string    `json:"headline"`
	ContactLine1 []Contact `json:"contact_line_1"`
	ContactLine2 []Contact `json:"contact_line_2"`
}

// SubRole is a nested role under an experience entry.
type SubRole struct {
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Bullets []string `json:"bullets"`
}

// Entry is one record within a repeating section. Each section has its own
// concrete record type; the interface ties them to the registry.
type Entry interface {
	Section() schema.SectionType
	// Label is the short display text shown in entry lists.
	Label() string
	// Field returns the named schema field's value.
	Field(name string) (string, bool)
}

type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Date        string `json:"date"`
}

func (e EducationEntry) Section() schema.SectionType { return schema.Education }
func (e EducationEntry) Label() string               { return e.Institution + " -- " + e.Degree }

func (e EducationEntry) Field(name string) (string, bool) {
	switch name {
	case "institution":
		return e.Institution, true
	case "degree":
		return e.Degree, true
	case "date":
		return e.Date, true
	}
	return "", false
}

type ExperienceEntry struct {
	Title    string    `json:"title"`
	Org      string    `json:"org"`
	Date     string    `json:"date"`
	Location string    `json:"location"`
	Bullets  []string  `json:"bullets"`
	SubRoles []SubRole `json:"sub_roles,omitempty"`
}

func (e ExperienceEntry) Section() schema.SectionType { return schema.Experience }
func (e ExperienceEntry) Label() string               { return e.Title + " -- " + e.Org }

func (e ExperienceEntry) Field(name string) (string, bool) {
	switch name {
	case "title":
		return e.Title, true
	case "org":
		return e.Org, true
	case "date":
		return e.Date, true
	case "location":
		return e.Location, true
	}
	return "", false
}

type ProjectEntry struct {
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Bullets []string `json:"bullets"`
}

func (e ProjectEntry) Section() schema.SectionType { return schema.Projects }
func (e ProjectEntry) Label() string               { return e.Title }

func (e ProjectEntry) Field(name string) (string, bool) {
	switch name {
	case "title":
		return e.Title, true
	case "date":
		return e.Date, true
	}
	return "", false
}

type OrganisationEntry struct {
	Org         string   `json:"org"`
	Role        string   `json:"role"`
	Date        string   `json:"date"`
	Association string   `json:"association"`
	Bullets     []string `json:"bullets"`
}

func (e OrganisationEntry) Section() schema.SectionType { return schema.Organisations }
func (e OrganisationEntry) Label() string               { return e.Org + " -- " + e.Role }

func (e OrganisationEntry) Field(name string) (string, bool) {
	switch name {
	case "org":
		return e.Org, true
	case "role":
		return e.Role, true
	case "date":
		return e.Date, true
	case "association":
		return e.Association, true
	}
	return "", false
}

type VolunteerEntry struct {
	Role     string   `json:"role"`
	Org      string   `json:"org"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Bullets  []string `json:"bullets"`
}

func (e VolunteerEntry) Section() schema.SectionType { return schema.Volunteering }
func (e VolunteerEntry) Label() string               { return e.Role + " -- " + e.Org }

func (e VolunteerEntry) Field(name string) (string, bool) {
	switch name {
	case "role":
		return e.Role, true
	case "org":
		return e.Org, true
	case "date":
		return e.Date, true
	case "category":
		return e.Category, true
	}
	return "", false
}

type SkillCategory struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (e SkillCategory) Section() schema.SectionType { return schema.Skills }

func (e SkillCategory) Label() string {
	return fmt.Sprintf("%s (%d tags)", e.Category, len(e.Tags))
}

func (e SkillCategory) Field(name string) (string, bool) {
	if name == "category" {
		return e.Category, true
	}
	return "", false
}

type CertificationEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
}

func (e CertificationEntry) Section() schema.SectionType { return schema.Certifications }
func (e CertificationEntry) Label() string               { return e.Name }

func (e CertificationEntry) Field(name string) (string, bool) {
	switch name {
	case "name":
		return e.Name, true
	case "issuer":
		return e.Issuer, true
	}
	return "", false
}

type CourseEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (e CourseEntry) Section() schema.SectionType { return schema.Courses }
func (e CourseEntry) Label() string               { return e.Name }

func (e CourseEntry) Field(name string) (string, bool) {
	switch name {
	case "name":
		return e.Name, true
	case "description":
		return e.Description, true
	}
	return "", false
}

type AwardEntry struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

func (e AwardEntry) Section() schema.SectionType { return schema.Awards }
func (e AwardEntry) Label() string               { return e.Title }

func (e AwardEntry) Field(name string) (string, bool) {
	switch name {
	case "title":
		return e.Title, true
	case "issuer":
		return e.Issuer, true
	case "year":
		return e.Year, true
	}
	return "", false
}

type LanguageEntry struct {
	Level     string `json:"level"`
	Languages string `json:"languages"`
}

func (e LanguageEntry) Section() schema.SectionType { return schema.Languages }
func (e LanguageEntry) Label() string               { return e.Level + ": " + e.Languages }

func (e LanguageEntry) Field(name string) (string, bool) {
	switch name {
	case "level":
		return e.Level, true
	case "languages":
		return e.Languages, true
	}
	return "", false
}

// Bullets returns the entry's bullet list for sections that support bullets.
func Bullets(e Entry) []string {
	switch v := e.(type) {
	case ExperienceEntry:
		return v.Bullets
	case ProjectEntry:
		return v.Bullets
	case OrganisationEntry:
		return v.Bullets
	case VolunteerEntry:
		return v.Bullets
	}
	return nil
}
