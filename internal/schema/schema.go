package schema

import "fmt"

// SectionType identifies one of the fixed resume sections.
type SectionType string

const (
	Header         SectionType = "header"
	Profile        SectionType = "profile"
	Education      SectionType = "education"
	Experience     SectionType = "experience"
	Projects       SectionType = "projects"
	Organisations  SectionType = "organisations"
	Volunteering   SectionType = "volunteering"
	Skills         SectionType = "skills"
	Certifications SectionType = "certifications"
	Courses        SectionType = "courses"
	Awards         SectionType = "awards"
	Languages      SectionType = "languages"
)

// Field describes one named text field of an entry.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// Spec describes the shape of one section: its fields and capabilities.
type Spec struct {
	Type      SectionType `json:"type"`
	Title     string      `json:"title"`
	Singleton bool        `json:"singleton"`
	Bullets   bool        `json:"bullets"`
	SubRoles  bool        `json:"sub_roles"`
	Tags      bool        `json:"tags"`
	Fields    []Field     `json:"fields"`
}

var specs = []Spec{
	{Type: Header, Title: "Header", Singleton: true, Fields: []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "headline", Label: "Headline"},
	}},
	{Type: Profile, Title: "Profile", Singleton: true, Fields: []Field{
		{Name: "text", Label: "Profile text (raw LaTeX)"},
	}},
	{Type: Education, Title: "Education", Fields: []Field{
		{Name: "institution", Label: "Institution", Required: true},
		{Name: "degree", Label: "Degree / Programme", Required: true},
		{Name: "date", Label: "Date"},
	}},
	{Type: Experience, Title: "Experience", Bullets: true, SubRoles: true, Fields: []Field{
		{Name: "title", Label: "Title", Required: true},
		{Name: "org", Label: "Organisation", Required: true},
		{Name: "date", Label: "Date"},
		{Name: "location", Label: "Location"},
	}},
	{Type: Projects, Title: "Projects", Bullets: true, Fields: []Field{
		{Name: "title", Label: "Title", Required: true},
		{Name: "date", Label: "Date"},
	}},
	{Type: Organisations, Title: "Organisations", Bullets: true, Fields: []Field{
		{Name: "org", Label: "Organisation", Required: true},
		{Name: "role", Label: "Role", Required: true},
		{Name: "date", Label: "Date"},
		{Name: "association", Label: "Association"},
	}},
	{Type: Volunteering, Title: "Volunteering", Bullets: true, Fields: []Field{
		{Name: "role", Label: "Role", Required: true},
		{Name: "org", Label: "Organisation", Required: true},
		{Name: "date", Label: "Date"},
		{Name: "category", Label: "Category"},
	}},
	{Type: Skills, Title: "Skills", Tags: true, Fields: []Field{
		{Name: "category", Label: "Category name", Required: true},
	}},
	{Type: Certifications, Title: "Certifications", Fields: []Field{
		{Name: "name", Label: "Certificate Name", Required: true},
		{Name: "issuer", Label: "Issuer"},
	}},
	{Type: Courses, Title: "Courses", Fields: []Field{
		{Name: "name", Label: "Course Name", Required: true},
		{Name: "description", Label: "Description"},
	}},
	{Type: Awards, Title: "Honours & Awards", Fields: []Field{
		{Name: "title", Label: "Title", Required: true},
		{Name: "issuer", Label: "Issuer"},
		{Name: "year", Label: "Year"},
	}},
	{Type: Languages, Title: "Languages", Fields: []Field{
		{Name: "level", Label: "Level", Required: true},
		{Name: "languages", Label: "Languages"},
	}},
}

var byType = func() map[SectionType]Spec {
	m := make(map[SectionType]Spec, len(specs))
	for _, s := range specs {
		m[s.Type] = s
	}
	return m
}()

// All returns every section spec in canonical render order.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup returns the spec for the given section type.
func Lookup(t SectionType) (Spec, error) {
	s, ok := byType[t]
	if !ok {
		return Spec{}, fmt.Errorf("unknown section type %q", t)
	}
	return s, nil
}

// MustLookup is Lookup for section types known at compile time.
func MustLookup(t SectionType) Spec {
	s, err := Lookup(t)
	if err != nil {
		panic(err)
	}
	return s
}

// ByTitle resolves a section heading as it appears in the content file.
func ByTitle(title string) (Spec, bool) {
	for _, s := range specs {
		if s.Title == title {
			return s, true
		}
	}
	return Spec{}, false
}
