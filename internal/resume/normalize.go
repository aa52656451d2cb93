package resume

import "strings"

// Normalize trims field values and drops empty list items so that a
// committed entry is byte-identical to what parsing its serialized form
// yields. Every entry passes through here before it reaches the document.
func Normalize(e Entry) Entry {
	switch v := e.(type) {
	case EducationEntry:
		return EducationEntry{
			Institution: strings.TrimSpace(v.Institution),
			Degree:      strings.TrimSpace(v.Degree),
			Date:        strings.TrimSpace(v.Date),
		}
	case ExperienceEntry:
		out := ExperienceEntry{
			Title:    strings.TrimSpace(v.Title),
			Org:      strings.TrimSpace(v.Org),
			Date:     strings.TrimSpace(v.Date),
			Location: strings.TrimSpace(v.Location),
			Bullets:  cleanList(v.Bullets),
		}
		for _, sr := range v.SubRoles {
			out.SubRoles = append(out.SubRoles, SubRole{
				Title:   strings.TrimSpace(sr.Title),
				Date:    strings.TrimSpace(sr.Date),
				Bullets: cleanList(sr.Bullets),
			})
		}
		return out
	case ProjectEntry:
		return ProjectEntry{
			Title:   strings.TrimSpace(v.Title),
			Date:    strings.TrimSpace(v.Date),
			Bullets: cleanList(v.Bullets),
		}
	case OrganisationEntry:
		return OrganisationEntry{
			Org:         strings.TrimSpace(v.Org),
			Role:        strings.TrimSpace(v.Role),
			Date:        strings.TrimSpace(v.Date),
			Association: strings.TrimSpace(v.Association),
			Bullets:     cleanList(v.Bullets),
		}
	case VolunteerEntry:
		return VolunteerEntry{
			Role:     strings.TrimSpace(v.Role),
			Org:      strings.TrimSpace(v.Org),
			Date:     strings.TrimSpace(v.Date),
			Category: strings.TrimSpace(v.Category),
			Bullets:  cleanList(v.Bullets),
		}
	case SkillCategory:
		return SkillCategory{
			Category: strings.TrimSpace(v.Category),
			Tags:     cleanList(v.Tags),
		}
	case CertificationEntry:
		return CertificationEntry{
			Name:   strings.TrimSpace(v.Name),
			Issuer: strings.TrimSpace(v.Issuer),
		}
	case CourseEntry:
		return CourseEntry{
			Name:        strings.TrimSpace(v.Name),
			Description: strings.TrimSpace(v.Description),
		}
	case AwardEntry:
		return AwardEntry{
			Title:  strings.TrimSpace(v.Title),
			Issuer: strings.TrimSpace(v.Issuer),
			Year:   strings.TrimSpace(v.Year),
		}
	case LanguageEntry:
		return LanguageEntry{
			Level:     strings.TrimSpace(v.Level),
			Languages: strings.TrimSpace(v.Languages),
		}
	}
	return e
}

// NormalizeHeader applies the same discipline to the header singleton.
func NormalizeHeader(h HeaderInfo) HeaderInfo {
	return HeaderInfo{
		Name:         strings.TrimSpace(h.Name),
		Headline:     strings.TrimSpace(h.Headline),
		ContactLine1: cleanContacts(h.ContactLine1),
		ContactLine2: cleanContacts(h.ContactLine2),
	}
}

func cleanList(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cleanContacts(contacts []Contact) []Contact {
	var out []Contact
	for _, c := range contacts {
		c.Icon = strings.TrimSpace(c.Icon)
		c.Text = strings.TrimSpace(c.Text)
		c.URL = strings.TrimSpace(c.URL)
		if c.Icon == "" && c.Text == "" && c.URL == "" {
			continue
		}
		if c.Kind != ContactLink {
			c.Kind = ContactItem
			c.URL = ""
		}
		out = append(out, c)
	}
	return out
}
