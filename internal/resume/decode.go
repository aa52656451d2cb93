package resume

import (
	"encoding/json"
	"fmt"

	"resumed/internal/schema"
)

// Decode unmarshals a JSON entry body into the concrete record type for the
// given section.
func Decode(t schema.SectionType, raw []byte) (Entry, error) {
	switch t {
	case schema.Education:
		return decodeInto[EducationEntry](t, raw)
	case schema.Experience:
		return decodeInto[ExperienceEntry](t, raw)
	case schema.Projects:
		return decodeInto[ProjectEntry](t, raw)
	case schema.Organisations:
		return decodeInto[OrganisationEntry](t, raw)
	case schema.Volunteering:
		return decodeInto[VolunteerEntry](t, raw)
	case schema.Skills:
		return decodeInto[SkillCategory](t, raw)
	case schema.Certifications:
		return decodeInto[CertificationEntry](t, raw)
	case schema.Courses:
		return decodeInto[CourseEntry](t, raw)
	case schema.Awards:
		return decodeInto[AwardEntry](t, raw)
	case schema.Languages:
		return decodeInto[LanguageEntry](t, raw)
	}
	return nil, fmt.Errorf("section %q has no entry type", t)
}

func decodeInto[T Entry](t schema.SectionType, raw []byte) (Entry, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s entry: %w", t, err)
	}
	return v, nil
}
