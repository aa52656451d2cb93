package texmark

import (
	"fmt"
	"strings"

	"resumed/internal/resume"
	"resumed/internal/schema"
)

const fileHeader = `%% ==========================================================================
%%  CONTENT — Your actual resume data
%%  -----------------------------------------------------------------------
%%  This is the ONLY file you need to edit when updating your resume.
%%  Just modify entries, add new ones, or reorder sections.
%% ==========================================================================`

// Serialize renders the document in the backend's macro syntax: the header
// preamble first, then each section in document order. Field values are
// escaped through the fixed table; values the format cannot carry fail the
// whole serialization before anything is written.
func Serialize(doc *resume.Document) (string, error) {
	parts := []string{fileHeader}

	header, err := genHeader(doc.Header)
	if err != nil {
		return "", err
	}
	parts = append(parts, header)

	for _, sec := range doc.Sections {
		var (
			block string
			err   error
		)
		switch sec.Type {
		case schema.Profile:
			block, err = genProfile(doc.Profile)
		case schema.Education:
			block, err = genEducation(sec.Entries)
		case schema.Experience:
			block, err = genExperience(sec.Entries)
		case schema.Projects:
			block, err = genBulleted(sec.Entries, schema.Projects, "PROJECTS", `\project`)
		case schema.Organisations:
			block, err = genBulleted(sec.Entries, schema.Organisations, "ORGANISATIONS", `\organisation`)
		case schema.Volunteering:
			block, err = genBulleted(sec.Entries, schema.Volunteering, "VOLUNTEERING", `\volunteer`)
		case schema.Skills:
			block, err = genSkills(sec.Entries)
		case schema.Certifications:
			block, err = genCertifications(sec.Entries)
		case schema.Courses:
			block, err = genCourses(sec.Entries)
		case schema.Awards:
			block, err = genPlain(sec.Entries, schema.Awards, "HONOURS", `\award`)
		case schema.Languages:
			block, err = genLanguages(sec.Entries)
		default:
			err = fmt.Errorf("no serializer for section %q", sec.Type)
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, block)
	}

	return strings.Join(parts, "\n") + "\n", nil
}

func sectionComment(label string) string {
	prefix := "% ========================== " + label + " "
	pad := 76 - len(prefix)
	if pad < 4 {
		pad = 4
	}
	return "\n" + prefix + strings.Repeat("=", pad)
}

func sectionHead(t schema.SectionType, label string) (string, error) {
	title, err := escapeValue(string(t)+" title", schema.MustLookup(t).Title)
	if err != nil {
		return "", err
	}
	return sectionComment(label) + "\n\\section{" + title + "}", nil
}

func genBullets(where string, bullets []string) (string, error) {
	if len(bullets) == 0 {
		return "", nil
	}
	lines := []string{`\begin{bullets}`}
	for i, b := range bullets {
		v, err := escapeValue(fmt.Sprintf("%s.bullets[%d]", where, i), b)
		if err != nil {
			return "", err
		}
		lines = append(lines, `    \item `+v)
	}
	lines = append(lines, `\end{bullets}`)
	return strings.Join(lines, "\n"), nil
}

// ── header ──────────────────────────────────────────────────────────────

func genHeader(h resume.HeaderInfo) (string, error) {
	name, err := escapeValue("header.name", h.Name)
	if err != nil {
		return "", err
	}
	headline, err := escapeValue("header.headline", h.Headline)
	if err != nil {
		return "", err
	}
	cl1, err := genContactLine("header.contact_line_1", h.ContactLine1)
	if err != nil {
		return "", err
	}
	cl2, err := genContactLine("header.contact_line_2", h.ContactLine2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\\makeheader\n    {%s}\n    {%s}\n    {%%\n%s\n    }\n    {%%\n%s\n    }",
		sectionComment("HEADER"), name, headline, cl1, cl2), nil
}

func genContactLine(where string, contacts []resume.Contact) (string, error) {
	parts := make([]string, 0, len(contacts))
	for i, c := range contacts {
		w := fmt.Sprintf("%s[%d]", where, i)
		text, err := escapeValue(w+".text", c.Text)
		if err != nil {
			return "", err
		}
		if err := checkRaw(w+".icon", c.Icon); err != nil {
			return "", err
		}
		if c.Kind == resume.ContactLink {
			if err := checkRaw(w+".url", c.URL); err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf(`        \contactlink{\faIcon{%s}}{%s}{%s}%%`, c.Icon, c.URL, text))
		} else {
			parts = append(parts, fmt.Sprintf(`        \contactitem{\faIcon{%s}}{%s}%%`, c.Icon, text))
		}
	}
	return strings.Join(parts, "\n        \\contactsep%\n"), nil
}

// checkRaw guards values emitted without escaping (icon names, URLs):
// braces or control characters there would corrupt the surrounding group.
func checkRaw(where, s string) error {
	if strings.ContainsAny(s, "{}\\%") {
		return &SerializationError{Where: where, Message: "contains reserved characters"}
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return &SerializationError{Where: where, Message: "contains control characters"}
		}
	}
	return nil
}

// ── profile ─────────────────────────────────────────────────────────────

// genProfile emits the profile verbatim: its text is raw backend markup by
// contract, so only structural damage is rejected.
func genProfile(text string) (string, error) {
	if err := checkBalanced("profile", text); err != nil {
		return "", err
	}
	return sectionComment("SUMMARY") + "\n\\section{Profile}\n\n{\\bodysize\n" + text + "\n}", nil
}

// checkBalanced rejects raw markup whose brace groups do not balance,
// which would swallow or break every section after it.
func checkBalanced(where, s string) error {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return &SerializationError{Where: where, Message: "unbalanced braces"}
			}
		}
	}
	if depth != 0 {
		return &SerializationError{Where: where, Message: "unbalanced braces"}
	}
	return nil
}

// ── sections ────────────────────────────────────────────────────────────

// escapeFields renders the entry's schema fields in declaration order.
func escapeFields(e resume.Entry, i int) ([]string, error) {
	spec := schema.MustLookup(e.Section())
	args := make([]string, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		v, _ := e.Field(f.Name)
		escaped, err := escapeValue(fmt.Sprintf("%s[%d].%s", e.Section(), i, f.Name), v)
		if err != nil {
			return nil, err
		}
		args = append(args, escaped)
	}
	return args, nil
}

func braced(args []string) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString("{")
		b.WriteString(a)
		b.WriteString("}")
	}
	return b.String()
}

func genEducation(entries []resume.Entry) (string, error) {
	head, err := sectionHead(schema.Education, "EDUCATION")
	if err != nil {
		return "", err
	}
	lines := []string{head + "\n"}
	for i, e := range entries {
		args, err := escapeFields(e, i)
		if err != nil {
			return "", err
		}
		lines = append(lines, `\education`+braced(args))
	}
	return strings.Join(lines, "\n"), nil
}

func genExperience(entries []resume.Entry) (string, error) {
	head, err := sectionHead(schema.Experience, "EXPERIENCE")
	if err != nil {
		return "", err
	}
	lines := []string{head}
	for i, e := range entries {
		exp, ok := e.(resume.ExperienceEntry)
		if !ok {
			return "", fmt.Errorf("experience[%d]: unexpected entry type %T", i, e)
		}
		args, err := escapeFields(e, i)
		if err != nil {
			return "", err
		}
		where := fmt.Sprintf("experience[%d]", i)
		bullets, err := genBullets(where, exp.Bullets)
		if err != nil {
			return "", err
		}
		lines = append(lines, "", `\experience`+braced(args), bullets)
		for j, sr := range exp.SubRoles {
			w := fmt.Sprintf("%s.sub_roles[%d]", where, j)
			title, err := escapeValue(w+".title", sr.Title)
			if err != nil {
				return "", err
			}
			date, err := escapeValue(w+".date", sr.Date)
			if err != nil {
				return "", err
			}
			srBullets, err := genBullets(w, sr.Bullets)
			if err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf(`\subrole{%s}{%s}`, title, date), srBullets)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// genBulleted covers the sections whose entries are one command plus an
// optional bullet block: projects, organisations and volunteering.
func genBulleted(entries []resume.Entry, t schema.SectionType, label, cmd string) (string, error) {
	head, err := sectionHead(t, label)
	if err != nil {
		return "", err
	}
	lines := []string{head}
	for i, e := range entries {
		args, err := escapeFields(e, i)
		if err != nil {
			return "", err
		}
		bullets, err := genBullets(fmt.Sprintf("%s[%d]", t, i), resume.Bullets(e))
		if err != nil {
			return "", err
		}
		lines = append(lines, "", cmd+braced(args), bullets)
	}
	return strings.Join(lines, "\n"), nil
}

// genPlain covers sections whose entries are a single bare command.
func genPlain(entries []resume.Entry, t schema.SectionType, label, cmd string) (string, error) {
	head, err := sectionHead(t, label)
	if err != nil {
		return "", err
	}
	lines := []string{head + "\n"}
	for i, e := range entries {
		args, err := escapeFields(e, i)
		if err != nil {
			return "", err
		}
		lines = append(lines, cmd+braced(args))
	}
	return strings.Join(lines, "\n"), nil
}

func genSkills(entries []resume.Entry) (string, error) {
	head, err := sectionHead(schema.Skills, "SKILLS")
	if err != nil {
		return "", err
	}
	lines := []string{head}
	for i, e := range entries {
		cat, ok := e.(resume.SkillCategory)
		if !ok {
			return "", fmt.Errorf("skills[%d]: unexpected entry type %T", i, e)
		}
		where := fmt.Sprintf("skills[%d]", i)
		name, err := escapeValue(where+".category", cat.Category)
		if err != nil {
			return "", err
		}
		tags := make([]string, 0, len(cat.Tags))
		for j, tag := range cat.Tags {
			v, err := escapeValue(fmt.Sprintf("%s.tags[%d]", where, j), tag)
			if err != nil {
				return "", err
			}
			tags = append(tags, `\skilltag{`+v+`}`)
		}
		lines = append(lines, fmt.Sprintf("\n\\skillcategory{%s}{%%\n    %s%%\n}", name, strings.Join(tags, "%\n    ")))
	}
	return strings.Join(lines, "\n"), nil
}

func genCertifications(entries []resume.Entry) (string, error) {
	head, err := sectionHead(schema.Certifications, "CERTIFICATIONS")
	if err != nil {
		return "", err
	}
	lines := []string{
		head + "\n",
		`\begin{multicols}{2}`,
		`\begin{itemize}[leftmargin=15pt, itemsep=2pt, parsep=1pt, topsep=2pt]`,
		`    \bodysize`,
	}
	for i, c := range entries {
		args, err := escapeFields(c, i)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf(`    \item \textbf{%s} \,{\color{subtle}--- %s}`, args[0], args[1]))
	}
	lines = append(lines, `\end{itemize}`, `\end{multicols}`)
	return strings.Join(lines, "\n"), nil
}

func genCourses(entries []resume.Entry) (string, error) {
	head, err := sectionHead(schema.Courses, "COURSES")
	if err != nil {
		return "", err
	}
	lines := []string{head + "\n"}
	for i, c := range entries {
		args, err := escapeFields(c, i)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf(`{\bodysize\textbf{%s} --- %s}`, args[0], args[1]))
	}
	return strings.Join(lines, "\n"), nil
}

func genLanguages(entries []resume.Entry) (string, error) {
	head, err := sectionHead(schema.Languages, "LANGUAGES")
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		args, err := escapeFields(e, i)
		if err != nil {
			return "", err
		}
		line := `\langentry` + braced(args)
		if i < len(entries)-1 {
			line += "%"
		}
		parts = append(parts, line)
	}
	return head + "\n\n" + strings.Join(parts, "\n\\contactsep%\n"), nil
}
