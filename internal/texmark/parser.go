package texmark

import (
	"fmt"
	"strings"

	"resumed/internal/resume"
	"resumed/internal/schema"
)

// Parse reconstructs a document from content text. Extraction is
// best-effort: malformed or unrecognized constructs are skipped and
// reported as warnings, and the rest of the file is still loaded. The
// sections present in the file keep their order; sections the file lacks
// are appended in canonical order.
func Parse(text string) (*resume.Document, []Warning) {
	p := &parser{}
	doc := &resume.Document{}

	preamble, sections := splitSections(text)
	doc.Header = p.parseHeader(preamble)

	for _, sec := range sections {
		title := strings.TrimSpace(unescapeValue(sec.title))
		spec, ok := schema.ByTitle(title)
		if !ok {
			p.warnf(title, "unrecognized section skipped")
			continue
		}
		if spec.Type == schema.Profile {
			doc.Profile = p.parseProfile(sec.body)
			appendSection(doc, schema.Profile, nil)
			continue
		}
		appendSection(doc, spec.Type, p.parseSection(spec, sec.body))
	}

	doc.EnsureSections()
	return doc, p.warnings
}

type parser struct {
	warnings []Warning
}

func (p *parser) warnf(section, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{
		Section: section,
		Message: fmt.Sprintf(format, args...),
	})
}

type rawSection struct {
	title string
	body  string
}

// splitSections divides the text into the preamble (everything before the
// first section heading) and the named section bodies, in source order.
func splitSections(text string) (preamble string, sections []rawSection) {
	type mark struct {
		start int
		title string
		after int
	}
	var marks []mark
	pos := 0
	for {
		idx := strings.Index(text[pos:], `\section`)
		if idx < 0 {
			break
		}
		idx += pos
		wordEnd := idx + len(`\section`)
		if wordEnd < len(text) && isLetter(text[wordEnd]) {
			pos = wordEnd // longer control word, e.g. \sectionspacing
			continue
		}
		title, after, ok := braceArg(text, wordEnd)
		if !ok {
			pos = wordEnd
			continue
		}
		marks = append(marks, mark{start: idx, title: title, after: after})
		pos = after
	}
	if len(marks) == 0 {
		return text, nil
	}
	preamble = text[:marks[0].start]
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		sections = append(sections, rawSection{title: m.title, body: text[m.after:end]})
	}
	return preamble, sections
}

func appendSection(doc *resume.Document, t schema.SectionType, entries []resume.Entry) {
	for i := range doc.Sections {
		if doc.Sections[i].Type == t {
			doc.Sections[i].Entries = append(doc.Sections[i].Entries, entries...)
			return
		}
	}
	doc.Sections = append(doc.Sections, resume.Section{Type: t, Entries: entries})
}

// ── header ──────────────────────────────────────────────────────────────

func (p *parser) parseHeader(preamble string) resume.HeaderInfo {
	idx := strings.Index(preamble, `\makeheader`)
	if idx < 0 {
		return resume.HeaderInfo{}
	}
	args, _, ok := braceArgs(preamble, idx+len(`\makeheader`), 4)
	if !ok {
		p.warnf("header", `malformed \makeheader invocation`)
		return resume.HeaderInfo{}
	}
	return resume.HeaderInfo{
		Name:         unescapeValue(strings.TrimSpace(args[0])),
		Headline:     unescapeValue(strings.TrimSpace(args[1])),
		ContactLine1: p.parseContactLine(args[2]),
		ContactLine2: p.parseContactLine(args[3]),
	}
}

func (p *parser) parseContactLine(raw string) []resume.Contact {
	var contacts []resume.Contact
	for _, part := range strings.Split(raw, `\contactsep`) {
		part = strings.TrimSpace(part)
		part = strings.TrimSpace(strings.TrimRight(part, "%"))
		if part == "" {
			continue
		}
		switch {
		case strings.Contains(part, `\contactlink`):
			idx := strings.Index(part, `\contactlink`)
			args, _, ok := braceArgs(part, idx+len(`\contactlink`), 3)
			if !ok {
				p.warnf("header", `malformed \contactlink invocation`)
				continue
			}
			contacts = append(contacts, resume.Contact{
				Kind: resume.ContactLink,
				Icon: iconName(args[0]),
				URL:  strings.TrimSpace(args[1]),
				Text: unescapeValue(strings.TrimSpace(args[2])),
			})
		case strings.Contains(part, `\contactitem`):
			idx := strings.Index(part, `\contactitem`)
			args, _, ok := braceArgs(part, idx+len(`\contactitem`), 2)
			if !ok {
				p.warnf("header", `malformed \contactitem invocation`)
				continue
			}
			contacts = append(contacts, resume.Contact{
				Kind: resume.ContactItem,
				Icon: iconName(args[0]),
				Text: unescapeValue(strings.TrimSpace(args[1])),
			})
		default:
			p.warnf("header", "unrecognized contact entry %q", part)
		}
	}
	return contacts
}

func iconName(raw string) string {
	idx := strings.Index(raw, `\faIcon`)
	if idx < 0 {
		return strings.TrimSpace(raw)
	}
	name, _, ok := braceArg(raw, idx+len(`\faIcon`))
	if !ok {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(name)
}

// ── profile ─────────────────────────────────────────────────────────────

// parseProfile extracts the profile body. Profile text is raw backend
// markup by contract, so it is not unescaped.
func (p *parser) parseProfile(body string) string {
	idx := strings.Index(body, `{\bodysize`)
	if idx < 0 {
		return strings.TrimSpace(stripComments(body))
	}
	content, _, ok := braceArg(body, idx)
	if !ok {
		p.warnf("Profile", "malformed profile block")
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(content, `\bodysize`))
}

func stripComments(body string) string {
	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "%") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// ── section dispatch ────────────────────────────────────────────────────

func (p *parser) parseSection(spec schema.Spec, body string) []resume.Entry {
	switch spec.Type {
	case schema.Education:
		return p.parseSimple(spec, `education`, func(args, _ []string) resume.Entry {
			return resume.EducationEntry{Institution: args[0], Degree: args[1], Date: args[2]}
		}, body)
	case schema.Experience:
		return p.parseExperience(body)
	case schema.Projects:
		return p.parseSimple(spec, `project`, func(args, bullets []string) resume.Entry {
			return resume.ProjectEntry{Title: args[0], Date: args[1], Bullets: bullets}
		}, body)
	case schema.Organisations:
		return p.parseSimple(spec, `organisation`, func(args, bullets []string) resume.Entry {
			return resume.OrganisationEntry{Org: args[0], Role: args[1], Date: args[2], Association: args[3], Bullets: bullets}
		}, body)
	case schema.Volunteering:
		return p.parseSimple(spec, `volunteer`, func(args, bullets []string) resume.Entry {
			return resume.VolunteerEntry{Role: args[0], Org: args[1], Date: args[2], Category: args[3], Bullets: bullets}
		}, body)
	case schema.Skills:
		return p.parseSkills(body)
	case schema.Certifications:
		return p.parseCertifications(body)
	case schema.Courses:
		return p.parseCourses(body)
	case schema.Awards:
		return p.parseSimple(spec, `award`, func(args, _ []string) resume.Entry {
			return resume.AwardEntry{Title: args[0], Issuer: args[1], Year: args[2]}
		}, body)
	case schema.Languages:
		return p.parseLanguages(body)
	}
	return nil
}

// walk scans a section body at top level: comments are skipped, control
// sequences are passed to handleWord, opening braces to handleOpen (when
// non-nil). Unhandled control sequences produce one warning each and their
// trailing argument groups are consumed so argument text is not re-scanned.
func (p *parser) walk(
	section, body string,
	handleWord func(word string, pos int) (next int, handled bool),
	handleOpen func(pos int) (next int, handled bool),
) {
	pos := 0
	for pos < len(body) {
		switch body[pos] {
		case '%':
			for pos < len(body) && body[pos] != '\n' {
				pos++
			}
		case '{':
			if handleOpen != nil {
				if next, handled := handleOpen(pos); handled {
					pos = next
					continue
				}
			}
			pos++
		case '\\':
			word, after := controlWord(body, pos)
			if word == "" {
				pos = after
				continue
			}
			if handleWord != nil {
				if next, handled := handleWord(word, after); handled {
					pos = next
					continue
				}
			}
			if word == "begin" {
				if next, ok := skipEnvironment(body, after); ok {
					p.warnf(section, "unexpected environment skipped")
					pos = next
					continue
				}
			}
			p.warnf(section, `unrecognized invocation \%s skipped`, word)
			pos = consumeArgs(body, after)
		default:
			pos++
		}
	}
}

// consumeArgs swallows any brace groups directly following a skipped
// command so their contents are not mistaken for top-level constructs.
func consumeArgs(body string, pos int) int {
	for {
		_, next, ok := braceArg(body, pos)
		if !ok {
			return pos
		}
		pos = next
	}
}

func (p *parser) parseSimple(
	spec schema.Spec,
	cmd string,
	build func(args, bullets []string) resume.Entry,
	body string,
) []resume.Entry {
	var entries []resume.Entry
	arity := len(spec.Fields)
	p.walk(spec.Title, body, func(word string, pos int) (int, bool) {
		if word != cmd {
			return 0, false
		}
		args, next, ok := braceArgs(body, pos, arity)
		if !ok {
			p.warnf(spec.Title, `malformed \%s invocation skipped`, cmd)
			return pos, true
		}
		var bullets []string
		if spec.Bullets {
			bullets, next = bulletBlock(body, next)
		}
		entries = append(entries, build(unescapeAll(args), bullets))
		return next, true
	}, nil)
	return entries
}

func (p *parser) parseExperience(body string) []resume.Entry {
	title := schema.MustLookup(schema.Experience).Title
	var entries []resume.ExperienceEntry
	p.walk(title, body, func(word string, pos int) (int, bool) {
		switch word {
		case "experience":
			args, next, ok := braceArgs(body, pos, 4)
			if !ok {
				p.warnf(title, `malformed \experience invocation skipped`)
				return pos, true
			}
			bullets, next := bulletBlock(body, next)
			a := unescapeAll(args)
			entries = append(entries, resume.ExperienceEntry{
				Title: a[0], Org: a[1], Date: a[2], Location: a[3], Bullets: bullets,
			})
			return next, true
		case "subrole":
			args, next, ok := braceArgs(body, pos, 2)
			if !ok {
				p.warnf(title, `malformed \subrole invocation skipped`)
				return pos, true
			}
			bullets, next := bulletBlock(body, next)
			if len(entries) == 0 {
				p.warnf(title, "sub-role without a parent entry skipped")
				return next, true
			}
			a := unescapeAll(args)
			last := &entries[len(entries)-1]
			last.SubRoles = append(last.SubRoles, resume.SubRole{
				Title: a[0], Date: a[1], Bullets: bullets,
			})
			return next, true
		}
		return 0, false
	}, nil)
	out := make([]resume.Entry, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}

func (p *parser) parseSkills(body string) []resume.Entry {
	title := schema.MustLookup(schema.Skills).Title
	var entries []resume.Entry
	p.walk(title, body, func(word string, pos int) (int, bool) {
		if word != "skillcategory" {
			return 0, false
		}
		args, next, ok := braceArgs(body, pos, 2)
		if !ok {
			p.warnf(title, `malformed \skillcategory invocation skipped`)
			return pos, true
		}
		var tags []string
		tagsRaw := args[1]
		for i := 0; i < len(tagsRaw); {
			idx := strings.Index(tagsRaw[i:], `\skilltag`)
			if idx < 0 {
				break
			}
			tag, after, ok := braceArg(tagsRaw, i+idx+len(`\skilltag`))
			if !ok {
				p.warnf(title, `malformed \skilltag invocation skipped`)
				i += idx + len(`\skilltag`)
				continue
			}
			tags = append(tags, unescapeValue(strings.TrimSpace(tag)))
			i = after
		}
		entries = append(entries, resume.SkillCategory{
			Category: unescapeValue(strings.TrimSpace(args[0])),
			Tags:     tags,
		})
		return next, true
	}, nil)
	return entries
}

func (p *parser) parseCertifications(body string) []resume.Entry {
	title := schema.MustLookup(schema.Certifications).Title
	var entries []resume.Entry
	p.walk(title, body, func(word string, pos int) (int, bool) {
		switch word {
		case "begin", "end":
			// Environment wrappers around the item list; skip the name
			// argument but keep scanning the contents.
			_, next, ok := braceArg(body, pos)
			if !ok {
				return pos, true
			}
			return next, true
		case "bodysize":
			return pos, true
		case "item":
			entry, next, ok := parseCertificationItem(body, pos)
			if !ok {
				p.warnf(title, "malformed certification item skipped")
				return pos, true
			}
			entries = append(entries, entry)
			return next, true
		}
		return 0, false
	}, nil)
	return entries
}

// parseCertificationItem reads the remainder of a certification line:
//
//	\item \textbf{NAME} \,{\color{subtle}--- ISSUER}
func parseCertificationItem(body string, pos int) (resume.CertificationEntry, int, bool) {
	pos = skipSpace(body, pos)
	if !strings.HasPrefix(body[pos:], `\textbf`) {
		return resume.CertificationEntry{}, pos, false
	}
	name, pos, ok := braceArg(body, pos+len(`\textbf`))
	if !ok {
		return resume.CertificationEntry{}, pos, false
	}
	pos = skipSpace(body, pos)
	if strings.HasPrefix(body[pos:], `\,`) {
		pos += len(`\,`)
	}
	style, next, ok := braceArg(body, pos)
	if !ok || !strings.HasPrefix(style, `\color{subtle}`) {
		return resume.CertificationEntry{}, pos, false
	}
	issuer := strings.TrimPrefix(style, `\color{subtle}`)
	issuer = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(issuer), "---"))
	return resume.CertificationEntry{
		Name:   unescapeValue(strings.TrimSpace(name)),
		Issuer: unescapeValue(issuer),
	}, next, true
}

func (p *parser) parseCourses(body string) []resume.Entry {
	title := schema.MustLookup(schema.Courses).Title
	var entries []resume.Entry
	p.walk(title, body, nil, func(pos int) (int, bool) {
		if !strings.HasPrefix(body[pos:], `{\bodysize`) {
			return 0, false
		}
		content, next, ok := braceArg(body, pos)
		if !ok {
			p.warnf(title, "malformed course block skipped")
			return pos + 1, true
		}
		entry, ok := parseCourseBlock(content)
		if !ok {
			p.warnf(title, "malformed course block skipped")
			return next, true
		}
		entries = append(entries, entry)
		return next, true
	})
	return entries
}

// parseCourseBlock reads the inside of a course group:
//
//	\bodysize\textbf{NAME} --- DESCRIPTION
func parseCourseBlock(content string) (resume.CourseEntry, bool) {
	content = strings.TrimSpace(strings.TrimPrefix(content, `\bodysize`))
	if !strings.HasPrefix(content, `\textbf`) {
		return resume.CourseEntry{}, false
	}
	name, pos, ok := braceArg(content, len(`\textbf`))
	if !ok {
		return resume.CourseEntry{}, false
	}
	desc := strings.TrimSpace(content[pos:])
	desc = strings.TrimSpace(strings.TrimPrefix(desc, "---"))
	return resume.CourseEntry{
		Name:        unescapeValue(strings.TrimSpace(name)),
		Description: unescapeValue(desc),
	}, true
}

func (p *parser) parseLanguages(body string) []resume.Entry {
	title := schema.MustLookup(schema.Languages).Title
	var entries []resume.Entry
	p.walk(title, body, func(word string, pos int) (int, bool) {
		switch word {
		case "contactsep":
			return pos, true
		case "langentry":
			args, next, ok := braceArgs(body, pos, 2)
			if !ok {
				p.warnf(title, `malformed \langentry invocation skipped`)
				return pos, true
			}
			a := unescapeAll(args)
			entries = append(entries, resume.LanguageEntry{Level: a[0], Languages: a[1]})
			return next, true
		}
		return 0, false
	}, nil)
	return entries
}

func unescapeAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = unescapeValue(strings.TrimSpace(a))
	}
	return out
}
