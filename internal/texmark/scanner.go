package texmark

import "strings"

// Low-level scanning helpers over raw content text. The grammar is small:
// control words introduced by a backslash, positional arguments as balanced
// brace groups, and one environment form for bullet lists. A backslash
// escapes the character after it, so escaped braces never affect nesting.

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// braceArg extracts the contents of the brace group starting at or just
// after pos (leading whitespace allowed). Returns ok=false when the next
// non-space character is not an opening brace or the group never closes.
func braceArg(text string, pos int) (arg string, next int, ok bool) {
	pos = skipSpace(text, pos)
	if pos >= len(text) || text[pos] != '{' {
		return "", pos, false
	}
	depth := 0
	start := pos + 1
	for i := pos; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++ // escaped character, ignore for nesting
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start:i], i + 1, true
			}
		}
	}
	return "", pos, false
}

// braceArgs reads n consecutive brace groups.
func braceArgs(text string, pos, n int) (args []string, next int, ok bool) {
	args = make([]string, 0, n)
	for i := 0; i < n; i++ {
		arg, p, ok := braceArg(text, pos)
		if !ok {
			return nil, pos, false
		}
		args = append(args, arg)
		pos = p
	}
	return args, pos, true
}

// controlWord reads the control sequence at pos (which must point at the
// backslash). A run of letters forms a word; a single non-letter character
// forms a one-character sequence.
func controlWord(text string, pos int) (word string, next int) {
	i := pos + 1
	for i < len(text) && isLetter(text[i]) {
		i++
	}
	if i == pos+1 && i < len(text) {
		return text[pos+1 : i+1], i + 1
	}
	return text[pos+1 : i], i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

const (
	bulletsBegin = `\begin{bullets}`
	bulletsEnd   = `\end{bullets}`
)

// bulletBlock collects the items of a bullets environment immediately
// following pos. The environment must be the next construct; a block that
// appears after some other command belongs to that command, not to the
// entry being parsed.
func bulletBlock(text string, pos int) (bullets []string, next int) {
	begin := skipSpace(text, pos)
	if !strings.HasPrefix(text[begin:], bulletsBegin) {
		return nil, pos
	}
	end := strings.Index(text[begin:], bulletsEnd)
	if end < 0 {
		return nil, pos
	}
	end += begin
	block := text[begin+len(bulletsBegin) : end]
	for i := 0; i < len(block); {
		idx := strings.Index(block[i:], `\item`)
		if idx < 0 {
			break
		}
		itemStart := i + idx + len(`\item`)
		rest := block[itemStart:]
		stop := strings.Index(rest, `\item`)
		if stop < 0 {
			stop = len(rest)
		}
		if item := strings.TrimSpace(rest[:stop]); item != "" {
			bullets = append(bullets, unescapeValue(item))
		}
		i = itemStart + stop
	}
	return bullets, end + len(bulletsEnd)
}

// skipEnvironment advances past the \end matching the \begin whose name
// argument starts at pos. Returns the original position when no matching
// \end exists.
func skipEnvironment(text string, pos int) (next int, ok bool) {
	name, p, ok := braceArg(text, pos)
	if !ok {
		return pos, false
	}
	closing := `\end{` + name + `}`
	idx := strings.Index(text[p:], closing)
	if idx < 0 {
		return pos, false
	}
	return p + idx + len(closing), true
}
