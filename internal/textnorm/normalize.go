// Package textnorm turns raw extracted document text into cleaned text ready
// for prompt construction. Normalize is pure, deterministic and idempotent.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// translit maps typographic unicode to ASCII equivalents. Characters outside
// this table, the bullet table and the ASCII printable range are dropped.
var translit = map[rune]string{
	'‘': "'",   // left single quote
	'’': "'",   // right single quote
	'“': `"`,   // left double quote
	'”': `"`,   // right double quote
	'\u00a0': " ", // non-breaking space
	'…': "...", // ellipsis
	'·': "-",   // middle dot
}

// bulletGlyphs is the fixed table of glyphs recognized as bullet markers.
// They survive unicode sanitization so bullet normalization can see them.
var bulletGlyphs = map[rune]struct{}{
	'•': {}, // •
	'●': {}, // ●
	'○': {}, // ○
	'◦': {}, // ◦
	'▪': {}, // ▪
	'▫': {}, // ▫
	'■': {}, // ■
	'□': {}, // □
	'◆': {}, // ◆
	'◇': {}, // ◇
	'★': {}, // ★
	'☆': {}, // ☆
	'►': {}, // ►
	'▸': {}, // ▸
	'➢': {}, // ➢
	'➤': {}, // ➤
	'→': {}, // →
	'⇒': {}, // ⇒
	'✓': {}, // ✓
	'✔': {}, // ✔
	'–': {}, // – en dash
	'—': {}, // — em dash
}

// Normalize cleans raw document text. Steps run in a fixed order because
// later steps assume the invariants of earlier ones. Empty or whitespace-only
// input returns "".
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	s := sanitizeUnicode(raw)
	s = normalizeBullets(s)
	s = flattenTables(s)
	s = rejoinSentences(s)
	s = collapseBlankLines(s)
	return strings.TrimSpace(s)
}

// sanitizeUnicode keeps ASCII printable, newline and tab, transliterates
// known typographic characters and preserves permitted bullet glyphs.
// Everything else is stripped.
func sanitizeUnicode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == '\r':
			// dropped; \r\n collapses to \n
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			if rep, ok := translit[r]; ok {
				b.WriteString(rep)
			} else if _, ok := bulletGlyphs[r]; ok {
				b.WriteRune(r)
			}
			// anything else is dropped
		}
	}
	return b.String()
}

// normalizeBullets maps every bullet glyph at the start of a line to the
// canonical "- " marker; glyphs elsewhere become a plain dash so no
// non-canonical glyph survives this step.
func normalizeBullets(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if r, size := firstRune(trimmed); size > 0 {
			if _, ok := bulletGlyphs[r]; ok {
				rest := strings.TrimLeft(trimmed[size:], " \t")
				lines[i] = "- " + rest
				continue
			}
		}
		lines[i] = replaceInlineGlyphs(line)
	}
	return strings.Join(lines, "\n")
}

func firstRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

func replaceInlineGlyphs(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if _, ok := bulletGlyphs[r]; ok {
			b.WriteByte('-')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var multiSpace = regexp.MustCompile(` {2,}`)

// flattenTables collapses multi-column whitespace runs into single spaces
// while keeping row boundaries as line breaks.
func flattenTables(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", " ")
		line = multiSpace.ReplaceAllString(line, " ")
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// rejoinSentences merges lines broken mid-sentence: the preceding line lacks
// terminal punctuation and the following line starts with a lowercase letter.
// Bullet items are never absorbed. Joining continues greedily so the result
// is a fixed point.
func rejoinSentences(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		cur := strings.TrimSpace(lines[i])
		if cur == "" {
			out = append(out, "")
			continue
		}
		for i+1 < len(lines) {
			if endsWithTerminator(cur) {
				break
			}
			next := strings.TrimSpace(lines[i+1])
			if next == "" || strings.HasPrefix(next, "- ") || next == "-" {
				break
			}
			r, _ := firstRune(next)
			if !unicode.IsLower(r) {
				break
			}
			cur = cur + " " + next
			i++
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

func endsWithTerminator(line string) bool {
	if line == "" {
		return true
	}
	switch line[len(line)-1] {
	case '.', '!', '?', ':', ';':
		return true
	}
	return false
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// collapseBlankLines reduces any run of two or more consecutive blank lines
// to exactly one.
func collapseBlankLines(s string) string {
	return blankRuns.ReplaceAllString(s, "\n\n")
}
