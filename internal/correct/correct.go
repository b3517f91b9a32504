// Package correct rewrites source ontology files with known syntax defects
// into text the generic OBO parser can consume. Corrections are best-effort:
// only recognized line patterns are touched, everything else passes through
// unchanged, and the original file is never modified.
package correct

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// correctedPrefix is prepended to the source file name for the rewritten copy.
const correctedPrefix = "corrected_"

// scanner buffer large enough for the longest ChEBI definition lines.
const maxLineSize = 1 << 20

// rewrite streams path through fix line by line and writes the result next to
// the original. fix returns the replacement line and whether to keep it.
func rewrite(path string, fix func(line string) (string, bool)) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	outPath := filepath.Join(filepath.Dir(path), correctedPrefix+filepath.Base(path))
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create corrected file: %w", err)
	}
	w := bufio.NewWriter(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)
	for scanner.Scan() {
		line, keep := fix(scanner.Text())
		if !keep {
			continue
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = out.Close()
			return "", fmt.Errorf("write corrected file: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("read source file: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("flush corrected file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close corrected file: %w", err)
	}
	return outPath, nil
}

var chebiXref = regexp.MustCompile(`^(xref:\s+\S+?:)(.+)$`)

// ChEBI fixes xref lines whose value token contains embedded spaces
// ("xref: Wikipedia:Acetic acid") by replacing the spaces with underscores so
// the downstream tokenizer keeps the value as one token.
func ChEBI(path string) (string, error) {
	return rewrite(path, func(line string) (string, bool) {
		m := chebiXref.FindStringSubmatch(line)
		if m == nil {
			return line, true
		}
		value := strings.TrimSpace(m[2])
		if !strings.Contains(value, " ") {
			return line, true
		}
		return m[1] + strings.ReplaceAll(value, " ", "_"), true
	})
}

var bracketGroup = regexp.MustCompile(`\[[^\]]*\]`)

// ECO fixes def lines whose bracketed citation list contains spaced UniProt
// tokens by replacing internal spaces with underscores inside the brackets.
func ECO(path string) (string, error) {
	return rewrite(path, func(line string) (string, bool) {
		if !strings.HasPrefix(line, "def: ") {
			return line, true
		}
		fixed := bracketGroup.ReplaceAllStringFunc(line, func(group string) string {
			inner := group[1 : len(group)-1]
			if !strings.Contains(inner, " ") {
				return group
			}
			return "[" + strings.ReplaceAll(inner, " ", "_") + "]"
		})
		return fixed, true
	})
}

var sboSynonymNoScope = regexp.MustCompile(`^(synonym:\s+"(?:[^"\\]|\\.)*")\s*(\[.*)$`)

// SBO drops property_value lines, which the OBO parser cannot consume, and
// inserts the EXACT scope into synonym lines that go straight from the quoted
// text to the trailing bracket list.
func SBO(path string) (string, error) {
	return rewrite(path, func(line string) (string, bool) {
		if strings.HasPrefix(line, "property_value") {
			return "", false
		}
		m := sboSynonymNoScope.FindStringSubmatch(line)
		if m == nil {
			return line, true
		}
		return m[1] + " EXACT " + m[2], true
	})
}

// PWO normalizes bracketed comma-separated lists: each entry is stripped of
// surrounding whitespace and its internal spaces become hyphens. Escaped
// commas ("\,") stay part of their entry.
func PWO(path string) (string, error) {
	return rewrite(path, func(line string) (string, bool) {
		return bracketGroup.ReplaceAllStringFunc(line, func(group string) string {
			inner := group[1 : len(group)-1]
			entries := splitUnescaped(inner, ',')
			for i, entry := range entries {
				entry = strings.TrimSpace(entry)
				entries[i] = strings.ReplaceAll(entry, " ", "-")
			}
			return "[" + strings.Join(entries, ",") + "]"
		}), true
	})
}

// splitUnescaped splits s on sep, treating backslash-escaped separators as
// literal characters of the current entry.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte('\\')
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == sep:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	parts = append(parts, cur.String())
	return parts
}
