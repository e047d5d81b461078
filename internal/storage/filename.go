package storage

import (
	"fmt"
	"strings"
	"time"
)

// maxNameLen keeps "<unix-ms>_<name>" well under the usual 255-byte filename limit.
const maxNameLen = 200

// SanitizeFileName maps an untrusted upload name onto the character set [A-Za-z0-9_.\- ].
// Each run of other characters (including '/' and '\') becomes a single '_'. Runs of two
// or more dots and a leading dot also become '_', so the result can never name a parent
// directory, a hidden file or a path below another directory.
func SanitizeFileName(name string) string {
	var b strings.Builder
	replaced := false
	for _, r := range name {
		if isSafeRune(r) {
			b.WriteRune(r)
			replaced = false
			continue
		}
		if !replaced {
			b.WriteByte('_')
		}
		replaced = true
	}

	out := collapseDots(b.String())
	if len(out) > maxNameLen {
		out = out[len(out)-maxNameLen:]
	}
	if strings.HasPrefix(out, ".") {
		out = "_" + out[1:]
	}
	if strings.TrimSpace(out) == "" {
		return "upload"
	}
	return out
}

// StoredName prefixes the sanitized name with the Unix millisecond timestamp of t.
func StoredName(t time.Time, originalName string) string {
	return fmt.Sprintf("%d_%s", t.UnixMilli(), SanitizeFileName(originalName))
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-', r == ' ':
		return true
	}
	return false
}

func collapseDots(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		j := i
		for j < len(s) && s[j] == '.' {
			j++
		}
		switch n := j - i; {
		case n >= 2:
			b.WriteByte('_')
			i = j
		case n == 1:
			b.WriteByte('.')
			i = j
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
