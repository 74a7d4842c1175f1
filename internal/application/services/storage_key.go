package services

import (
	"mime"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxBaseNameLen     = 100
	defaultContentType = "application/octet-stream"
)

var (
	windowsReserved = map[string]struct{}{
		"con": {}, "prn": {}, "aux": {}, "nul": {},
		"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
		"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
	}
	extSafeRe = regexp.MustCompile(`^\.[a-z0-9]{1,16}$`)
)

// genStorageKey: "<uuid><.ext>". The extension comes from the client name when
// it maps to a known media type, otherwise from sniffing the bytes; it is
// omitted when neither gives one.
func genStorageKey(name string, data []byte) string {
	return uuid.NewString() + storageExt(name, data)
}

func storageExt(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if extSafeRe.MatchString(ext) && mime.TypeByExtension(ext) != "" {
		return ext
	}

	ext = mimetype.Detect(data).Extension()
	if extSafeRe.MatchString(ext) {
		return ext
	}
	return ""
}

// contentType guesses from the file name first and the stored key second.
func contentType(name, key string) string {
	for _, p := range []string{name, key} {
		if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(p))); ct != "" {
			return ct
		}
	}
	return defaultContentType
}

// sanitizeFileName make file name ASCII standard
func sanitizeFileName(original string) string {
	if original == "" {
		return "file"
	}

	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := strings.ToLower(path.Ext(s))
	if !extSafeRe.MatchString(ext) {
		ext = ""
	}
	base := strings.TrimSuffix(s, path.Ext(s))

	// [a-z0-9], '-' and '_'; dot and space become '-'
	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		default:
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for utf8.RuneCountInString(base)+len(ext) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size > len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
