package domain

import (
	"strings"
)

// ScopeKind names the axis a form tag applies to.
type ScopeKind string

const (
	ScopeAll      ScopeKind = "all"
	ScopeDatabase ScopeKind = "database"
	ScopeResource ScopeKind = "resource"
)

// ScopeTag is one posted restriction field. Database and Resource are already decoded.
type ScopeTag struct {
	Kind     ScopeKind
	Database string
	Resource string
	Action   string
}

// ParseTag parses a form key of the shape all:<action>, database:<db>:<action> or
// resource:<db>:<resource>:<action>. Names are tilde-decoded. Keys with any other shape
// or colon count are reported as not ok.
func ParseTag(key string) (ScopeTag, bool) {
	bits := strings.Split(key, ":")
	switch {
	case bits[0] == string(ScopeAll) && len(bits) == 2:
		return ScopeTag{Kind: ScopeAll, Action: bits[1]}, bits[1] != ""
	case bits[0] == string(ScopeDatabase) && len(bits) == 3:
		return ScopeTag{
			Kind:     ScopeDatabase,
			Database: TildeDecode(bits[1]),
			Action:   bits[2],
		}, bits[2] != ""
	case bits[0] == string(ScopeResource) && len(bits) == 4:
		return ScopeTag{
			Kind:     ScopeResource,
			Database: TildeDecode(bits[1]),
			Resource: TildeDecode(bits[2]),
			Action:   bits[3],
		}, bits[3] != ""
	default:
		return ScopeTag{}, false
	}
}

// ParseTags keeps the keys that parse as scope tags, in order.
func ParseTags(keys []string) []ScopeTag {
	tags := make([]ScopeTag, 0, len(keys))
	for _, key := range keys {
		if tag, ok := ParseTag(key); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Key renders the tag back into its form key.
func (t ScopeTag) Key() string {
	switch t.Kind {
	case ScopeAll:
		return "all:" + t.Action
	case ScopeDatabase:
		return "database:" + TildeEncode(t.Database) + ":" + t.Action
	case ScopeResource:
		return "resource:" + TildeEncode(t.Database) + ":" + TildeEncode(t.Resource) + ":" + t.Action
	default:
		return ""
	}
}

const upperHex = "0123456789ABCDEF"

func isTildeSafe(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

// TildeEncode escapes every byte outside [A-Za-z0-9_-] as ~XX, with space as +.
func TildeEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isTildeSafe(c):
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('~')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
		}
	}
	return b.String()
}

// TildeDecode reverses TildeEncode. Invalid ~ sequences are kept literally and % is never
// treated as an escape.
func TildeDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			b.WriteByte(' ')
		case c == '~' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
