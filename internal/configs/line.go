package configs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	kerrors "github.com/yatsu/mucli/internal/errors"
)

// Line is a single KEYWORD=field=... record.
type Line struct {
	Keyword string
	Fields  []string
}

// NewLine builds a line from a keyword and its fields.
func NewLine(keyword string, fields ...string) Line {
	return Line{Keyword: keyword, Fields: fields}
}

// ParseLine decodes a raw config line. A line needs a keyword and at least one field.
func ParseLine(raw string) (Line, error) {
	raw = strings.TrimRight(raw, "\r")
	parts := strings.Split(raw, "=")
	if len(parts) < 2 || parts[0] == "" {
		return Line{}, fmt.Errorf("%w: %q", kerrors.ErrMalformedLine, raw)
	}
	return Line{Keyword: parts[0], Fields: parts[1:]}, nil
}

// Encode renders the line, rejecting values the grammar cannot represent.
func (l Line) Encode() (string, error) {
	if l.Keyword == "" || strings.ContainsAny(l.Keyword, "=\n") {
		return "", fmt.Errorf("%w: invalid keyword %q", kerrors.ErrMalformedLine, l.Keyword)
	}
	if len(l.Fields) == 0 {
		return "", fmt.Errorf("%w: %s has no fields", kerrors.ErrMalformedLine, l.Keyword)
	}
	for _, f := range l.Fields {
		if strings.ContainsAny(f, "=\n") {
			return "", fmt.Errorf("%w: field %q of %s contains '=' or a newline", kerrors.ErrMalformedLine, f, l.Keyword)
		}
	}
	return l.String(), nil
}

func (l Line) String() string {
	return l.Keyword + "=" + strings.Join(l.Fields, "=")
}

// Field returns the i-th field.
func (l Line) Field(i int) (string, error) {
	if i < 0 || i >= len(l.Fields) {
		return "", fmt.Errorf("%w: %s has no field %d", kerrors.ErrMalformedLine, l.Keyword, i)
	}
	return l.Fields[i], nil
}

// HasKeyword reports whether raw is a line for keyword.
func HasKeyword(raw, keyword string) bool {
	return strings.HasPrefix(raw, keyword+"=")
}

// FormatByteList renders bytes as a JSON number list, e.g. [12,0,255].
func FormatByteList(b []byte) string {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	out, _ := json.Marshal(ints)
	return string(out)
}

// ParseByteList is the inverse of FormatByteList.
func ParseByteList(s string) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &ints); err != nil {
		return nil, fmt.Errorf("%w: byte list %q: %v", kerrors.ErrMalformedLine, s, err)
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte list value %d out of range", kerrors.ErrMalformedLine, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// ParseUint32 parses a scalar field as an unsigned 32-bit number.
func ParseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid version: %v", kerrors.ErrMalformedLine, s, err)
	}
	return uint32(v), nil
}
