package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned when a forced encoding name is not recognised.
var ErrUnknownEncoding = errors.New("unknown encoding")

// EncodingDetector picks the character set of raw HTML bytes.
type EncodingDetector struct {
	// ForcedEncoding overrides detection when set.
	ForcedEncoding string
}

// NewEncodingDetector creates a detector, forcing the named encoding when non-empty.
func NewEncodingDetector(forced string) *EncodingDetector {
	return &EncodingDetector{ForcedEncoding: forced}
}

// DetectCharset returns the encoding and canonical name for data.
//
// Order: forced encoding, byte order mark, valid UTF-8 carrying multi-byte
// sequences, <meta> declaration, then the HTML5 fallback (windows-1252).
// Valid UTF-8 is trusted over a conflicting <meta> since many pages declare
// a legacy charset while serving UTF-8.
func (ed *EncodingDetector) DetectCharset(data []byte) (encoding.Encoding, string, error) {
	if ed.ForcedEncoding != "" {
		enc, name := charset.Lookup(normalizeCharset(ed.ForcedEncoding))
		if enc == nil {
			return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, ed.ForcedEncoding)
		}
		return enc, name, nil
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM, "utf-8", nil
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), "utf-16be", nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), "utf-16le", nil
	}

	if utf8.Valid(data) && hasUTF8Sequences(data) {
		return encoding.Nop, "utf-8", nil
	}

	sample := data
	if len(sample) > charsetSampleSize {
		sample = sample[:charsetSampleSize]
	}
	enc, name, _ := charset.DetermineEncoding(sample, "text/html")
	if name == "utf-8" {
		enc = encoding.Nop
	}
	return enc, name, nil
}

// ToUTF8 decodes data with enc.
func ToUTF8(data []byte, enc encoding.Encoding) ([]byte, error) {
	if enc == nil || enc == encoding.Nop {
		return data, nil
	}
	converted, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return nil, err
	}
	return converted, nil
}

// DetectAndConvertToUTF8String detects the encoding of data and returns the
// decoded string with the encoding name used.
func DetectAndConvertToUTF8String(data []byte, forcedEncoding string) (string, string, error) {
	ed := NewEncodingDetector(forcedEncoding)
	enc, name, err := ed.DetectCharset(data)
	if err != nil {
		return "", "", err
	}
	converted, err := ToUTF8(data, enc)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(converted), name, nil
}

// hasUTF8Sequences reports whether data holds any non-ASCII byte.
func hasUTF8Sequences(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

func normalizeCharset(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "utf8", "utf_8":
		return "utf-8"
	case "latin1", "latin-1":
		return "iso-8859-1"
	case "sjis", "shiftjis":
		return "shift_jis"
	}
	return name
}
