package types

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindIO       ErrKind = iota // input blob missing or unreadable
	ErrKindNotFound                // named section marker missing from the index
	ErrKindBounds                  // a read would pass the end of a blob
	ErrKindSkipped                 // record intentionally not decoded (empty, out of range, zero size)
	ErrKindInvalid                 // malformed section identifier or configuration
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindIO:
		return "io"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindBounds:
		return "bounds"
	case ErrKindSkipped:
		return "skipped"
	case ErrKindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrSkipped)
// holds for every skip regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && t.Kind == e.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrIO indicates an input blob could not be read.
	ErrIO = &Error{Kind: ErrKindIO, Msg: "input unreadable"}
	// ErrNotFound indicates a section tag does not occur in the index blob.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "section not found"}
	// ErrOutOfBounds indicates a read past the end of the index or data blob.
	ErrOutOfBounds = &Error{Kind: ErrKindBounds, Msg: "read out of bounds"}
	// ErrSkipped indicates a record produced no image.
	ErrSkipped = &Error{Kind: ErrKindSkipped, Msg: "record skipped"}
	// ErrInvalid indicates a malformed identifier or configuration.
	ErrInvalid = &Error{Kind: ErrKindInvalid, Msg: "invalid argument"}
)

// -----------------------------------------------------------------------------
// Section Identifiers
// -----------------------------------------------------------------------------

// SectionKind tells which variant a SectionID holds.
type SectionKind uint8

const (
	SectionOffset SectionKind = iota // pre-resolved numeric section
	SectionTag                       // named marker looked up in the index blob
)

// SectionID is either a numeric section (used as-is) or a short ASCII tag
// that is resolved through the back-pointer preceding its first occurrence
// in the index blob. The zero value is Offset(0).
type SectionID struct {
	kind  SectionKind
	value uint32
	tag   string
}

// Offset returns a numeric SectionID.
func Offset(v uint32) SectionID { return SectionID{kind: SectionOffset, value: v} }

// Tag returns a named SectionID.
func Tag(name string) SectionID { return SectionID{kind: SectionTag, tag: name} }

// Kind reports which variant id holds.
func (id SectionID) Kind() SectionKind { return id.kind }

// IsTag reports whether id must be looked up in the index blob.
func (id SectionID) IsTag() bool { return id.kind == SectionTag }

// Value returns the numeric section. It is meaningless for tags.
func (id SectionID) Value() uint32 { return id.value }

// Name returns the tag text. It is empty for numeric sections.
func (id SectionID) Name() string { return id.tag }

// String renders id the way it appears in output file names.
func (id SectionID) String() string {
	if id.kind == SectionTag {
		return id.tag
	}
	return strconv.FormatUint(uint64(id.value), 10)
}

// TagBytes encodes the tag into the single-byte code page used by the
// legacy index files. ASCII tags map to themselves.
func (id SectionID) TagBytes() ([]byte, error) {
	if id.kind != SectionTag {
		return nil, &Error{Kind: ErrKindInvalid, Msg: fmt.Sprintf("section %s is not a tag", id)}
	}
	b, err := charmap.Windows1252.NewEncoder().Bytes([]byte(id.tag))
	if err != nil {
		return nil, &Error{Kind: ErrKindInvalid, Msg: fmt.Sprintf("tag %q not representable in index encoding", id.tag), Err: err}
	}
	return b, nil
}

// ParseSectionID parses CLI text into a SectionID. Decimal digits and
// 0x-prefixed hex are numeric sections; anything else is a tag.
func ParseSectionID(s string) (SectionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SectionID{}, &Error{Kind: ErrKindInvalid, Msg: "empty section identifier"}
	}

	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return SectionID{}, &Error{Kind: ErrKindInvalid, Msg: fmt.Sprintf("section %q", s), Err: err}
		}
		return Offset(uint32(v)), nil
	}
	if isDigits(s) {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return SectionID{}, &Error{Kind: ErrKindInvalid, Msg: fmt.Sprintf("section %q", s), Err: err}
		}
		return Offset(uint32(v)), nil
	}

	if strings.ContainsAny(s, `/\:`) {
		return SectionID{}, &Error{Kind: ErrKindInvalid, Msg: fmt.Sprintf("tag %q contains a path separator", s)}
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return SectionID{}, &Error{Kind: ErrKindInvalid, Msg: fmt.Sprintf("tag %q contains a control character", s)}
		}
	}
	id := Tag(s)
	if _, err := id.TagBytes(); err != nil {
		return SectionID{}, err
	}
	return id, nil
}

// ParseSectionList parses a comma-separated list such as "6,7,OAN1".
// Duplicates are kept; empty elements are rejected.
func ParseSectionList(s string) ([]SectionID, error) {
	parts := strings.Split(s, ",")
	ids := make([]SectionID, 0, len(parts))
	for _, p := range parts {
		id, err := ParseSectionID(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// Section Configuration
// -----------------------------------------------------------------------------

// SectionConfig describes how the records of one section are decoded.
// Width and Height, when non-zero, replace the header dimensions.
type SectionConfig struct {
	HasHeader bool
	Width     int
	Height    int
}

// DefaultSectionConfig is used for sections without an override: a header is
// present and supplies both dimensions.
func DefaultSectionConfig() SectionConfig {
	return SectionConfig{HasHeader: true}
}

// Validate rejects configurations that can never produce an image.
func (c SectionConfig) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return &Error{Kind: ErrKindInvalid, Msg: fmt.Sprintf("negative dimensions %dx%d", c.Width, c.Height)}
	}
	if !c.HasHeader && (c.Width == 0 || c.Height == 0) {
		return &Error{Kind: ErrKindInvalid, Msg: "section without header must force width and height"}
	}
	return nil
}

func (c SectionConfig) String() string {
	dims := "header"
	if c.Width != 0 || c.Height != 0 {
		dims = fmt.Sprintf("%dx%d", c.Width, c.Height)
	}
	return fmt.Sprintf("header=%t size=%s", c.HasHeader, dims)
}
