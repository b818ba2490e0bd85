// Package block maintains generated text blocks inside files that are
// otherwise owned by an operator, such as a user crontab:
//
//	### block <name> ###
//	...generated content...
//	### endblock <name> ###
//
// The content between the markers is regenerated wholesale. Text outside the
// block is preserved apart from surrounding whitespace.
package block

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when the markers of a block are unbalanced,
// duplicated or out of order. Such files are never repaired automatically.
var ErrMalformed = errors.New("malformed block")

// MalformedError describes which marker of a block is broken.
type MalformedError struct {
	Name   string
	Marker string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s in block %q: %s", e.Marker, e.Name, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// Status tags the outcome of Extract.
type Status int

const (
	NotFound Status = iota
	Found
	Malformed
)

func (s Status) String() string {
	switch s {
	case NotFound:
		return "not found"
	case Found:
		return "found"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Extraction is the result of looking up a block in a text.
type Extraction struct {
	Status Status
	// Block is the text from the header through the tail marker inclusive.
	Block string
	// Start and End delimit Block inside the searched text.
	Start, End int
	// Err is set for Malformed.
	Err error
}

func Header(name string) string {
	return "### block " + name + " ###"
}

func Tail(name string) string {
	return "### endblock " + name + " ###"
}

// Extract locates the block called name in data.
func Extract(data, name string) Extraction {
	header, tail := Header(name), Tail(name)
	headers, tails := strings.Count(data, header), strings.Count(data, tail)

	switch {
	case headers == 0 && tails == 0:
		return Extraction{Status: NotFound}
	case headers == 0:
		return malformed(name, tail, "header marker is missing")
	case tails == 0:
		return malformed(name, header, "tail marker is missing")
	case headers > 1:
		return malformed(name, header, fmt.Sprintf("marker appears %d times", headers))
	case tails > 1:
		return malformed(name, tail, fmt.Sprintf("marker appears %d times", tails))
	}

	start := strings.Index(data, header)
	tailStart := strings.Index(data, tail)
	if tailStart < start+len(header) {
		return malformed(name, tail, "tail marker precedes header marker")
	}
	end := tailStart + len(tail)
	return Extraction{Status: Found, Block: data[start:end], Start: start, End: end}
}

func malformed(name, marker, reason string) Extraction {
	return Extraction{Status: Malformed, Err: &MalformedError{Name: name, Marker: marker, Reason: reason}}
}

// ExtractBlock returns the block and true when it exists, data and false when
// it does not, and a *MalformedError otherwise.
func ExtractBlock(data, name string) (string, bool, error) {
	e := Extract(data, name)
	switch e.Status {
	case Found:
		return e.Block, true, nil
	case Malformed:
		return "", false, e.Err
	default:
		return data, false, nil
	}
}

// Remove strips the block and trims the remaining text on both ends. Data
// without the block is returned unchanged.
func Remove(data, name string) (string, error) {
	e := Extract(data, name)
	switch e.Status {
	case NotFound:
		return data, nil
	case Malformed:
		return "", e.Err
	}

	before := strings.Trim(data[:e.Start], whitespace)
	after := strings.Trim(data[e.End:], whitespace)
	if before != "" && after != "" {
		return before + "\n" + after, nil
	}
	return before + after, nil
}

// Insert appends the block with content to data, separated from the trimmed
// data by two blank lines.
func Insert(data, name, content string) string {
	var b strings.Builder
	base := strings.TrimRight(data, whitespace)
	if base != "" {
		b.WriteString(base)
		b.WriteString("\n\n\n")
	}
	b.WriteString(Header(name))
	b.WriteByte('\n')
	if content = strings.Trim(content, "\n"); content != "" {
		b.WriteString(content)
		b.WriteByte('\n')
	}
	b.WriteString(Tail(name))
	b.WriteByte('\n')
	return b.String()
}

// Regenerate replaces the block called name with freshly rendered content.
// Applying it again with the same content leaves the result unchanged.
func Regenerate(data, name, content string) (string, error) {
	without, err := Remove(data, name)
	if err != nil {
		return "", err
	}
	return Insert(without, name, content), nil
}

const whitespace = " \t\r\n"
