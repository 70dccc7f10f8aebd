package patch

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies engine failures by the stage that produced them.
type ErrorKind int

const (
	// ErrKindParse - the markup contained no well-formed block and the
	// stream was final. Fatal to the operation.
	ErrKindParse ErrorKind = iota

	// ErrKindLocate - a specific block's old lines could not be matched in
	// the file. Fatal to the whole apply pass: offsets computed for later
	// blocks would be wrong.
	ErrKindLocate

	// ErrKindSession - session misuse such as finalizing with pending
	// hunks. Programmer error, not user-facing.
	ErrKindSession
)

// Error is the engine's typed error. Message is always display-ready;
// Details carries structured data for the caller to surface.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// ToJSON returns a structured representation for display layers.
func (e *Error) ToJSON() map[string]any {
	result := map[string]any{
		"success": false,
		"error":   e.Message,
	}
	for k, v := range e.Details {
		result[k] = v
	}
	return result
}

// NoBlocksFound reports markup with zero well-formed blocks in a final
// stream.
func NoBlocksFound() *Error {
	return &Error{
		Kind:    ErrKindParse,
		Message: "no SEARCH/REPLACE blocks found in input",
	}
}

// BlockNotFound reports that block index (0-based) could not be located,
// exactly or fuzzily. A non-empty hint names the most similar line in the
// file to help the caller correct the block.
func BlockNotFound(index int, hint string, hintLine int) *Error {
	e := &Error{
		Kind:    ErrKindLocate,
		Message: fmt.Sprintf("block %d: search lines not found in file", index+1),
		Details: map[string]any{"block": index + 1},
	}
	if hint != "" {
		e.Details["similar_at_line"] = hintLine
		e.Details["similar_text"] = hint
	}
	return e
}

// OverlappingHunks reports two hunks claiming overlapping original-file
// ranges, which would corrupt offset math.
func OverlappingHunks(startLine int) *Error {
	return &Error{
		Kind:    ErrKindLocate,
		Message: fmt.Sprintf("overlapping hunks at line %d", startLine),
		Details: map[string]any{"line": startLine},
	}
}

// IncompleteSession reports Finalize called while hunks remain pending.
func IncompleteSession(pending int) *Error {
	return &Error{
		Kind:    ErrKindSession,
		Message: fmt.Sprintf("session incomplete: %d hunks still pending", pending),
		Details: map[string]any{"pending": pending},
	}
}

// IsParseError reports whether err is an engine parse failure.
func IsParseError(err error) bool { return errKind(err) == ErrKindParse }

// IsLocateError reports whether err is an engine locate failure.
func IsLocateError(err error) bool { return errKind(err) == ErrKindLocate }

// IsSessionError reports whether err is an engine session-misuse failure.
func IsSessionError(err error) bool { return errKind(err) == ErrKindSession }

func errKind(err error) ErrorKind {
	if pe, ok := err.(*Error); ok {
		return pe.Kind
	}
	return ErrorKind(-1)
}

// FormatError renders an engine error for direct display. Errors with
// structured details are rendered as indented JSON.
func FormatError(err error) string {
	if pe, ok := err.(*Error); ok && len(pe.Details) > 0 {
		if b, jerr := json.MarshalIndent(pe.ToJSON(), "", "  "); jerr == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("Error: %v", err)
}
