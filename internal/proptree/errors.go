package proptree

import "fmt"

// UnknownPropertyType reports an unrecognized tag byte on decode, or an
// attempt to encode a Value variant the tag-dispatch table does not
// recognize.
type UnknownPropertyType struct {
	Tag Tag
}

func (e *UnknownPropertyType) Error() string {
	return fmt.Sprintf("proptree: unknown property type tag %d", e.Tag)
}

// EncodingError reports a string value that is not valid UTF-8, or a
// color string that ColorToDict cannot parse.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string { return fmt.Sprintf("proptree: %s", e.Reason) }
