package glshade

import "fmt"

// ValidationError reports malformed input to shader part registration: an
// invalid part name, an invalid stage block, or a malformed variable
// declaration line. Registration fails fast on the first such error.
type ValidationError struct {
	// Part is the name of the part being registered, when known.
	Part string
	// Input is the offending text.
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if e.Input != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Input)
	}
	if e.Part != "" {
		return fmt.Sprintf("shader part %q: %s", e.Part, msg)
	}
	return msg
}

// UnknownPartError reports a shader combination that references a part name
// absent from the Registry.
type UnknownPartError struct {
	Name string
}

func (e *UnknownPartError) Error() string {
	return fmt.Sprintf("%q is not a known shader part", e.Name)
}
