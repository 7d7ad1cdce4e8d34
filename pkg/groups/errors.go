package groups

import (
	"errors"
	"fmt"
)

var (
	ErrDivisionSyntax   = errors.New("division syntax error")
	ErrDuplicateGroup   = errors.New("duplicate group")
	ErrUnknownGroup     = errors.New("unknown group")
	ErrInvalidEmptyList = errors.New("invalid empty-group declaration")
)

// DivisionError reports a malformed division or shortcut. The division is
// dropped, the rest of the class is still built.
type DivisionError struct {
	Division string
	Index    int
	Reason   string
}

func (err *DivisionError) Error() string {
	return fmt.Sprintf("division %d %q: %v", err.Index+1, err.Division, err.Reason)
}

func (err *DivisionError) Unwrap() error {
	return ErrDivisionSyntax
}

// DuplicateGroupError reports a group tag used twice within one class.
type DuplicateGroupError struct {
	Group    string
	Division string
	Index    int
}

func (err *DuplicateGroupError) Error() string {
	return fmt.Sprintf("division %d %q: group %q is already defined in this class", err.Index+1, err.Division, err.Group)
}

func (err *DuplicateGroupError) Unwrap() error {
	return ErrDuplicateGroup
}

type UnknownGroupError struct {
	Group  string
	Reason string
}

func (err *UnknownGroupError) Error() string {
	if err.Reason == "" {
		return fmt.Sprintf("group %q is not defined", err.Group)
	}
	return fmt.Sprintf("group %q: %v", err.Group, err.Reason)
}

func (err *UnknownGroupError) Unwrap() error {
	return ErrUnknownGroup
}

// EmptyGroupError is a warning: a declared-empty atomic group that is not a
// member of the class's atomic groups. The declaration is ignored.
type EmptyGroupError struct {
	Group string
}

func (err *EmptyGroupError) Error() string {
	return fmt.Sprintf("%q declared empty but it is not an atomic group of this class", err.Group)
}

func (err *EmptyGroupError) Unwrap() error {
	return ErrInvalidEmptyList
}
