package garden

import (
	"errors"
	"fmt"
	"text/scanner"
)

var (
	ErrUnknownWord = errors.New("unknown word")
	ErrBadParam    = errors.New("bad parameter")
	ErrTableResize = errors.New("table already sized")
)

// Err is a compile diagnostic tied to a position in the program text.
type Err struct {
	Pos scanner.Position
	Err error
}

func (e Err) Error() string {
	if e.Pos.Line == 0 {
		return e.Err.Error()
	}
	if e.Pos.Filename == "" {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Err)
}

func (e Err) Unwrap() error { return e.Err }

func makeErr(pos scanner.Position, err error) Err {
	if wrappedErr, ok := err.(Err); ok {
		return wrappedErr
	}
	return Err{Pos: pos, Err: err}
}
