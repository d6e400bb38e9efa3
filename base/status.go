package base

import (
	"fmt"
	"sync"

	"github.com/hexbee-net/errors"
)

// Class is the coarse classification of a Status.
type Class uint8

const (
	ClassOK Class = iota
	ClassSuspension
	ClassError
)

func (c Class) String() string {
	switch c {
	case ClassOK:
		return "ok"
	case ClassSuspension:
		return "suspension"
	case ClassError:
		return "error"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Package identifies the package that owns a Code.
type Package uint8

const (
	PackageBase Package = iota
	PackageLZW
	PackageGIF
)

// Code identifies a status kind. It packs the owning package, the class and
// a per-package ordinal, so that the class can be recovered from the code
// alone.
type Code uint32

// MakeCode builds the Code for the n-th status of a package.
func MakeCode(pkg Package, class Class, n uint16) Code {
	return Code(uint32(pkg)<<24 | uint32(class)<<16 | uint32(n))
}

func (c Code) Package() Package { return Package(c >> 24) }
func (c Code) Class() Class     { return Class(c >> 16 & 0xff) }

type codeInfo struct {
	pkg  string
	name string
}

var (
	codesMu sync.RWMutex
	codes   = map[Code]codeInfo{}
)

// RegisterCode associates a human readable name with a code. Format packages
// call it from their package initialization.
func RegisterCode(c Code, pkg, name string) Status {
	codesMu.Lock()
	defer codesMu.Unlock()

	if prev, ok := codes[c]; ok && (prev.pkg != pkg || prev.name != name) {
		panic(fmt.Sprintf("status code %#x registered twice (%s: %s, %s: %s)", uint32(c), prev.pkg, prev.name, pkg, name))
	}

	codes[c] = codeInfo{pkg: pkg, name: name}

	return Status{code: c}
}

func (c Code) String() string {
	codesMu.RLock()
	info, ok := codes[c]
	codesMu.RUnlock()

	if !ok {
		return fmt.Sprintf("status(%#x)", uint32(c))
	}

	return info.pkg + ": " + info.name
}

// Status is the result of every decoder call. The zero value is OK.
// Two statuses are the same kind when their codes are equal; the optional
// message is diagnostic only.
type Status struct {
	code Code
	msg  string
}

var (
	OK = Status{}

	ShortRead  = RegisterCode(MakeCode(PackageBase, ClassSuspension, 1), "base", "short read")
	ShortWrite = RegisterCode(MakeCode(PackageBase, ClassSuspension, 2), "base", "short write")
	EndOfData  = RegisterCode(MakeCode(PackageBase, ClassSuspension, 3), "base", "end of data")

	ErrBadReceiver             = RegisterCode(MakeCode(PackageBase, ClassError, 1), "base", "bad receiver")
	ErrBadSizeofReceiver       = RegisterCode(MakeCode(PackageBase, ClassError, 2), "base", "bad sizeof receiver")
	ErrBadVersion              = RegisterCode(MakeCode(PackageBase, ClassError, 3), "base", "bad version")
	ErrCheckVersionMissing     = RegisterCode(MakeCode(PackageBase, ClassError, 4), "base", "check version missing")
	ErrInvalidCallSequence     = RegisterCode(MakeCode(PackageBase, ClassError, 5), "base", "invalid call sequence")
	ErrDisabledByPreviousError = RegisterCode(MakeCode(PackageBase, ClassError, 6), "base", "disabled by previous error")
	ErrBadArgument             = RegisterCode(MakeCode(PackageBase, ClassError, 7), "base", "bad argument")
	ErrBadArgumentLength       = RegisterCode(MakeCode(PackageBase, ClassError, 8), "base", "bad argument length")
	ErrBadWorkbufLength        = RegisterCode(MakeCode(PackageBase, ClassError, 9), "base", "bad workbuf length")
	ErrUnexpectedEOF           = RegisterCode(MakeCode(PackageBase, ClassError, 10), "base", "unexpected end of input")
)

func (s Status) Code() Code      { return s.code }
func (s Status) Class() Class    { return s.code.Class() }
func (s Status) Message() string { return s.msg }

func (s Status) IsOK() bool         { return s.code == 0 }
func (s Status) IsSuspension() bool { return s.code.Class() == ClassSuspension }
func (s Status) IsError() bool      { return s.code.Class() == ClassError }

// Is reports whether s and target are the same kind of status.
func (s Status) Is(target Status) bool {
	return s.code == target.code
}

// WithMessage returns a status of the same kind carrying a diagnostic.
func (s Status) WithMessage(format string, args ...interface{}) Status {
	return Status{code: s.code, msg: fmt.Sprintf(format, args...)}
}

func (s Status) String() string {
	if s.code == 0 {
		return "ok"
	}

	if s.msg == "" {
		return s.code.String()
	}

	return s.code.String() + " (" + s.msg + ")"
}

// Error makes a Status usable as an error outside the decoder protocol.
func (s Status) Error() string {
	return s.String()
}

// Err returns nil for OK and the status itself otherwise.
func (s Status) Err() error {
	if s.IsOK() {
		return nil
	}

	return s
}

// StatusOf digs the Status out of an error produced by Status.Err, possibly
// wrapped.
func StatusOf(err error) (Status, bool) {
	if err == nil {
		return OK, true
	}

	s, ok := errors.Cause(err).(Status)

	return s, ok
}
