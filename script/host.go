package script

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Host.Find when no script matches a name.
var ErrNotFound = errors.New("not found")

// Host is an embedded scripting runtime.
//
// Hosts are single-threaded: every method must be called from the game
// goroutine. Functions produced by a host may call back into engine Go
// code, which may in turn call the host again.
type Host interface {
	// Find resolves name to a script file under dir. It returns an error
	// wrapping ErrNotFound when nothing matches.
	Find(dir, name string) (string, error)
	// ExecFile compiles and runs the file at path and returns its result.
	ExecFile(path string) (Value, error)
	// ExecSource compiles and runs src; name is used in error messages.
	ExecSource(name, src string) (Value, error)

	NewObject() Value
	NewFunction(name string, fn Func) Value
	NewProxy(p Proxy) Value
	// NewUser wraps payload in a script handle whose fields come from p.
	NewUser(payload any, p Proxy) Value

	SetGlobal(name string, v Value)
	Global(name string) Value

	// OnRelease registers fn to be told when the script side drops a
	// handle created by NewUser. fn may be called from any goroutine.
	OnRelease(fn func(payload any))

	Close() error
}

// CompileError reports a syntax or structural error in a script.
type CompileError struct {
	Path string
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %s", e.Path, e.Msg)
}

// RuntimePanic reports an uncaught fault raised while a script ran.
type RuntimePanic struct {
	Msg       string
	Traceback string
}

func (e *RuntimePanic) Error() string {
	return "panic: " + e.Msg
}
