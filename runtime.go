// runtime.go
//
// Assembles a ready-to-use interpreter: core builtins registered and
// diagnostic toggles read from the process environment. TONG_NO_MATCH_WARN
// silences advisory warnings; TONG_DEBUG traces statement execution.
package tong

import (
	"github.com/xyproto/env/v2"
)

// NewRuntime returns a fully-initialized interpreter.
func NewRuntime() *Interp {
	ip := newInterp()
	registerCoreBuiltins(ip)
	ip.suppressWarn = env.Has("TONG_NO_MATCH_WARN")
	ip.Debug = env.Bool("TONG_DEBUG")
	return ip
}

// RunSource lexes, parses, and executes a whole program against a fresh
// runtime, returning the runtime for inspection.
func RunSource(src string) (*Interp, error) {
	ip := NewRuntime()
	return ip, ip.RunSource(src)
}

// RunSource executes a program source on an existing interpreter.
func (ip *Interp) RunSource(src string) error {
	prog, err := ParseSource(src)
	if err != nil {
		return err
	}
	return ip.Execute(prog)
}
