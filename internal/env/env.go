// Package env captures the process environment that drives an install.
//
// Capture is the only function in the module that reads process environment
// variables. Everything below the CLI receives a Snapshot value instead.
package env

import "os"

const (
	VarHome    = "HOME"
	VarBinHome = "XDG_BIN_HOME"
	VarPath    = "PATH"
)

// Snapshot holds the environment facts consulted while planning. Empty
// fields mean the variable was unset or empty.
type Snapshot struct {
	Home    string
	BinHome string
	Path    string
}

// Capture reads the process environment once.
func Capture() Snapshot {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a snapshot from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) Snapshot {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return Snapshot{
		Home:    get(VarHome),
		BinHome: get(VarBinHome),
		Path:    get(VarPath),
	}
}
