package compiler

import (
	"github.com/Masterminds/semver/v3"
	"github.com/udoprog/st/hosts"
)

// Version is the language version programs are compiled for.
const Version = hosts.Version

type Options struct {
	// allow macro calls
	Macros bool
	// verify the stack discipline of every compiled function
	Verify bool
	// constraint on Version, like ">= 0.6"
	Requires string
}

// Check validates the options against the compiler.
func (o Options) Check() error {
	if o.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(o.Requires)
	if err != nil {
		return &Error{
			Kind: ErrRequires,
			Name: o.Requires,
			Err:  err,
		}
	}
	version, err := semver.NewVersion(Version)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return &Error{
			Kind: ErrRequires,
			Name: o.Requires,
		}
	}
	return nil
}
