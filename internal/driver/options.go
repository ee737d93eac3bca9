package driver

import "errors"

// Options mirrors the CLI surface cmd/hipify exposes for the run subcommand.
type Options struct {
	Output       string
	InPlace      bool
	NoBackup     bool
	NoOutput     bool
	PrintStats   bool
	StatsCSVPath string
	Examine      bool
	Diff         bool
	NoColor      bool
	Jobs         int // 0 or 1: sequential; >1: worker-pool fan-out across files
}

var (
	ErrOutputWithMultiple  = errors.New("hipify: -o is not allowed with multiple input files")
	ErrOutputWithInPlace   = errors.New("hipify: -o is not allowed with -inplace")
	ErrNoOutputWithInPlace = errors.New("hipify: -no-output is not allowed with -inplace")
	ErrNoOutputWithOutput  = errors.New("hipify: -no-output is not allowed with -o")
)

// Normalize applies the -examine expansion and validates option combinations.
// It must run before any file is processed; a non-nil error means exit code 1
// and no work performed.
func (o *Options) Normalize(numInputs int) error {
	if o.Examine {
		o.NoOutput = true
		o.PrintStats = true
	}

	if o.Output != "" && numInputs > 1 {
		return ErrOutputWithMultiple
	}

	if o.Output != "" && o.InPlace {
		return ErrOutputWithInPlace
	}

	if o.NoOutput && o.InPlace {
		return ErrNoOutputWithInPlace
	}

	if o.NoOutput && o.Output != "" {
		return ErrNoOutputWithOutput
	}

	return nil
}
