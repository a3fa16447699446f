package solver

import "errors"

// Sentinel errors identify the error kind via errors.Is, while the
// concrete *ConfigError/*StateError/etc. types carry the offending
// value via errors.As. Grounded on the dynamo package's sentinel +
// wrapper-struct pairing.
var (
	ErrBadConfig      = errors.New("solver: invalid configuration")
	ErrBadState       = errors.New("solver: invalid solver state transition")
	ErrNumericalFault = errors.New("solver: non-finite or degenerate particle state")
	ErrSnapshotIO     = errors.New("solver: snapshot read/write failure")
)

// ConfigError reports a non-positive h, zero-extent grid, or non-positive
// particle mass (§7).
type ConfigError struct {
	Field string
	Value float64
}

func (e *ConfigError) Error() string {
	return ErrBadConfig.Error() + ": " + e.Field
}

func (e *ConfigError) Unwrap() error { return ErrBadConfig }

// StateError reports a tick-index ordering violation or a read of
// volume0 before the n==0 initialization tick has run (§7).
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return ErrBadState.Error() + ": " + e.Reason
}

func (e *StateError) Unwrap() error { return ErrBadState }

// NumericalError reports a non-finite F_E/F_P entry or det(F_E) <= 0,
// detected by the end-of-tick scan (§7).
type NumericalError struct {
	ParticleIndex int
	Reason        string
}

func (e *NumericalError) Error() string {
	return ErrNumericalFault.Error() + ": " + e.Reason
}

func (e *NumericalError) Unwrap() error { return ErrNumericalFault }

// IOError reports a snapshot load/save failure or version mismatch.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return ErrSnapshotIO.Error() + " (" + e.Path + "): " + e.Err.Error()
}

// Unwrap exposes both the sentinel (for errors.Is(err, ErrSnapshotIO))
// and the underlying OS/codec error (for errors.Is(err, os.ErrNotExist)
// and similar), via the multi-error Unwrap form.
func (e *IOError) Unwrap() []error { return []error{ErrSnapshotIO, e.Err} }
