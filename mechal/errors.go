package mechal

import (
	"errors"
	"fmt"
	"time"
)

// ErrEEPROMBlocked means EEPROM_Block was already set before any
// command was issued. The controller refuses all operations in this
// state, so none were attempted.
var ErrEEPROMBlocked = errors.New("EEPROM controller is blocked, no operations possible")

// CommandFailureError is a command that completed polling with an
// error flag set. This is terminal for the operation, the device may
// be left mid-sequence.
type CommandFailureError struct {
	Controller string
	Command    string
	Status     string
}

func (e *CommandFailureError) Error() string {
	return fmt.Sprintf("%s command [%s] failed with status [%s]",
		e.Controller, e.Command, e.Status)
}

// ReadAmbiguousError means three successive reads of Flash_Data
// returned pairwise different values, so no majority exists.
type ReadAmbiguousError struct {
	Address uint32
	Values  [3]uint32
}

func (e *ReadAmbiguousError) Error() string {
	return fmt.Sprintf("flash read at %05x: no majority between %08x/%08x/%08x",
		e.Address, e.Values[0], e.Values[1], e.Values[2])
}

// PollTimeoutError means a status poll loop exceeded its deadline
// without the awaited flag clearing.
type PollTimeoutError struct {
	What    string
	Timeout time.Duration
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %s", e.Timeout, e.What)
}
