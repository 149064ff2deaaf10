package mechal

import (
	"time"

	"github.com/jpillora/backoff"
)

// pollStatus reads a status register until check reports done. check
// may fail the poll (error flags are terminal and stop all further
// register traffic for the command). The loop is bounded by the
// configured poll timeout; a round trip to the probe dominates each
// iteration, the backoff just avoids hammering a slow operation.
func (d *MECHal) pollStatus(addr uint32, what string, check func(word uint32) (bool, error)) error {
	b := &backoff.Backoff{
		Min:    500 * time.Microsecond,
		Max:    10 * time.Millisecond,
		Factor: 2,
		Jitter: false,
	}

	deadline := time.Now().Add(d.cfg.PollTimeout)
	for {
		word, err := d.readReg(addr)
		if err != nil {
			return err
		}

		done, err := check(word)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if time.Now().After(deadline) {
			return &PollTimeoutError{What: what, Timeout: d.cfg.PollTimeout}
		}

		time.Sleep(b.Duration())
	}
}
