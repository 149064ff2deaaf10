// Package mechal drives the MEC16xx Flash and EEPROM controllers
// through their memory-mapped registers, reached over a debug probe.
// All operations are synchronous; the probe link is owned by the
// caller for the duration of each call.
package mechal

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

// RegisterIO is the debug-probe access port: single 32-bit reads and
// writes of absolute target addresses. Both calls block and fail with
// a transport error if the link is down; such errors are never retried
// here and propagate unchanged.
type RegisterIO interface {
	ReadMem32(addr uint32) (uint32, error)
	WriteMem32(addr uint32, value uint32) error
}

// Known firmware array sizes. The two MEC16xx variants differ only in
// this value.
const (
	FirmwareSize192K uint32 = 0x30000
	FirmwareSize256K uint32 = 0x40000
)

type Config struct {
	// FirmwareSize is the size of the code flash array in bytes.
	FirmwareSize uint32

	// PollTimeout bounds every busy-wait loop. Zero selects the
	// default of 5 seconds.
	PollTimeout time.Duration
}

type MECHal struct {
	port RegisterIO
	cfg  Config
}

func New(port RegisterIO, cfg Config) (*MECHal, error) {
	if cfg.FirmwareSize != FirmwareSize192K && cfg.FirmwareSize != FirmwareSize256K {
		return nil, fmt.Errorf("unsupported firmware size %#x", cfg.FirmwareSize)
	}
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = 5 * time.Second
	}

	return &MECHal{
		port: port,
		cfg:  cfg,
	}, nil
}

func (d *MECHal) FirmwareSize() uint32 {
	return d.cfg.FirmwareSize
}

// FirmwareWords is the length of a full flash image in 32-bit words.
func (d *MECHal) FirmwareWords() int {
	return int(d.cfg.FirmwareSize / 4)
}

func (d *MECHal) readReg(addr uint32) (uint32, error) {
	value, err := d.port.ReadMem32(addr)
	if err != nil {
		return 0, err
	}

	glog.V(2).Infof("read  %08x -> %08x", addr, value)
	return value, nil
}

func (d *MECHal) writeReg(addr uint32, value uint32) error {
	glog.V(2).Infof("write %08x <- %08x", addr, value)
	return d.port.WriteMem32(addr, value)
}
