// Package mectasks composes the controller drivers into whole-image
// operations. Flash operations are bracketed by access enable/disable,
// EEPROM operations by clean-start/Standby inside the driver. Image
// sizes are checked before any register traffic happens.
package mectasks

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/hwdbg/mec16xxflash/image"
	"github.com/hwdbg/mec16xxflash/mechal"
	"github.com/hwdbg/mec16xxflash/mecreg"
)

type Tasks struct {
	hal *mechal.MECHal
}

func New(hal *mechal.MECHal) *Tasks {
	return &Tasks{hal: hal}
}

// SizeMismatchError is a supplied image whose length does not match
// the fixed device image size. Raised before touching the device.
type SizeMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s image must be %d bytes, got %d", e.What, e.Want, e.Got)
}

// withFlashAccess runs fn with register access to the Flash controller
// enabled, and disables it again on every exit path. A failed
// operation can leave the device mid-sequence; parking the controller
// is still attempted, but the operation error wins.
func (t *Tasks) withFlashAccess(fn func() error) error {
	if err := t.hal.EnableFlashAccess(true); err != nil {
		return err
	}

	defer func() {
		if err := t.hal.EnableFlashAccess(false); err != nil {
			glog.Warningf("disabling flash access failed: %v", err)
		}
	}()

	return fn()
}

// ReadFlash reads the full firmware image.
func (t *Tasks) ReadFlash() ([]byte, error) {
	var words []uint32

	err := t.withFlashAccess(func() error {
		var err error
		words, err = t.hal.ReadFlash(0, t.hal.FirmwareWords())
		return err
	})
	if err != nil {
		return nil, err
	}

	data := image.EncodeWords(words)
	glog.Infof("read flash image, %d bytes, crc32 %08x", len(data), image.Checksum(data))

	return data, nil
}

// WriteFlash programs a full firmware image. The flash is NOT erased
// first; run EraseFlash beforehand when the array holds data, the
// cells only clear bits when programmed.
func (t *Tasks) WriteFlash(data []byte) error {
	if len(data) != int(t.hal.FirmwareSize()) {
		return &SizeMismatchError{What: "flash", Want: int(t.hal.FirmwareSize()), Got: len(data)}
	}

	words, err := image.DecodeWords(data)
	if err != nil {
		return err
	}

	glog.Infof("writing flash image, %d bytes, crc32 %08x", len(data), image.Checksum(data))

	return t.withFlashAccess(func() error {
		return t.hal.ProgramFlash(0, words)
	})
}

// EraseFlash erases the entire firmware array.
func (t *Tasks) EraseFlash() error {
	glog.Info("erasing flash array")

	return t.withFlashAccess(func() error {
		return t.hal.EraseFlashAll()
	})
}

// ReadEEPROM reads the full EEPROM image.
func (t *Tasks) ReadEEPROM() ([]byte, error) {
	data, err := t.hal.ReadEEPROM(0, mecreg.EEPROMSize)
	if err != nil {
		return nil, err
	}

	glog.Infof("read EEPROM image, %d bytes, crc32 %08x", len(data), image.Checksum(data))

	return data, nil
}

// WriteEEPROM erases the EEPROM array and programs a full image.
func (t *Tasks) WriteEEPROM(data []byte) error {
	if len(data) != mecreg.EEPROMSize {
		return &SizeMismatchError{What: "EEPROM", Want: mecreg.EEPROMSize, Got: len(data)}
	}

	glog.Infof("writing EEPROM image, %d bytes, crc32 %08x", len(data), image.Checksum(data))

	if err := t.hal.EraseEEPROMAll(); err != nil {
		return err
	}

	return t.hal.ProgramEEPROM(0, data)
}

// EraseEEPROM erases the entire EEPROM array.
func (t *Tasks) EraseEEPROM() error {
	glog.Info("erasing EEPROM array")

	return t.hal.EraseEEPROMAll()
}
