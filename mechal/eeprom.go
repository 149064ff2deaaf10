package mechal

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/hwdbg/mec16xxflash/mecreg"
)

// eepromCleanStart checks that the controller is usable at all and
// brings it to a known idle state. A set EEPROM_Block flag means the
// controller refuses every command, so nothing is written in that
// case.
func (d *MECHal) eepromCleanStart() error {
	word, err := d.readReg(mecreg.EEPROMStatusAddr)
	if err != nil {
		return err
	}

	status := mecreg.DecodeEEPROMStatus(word)
	glog.V(1).Infof("read EEPROM_Status %s", status)

	if status.EEPROMBlock {
		return ErrEEPROMBlocked
	}

	standby := mecreg.EncodeEEPROMCommand(mecreg.EEPROMModeStandby, false)
	if err := d.writeReg(mecreg.EEPROMCommandAddr, standby); err != nil {
		return err
	}

	/* Error flags are write-1-to-clear */
	return d.writeReg(mecreg.EEPROMStatusAddr, mecreg.EEPROMStatusClearErrors())
}

func (d *MECHal) pollEEPROM(command uint32, what string, done func(mecreg.EEPROMStatus) bool) error {
	return d.pollStatus(mecreg.EEPROMStatusAddr, what, func(word uint32) (bool, error) {
		status := mecreg.DecodeEEPROMStatus(word)
		if status.Failed() {
			return false, &CommandFailureError{
				Controller: "EEPROM",
				Command:    mecreg.EEPROMCommand.Format(command),
				Status:     status.String(),
			}
		}
		return done(status), nil
	})
}

// sendEEPROMCommand issues one command and polls until the controller
// goes idle. Standby takes no address.
func (d *MECHal) sendEEPROMCommand(mode mecreg.EEPROMMode, address uint32, burst bool) error {
	command := mecreg.EncodeEEPROMCommand(mode, burst)
	glog.V(1).Infof("write EEPROM_Command %s", mecreg.EEPROMCommand.Format(command))

	if err := d.writeReg(mecreg.EEPROMCommandAddr, command); err != nil {
		return err
	}

	if mode != mecreg.EEPROMModeStandby {
		glog.V(1).Infof("write EEPROM_Address=%08x", address)
		if err := d.writeReg(mecreg.EEPROMAddressAddr, address); err != nil {
			return err
		}
	}

	return d.pollEEPROM(command, "EEPROM busy", func(status mecreg.EEPROMStatus) bool {
		return !status.Busy
	})
}

// ReadEEPROM reads count bytes starting at a byte address. The data
// register is 32 bits wide but carries one byte per access. The
// EEPROM does not exhibit the flash read glitch, no majority vote is
// needed here.
func (d *MECHal) ReadEEPROM(address uint32, count int) ([]byte, error) {
	if err := d.eepromCleanStart(); err != nil {
		return nil, err
	}

	if err := d.sendEEPROMCommand(mecreg.EEPROMModeRead, address, true); err != nil {
		return nil, err
	}

	data := make([]byte, 0, count)
	for offset := 0; offset < count; offset++ {
		word, err := d.readReg(mecreg.EEPROMDataAddr)
		if err != nil {
			return nil, err
		}
		data = append(data, byte(word))
	}

	if err := d.sendEEPROMCommand(mecreg.EEPROMModeStandby, 0, false); err != nil {
		return nil, err
	}

	return data, nil
}

// EraseEEPROM erases one 8-byte page, then parks the controller in
// Standby.
func (d *MECHal) EraseEEPROM(address uint32) error {
	if address != mecreg.EEPROMEraseAllAddr && address&7 != 0 {
		return fmt.Errorf("EEPROM erase address %#x is not page aligned", address)
	}

	return d.eraseEEPROM(address)
}

// EraseEEPROMAll erases the entire EEPROM array.
func (d *MECHal) EraseEEPROMAll() error {
	return d.eraseEEPROM(mecreg.EEPROMEraseAllAddr)
}

func (d *MECHal) eraseEEPROM(address uint32) error {
	if err := d.eepromCleanStart(); err != nil {
		return err
	}

	if err := d.sendEEPROMCommand(mecreg.EEPROMModeErase, address, false); err != nil {
		return err
	}

	return d.sendEEPROMCommand(mecreg.EEPROMModeStandby, 0, false)
}

// ProgramEEPROM writes bytes starting at a byte address. The target
// region must have been erased first, this is not checked here. The
// controller applies back-pressure through Data_Full, each byte waits
// for the write buffer to drain.
func (d *MECHal) ProgramEEPROM(address uint32, data []byte) error {
	if err := d.eepromCleanStart(); err != nil {
		return err
	}

	if err := d.sendEEPROMCommand(mecreg.EEPROMModeProgram, address, true); err != nil {
		return err
	}

	command := mecreg.EncodeEEPROMCommand(mecreg.EEPROMModeProgram, true)
	for offset, b := range data {
		err := d.pollEEPROM(command, "EEPROM buffer drain", func(status mecreg.EEPROMStatus) bool {
			return !status.DataFull
		})
		if err != nil {
			return err
		}

		if err := d.writeReg(mecreg.EEPROMDataAddr, uint32(b)); err != nil {
			return err
		}

		glog.V(2).Infof("program EEPROM_Address=%04x EEPROM_Data=%02x",
			address+uint32(offset), b)
	}

	err := d.pollEEPROM(command, "EEPROM busy", func(status mecreg.EEPROMStatus) bool {
		return !status.Busy
	})
	if err != nil {
		return err
	}

	return d.sendEEPROMCommand(mecreg.EEPROMModeStandby, 0, false)
}
