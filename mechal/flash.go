package mechal

import (
	"github.com/golang/glog"

	"github.com/hwdbg/mec16xxflash/mecreg"
)

// EnableFlashAccess gates register control of the Flash controller.
// Enabling also forces the controller to Standby (it refuses commands
// when not already under register control in Standby) and clears any
// latched error flags. Disabling is a single Flash_Config write,
// clearing Reg_Ctl_En clears Reg_Ctl as well.
func (d *MECHal) EnableFlashAccess(enabled bool) error {
	config := mecreg.EncodeFlashConfig(enabled)
	glog.V(1).Infof("write Flash_Config %s", mecreg.FlashConfig.Format(config))

	if err := d.writeReg(mecreg.FlashConfigAddr, config); err != nil {
		return err
	}

	if !enabled {
		return nil
	}

	standby := mecreg.EncodeFlashCommand(mecreg.FlashModeStandby, false, true)
	glog.V(1).Infof("write Flash_Command %s", mecreg.FlashCommand.Format(standby))

	if err := d.writeReg(mecreg.FlashCommandAddr, standby); err != nil {
		return err
	}

	/* Error flags are write-1-to-clear */
	clear := mecreg.FlashStatusClearErrors()
	glog.V(1).Infof("clear Flash_Status %s", mecreg.FlashStatusLayout.Format(clear))

	return d.writeReg(mecreg.FlashStatusAddr, clear)
}

// sendFlashCommand issues one command and polls until the controller
// goes idle. Any error flag observed while polling is terminal.
func (d *MECHal) sendFlashCommand(mode mecreg.FlashMode, address uint32, burst bool) error {
	command := mecreg.EncodeFlashCommand(mode, burst, true)
	glog.V(1).Infof("write Flash_Command %s", mecreg.FlashCommand.Format(command))

	if err := d.writeReg(mecreg.FlashCommandAddr, command); err != nil {
		return err
	}

	glog.V(1).Infof("write Flash_Address=%08x", address)
	if err := d.writeReg(mecreg.FlashAddressAddr, address); err != nil {
		return err
	}

	return d.pollStatus(mecreg.FlashStatusAddr, "Flash busy", func(word uint32) (bool, error) {
		status := mecreg.DecodeFlashStatus(word)
		if status.Failed() {
			return false, &CommandFailureError{
				Controller: "Flash",
				Command:    mecreg.FlashCommand.Format(command),
				Status:     status.String(),
			}
		}
		return !status.Busy, nil
	})
}

// readFlashWord reads Flash_Data after a Read command. The debug
// interface sometimes returns stale or zero data here, apparently
// because it does not wait for the flash array to acknowledge the
// read. Re-writing Flash_Address resynchronizes the controller, so
// read up to three times and take the majority.
func (d *MECHal) readFlashWord(address uint32) (uint32, error) {
	data1, err := d.readReg(mecreg.FlashDataAddr)
	if err != nil {
		return 0, err
	}

	if err := d.writeReg(mecreg.FlashAddressAddr, address); err != nil {
		return 0, err
	}
	data2, err := d.readReg(mecreg.FlashDataAddr)
	if err != nil {
		return 0, err
	}

	if data1 == data2 {
		return data1, nil
	}

	if err := d.writeReg(mecreg.FlashAddressAddr, address); err != nil {
		return 0, err
	}
	data3, err := d.readReg(mecreg.FlashDataAddr)
	if err != nil {
		return 0, err
	}

	glog.Warningf("read glitch Flash_Address=%05x Flash_Data=%08x/%08x/%08x",
		address, data1, data2, data3)

	switch {
	case data2 == data3:
		return data2, nil
	case data1 == data3:
		return data1, nil
	default:
		return 0, &ReadAmbiguousError{
			Address: address,
			Values:  [3]uint32{data1, data2, data3},
		}
	}
}

// ReadFlash reads count words starting at a word-aligned byte address.
func (d *MECHal) ReadFlash(address uint32, count int) ([]uint32, error) {
	words := make([]uint32, 0, count)

	for offset := 0; offset < count; offset++ {
		wordAddr := address + uint32(offset)*4

		if err := d.sendFlashCommand(mecreg.FlashModeRead, wordAddr, false); err != nil {
			return nil, err
		}

		data, err := d.readFlashWord(wordAddr)
		if err != nil {
			return nil, err
		}

		glog.V(1).Infof("read Flash_Address=%05x Flash_Data=%08x", wordAddr, data)
		words = append(words, data)
	}

	return words, nil
}

// EraseFlash erases one flash page. The caller must respect the
// device's page granularity; the controller rejects other addresses.
func (d *MECHal) EraseFlash(address uint32) error {
	return d.sendFlashCommand(mecreg.FlashModeErase, address, false)
}

// EraseFlashAll erases the entire code flash array.
func (d *MECHal) EraseFlashAll() error {
	return d.sendFlashCommand(mecreg.FlashModeErase, mecreg.FlashEraseAllAddr, false)
}

// ProgramFlash writes words starting at a word-aligned byte address
// using a single burst command; the controller pipelines the data
// writes internally. The target region must have been erased first,
// the flash cells only clear bits when programmed.
func (d *MECHal) ProgramFlash(address uint32, words []uint32) error {
	if err := d.sendFlashCommand(mecreg.FlashModeProgram, address, true); err != nil {
		return err
	}

	for offset, data := range words {
		if err := d.writeReg(mecreg.FlashDataAddr, data); err != nil {
			return err
		}

		glog.V(2).Infof("program Flash_Address=%05x Flash_Data=%08x",
			address+uint32(offset)*4, data)
	}

	return nil
}
