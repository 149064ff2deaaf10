// Package mecreg describes the MEC16xx Flash and EEPROM controller
// register blocks: absolute addresses, bitfield layouts and the mode
// encodings shared by both controllers.
//
// Ref: Microchip MEC1618 (DS00002339A), MEC1609 (DS00002485A).
package mecreg

/* Flash controller block */
const (
	FlashBase uint32 = 0xff3800

	FlashMbxIndexAddr = FlashBase + 0x00
	FlashMbxDataAddr  = FlashBase + 0x04

	FlashDataAddr    = FlashBase + 0x100
	FlashAddressAddr = FlashBase + 0x104
	FlashCommandAddr = FlashBase + 0x108
	FlashStatusAddr  = FlashBase + 0x10c
	FlashConfigAddr  = FlashBase + 0x110
	FlashInitAddr    = FlashBase + 0x114
)

/* EEPROM controller block */
const (
	EEPROMBase uint32 = 0xf02c00

	EEPROMDataAddr    = EEPROMBase + 0x00
	EEPROMAddressAddr = EEPROMBase + 0x04
	EEPROMCommandAddr = EEPROMBase + 0x08
	EEPROMStatusAddr  = EEPROMBase + 0x0c
)

// Writing these addresses with an Erase command erases the whole array
// instead of a single page.
const (
	FlashEraseAllAddr  uint32 = 0b11111 << 19
	EEPROMEraseAllAddr uint32 = 0b11111 << 11
)

const EEPROMSize = 2048

// FlashMode selects the Flash controller operation. The EEPROM
// controller uses the same encoding but is a distinct type, the two
// must not be mixed up.
type FlashMode uint32

const (
	FlashModeStandby FlashMode = 0
	FlashModeRead    FlashMode = 1
	FlashModeProgram FlashMode = 2
	FlashModeErase   FlashMode = 3
)

func (m FlashMode) String() string {
	return modeName(uint32(m))
}

type EEPROMMode uint32

const (
	EEPROMModeStandby EEPROMMode = 0
	EEPROMModeRead    EEPROMMode = 1
	EEPROMModeProgram EEPROMMode = 2
	EEPROMModeErase   EEPROMMode = 3
)

func (m EEPROMMode) String() string {
	return modeName(uint32(m))
}

func modeName(m uint32) string {
	switch m {
	case 0:
		return "Standby"
	case 1:
		return "Read"
	case 2:
		return "Program"
	case 3:
		return "Erase"
	}
	return "Invalid"
}

var FlashConfig = Layout{Name: "Flash_Config", Fields: []Field{
	{"Reg_Ctl_En", 0, 1},
	{"Host_Ctl", 1, 1},
	{"Boot_Lock", 2, 1},
	{"Boot_Protect_En", 3, 1},
	{"Data_Protect", 4, 1},
	{"Inhibit_JTAG", 5, 1},
	{"EEPROM_Access", 8, 1},
	{"EEPROM_Protect", 9, 1},
	{"EEPROM_Force_Block", 10, 1},
}}

var FlashCommand = Layout{Name: "Flash_Command", Fields: []Field{
	{"Flash_Mode", 0, 2},
	{"Burst", 2, 1},
	{"EC_Int", 3, 1},
	{"Reg_Ctl", 8, 1},
}}

var FlashStatusLayout = Layout{Name: "Flash_Status", Fields: []Field{
	{"Busy", 0, 1},
	{"Data_Full", 1, 1},
	{"Address_Full", 2, 1},
	{"Boot_Lock", 3, 1},
	{"Boot_Block", 5, 1},
	{"Data_Block", 6, 1},
	{"EEPROM_Block", 7, 1},
	{"Busy_Err", 8, 1},
	{"CMD_Err", 9, 1},
	{"Protect_Err", 10, 1},
}}

var EEPROMCommand = Layout{Name: "EEPROM_Command", Fields: []Field{
	{"EEPROM_Mode", 0, 2},
	{"Burst", 2, 1},
}}

var EEPROMStatusLayout = Layout{Name: "EEPROM_Status", Fields: []Field{
	{"Busy", 0, 1},
	{"Data_Full", 1, 1},
	{"Address_Full", 2, 1},
	{"EEPROM_Block", 7, 1},
	{"Busy_Err", 8, 1},
	{"CMD_Err", 9, 1},
}}

// FlashStatus is the decoded view of a Flash_Status word. The raw word
// is kept so the status can be rendered as read.
type FlashStatus struct {
	Word uint32

	Busy        bool
	DataFull    bool
	AddressFull bool
	BootLock    bool
	BootBlock   bool
	DataBlock   bool
	EEPROMBlock bool
	BusyErr     bool
	CMDErr      bool
	ProtectErr  bool
}

func DecodeFlashStatus(word uint32) FlashStatus {
	v := FlashStatusLayout.Decode(word)
	return FlashStatus{
		Word:        word,
		Busy:        v["Busy"] != 0,
		DataFull:    v["Data_Full"] != 0,
		AddressFull: v["Address_Full"] != 0,
		BootLock:    v["Boot_Lock"] != 0,
		BootBlock:   v["Boot_Block"] != 0,
		DataBlock:   v["Data_Block"] != 0,
		EEPROMBlock: v["EEPROM_Block"] != 0,
		BusyErr:     v["Busy_Err"] != 0,
		CMDErr:      v["CMD_Err"] != 0,
		ProtectErr:  v["Protect_Err"] != 0,
	}
}

// Failed reports whether the status carries any terminal error flag.
func (s FlashStatus) Failed() bool {
	return s.BusyErr || s.CMDErr || s.ProtectErr
}

func (s FlashStatus) String() string {
	return FlashStatusLayout.Format(s.Word)
}

type EEPROMStatus struct {
	Word uint32

	Busy        bool
	DataFull    bool
	AddressFull bool
	EEPROMBlock bool
	BusyErr     bool
	CMDErr      bool
}

func DecodeEEPROMStatus(word uint32) EEPROMStatus {
	v := EEPROMStatusLayout.Decode(word)
	return EEPROMStatus{
		Word:        word,
		Busy:        v["Busy"] != 0,
		DataFull:    v["Data_Full"] != 0,
		AddressFull: v["Address_Full"] != 0,
		EEPROMBlock: v["EEPROM_Block"] != 0,
		BusyErr:     v["Busy_Err"] != 0,
		CMDErr:      v["CMD_Err"] != 0,
	}
}

func (s EEPROMStatus) Failed() bool {
	return s.BusyErr || s.CMDErr
}

func (s EEPROMStatus) String() string {
	return EEPROMStatusLayout.Format(s.Word)
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func EncodeFlashConfig(regCtlEn bool) uint32 {
	return FlashConfig.mustEncode(Values{"Reg_Ctl_En": boolBit(regCtlEn)})
}

func EncodeFlashCommand(mode FlashMode, burst bool, regCtl bool) uint32 {
	return FlashCommand.mustEncode(Values{
		"Flash_Mode": uint32(mode),
		"Burst":      boolBit(burst),
		"Reg_Ctl":    boolBit(regCtl),
	})
}

// FlashStatusClearErrors is the write-1-to-clear word for the three
// Flash error flags.
func FlashStatusClearErrors() uint32 {
	return FlashStatusLayout.mustEncode(Values{
		"Busy_Err":    1,
		"CMD_Err":     1,
		"Protect_Err": 1,
	})
}

func EncodeEEPROMCommand(mode EEPROMMode, burst bool) uint32 {
	return EEPROMCommand.mustEncode(Values{
		"EEPROM_Mode": uint32(mode),
		"Burst":       boolBit(burst),
	})
}

func EEPROMStatusClearErrors() uint32 {
	return EEPROMStatusLayout.mustEncode(Values{
		"Busy_Err": 1,
		"CMD_Err":  1,
	})
}
