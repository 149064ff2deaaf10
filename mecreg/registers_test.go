package mecreg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allLayouts = []*Layout{
	&FlashConfig,
	&FlashCommand,
	&FlashStatusLayout,
	&EEPROMCommand,
	&EEPROMStatusLayout,
}

func layoutMask(l *Layout) uint32 {
	var m uint32
	for _, f := range l.Fields {
		m |= f.mask()
	}
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, l := range allLayouts {
		t.Run(l.Name, func(t *testing.T) {
			/* Set every field to its maximum value */
			in := make(Values, len(l.Fields))
			for _, f := range l.Fields {
				in[f.Name] = (1 << f.Width) - 1
			}

			word, err := l.Encode(in)
			require.NoError(t, err)
			require.Equal(t, in, l.Decode(word))

			/* Encoding never touches reserved bits */
			require.Zero(t, word&^layoutMask(l))

			/* Omitted fields decode as zero */
			word, err = l.Encode(Values{})
			require.NoError(t, err)
			require.Zero(t, word)
			for _, f := range l.Fields {
				require.Zero(t, l.Decode(word)[f.Name])
			}
		})
	}
}

func TestEncodeRejectsBadValues(t *testing.T) {
	_, err := FlashCommand.Encode(Values{"Flash_Mode": 4})
	require.Error(t, err)

	_, err = FlashCommand.Encode(Values{"Burst": 2})
	require.Error(t, err)

	_, err = FlashCommand.Encode(Values{"No_Such_Field": 1})
	require.Error(t, err)
}

func TestDecodeIgnoresReservedBits(t *testing.T) {
	word := EncodeFlashCommand(FlashModeRead, false, true)
	noisy := word | ^layoutMask(&FlashCommand)

	require.Equal(t, FlashCommand.Decode(word), FlashCommand.Decode(noisy))
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		name   string
		layout *Layout
		word   uint32
		expect string
	}{
		{"zero", &FlashCommand, 0, "(zero)"},
		{"standby", &FlashCommand, EncodeFlashCommand(FlashModeStandby, false, true), "Reg_Ctl"},
		{"program burst", &FlashCommand, EncodeFlashCommand(FlashModeProgram, true, true), "Flash_Mode=2 Burst Reg_Ctl"},
		{"config enable", &FlashConfig, EncodeFlashConfig(true), "Reg_Ctl_En"},
		{"status clear", &FlashStatusLayout, FlashStatusClearErrors(), "Busy_Err CMD_Err Protect_Err"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.layout.Format(tc.word))
		})
	}
}

func TestFlashStatusDecode(t *testing.T) {
	s := DecodeFlashStatus(1 << 0)
	require.True(t, s.Busy)
	require.False(t, s.Failed())

	for _, bit := range []uint{8, 9, 10} {
		s := DecodeFlashStatus(1 << bit)
		require.True(t, s.Failed(), "bit %d must be terminal", bit)
	}

	s = DecodeFlashStatus(1 << 7)
	require.True(t, s.EEPROMBlock)
	require.False(t, s.Failed())
}

func TestEEPROMStatusDecode(t *testing.T) {
	s := DecodeEEPROMStatus(1<<0 | 1<<1)
	require.True(t, s.Busy)
	require.True(t, s.DataFull)
	require.False(t, s.Failed())

	for _, bit := range []uint{8, 9} {
		s := DecodeEEPROMStatus(1 << bit)
		require.True(t, s.Failed(), "bit %d must be terminal", bit)
	}

	require.True(t, DecodeEEPROMStatus(1<<7).EEPROMBlock)
}

func TestEraseAllSentinels(t *testing.T) {
	require.Equal(t, uint32(0xf80000), FlashEraseAllAddr)
	require.Equal(t, uint32(0xf800), EEPROMEraseAllAddr)
}
