package mecreg

import (
	"fmt"
	"strings"
)

/* The controller registers are 32-bit words with fixed bitfield layouts.
 * Each layout is a static table; bits not covered by any field are
 * reserved (written as zero, ignored on read). */

type Field struct {
	Name  string
	Shift uint
	Width uint
}

type Layout struct {
	Name   string
	Fields []Field
}

type Values map[string]uint32

func (f Field) mask() uint32 {
	return ((1 << f.Width) - 1) << f.Shift
}

func (l *Layout) field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Encode packs the given field values into a register word. Fields not
// named are zero, as are all reserved bits. A value that does not fit
// its field width is an error.
func (l *Layout) Encode(v Values) (uint32, error) {
	var word uint32
	for name, val := range v {
		f, ok := l.field(name)
		if !ok {
			return 0, fmt.Errorf("%s has no field %q", l.Name, name)
		}
		if val > (1<<f.Width)-1 {
			return 0, fmt.Errorf("%s.%s: value %#x exceeds %d-bit field", l.Name, name, val, f.Width)
		}
		word |= val << f.Shift
	}
	return word, nil
}

// Decode extracts all declared fields from a register word. Reserved
// bits are ignored.
func (l *Layout) Decode(word uint32) Values {
	v := make(Values, len(l.Fields))
	for _, f := range l.Fields {
		v[f.Name] = (word & f.mask()) >> f.Shift
	}
	return v
}

// Format renders the non-zero fields of a register word for tracing.
func (l *Layout) Format(word uint32) string {
	var parts []string
	for _, f := range l.Fields {
		val := (word & f.mask()) >> f.Shift
		if val == 0 {
			continue
		}
		if f.Width == 1 {
			parts = append(parts, f.Name)
		} else {
			parts = append(parts, fmt.Sprintf("%s=%d", f.Name, val))
		}
	}
	if len(parts) == 0 {
		return "(zero)"
	}
	return strings.Join(parts, " ")
}

func (l *Layout) mustEncode(v Values) uint32 {
	word, err := l.Encode(v)
	if err != nil {
		panic(err)
	}
	return word
}
