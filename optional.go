package stepper

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionalByte is a byte that may be unset. The zero value is unset.
type OptionalByte struct {
	value  byte
	exists bool
}

func SomeByte(value byte) OptionalByte {
	return OptionalByte{value: value, exists: true}
}

func (o OptionalByte) Unpack() (byte, bool) {
	return o.value, o.exists
}

func (o OptionalByte) Empty() bool {
	return !o.exists
}

func (o OptionalByte) Equals(value byte) bool {
	return o.exists && o.value == value
}

// String formats the byte as two hex digits, or "--" when unset.
func (o OptionalByte) String() string {
	if !o.exists {
		return "--"
	}
	return fmt.Sprintf("%02X", o.value)
}

// ParseOptionalByte parses two hex digits; "--", ".." and "" are unset.
func ParseOptionalByte(s string) (OptionalByte, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "--", "..":
		return OptionalByte{}, nil
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return OptionalByte{}, fmt.Errorf("invalid hex byte %q", s)
	}
	return SomeByte(byte(v)), nil
}
