package sensor

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParsePayload extracts a distance in centimetres from a raw sensor payload.
// The firmware may batch several readings per packet, so only the last
// non-empty line counts. Trailing units or garbage after the number are
// ignored ("12.5cm" reads as 12.5). Invalid bytes become U+FFFD, so they
// end a number instead of joining the digits around them.
func ParsePayload(b []byte) (float64, error) {
	text := strings.ToValidUTF8(string(bytes.TrimSpace(b)), "\uFFFD")

	var last string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			last = line
		}
	}
	if last == "" {
		return 0, fmt.Errorf("%w: empty payload", ErrDataFormat)
	}

	token := leadingNumber.FindString(last)
	if token == "" {
		return 0, fmt.Errorf("%w: %q", ErrDataFormat, last)
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrDataFormat, last)
	}
	return v, nil
}
