package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    float64
	}{
		{name: "plain", payload: "42", want: 42},
		{name: "decimal", payload: "52.5", want: 52.5},
		{name: "padded", payload: "  17.25 \r\n", want: 17.25},
		{name: "last line wins", payload: "80\n60\n40\n", want: 40},
		{name: "blank lines skipped", payload: "12\n\n\n", want: 12},
		{name: "trailing unit", payload: "12.5cm", want: 12.5},
		{name: "negative", payload: "-3", want: -3},
		{name: "exponent", payload: "1e2", want: 100},
		{name: "leading dot", payload: ".5", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePayload([]byte(tt.payload))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	for _, payload := range []string{"", "   ", "\n\n", "abc", "cm12", "NaN", "Infinity", "-Inf", "1e999", "12\nERR"} {
		_, err := ParsePayload([]byte(payload))
		assert.ErrorIs(t, err, ErrDataFormat, "payload %q", payload)
	}
}

func TestParsePayload_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    float64
	}{
		{name: "trailing garbage", payload: []byte{'3', '3', 0xff, '\n'}, want: 33},
		{name: "corrupt byte splits digits", payload: []byte{'3', 0xff, '3', '\n'}, want: 3},
		{name: "corrupt decimal point", payload: []byte{'1', '2', 0xc0, '5'}, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePayload(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePayload([]byte{0xff, '4', '2'})
	assert.ErrorIs(t, err, ErrDataFormat, "a corrupt leading byte leaves no number")
}
