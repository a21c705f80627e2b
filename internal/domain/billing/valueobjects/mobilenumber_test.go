package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMobileNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"local format", "09123456789", "09123456789", false},
		{"plus98 prefix", "+989123456789", "09123456789", false},
		{"0098 prefix", "00989123456789", "09123456789", false},
		{"bare 98 prefix", "989123456789", "09123456789", false},
		{"with spaces", "0912 345 6789", "09123456789", false},
		{"with dashes", "0912-345-6789", "09123456789", false},
		{"too short", "0912345678", "", true},
		{"too long", "091234567890", "", true},
		{"landline", "02112345678", "", true},
		{"letters", "09abc456789", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMobileNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMobileNumber_IsZero(t *testing.T) {
	assert.True(t, MobileNumber{}.IsZero())

	m, err := NewMobileNumber("09123456789")
	require.NoError(t, err)
	assert.False(t, m.IsZero())
}
