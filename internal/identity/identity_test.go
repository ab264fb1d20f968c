package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailPolicy_Valid(t *testing.T) {
	p := NewEmailPolicy("")

	testCases := []struct {
		name  string
		email string
		valid bool
	}{
		{"nine digit reg no", "123456789.simats@saveetha.com", true},
		{"another nine digit reg no", "721221104.simats@saveetha.com", true},
		{"too few digits", "12345678.simats@saveetha.com", false},
		{"too many digits", "1234567890.simats@saveetha.com", false},
		{"alphanumeric prefix", "12ab56789.simats@saveetha.com", false},
		{"wrong suffix", "123456789.simats@example.com", false},
		{"missing suffix", "123456789", false},
		{"suffix only", ".simats@saveetha.com", false},
		{"empty string", "", false},
		{"trailing garbage", "123456789.simats@saveetha.com.evil", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, p.Valid(tc.email))
		})
	}
}

func TestEmailPolicy_RegNo(t *testing.T) {
	p := NewEmailPolicy("")

	regNo, err := p.RegNo("123456789.simats@saveetha.com")
	require.NoError(t, err)
	assert.Equal(t, "123456789", regNo)

	t.Run("re-deriving is idempotent", func(t *testing.T) {
		again, err := p.RegNo("123456789.simats@saveetha.com")
		require.NoError(t, err)
		assert.Equal(t, regNo, again)
	})

	t.Run("malformed email yields no reg no", func(t *testing.T) {
		_, err := p.RegNo("not-an-email")
		assert.Error(t, err)
	})
}

func TestEmailPolicy_Login(t *testing.T) {
	p := NewEmailPolicy("")

	who, err := p.Login("987654321.simats@saveetha.com")
	require.NoError(t, err)
	assert.Equal(t, "987654321.simats@saveetha.com", who.Email)
	assert.Equal(t, "987654321", who.RegNo)

	_, err = p.Login("987654321@saveetha.com")
	assert.Error(t, err, "no session for a malformed email")
}

func TestEmailPolicy_CustomSuffix(t *testing.T) {
	p := NewEmailPolicy("@students.example.edu")

	assert.True(t, p.Valid("123456789@students.example.edu"))
	assert.False(t, p.Valid("123456789.simats@saveetha.com"))

	regNo, err := p.RegNo("123456789@students.example.edu")
	require.NoError(t, err)
	assert.Equal(t, "123456789", regNo)
}
