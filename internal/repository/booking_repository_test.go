package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSequence(t *testing.T) {
	seq, err := parseSequence("260829-007")
	require.NoError(t, err)
	assert.Equal(t, 7, seq)

	seq, err = parseSequence("260829-999")
	require.NoError(t, err)
	assert.Equal(t, 999, seq)
}

func TestParseSequenceMalformed(t *testing.T) {
	for _, code := range []string{"260829", "260829-", "260829-abc", ""} {
		_, err := parseSequence(code)
		assert.Error(t, err, "code %q", code)
	}
}

func TestNextSequenceCodeFirstOfDay(t *testing.T) {
	code, err := nextSequenceCode("260829", "")
	require.NoError(t, err)
	assert.Equal(t, "260829-001", code)
}

func TestNextSequenceCodeIncrements(t *testing.T) {
	code, err := nextSequenceCode("260829", "260829-007")
	require.NoError(t, err)
	assert.Equal(t, "260829-008", code)

	// zero padding must hold through the two-digit range
	code, err = nextSequenceCode("260829", "260829-099")
	require.NoError(t, err)
	assert.Equal(t, "260829-100", code)
}

func TestNextSequenceCodeExhaustsAt999(t *testing.T) {
	code, err := nextSequenceCode("260829", "260829-998")
	require.NoError(t, err)
	assert.Equal(t, "260829-999", code)

	_, err = nextSequenceCode("260829", "260829-999")
	assert.ErrorIs(t, err, ErrSequenceExhausted)
}

func TestNextSequenceCodeMalformedLast(t *testing.T) {
	_, err := nextSequenceCode("260829", "garbage")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSequenceExhausted)
}
