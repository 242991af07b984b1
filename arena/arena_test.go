package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New(4096)
	require.NoError(t, err)
	require.Equal(t, 4096, a.Len())

	// The span must be writable end to end.
	buf := a.Bytes()
	buf[0] = 0xAA
	buf[4095] = 0x55
	assert.Equal(t, byte(0xAA), buf[0])
	assert.Equal(t, byte(0x55), buf[4095])

	require.NoError(t, a.Close())
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrBadSize)

	_, err = New(-1)
	assert.ErrorIs(t, err, ErrBadSize)
}

func TestFromBytes(t *testing.T) {
	buf := make([]byte, 256)
	a, err := FromBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, 256, a.Len())

	// Caller-supplied arenas share storage with the source buffer.
	a.Bytes()[10] = 0xEE
	assert.Equal(t, byte(0xEE), buf[10])

	// Closing a FromBytes arena only detaches it.
	require.NoError(t, a.Close())
	assert.Equal(t, 0, a.Len())
}

func TestFromBytesRejectsEmpty(t *testing.T) {
	_, err := FromBytes(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = FromBytes([]byte{})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCloseIdempotent(t *testing.T) {
	a, err := New(4096)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.Equal(t, 0, a.Len())
}
