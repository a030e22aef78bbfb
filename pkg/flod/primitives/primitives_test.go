//go:debug rsa1024min=0

package primitives_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flod-project/flod/pkg/flod/primitives"
)

func TestRandomBytes(t *testing.T) {
	out, err := primitives.RandomBytes(nil, []int{16, 20, 0, 4})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Len(t, out[0], 16)
	assert.Len(t, out[1], 20)
	assert.Len(t, out[2], 0)
	assert.Len(t, out[3], 4)

	// two independent draws must not collide
	out2, err := primitives.RandomBytes(nil, []int{16})
	require.NoError(t, err)
	assert.NotEqual(t, out[0], out2[0])
}

func TestRandomBytes_NegativeSize(t *testing.T) {
	_, err := primitives.RandomBytes(nil, []int{-1})
	assert.Error(t, err)
}

func TestAESRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	_, _ = rand.Read(key)
	_, _ = rand.Read(iv)

	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		bytes.Repeat([]byte("x"), 15),
		bytes.Repeat([]byte("x"), 16),
		bytes.Repeat([]byte("x"), 17),
		bytes.Repeat([]byte("flod"), 1000),
	}

	for _, pt := range cases {
		ct, err := primitives.AESEncryptCBC(pt, key, iv)
		require.NoError(t, err)
		assert.Equal(t, 0, len(ct)%16)

		got, err := primitives.AESDecryptCBC(ct, key, iv)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestAESDecryptCBC_RejectsBadPadding(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	ct, err := primitives.AESEncryptCBC([]byte("hello world"), key, iv)
	require.NoError(t, err)

	tampered := append([]byte{}, ct...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = primitives.AESDecryptCBC(tampered, key, iv)
	assert.True(t, errors.Is(err, primitives.ErrInvalidPadding) || err != nil)
}

func TestAESDecryptCBC_RejectsNonBlockAlignedCiphertext(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	_, err := primitives.AESDecryptCBC([]byte("not block aligned"), key, iv)
	assert.Error(t, err)
}

func TestHMACSumAndEqual(t *testing.T) {
	key := []byte("01234567890123456789")
	data := []byte("integrity me")

	tag := primitives.HMACSum(data, key)
	assert.Len(t, tag, 20)
	assert.True(t, primitives.HMACEqual(data, key, tag))

	tampered := append([]byte{}, data...)
	tampered[0] ^= 0xFF
	assert.False(t, primitives.HMACEqual(tampered, key, tag))

	wrongKey := []byte("98765432109876543210")
	assert.False(t, primitives.HMACEqual(data, wrongKey, tag))
}

func TestRSAEncryptDecryptOAEPChunks(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	plaintexts := [][]byte{
		nil,
		[]byte("short"),
		bytes.Repeat([]byte("y"), primitives.RSAOAEPMaxPlaintext(&priv.PublicKey)),
		bytes.Repeat([]byte("y"), primitives.RSAOAEPMaxPlaintext(&priv.PublicKey)+1),
		bytes.Repeat([]byte("y"), primitives.RSAOAEPMaxPlaintext(&priv.PublicKey)*3+5),
	}

	for _, pt := range plaintexts {
		ct, err := primitives.RSAEncryptOAEPChunks(pt, &priv.PublicKey)
		require.NoError(t, err)
		require.Equal(t, 0, len(ct)%priv.Size())
		require.True(t, len(ct) >= priv.Size())

		var recovered []byte
		for off := 0; off < len(ct); off += priv.Size() {
			block, err := primitives.RSADecryptOAEPBlock(ct[off:off+priv.Size()], priv)
			require.NoError(t, err)
			recovered = append(recovered, block...)
		}
		assert.Equal(t, pt, recovered)
	}
}

func TestRSAEncryptOAEPChunks_RejectsUndersizedKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 256)
	require.NoError(t, err)
	_, err = primitives.RSAEncryptOAEPChunks([]byte("anything"), &priv.PublicKey)
	assert.Error(t, err)
}

func TestRSADecryptOAEPBlock_WrongKeyFails(t *testing.T) {
	priv1, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	priv2, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	ct, err := primitives.RSAEncryptOAEPChunks([]byte("for priv1"), &priv1.PublicKey)
	require.NoError(t, err)

	_, err = primitives.RSADecryptOAEPBlock(ct, priv2)
	assert.ErrorIs(t, err, primitives.ErrRSABlock)
}

func TestRSASignVerify(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	msg := []byte("sign me")
	sig, err := primitives.RSASign(msg, priv)
	require.NoError(t, err)
	assert.Len(t, sig, priv.Size())

	assert.True(t, primitives.RSAVerify(msg, sig, &priv.PublicKey))
	assert.False(t, primitives.RSAVerify([]byte("different message"), sig, &priv.PublicKey))

	tampered := append([]byte{}, sig...)
	tampered[0] ^= 0xFF
	assert.False(t, primitives.RSAVerify(msg, tampered, &priv.PublicKey))
}
