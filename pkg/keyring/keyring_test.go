package keyring_test

import (
	"crypto/rsa"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flod-project/flod/pkg/flod"
	"github.com/flod-project/flod/pkg/flod/wire"
	"github.com/flod-project/flod/pkg/keyring"
)

func TestGenerateKeyPairRejectsUndersized(t *testing.T) {
	_, err := keyring.GenerateKeyPair(512)
	assert.Error(t, err)
}

func TestPEMRoundTrip(t *testing.T) {
	priv, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)

	privPEM, err := keyring.EncodePrivateKeyPEM(priv)
	require.NoError(t, err)
	gotPriv, err := keyring.ParsePrivateKeyPEM(privPEM)
	require.NoError(t, err)
	assert.True(t, priv.Equal(gotPriv))

	pubPEM, err := keyring.EncodePublicKeyPEM(&priv.PublicKey)
	require.NoError(t, err)
	gotPub, err := keyring.ParsePublicKeyPEM(pubPEM)
	require.NoError(t, err)
	assert.True(t, priv.PublicKey.Equal(gotPub))
}

func TestFingerprintIsStableAndDistinct(t *testing.T) {
	priv1, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	priv2, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)

	id1a, err := keyring.Fingerprint(&priv1.PublicKey)
	require.NoError(t, err)
	id1b, err := keyring.Fingerprint(&priv1.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, id1a, id1b)

	id2, err := keyring.Fingerprint(&priv2.PublicKey)
	require.NoError(t, err)
	assert.NotEqual(t, id1a, id2)
}

func TestSealOpenRoundTrip(t *testing.T) {
	priv, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	privPEM, err := keyring.EncodePrivateKeyPEM(priv)
	require.NoError(t, err)

	sealed, err := keyring.SealPrivateKeyPEM(privPEM, []byte("correct horse battery staple"))
	require.NoError(t, err)

	roundTripped, err := keyring.ParseSealedKey(sealed.Bytes())
	require.NoError(t, err)

	opened, err := roundTripped.OpenPrivateKeyPEM([]byte("correct horse battery staple"))
	require.NoError(t, err)
	assert.Equal(t, privPEM, opened)

	_, err = roundTripped.OpenPrivateKeyPEM([]byte("wrong passphrase"))
	assert.Error(t, err)
}

func TestKeyringYieldKeysOrderAndLookup(t *testing.T) {
	recipient, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	other, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	signer, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	plain1, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	plain2, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)

	kr := keyring.New()
	kr.AddPrivateKey(recipient)
	kr.AddPrivateKey(other)

	signerID := [wire.PGPKeyIDSize]byte{1, 2, 3}
	require.NoError(t, kr.AddSignerKey(signerID, &signer.PublicKey))
	kr.AddPlainKey(&plain1.PublicKey)
	kr.AddPlainKey(&plain2.PublicKey)

	keys := kr.YieldKeys()
	require.Len(t, keys, 2)
	assert.True(t, keys[0].Equal(recipient))
	assert.True(t, keys[1].Equal(other))

	result := kr.Lookup(signerID)
	require.Equal(t, flod.LookupOne, result.Kind)
	assert.True(t, result.Key.Equal(&signer.PublicKey))

	absent := kr.Lookup([wire.PGPKeyIDSize]byte{9, 9})
	assert.Equal(t, flod.LookupAbsent, absent.Kind)

	many := kr.Lookup([wire.PGPKeyIDSize]byte{})
	require.Equal(t, flod.LookupMany, many.Kind)
	assert.Len(t, many.Keys, 2)
}

func TestAddSignerKeyRejectsAllZeroID(t *testing.T) {
	kr := keyring.New()
	priv, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	err = kr.AddSignerKey([wire.PGPKeyIDSize]byte{}, &priv.PublicKey)
	assert.Error(t, err)
}

func TestBuildKeyringFromManifest(t *testing.T) {
	dir := t.TempDir()

	recipient, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	writePrivatePEM(t, dir, "recipient.pem", recipient)

	signer, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	writePublicPEM(t, dir, "signer.pub.pem", &signer.PublicKey)

	manifest := &keyring.Manifest{
		Entries: []keyring.ManifestEntry{
			{PrivateKeyFile: "recipient.pem"},
			{PublicKeyFile: "signer.pub.pem", ID: "0102030405060708"},
		},
	}

	kr, err := keyring.BuildKeyring(dir, manifest, nil)
	require.NoError(t, err)

	keys := kr.YieldKeys()
	require.Len(t, keys, 1)
	assert.True(t, keys[0].Equal(recipient))

	result := kr.Lookup([wire.PGPKeyIDSize]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.Equal(t, flod.LookupOne, result.Kind)
	assert.True(t, result.Key.Equal(&signer.PublicKey))
}

func TestBuildKeyringFromManifest_SealedPrivateKey(t *testing.T) {
	dir := t.TempDir()
	passphrase := []byte("hunter2hunter2")

	recipient, err := keyring.GenerateKeyPair(1024)
	require.NoError(t, err)
	privPEM, err := keyring.EncodePrivateKeyPEM(recipient)
	require.NoError(t, err)

	sealed, err := keyring.SealPrivateKeyPEM(privPEM, passphrase)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipient.sealed"), sealed.Bytes(), 0o600))

	manifest := &keyring.Manifest{
		Entries: []keyring.ManifestEntry{
			{PrivateKeyFile: "recipient.sealed", Sealed: true},
		},
	}

	kr, err := keyring.BuildKeyring(dir, manifest, passphrase)
	require.NoError(t, err)
	keys := kr.YieldKeys()
	require.Len(t, keys, 1)
	assert.True(t, keys[0].Equal(recipient))

	_, err = keyring.BuildKeyring(dir, manifest, []byte("wrong passphrase"))
	assert.Error(t, err)
}

func writePrivatePEM(t *testing.T, dir, name string, priv *rsa.PrivateKey) {
	t.Helper()
	data, err := keyring.EncodePrivateKeyPEM(priv)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
}

func writePublicPEM(t *testing.T, dir, name string, pub *rsa.PublicKey) {
	t.Helper()
	data, err := keyring.EncodePublicKeyPEM(pub)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}
