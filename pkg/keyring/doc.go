// Package keyring supplies a disk-backed flod.KeyProvider: it loads RSA key
// material from PEM files, tracks which PGPKeyID each known signer public
// key belongs to, and (optionally) resolves that mapping from a YAML
// manifest loaded with spf13/viper.
//
// None of this is part of the FLOD wire format or its security properties —
// flod.KeyProvider is the only contract the codec depends on. Keyring is one
// concrete way to satisfy it, grounded in how the original Python
// implementation's KeyManager managed a user's RSA key material, minus its
// GnuPG dependency.
package keyring
