package flod

import (
	"fmt"
	"time"

	"github.com/flod-project/flod/pkg/flod/primitives"
	"github.com/flod-project/flod/pkg/flod/wire"
)

// timestampLayout is the fixed "YYYY-MM-DD HH:MM:SS" wall-clock format
// MPContent.Timestamp uses (spec §3.4). It deliberately carries no
// timezone: the sender always stamps UTC.
const timestampLayout = "2006-01-02 15:04:05"

// assembleContentBlock builds MPContentContainer: DER-encode
// {timestamp, content}, AES-128-CBC/PKCS7-encrypt it under key/iv.
func assembleContentBlock(content string, key, iv []byte, now time.Time) (wire.MPContentContainer, error) {
	plain := wire.MPContent{
		Timestamp: now.UTC().Format(timestampLayout),
		Content:   content,
	}

	der, err := wire.Marshal(plain)
	if err != nil {
		return wire.MPContentContainer{}, fmt.Errorf("flod: encode content: %w", err)
	}

	ct, err := primitives.AESEncryptCBC(der, key, iv)
	if err != nil {
		return wire.MPContentContainer{}, fmt.Errorf("flod: encrypt content: %w", err)
	}

	return wire.MPContentContainer{
		InitializationVector: iv,
		EncryptionAlgorithm:  wire.NewAES128CBCIdentifier(),
		EncryptedContent:     ct,
	}, nil
}

// disassembleContentBlock decrypts and decodes an MPContentContainer,
// recovering the sender's timestamp and payload. Any AES/PKCS7 or DER
// failure here is a packet-level error: by the time this is called, HMAC
// has already verified the ciphertext this container carries, so a failure
// means the packet itself is malformed, not that a different key is
// needed.
func disassembleContentBlock(container wire.MPContentContainer, aesKey []byte) (time.Time, string, error) {
	pt, err := primitives.AESDecryptCBC(container.EncryptedContent, aesKey, container.InitializationVector)
	if err != nil {
		return time.Time{}, "", malformed("content block decryption", err)
	}

	var content wire.MPContent
	if err := wire.Unmarshal(pt, &content); err != nil {
		return time.Time{}, "", malformed("content block decode", err)
	}

	ts, err := time.Parse(timestampLayout, content.Timestamp)
	if err != nil {
		return time.Time{}, "", malformed("content timestamp parse", err)
	}

	return ts.UTC(), content.Content, nil
}
