// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"crypto/rand"
	"testing"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/stretchr/testify/require"
)

func TestDefaultCryptoVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	msg := []byte("the canonical signed message")
	sig := ed25519.Sign(priv, msg)

	require.True(t, DefaultCrypto.Verify(pub, msg, sig))
	require.False(t, DefaultCrypto.Verify(pub, []byte("another message"), sig))

	flipped := append([]byte(nil), sig...)
	flipped[0] ^= 0x01
	require.False(t, DefaultCrypto.Verify(pub, msg, flipped))

	require.False(t, DefaultCrypto.Verify(pub[:16], msg, sig))
	require.False(t, DefaultCrypto.Verify(pub, msg, sig[:32]))
}

func TestHash32Deterministic(t *testing.T) {
	a := DefaultCrypto.Hash32([]byte("input"))
	b := DefaultCrypto.Hash32([]byte("input"))
	c := DefaultCrypto.Hash32([]byte("other"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestAddressFromPublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	addr := DefaultCrypto.AddressFromPublicKey(pub)
	require.True(t, addr.IsAccount())

	h := DefaultCrypto.Hash32(pub)
	require.Equal(t, h[1:], addr[1:])
}

func TestSplitSignature(t *testing.T) {
	_, _, ok := SplitSignature(make([]byte, 95))
	require.False(t, ok)

	sig := make([]byte, SignatureSize)
	sig[0], sig[32] = 0xAA, 0xBB
	pub, s, ok := SplitSignature(sig)
	require.True(t, ok)
	require.Len(t, pub, Ed25519PublicKeySize)
	require.Len(t, s, Ed25519SignatureSize)
	require.Equal(t, byte(0xAA), pub[0])
	require.Equal(t, byte(0xBB), s[0])
}
