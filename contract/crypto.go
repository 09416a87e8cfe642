// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/zeebo/blake3"
)

// Signature and key sizes. A composite signature is the signer's 32-byte
// ed25519 public key followed by the 64-byte signature over the message.
const (
	Ed25519PublicKeySize = 32
	Ed25519SignatureSize = 64
	SignatureSize        = Ed25519PublicKeySize + Ed25519SignatureSize
	HashSize             = 32
)

// hashDomain separates the chain hash from other blake3 uses of the same
// input bytes.
const hashDomain = "aion.precompiled.hash.v1"

// CryptoProvider supplies the signature scheme and the 32-byte chain hash
// used for address derivation. It is a collaborator interface so tests can
// substitute deterministic implementations.
type CryptoProvider interface {
	// Verify checks a 64-byte ed25519 signature over message with the
	// given 32-byte public key.
	Verify(publicKey, message, signature []byte) bool

	// Hash32 is the domain-separated 32-byte chain hash.
	Hash32(data []byte) [HashSize]byte

	// AddressFromPublicKey derives the account address owned by an
	// ed25519 public key: the chain hash of the key with the first byte
	// forced to the ordinary-account prefix.
	AddressFromPublicKey(publicKey []byte) Address
}

// DefaultCrypto is the production provider: circl ed25519 and blake3.
var DefaultCrypto CryptoProvider = &chainCrypto{}

type chainCrypto struct{}

func (*chainCrypto) Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != Ed25519PublicKeySize || len(signature) != Ed25519SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

func (*chainCrypto) Hash32(data []byte) [HashSize]byte {
	h := blake3.New()
	h.Write([]byte(hashDomain))
	h.Write(data)

	var out [HashSize]byte
	h.Digest().Read(out[:])
	return out
}

func (c *chainCrypto) AddressFromPublicKey(publicKey []byte) Address {
	h := c.Hash32(publicKey)
	h[0] = PrefixAccount
	return Address(h)
}

// SplitSignature splits a composite 96-byte signature into its public key
// and signature halves. It returns false on any other length.
func SplitSignature(sig []byte) (publicKey, signature []byte, ok bool) {
	if len(sig) != SignatureSize {
		return nil, nil, false
	}
	return sig[:Ed25519PublicKeySize], sig[Ed25519PublicKeySize:], true
}
