// Package wif renders raw private scalars in Wallet Import Format.
package wif

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/redactyl/keyelf/internal/scanner"
)

const (
	// MainnetVersion is the WIF version byte for Bitcoin mainnet keys.
	MainnetVersion byte = 0x80
	// CompressedSuffix marks a key whose public point is serialized compressed.
	CompressedSuffix byte = 0x01
	// ChecksumLength is the number of double-SHA-256 bytes appended.
	ChecksumLength = 4
)

// Payload returns version ++ key (++ suffix when compressed).
func Payload(key scanner.RawKey, compressed bool) []byte {
	n := 1 + scanner.KeyLength
	if compressed {
		n++
	}
	out := make([]byte, 0, n)
	out = append(out, MainnetVersion)
	out = append(out, key[:]...)
	if compressed {
		out = append(out, CompressedSuffix)
	}
	return out
}

// Checksum is the first four bytes of SHA-256(SHA-256(payload)).
func Checksum(payload []byte) []byte {
	return chainhash.DoubleHashB(payload)[:ChecksumLength]
}

// CheckEncode appends the checksum to payload and encodes the result in
// Base58. Each leading zero byte becomes a leading '1'.
func CheckEncode(payload []byte) string {
	full := make([]byte, 0, len(payload)+ChecksumLength)
	full = append(full, payload...)
	full = append(full, Checksum(payload)...)
	return base58.Encode(full)
}

// Encode returns the WIF string for key.
func Encode(key scanner.RawKey, compressed bool) string {
	return CheckEncode(Payload(key, compressed))
}

// EncodeBoth returns the uncompressed and compressed WIF strings for key.
func EncodeBoth(key scanner.RawKey) (uncompressed, compressed string) {
	return Encode(key, false), Encode(key, true)
}
