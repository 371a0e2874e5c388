package wif

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/redactyl/keyelf/internal/scanner"
)

// ErrInvalidScalar is returned when a candidate is zero or not below the
// secp256k1 group order, so no public key exists for it.
var ErrInvalidScalar = errors.New("wif: scalar is zero or out of range")

// Addresses derives the mainnet P2PKH addresses for key's compressed and
// uncompressed public keys.
func Addresses(key scanner.RawKey) (compressed, uncompressed string, err error) {
	var s btcec.ModNScalar
	if overflow := s.SetByteSlice(key[:]); overflow || s.IsZero() {
		return "", "", ErrInvalidScalar
	}
	_, pub := btcec.PrivKeyFromBytes(key[:])

	c, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), &chaincfg.MainNetParams)
	if err != nil {
		return "", "", err
	}
	u, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub.SerializeUncompressed()), &chaincfg.MainNetParams)
	if err != nil {
		return "", "", err
	}
	return c.EncodeAddress(), u.EncodeAddress(), nil
}
