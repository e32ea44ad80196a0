// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package sgx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DeriveSealKey derives the sealing key H(identity || mrenclave).
func DeriveSealKey(identity, mrenclave string) []byte {
	return digest([]byte(identity), []byte(mrenclave))
}

// Seal binds data to (identity, mrenclave) and returns the result as hex.
//
// The transform is a repeating-key XOR with a key anyone can rederive from
// the two strings. Payloads sealed under the same pair share a keystream, so
// this offers no confidentiality at all; it only illustrates the binding.
func Seal(identity, mrenclave string, data []byte) string {
	return hex.EncodeToString(xorKeyStream(DeriveSealKey(identity, mrenclave), data))
}

// Unseal reverses Seal. It fails with ErrMalformedCiphertext if cipherHex is
// not valid hex. Unsealing under the wrong pair returns garbage, not an error.
func Unseal(identity, mrenclave, cipherHex string) ([]byte, error) {
	cipher, err := hex.DecodeString(cipherHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}
	return xorKeyStream(DeriveSealKey(identity, mrenclave), cipher), nil
}

// SealJSON seals the compact JSON encoding of v.
func SealJSON(identity, mrenclave string, v any) (string, error) {
	if identity == "" {
		return "", ErrEmptyIdentity
	}
	blob, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode sealed value: %w", err)
	}
	return Seal(identity, mrenclave, blob), nil
}

// UnsealJSON unseals cipherHex and decodes the JSON payload into v.
func UnsealJSON(identity, mrenclave, cipherHex string, v any) error {
	if identity == "" {
		return ErrEmptyIdentity
	}
	blob, err := Unseal(identity, mrenclave, cipherHex)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return fmt.Errorf("failed to decode sealed value: %w", err)
	}
	return nil
}

func xorKeyStream(key, in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}
