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

// Package sgx simulates the trust primitives of an SGX-style enclave platform:
// measurement, attestation quotes and sealing. A SHA-256 digest stands in for
// the hardware-rooted measurement and a repeating-key XOR stands in for the
// sealing cipher, so nothing here provides real confidentiality or
// authenticity.
package sgx

import (
	"encoding/hex"
	"hash"

	sha256 "github.com/minio/sha256-simd"
)

// MREnclaveSize is the length of a raw measurement digest in bytes.
const MREnclaveSize = sha256.Size

// Measurement is an incremental MRENCLAVE accumulator.
type Measurement struct {
	h hash.Hash
}

// NewMeasurement creates an empty measurement.
func NewMeasurement() *Measurement {
	return &Measurement{h: sha256.New()}
}

// Update extends the measurement with data.
func (m *Measurement) Update(data []byte) {
	m.h.Write(data)
}

// Value returns the current digest. The accumulator can keep being updated.
func (m *Measurement) Value() []byte {
	return m.h.Sum(nil)
}

// Hex returns the current digest as lowercase hex.
func (m *Measurement) Hex() string {
	return hex.EncodeToString(m.Value())
}

// Measure computes the MRENCLAVE of an enclave image: every segment in order,
// then the enclave name, then the signer, fed into one SHA-256 accumulator.
//
// The inputs are concatenated without length prefixes, so two different
// splits of the same byte stream measure the same. Real measurement schemes
// frame each input; this one deliberately does not.
func Measure(segments [][]byte, name, signer string) string {
	m := NewMeasurement()
	for _, seg := range segments {
		m.Update(seg)
	}
	m.Update([]byte(name))
	m.Update([]byte(signer))
	return m.Hex()
}

// digest hashes the concatenation of parts with the measurement hash.
func digest(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
