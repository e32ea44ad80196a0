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

import "errors"

var (
	// Sealing errors
	ErrMalformedCiphertext = errors.New("malformed sealed payload")
	ErrEmptyIdentity       = errors.New("sealing identity is empty")

	// Attestation errors
	ErrShortNonce             = errors.New("random source returned too few nonce bytes")
	ErrMalformedNonce         = errors.New("malformed quote nonce")
	ErrQuoteSignatureMismatch = errors.New("quote signature mismatch")

	// Runtime errors
	ErrPageOverflow   = errors.New("page overflow")
	ErrInvalidSegment = errors.New("invalid manifest segment")

	// Workload errors
	ErrUnknownWorkload = errors.New("unknown workload")
	ErrInvalidPayload  = errors.New("invalid workload payload")
)
