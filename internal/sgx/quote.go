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
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
)

// NonceSize is the number of random bytes bound into every quote.
const NonceSize = 16

// DefaultPolicyVersion is used for reports requested without a policy.
const DefaultPolicyVersion = "v1"

// Quote asserts that a measurement from a signer is live. The signature is
// a plain digest over (mrenclave, signer, nonce); anybody can forge one.
type Quote struct {
	MREnclave string `json:"mrenclave"`
	Signer    string `json:"signer"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

// Report is the attestation report of a live enclave under a policy version.
type Report struct {
	MREnclave     string `json:"mrenclave"`
	Signer        string `json:"signer"`
	Nonce         string `json:"nonce"`
	PolicyVersion string `json:"policy_version"`
}

// Quoter draws quote nonces from a random source. It is safe for concurrent
// use; reads from the source are serialized.
type Quoter struct {
	mu   sync.Mutex
	rand io.Reader
}

var defaultQuoter = NewQuoter(rand.Reader)

// NewQuoter creates a quoter reading nonces from r. A nil r selects
// crypto/rand.
func NewQuoter(r io.Reader) *Quoter {
	if r == nil {
		r = rand.Reader
	}
	return &Quoter{rand: r}
}

// NewQuote creates a quote with a nonce from crypto/rand.
func NewQuote(mrenclave, signer string) *Quote {
	q, err := defaultQuoter.Quote(mrenclave, signer)
	if err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(fmt.Sprintf("sgx: quote nonce: %v", err))
	}
	return q
}

// Quote creates a quote binding mrenclave and signer to a fresh nonce.
func (q *Quoter) Quote(mrenclave, signer string) (*Quote, error) {
	nonce, err := q.nonce()
	if err != nil {
		return nil, err
	}
	return &Quote{
		MREnclave: mrenclave,
		Signer:    signer,
		Nonce:     hex.EncodeToString(nonce),
		Signature: quoteSignature(mrenclave, signer, nonce),
	}, nil
}

// Report creates an attestation report for e. An empty policy version
// selects DefaultPolicyVersion.
func (q *Quoter) Report(e *Enclave, policyVersion string) (*Report, error) {
	if policyVersion == "" {
		policyVersion = DefaultPolicyVersion
	}
	nonce, err := q.nonce()
	if err != nil {
		return nil, err
	}
	return &Report{
		MREnclave:     e.MREnclave(),
		Signer:        e.Signer(),
		Nonce:         hex.EncodeToString(nonce),
		PolicyVersion: policyVersion,
	}, nil
}

func (q *Quoter) nonce() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(q.rand, nonce); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %v", ErrShortNonce, err)
		}
		return nil, fmt.Errorf("failed to read quote nonce: %w", err)
	}
	return nonce, nil
}

// quoteSignature is hex(H(mrenclave || signer || nonce)). The order is part
// of the wire format.
func quoteSignature(mrenclave, signer string, nonce []byte) string {
	return hex.EncodeToString(digest([]byte(mrenclave), []byte(signer), nonce))
}

// VerifyQuote checks that the signature of q matches its other fields.
// It proves nothing about where the quote came from.
func VerifyQuote(q *Quote) error {
	nonce, err := hex.DecodeString(q.Nonce)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedNonce, err)
	}
	if len(nonce) != NonceSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedNonce, len(nonce), NonceSize)
	}
	want := quoteSignature(q.MREnclave, q.Signer, nonce)
	if !ConstantTimeEqualString(want, q.Signature) {
		return ErrQuoteSignatureMismatch
	}
	return nil
}
