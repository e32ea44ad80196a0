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
	"fmt"
)

// PageStride is the address distance between consecutive enclave pages.
const PageStride = 0x1000

// Enclave is a loaded, measured enclave instance. It is immutable once
// created and safe for concurrent use.
type Enclave struct {
	name      string
	signer    string
	mrenclave string
	pages     [][]byte
}

// NewEnclave loads the given segments into a new enclave and measures it.
// The segments are copied, so the caller may reuse its buffers.
func NewEnclave(name, signer string, segments [][]byte) *Enclave {
	pages := make([][]byte, len(segments))
	for i, seg := range segments {
		pages[i] = append([]byte{}, seg...)
	}
	return &Enclave{
		name:      name,
		signer:    signer,
		mrenclave: Measure(pages, name, signer),
		pages:     pages,
	}
}

// Name returns the enclave label.
func (e *Enclave) Name() string { return e.name }

// Signer returns the identity that signed the enclave image.
func (e *Enclave) Signer() string { return e.signer }

// MREnclave returns the hex measurement computed at load time.
func (e *Enclave) MREnclave() string { return e.mrenclave }

// Segments returns a copy of the loaded segments in load order.
func (e *Enclave) Segments() [][]byte {
	segs := make([][]byte, len(e.pages))
	for i, p := range e.pages {
		segs[i] = append([]byte{}, p...)
	}
	return segs
}

// NumPages returns the number of memory pages in the enclave.
func (e *Enclave) NumPages() int {
	return len(e.pages)
}

// Pages returns copies of the enclave memory pages, laid out PageStride
// apart starting at address zero.
func (e *Enclave) Pages() []Page {
	pages := make([]Page, len(e.pages))
	for i, p := range e.pages {
		pages[i] = Page{
			Address: uint64(i) * PageStride,
			Size:    len(p),
			Data:    append([]byte{}, p...),
		}
	}
	return pages
}

// ECall simulates a call from the host into the enclave.
func (e *Enclave) ECall(call string) string {
	return fmt.Sprintf("ECALL %s executed inside %s", call, e.name)
}

// OCall simulates a call from the enclave out to the untrusted host.
func (e *Enclave) OCall(call string) string {
	return fmt.Sprintf("OCALL %s invoked by %s", call, e.name)
}

// Quote produces a fresh attestation quote for this enclave.
func (e *Enclave) Quote() *Quote {
	return NewQuote(e.mrenclave, e.signer)
}

// Attest produces an attestation report under the given policy version.
func (e *Enclave) Attest(policyVersion string) *Report {
	report, err := defaultQuoter.Report(e, policyVersion)
	if err != nil {
		panic(fmt.Sprintf("sgx: attestation report: %v", err))
	}
	return report
}

// Page is a copy of one enclave memory page.
type Page struct {
	Address uint64
	Size    int
	Data    []byte
}

// Write replaces the page contents, refusing data larger than the page.
func (p *Page) Write(content []byte) error {
	if len(content) > p.Size {
		return fmt.Errorf("%w: %d bytes into %d byte page at %#x", ErrPageOverflow, len(content), p.Size, p.Address)
	}
	p.Data = append([]byte{}, content...)
	return nil
}

// Read returns a copy of the page contents.
func (p *Page) Read() []byte {
	return append([]byte{}, p.Data...)
}
