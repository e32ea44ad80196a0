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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnclave(t *testing.T) {
	e := NewEnclave("app", "vendor", [][]byte{{1, 2, 3}})

	assert.Equal(t, "app", e.Name())
	assert.Equal(t, "vendor", e.Signer())
	assert.Equal(t, Measure([][]byte{{1, 2, 3}}, "app", "vendor"), e.MREnclave())
	assert.Equal(t, [][]byte{{1, 2, 3}}, e.Segments())
}

func TestEnclaveCalls(t *testing.T) {
	e := NewEnclave("app", "vendor", [][]byte{{1, 2, 3}})

	assert.Equal(t, "ECALL init executed inside app", e.ECall("init"))
	assert.Equal(t, "OCALL write invoked by app", e.OCall("write"))
	assert.Equal(t, "ECALL  executed inside app", e.ECall(""))
}

func TestEnclaveCopiesSegments(t *testing.T) {
	seg := []byte{1, 2, 3}
	e := NewEnclave("app", "vendor", [][]byte{seg})
	mr := e.MREnclave()

	seg[0] = 0xff
	assert.Equal(t, [][]byte{{1, 2, 3}}, e.Segments())

	out := e.Segments()
	out[0][1] = 0xff
	assert.Equal(t, [][]byte{{1, 2, 3}}, e.Segments())

	pages := e.Pages()
	pages[0].Data[2] = 0xff
	assert.Equal(t, [][]byte{{1, 2, 3}}, e.Segments())
	assert.Equal(t, mr, e.MREnclave())
}

func TestEnclavePages(t *testing.T) {
	e := NewEnclave("app", "vendor", [][]byte{[]byte("code"), {}, []byte("data!")})
	pages := e.Pages()
	require.Len(t, pages, 3)
	assert.Equal(t, 3, e.NumPages())
	assert.Equal(t, 0, NewEnclave("empty", "vendor", nil).NumPages())

	for i, p := range pages {
		assert.Equal(t, uint64(i*PageStride), p.Address)
	}
	assert.Equal(t, 4, pages[0].Size)
	assert.Equal(t, 0, pages[1].Size)
	assert.Equal(t, []byte("data!"), pages[2].Read())
}

func TestPageWrite(t *testing.T) {
	p := Page{Address: 0x2000, Size: 4, Data: []byte("code")}

	require.NoError(t, p.Write([]byte("ab")))
	assert.Equal(t, []byte("ab"), p.Read())

	err := p.Write([]byte("too long"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPageOverflow))
	assert.Contains(t, err.Error(), "0x2000")
	assert.Equal(t, []byte("ab"), p.Read())
}

func TestEnclaveQuote(t *testing.T) {
	e := NewEnclave("app", "vendor", [][]byte{{1, 2, 3}})
	q := e.Quote()

	assert.Equal(t, e.MREnclave(), q.MREnclave)
	assert.Equal(t, "vendor", q.Signer)
	require.NoError(t, VerifyQuote(q))
}

func TestEnclaveAttest(t *testing.T) {
	e := NewEnclave("demo", "lab", [][]byte{[]byte("init")})

	report := e.Attest("")
	assert.Equal(t, e.MREnclave(), report.MREnclave)
	assert.Equal(t, "lab", report.Signer)
	assert.Equal(t, DefaultPolicyVersion, report.PolicyVersion)
	nonce, err := hex.DecodeString(report.Nonce)
	require.NoError(t, err)
	assert.Len(t, nonce, NonceSize)

	assert.Equal(t, "v2", e.Attest("v2").PolicyVersion)
	assert.NotEqual(t, report.Nonce, e.Attest("v1").Nonce)
}
