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
	stdsha256 "crypto/sha256"
	"encoding/hex"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureKnownValue(t *testing.T) {
	got := Measure([][]byte{{1, 2, 3}}, "app", "vendor")
	assert.Equal(t, "d8152212aa9ca3b46276e0e52ebb3bc2c93f664586251219ef81d4aa78d2291c", got)

	// Cross-check against the standard library over the concatenated input.
	sum := stdsha256.Sum256([]byte("\x01\x02\x03appvendor"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestMeasureDeterministic(t *testing.T) {
	testCases := []struct {
		name     string
		segments [][]byte
		encl     string
		signer   string
	}{
		{"no segments", nil, "app", "vendor"},
		{"empty segment", [][]byte{{}}, "app", "vendor"},
		{"empty strings", [][]byte{{0xff}}, "", ""},
		{"many segments", [][]byte{[]byte("code"), []byte("data"), make([]byte, 4096)}, "enclave", "signer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := Measure(tc.segments, tc.encl, tc.signer)
			second := Measure(tc.segments, tc.encl, tc.signer)
			require.Equal(t, first, second)
			require.Len(t, first, 2*MREnclaveSize)
			require.Equal(t, first, NewEnclave(tc.encl, tc.signer, tc.segments).MREnclave())
		})
	}
}

func TestMeasureDeterministicRandom(t *testing.T) {
	f := fuzz.NewWithSeed(1).NilChance(0.1).NumElements(0, 16)
	for i := 0; i < 200; i++ {
		var (
			segments     [][]byte
			name, signer string
		)
		f.Fuzz(&segments)
		f.Fuzz(&name)
		f.Fuzz(&signer)

		want := Measure(segments, name, signer)
		require.Equal(t, want, Measure(segments, name, signer))
		require.Equal(t, want, NewEnclave(name, signer, segments).MREnclave())

		var flat []byte
		for _, seg := range segments {
			flat = append(flat, seg...)
		}
		flat = append(flat, name+signer...)
		sum := stdsha256.Sum256(flat)
		require.Equal(t, hex.EncodeToString(sum[:]), want)
	}
}

func TestMeasureEmptyInput(t *testing.T) {
	// SHA-256 of "appvendor"; empty segments contribute nothing.
	want := "d8dd0fdd16f775edcc95141077e61ac5a513fef50f217ada010e3541820ded5e"
	assert.Equal(t, want, Measure(nil, "app", "vendor"))
	assert.Equal(t, want, Measure([][]byte{{}, {}}, "app", "vendor"))
}

func TestMeasureOrderSensitive(t *testing.T) {
	a, b := []byte("code"), []byte("data")
	assert.NotEqual(t,
		Measure([][]byte{a, b}, "app", "vendor"),
		Measure([][]byte{b, a}, "app", "vendor"),
	)
}

func TestMeasureIdentityBound(t *testing.T) {
	segs := [][]byte{[]byte("code")}
	base := Measure(segs, "app", "vendor")
	assert.NotEqual(t, base, Measure(segs, "app2", "vendor"))
	assert.NotEqual(t, base, Measure(segs, "app", "vendor2"))
}

// Inputs are concatenated without framing, so re-splitting the same bytes
// yields the same measurement.
func TestMeasureUnframedConcatenation(t *testing.T) {
	assert.Equal(t,
		Measure([][]byte{[]byte("ab")}, "c", "d"),
		Measure([][]byte{[]byte("a"), []byte("b")}, "c", "d"),
	)
	assert.Equal(t,
		Measure([][]byte{[]byte("x")}, "app", "vendor"),
		Measure(nil, "xapp", "vendor"),
	)
}

func TestMeasurementIncremental(t *testing.T) {
	m := NewMeasurement()
	m.Update([]byte{1, 2, 3})
	m.Update([]byte("app"))
	before := m.Hex()
	m.Update([]byte("vendor"))

	assert.Equal(t, Measure([][]byte{{1, 2, 3}}, "app", "vendor"), m.Hex())
	assert.NotEqual(t, before, m.Hex())
	assert.Len(t, m.Value(), MREnclaveSize)
}
