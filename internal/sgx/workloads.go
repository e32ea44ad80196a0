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
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Demo workloads that run inside an enclave through Compute.
const (
	WorkloadKeywordSearch = "keyword_search"
	WorkloadSealedSecret  = "sealed_secret"
	WorkloadInference     = "inference"
	WorkloadCounter       = "counter"
)

// ComputeResult is the outcome of a workload, tagged with the measurement
// of the enclave that ran it.
type ComputeResult struct {
	MREnclave string `json:"mrenclave"`
	Result    any    `json:"result"`
}

// SealedSecretResult is the result of the sealed_secret workload.
type SealedSecretResult struct {
	Token     string `json:"token"`
	Recovered string `json:"recovered"`
}

// InferenceResult is the result of the inference workload.
type InferenceResult struct {
	Norm       float64 `json:"norm"`
	Commitment string  `json:"commitment"`
}

// CounterResult is the result of the counter workload.
type CounterResult struct {
	Counter int    `json:"counter"`
	MAC     string `json:"mac"`
}

type workloadFunc func(e *Enclave, payload []byte) (any, error)

var workloads = map[string]workloadFunc{
	WorkloadKeywordSearch: keywordSearch,
	WorkloadSealedSecret:  sealedSecret,
	WorkloadInference:     inference,
	WorkloadCounter:       counter,
}

// Workloads returns the names of the available workloads, sorted.
func Workloads() []string {
	names := make([]string, 0, len(workloads))
	for name := range workloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsWorkload reports whether name is a known workload.
func IsWorkload(name string) bool {
	_, ok := workloads[name]
	return ok
}

// Compute runs the named workload on a JSON payload. An empty payload is
// treated as an empty object.
func (e *Enclave) Compute(workload string, payload []byte) (*ComputeResult, error) {
	run, ok := workloads[workload]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkload, workload)
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	result, err := run(e, payload)
	if err != nil {
		return nil, fmt.Errorf("workload %s: %w", workload, err)
	}
	log.Debug("Workload executed", "enclave", e.name, "workload", workload)
	return &ComputeResult{MREnclave: e.mrenclave, Result: result}, nil
}

func decodePayload(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// keywordSearch counts case-insensitive whole-word matches per document.
func keywordSearch(_ *Enclave, payload []byte) (any, error) {
	var p struct {
		Documents []string `json:"documents"`
		Keyword   string   `json:"keyword"`
	}
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if p.Keyword == "" {
		return nil, fmt.Errorf("%w: keyword must be a non-empty string", ErrInvalidPayload)
	}
	keyword := strings.ToLower(p.Keyword)
	counts := make(map[string]int, len(p.Documents))
	for i, doc := range p.Documents {
		n := 0
		for _, word := range strings.Fields(strings.ToLower(doc)) {
			if word == keyword {
				n++
			}
		}
		counts[strconv.Itoa(i)] = n
	}
	return counts, nil
}

// sealedSecret seals a secret to the enclave and immediately recovers it.
func sealedSecret(e *Enclave, payload []byte) (any, error) {
	var p struct {
		Secret   string `json:"secret"`
		Identity string `json:"identity"`
	}
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if p.Secret == "" || p.Identity == "" {
		return nil, fmt.Errorf("%w: secret and identity cannot be empty", ErrInvalidPayload)
	}
	type box struct {
		Secret string `json:"secret"`
	}
	token, err := SealJSON(p.Identity, e.mrenclave, box{Secret: p.Secret})
	if err != nil {
		return nil, err
	}
	var recovered box
	if err := UnsealJSON(p.Identity, e.mrenclave, token, &recovered); err != nil {
		return nil, err
	}
	return &SealedSecretResult{Token: token, Recovered: recovered.Secret}, nil
}

// inference computes the L2 norm of a vector and commits to the input.
func inference(_ *Enclave, payload []byte) (any, error) {
	var p struct {
		Vector []float64 `json:"vector"`
	}
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if p.Vector == nil {
		p.Vector = []float64{}
	}
	var sum float64
	for _, v := range p.Vector {
		sum += v * v
	}
	encoded, err := json.Marshal(p.Vector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &InferenceResult{
		Norm:       math.Sqrt(sum),
		Commitment: hex.EncodeToString(digest(encoded)),
	}, nil
}

// counter increments a counter and tags the result with H("value:increments").
func counter(_ *Enclave, payload []byte) (any, error) {
	p := struct {
		Initial    int `json:"initial"`
		Increments int `json:"increments"`
	}{Initial: 0, Increments: 1}
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if p.Increments < 0 {
		return nil, fmt.Errorf("%w: increments must be non-negative", ErrInvalidPayload)
	}
	value := p.Initial + p.Increments
	mac := digest([]byte(fmt.Sprintf("%d:%d", value, p.Increments)))
	return &CounterResult{Counter: value, MAC: hex.EncodeToString(mac)}, nil
}

