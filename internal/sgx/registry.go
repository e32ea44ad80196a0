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
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// DefaultSigner signs enclaves the registry creates on demand.
const DefaultSigner = "lab"

// initSegment is the image loaded into enclaves created on demand.
var initSegment = []byte("init")

// Registry keeps enclave instances by name.
type Registry struct {
	mu       sync.RWMutex
	signer   string
	enclaves map[string]*Enclave
}

// NewRegistry creates an empty registry. Enclaves created on demand are
// signed by signer, or DefaultSigner if it is empty.
func NewRegistry(signer string) *Registry {
	if signer == "" {
		signer = DefaultSigner
	}
	return &Registry{
		signer:   signer,
		enclaves: make(map[string]*Enclave),
	}
}

// Get returns the enclave registered under name.
func (r *Registry) Get(name string) (*Enclave, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enclaves[name]
	return e, ok
}

// GetOrCreate returns the enclave registered under name, loading a minimal
// one if there is none.
func (r *Registry) GetOrCreate(name string) *Enclave {
	if e, ok := r.Get(name); ok {
		log.Debug("Enclave found in registry", "name", name)
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.enclaves[name]; ok {
		return e
	}
	e := NewEnclave(name, r.signer, [][]byte{initSegment})
	r.enclaves[name] = e
	log.Info("Enclave created", "name", name, "signer", r.signer, "mrenclave", e.MREnclave())
	return e
}

// Register adds e under its name, replacing any previous enclave. It returns
// the replaced enclave, if any.
func (r *Registry) Register(e *Enclave) *Enclave {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.enclaves[e.Name()]
	r.enclaves[e.Name()] = e
	if prev != nil {
		log.Warn("Enclave replaced in registry", "name", e.Name(), "old", prev.MREnclave(), "new", e.MREnclave())
	} else {
		log.Info("Enclave registered", "name", e.Name(), "mrenclave", e.MREnclave())
	}
	return prev
}

// Names returns the registered enclave names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.enclaves))
	for name := range r.enclaves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
