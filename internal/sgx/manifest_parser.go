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
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

// Manifest describes an enclave image: its label, its signer and the
// segments loaded into it, in load order.
//
//	name = "app"
//	signer = "vendor"
//
//	[[segments]]
//	uri = "code.bin"
//
//	[[segments]]
//	hex = "010203"
type Manifest struct {
	Name     string         `toml:"name"`
	Signer   string         `toml:"signer"`
	Segments []SegmentEntry `toml:"segments"`
}

// SegmentEntry is one manifest segment. Exactly one source must be set.
type SegmentEntry struct {
	URI  *string `toml:"uri"`  // file path, relative to the manifest directory
	Hex  *string `toml:"hex"`  // inline hex bytes
	Text *string `toml:"text"` // inline UTF-8 text
}

// ParseManifest decodes a TOML manifest and checks every segment entry.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest TOML: %w", err)
	}
	for i, seg := range m.Segments {
		if err := seg.validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return &m, nil
}

// ParseManifestFile reads and parses a manifest file.
func ParseManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return ParseManifest(data)
}

func (s SegmentEntry) validate() error {
	set := 0
	for _, src := range []*string{s.URI, s.Hex, s.Text} {
		if src != nil {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: want exactly one of uri, hex, text; got %d", ErrInvalidSegment, set)
	}
	if s.Hex != nil {
		if _, err := hex.DecodeString(*s.Hex); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSegment, err)
		}
	}
	return nil
}

// LoadSegments resolves the manifest segments in order. Files are read
// concurrently; relative URIs are resolved against baseDir.
func (m *Manifest) LoadSegments(ctx context.Context, baseDir string) ([][]byte, error) {
	for i, seg := range m.Segments {
		if err := seg.validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}
	segments := make([][]byte, len(m.Segments))
	g, ctx := errgroup.WithContext(ctx)
	for i, seg := range m.Segments {
		switch {
		case seg.Text != nil:
			segments[i] = []byte(*seg.Text)
		case seg.Hex != nil:
			segments[i], _ = hex.DecodeString(*seg.Hex) // validated above
		default:
			path := *seg.URI
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			i := i // per-iteration copy; go directive is below 1.22
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("segment %d: %w", i, err)
				}
				log.Debug("Loaded enclave segment", "index", i, "path", path, "size", len(data))
				segments[i] = data
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}

// Enclave loads the manifest segments and measures the resulting enclave.
func (m *Manifest) Enclave(ctx context.Context, baseDir string) (*Enclave, error) {
	segments, err := m.LoadSegments(ctx, baseDir)
	if err != nil {
		return nil, err
	}
	return NewEnclave(m.Name, m.Signer, segments), nil
}

// LoadEnclave parses the manifest at path and loads the enclave it
// describes, resolving segment files next to the manifest.
func LoadEnclave(ctx context.Context, path string) (*Enclave, error) {
	m, err := ParseManifestFile(path)
	if err != nil {
		return nil, err
	}
	return m.Enclave(ctx, filepath.Dir(path))
}
