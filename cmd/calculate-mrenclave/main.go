package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/mccoysc/enclavesim/internal/sgx"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintf(stderr, "Usage: %s <enclave.toml> [expected-mrenclave]\n", filepath.Base(args[0]))
		fmt.Fprintf(stderr, "\nThis tool computes the MRENCLAVE of an enclave manifest and optionally checks it.\n")
		return 1
	}

	manifestPath := args[1]

	fmt.Fprintf(stdout, "Reading manifest: %s\n", manifestPath)
	manifest, err := sgx.ParseManifestFile(manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing manifest: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Enclave %q signed by %q, %d segments\n", manifest.Name, manifest.Signer, len(manifest.Segments))

	enclave, err := manifest.Enclave(context.Background(), filepath.Dir(manifestPath))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading segments: %v\n", err)
		return 1
	}
	for _, page := range enclave.Pages() {
		fmt.Fprintf(stdout, "  page %#07x: %d bytes\n", page.Address, page.Size)
	}
	fmt.Fprintf(stdout, "\nCalculated MRENCLAVE: %s\n", enclave.MREnclave())

	if len(args) < 3 {
		return 0
	}
	expected := strings.ToLower(strings.TrimSpace(args[2]))

	fmt.Fprintln(stdout, "\n============================================================")
	if sgx.ConstantTimeEqualString(enclave.MREnclave(), expected) {
		verdict(stdout, color.FgGreen).Fprintln(stdout, "✓ SUCCESS: MRENCLAVEs MATCH!")
		return 0
	}
	verdict(stdout, color.FgRed).Fprintln(stdout, "✗ FAILURE: MRENCLAVEs DO NOT MATCH!")
	fmt.Fprintf(stdout, "\nExpected:   %s\n", expected)
	fmt.Fprintf(stdout, "Calculated: %s\n", enclave.MREnclave())
	return 1
}

// verdict colors the final result line, but only on a terminal stdout.
func verdict(w io.Writer, attr color.Attribute) *color.Color {
	c := color.New(attr, color.Bold)
	if w != io.Writer(os.Stdout) {
		c.DisableColor()
	}
	return c
}
