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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/mccoysc/enclavesim/internal/sgx"
)

var (
	manifestFlag = &cli.StringFlag{
		Name:  "manifest",
		Usage: "TOML enclave manifest",
	}
	nameFlag = &cli.StringFlag{
		Name:  "name",
		Usage: "Enclave name",
	}
	signerFlag = &cli.StringFlag{
		Name:  "signer",
		Usage: "Enclave signer (defaults to the configured signer)",
	}
	mrenclaveFlag = &cli.StringFlag{
		Name:  "mrenclave",
		Usage: "Enclave measurement (hex)",
	}
	identityFlag = &cli.StringFlag{
		Name:     "identity",
		Usage:    "Sealing identity",
		Required: true,
	}
	dataFlag = &cli.StringFlag{
		Name:  "data",
		Usage: "Payload to seal (read from stdin when unset)",
	}
	payloadFlag = &cli.StringFlag{
		Name:  "payload",
		Usage: "JSON payload for a workload ecall",
	}
	policyFlag = &cli.StringFlag{
		Name:  "policy",
		Usage: "Attestation policy version (defaults to the configured policy)",
	}
)

var errNoEnclave = errors.New("either --manifest or --name is required")

var measureCommand = &cli.Command{
	Name:      "measure",
	Usage:     "Compute the MRENCLAVE of an enclave image",
	ArgsUsage: "[segment files...]",
	Flags:     []cli.Flag{manifestFlag, nameFlag, signerFlag},
	Action: func(ctx *cli.Context) error {
		var enclave *sgx.Enclave
		if ctx.IsSet(manifestFlag.Name) {
			if ctx.NArg() > 0 {
				return errors.New("segment files cannot be combined with --manifest")
			}
			e, err := sgx.LoadEnclave(ctx.Context, ctx.String(manifestFlag.Name))
			if err != nil {
				return err
			}
			enclave = e
		} else {
			segments := make([][]byte, 0, ctx.NArg())
			for _, path := range ctx.Args().Slice() {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read segment: %w", err)
				}
				segments = append(segments, data)
			}
			enclave = sgx.NewEnclave(ctx.String(nameFlag.Name), signer(ctx), segments)
		}
		log.Info("Enclave measured", "name", enclave.Name(), "signer", enclave.Signer(), "segments", enclave.NumPages())
		_, err := fmt.Fprintln(ctx.App.Writer, enclave.MREnclave())
		return err
	},
}

var ecallCommand = &cli.Command{
	Name:        "ecall",
	Usage:       "Simulate a call into an enclave",
	ArgsUsage:   "<call>",
	Description: "Calls naming a workload (" + strings.Join(sgx.Workloads(), ", ") + ") run it on --payload.",
	Flags:       []cli.Flag{manifestFlag, nameFlag, signerFlag, payloadFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() == 1 && sgx.IsWorkload(ctx.Args().First()) {
			return workloadCall(ctx)
		}
		if ctx.IsSet(payloadFlag.Name) {
			return fmt.Errorf("%w: %q", sgx.ErrUnknownWorkload, ctx.Args().First())
		}
		return boundaryCall(ctx, (*sgx.Enclave).ECall)
	},
}

func workloadCall(ctx *cli.Context) error {
	enclave, err := resolveEnclave(ctx)
	if err != nil {
		return err
	}
	workload := ctx.Args().First()
	result, err := enclave.Compute(workload, []byte(ctx.String(payloadFlag.Name)))
	if err != nil {
		return err
	}
	log.Info("Workload executed", "enclave", enclave.Name(), "workload", workload)
	return writeJSON(ctx.App.Writer, result)
}

var ocallCommand = &cli.Command{
	Name:      "ocall",
	Usage:     "Simulate a call out of an enclave",
	ArgsUsage: "<call>",
	Flags:     []cli.Flag{manifestFlag, nameFlag, signerFlag},
	Action: func(ctx *cli.Context) error {
		return boundaryCall(ctx, (*sgx.Enclave).OCall)
	},
}

func boundaryCall(ctx *cli.Context, call func(*sgx.Enclave, string) string) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one call name, got %d arguments", ctx.NArg())
	}
	enclave, err := resolveEnclave(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, call(enclave, ctx.Args().First()))
	return err
}

var quoteCommand = &cli.Command{
	Name:  "quote",
	Usage: "Generate an attestation quote",
	Flags: []cli.Flag{mrenclaveFlag, signerFlag, manifestFlag, nameFlag},
	Action: func(ctx *cli.Context) error {
		var quote *sgx.Quote
		if ctx.IsSet(mrenclaveFlag.Name) {
			quote = sgx.NewQuote(ctx.String(mrenclaveFlag.Name), signer(ctx))
		} else {
			enclave, err := resolveEnclave(ctx)
			if err != nil {
				return err
			}
			quote = enclave.Quote()
		}
		log.Info("Quote generated", "mrenclave", quote.MREnclave, "nonce", quote.Nonce)
		return writeJSON(ctx.App.Writer, quote)
	},
}

var attestCommand = &cli.Command{
	Name:  "attest",
	Usage: "Generate an attestation report for an enclave",
	Flags: []cli.Flag{manifestFlag, nameFlag, signerFlag, policyFlag},
	Action: func(ctx *cli.Context) error {
		enclave, err := resolveEnclave(ctx)
		if err != nil {
			return err
		}
		policy := appConfig(ctx).Enclave.PolicyVersion
		if ctx.IsSet(policyFlag.Name) {
			policy = ctx.String(policyFlag.Name)
		}
		report := enclave.Attest(policy)
		log.Info("Attestation generated", "enclave", enclave.Name(), "nonce", report.Nonce)
		return writeJSON(ctx.App.Writer, report)
	},
}

var verifyQuoteCommand = &cli.Command{
	Name:      "verify-quote",
	Usage:     "Check that a quote's signature matches its fields",
	ArgsUsage: "[quote.json]",
	Action: func(ctx *cli.Context) error {
		input, err := readInput(ctx)
		if err != nil {
			return err
		}
		var quote sgx.Quote
		if err := json.Unmarshal(input, &quote); err != nil {
			return fmt.Errorf("failed to decode quote: %w", err)
		}
		if err := sgx.VerifyQuote(&quote); err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, "quote signature valid")
		return err
	},
}

var sealCommand = &cli.Command{
	Name:  "seal",
	Usage: "Seal a payload to an identity and measurement (not confidential)",
	Flags: []cli.Flag{identityFlag, mrenclaveFlag, dataFlag},
	Action: func(ctx *cli.Context) error {
		data := []byte(ctx.String(dataFlag.Name))
		if !ctx.IsSet(dataFlag.Name) {
			var err error
			if data, err = io.ReadAll(ctx.App.Reader); err != nil {
				return fmt.Errorf("failed to read payload: %w", err)
			}
		}
		_, err := fmt.Fprintln(ctx.App.Writer, sgx.Seal(ctx.String(identityFlag.Name), ctx.String(mrenclaveFlag.Name), data))
		return err
	},
}

var unsealCommand = &cli.Command{
	Name:      "unseal",
	Usage:     "Recover a sealed payload",
	ArgsUsage: "[sealed hex]",
	Flags:     []cli.Flag{identityFlag, mrenclaveFlag},
	Action: func(ctx *cli.Context) error {
		sealed := ctx.Args().First()
		if ctx.NArg() == 0 {
			input, err := io.ReadAll(ctx.App.Reader)
			if err != nil {
				return fmt.Errorf("failed to read sealed payload: %w", err)
			}
			sealed = string(input)
		}
		data, err := sgx.Unseal(ctx.String(identityFlag.Name), ctx.String(mrenclaveFlag.Name), strings.TrimSpace(sealed))
		if err != nil {
			return err
		}
		_, err = ctx.App.Writer.Write(data)
		return err
	},
}

// resolveEnclave loads the enclave described by --manifest, or the minimal
// on-demand enclave for --name.
func resolveEnclave(ctx *cli.Context) (*sgx.Enclave, error) {
	switch {
	case ctx.IsSet(manifestFlag.Name):
		return sgx.LoadEnclave(ctx.Context, ctx.String(manifestFlag.Name))
	case ctx.IsSet(nameFlag.Name):
		return sgx.NewRegistry(signer(ctx)).GetOrCreate(ctx.String(nameFlag.Name)), nil
	default:
		return nil, errNoEnclave
	}
}

func signer(ctx *cli.Context) string {
	if ctx.IsSet(signerFlag.Name) {
		return ctx.String(signerFlag.Name)
	}
	return appConfig(ctx).Enclave.DefaultSigner
}

func readInput(ctx *cli.Context) ([]byte, error) {
	if path := ctx.Args().First(); path != "" && path != "-" {
		return os.ReadFile(path)
	}
	return io.ReadAll(ctx.App.Reader)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
