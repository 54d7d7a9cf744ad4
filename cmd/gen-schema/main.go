// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Command gen-schema writes the JSON Schema document of every request schema
// to schemas/<name>.schema.json.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alissa-agent/seccore/pkg/schemas"
)

const outDir = "schemas"

func main() {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	reg := schemas.NewRegistry()
	for _, name := range reg.Names() {
		doc, err := reg.Document(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating schema %s: %v\n", name, err)
			os.Exit(1)
		}

		var out bytes.Buffer
		if err := json.Indent(&out, doc, "", "  "); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting schema %s: %v\n", name, err)
			os.Exit(1)
		}
		out.WriteByte('\n')

		outPath := filepath.Join(outDir, name+".schema.json")
		if err := os.WriteFile(outPath, out.Bytes(), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated %s\n", outPath)
	}
}
