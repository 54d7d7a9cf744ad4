// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

//go:build tools
// +build tools

// Package main pins test dependencies used only behind build tags to go.mod.
package main

import (
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"
)
