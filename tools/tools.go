//go:build tools
// +build tools

package tools

import (
	_ "github.com/dvyukov/go-fuzz/go-fuzz"
	_ "github.com/dvyukov/go-fuzz/go-fuzz-build"
	_ "github.com/dvyukov/go-fuzz-corpus"
	_ "github.com/gojuno/minimock/v3/cmd/minimock"
)

// This file pins the tools used to build the gofuzz corpus of the stream
// package and to regenerate the test doubles of internal/fakes.
