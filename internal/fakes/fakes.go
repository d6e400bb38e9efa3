// Package fakes holds the generated test doubles shared by the package tests.
package fakes

//go:generate minimock -i io.Reader -o ./reader_mock.go
