//go:build tools

package tools

// This file tracks CLI tool dependencies.
// It is not compiled into the binary.
//
// - github.com/pressly/goose/v3/cmd/goose (go.mod tool directive): create and
//   inspect migrations under internal/adapter/postgres/migrations.
// - github.com/matryer/moq: regenerate *_mock_test.go via go generate ./...
