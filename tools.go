//go:build tools

package main

// Anchors go:generate tool dependencies in go.mod.
import (
	_ "github.com/dmarkham/enumer"
)
