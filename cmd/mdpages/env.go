package main

import (
	"io"
	"os"
)

// Environment holds the process streams commands write to, so tests can
// capture them.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
