package main

import (
	"fmt"
	"os"

	"github.com/confmgrlabs/goadapter/internal/binding"
	"github.com/confmgrlabs/goadapter/pkg/adaptererrors"
)

func main() {
	registry := binding.NewRegistry(nil)
	if err := registerBuiltins(registry); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register bindings: %v\n", err)
		os.Exit(adaptererrors.ExitOperationFailed)
	}

	if err := newRootCmd(registry).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(adaptererrors.ExitCode(err))
	}
}
