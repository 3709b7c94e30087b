package main

import (
	"github.com/confmgrlabs/goadapter/internal/binding"
	"github.com/confmgrlabs/goadapter/internal/bindings/aptpkg"
	"github.com/confmgrlabs/goadapter/internal/bindings/gitrepo"
)

// registerBuiltins wires the built-in resource bindings into the registry.
// Additional bindings are added here.
func registerBuiltins(registry *binding.Registry) error {
	builtins := []binding.Binding{
		aptpkg.New(),
		gitrepo.New(),
	}

	for _, b := range builtins {
		if err := registry.Register(b); err != nil {
			return err
		}
	}
	return nil
}
