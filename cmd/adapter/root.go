package main

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/confmgrlabs/goadapter/internal/binding"
	"github.com/confmgrlabs/goadapter/internal/dispatch"
	"github.com/confmgrlabs/goadapter/internal/envelope"
	"github.com/confmgrlabs/goadapter/internal/logger"
	"github.com/confmgrlabs/goadapter/internal/settings"
	"github.com/confmgrlabs/goadapter/pkg/adaptererrors"
)

type rootFlags struct {
	operation    string
	input        string
	resourceType string
	settingsPath string
}

func newRootCmd(registry *binding.Registry) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "adapter",
		Short:         "Executes one configuration resource operation and emits a JSON result envelope",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdapter(cmd, registry, flags)
		},
	}

	cmd.Flags().StringVar(&flags.operation, "operation", "", "Operation to execute (Get, Set, Test, Export)")
	cmd.Flags().StringVar(&flags.input, "input", "", "JSON document with the desired or probe state")
	cmd.Flags().StringVar(&flags.resourceType, "ResourceType", "", "Namespaced resource type the operation targets")
	cmd.Flags().StringVar(&flags.settingsPath, "settings", "", "Path to an optional adapter settings file")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runAdapter(cmd *cobra.Command, registry *binding.Registry, flags *rootFlags) error {
	cfg, err := settings.Resolve(flags.settingsPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log = log.WithFields(map[string]any{"invocation": uuid.NewString()})

	operation, err := dispatch.ParseOperation(flags.operation)
	if err != nil {
		return adaptererrors.NewInvalidInputError(err)
	}

	raw := flags.input
	if strings.TrimSpace(raw) == "" {
		raw = readPipedInput(cmd.InOrStdin())
	}

	dispatcher := dispatch.New(registry, cfg, log)
	env, err := dispatcher.Execute(cmd.Context(), dispatch.Request{
		Operation:    operation,
		ResourceType: flags.resourceType,
		Input:        raw,
	})
	if err != nil {
		return err
	}

	// Exactly one envelope write; nothing reaches stdout on the error paths
	// above.
	return envelope.Write(cmd.OutOrStdout(), env)
}

func newLogger(cfg *settings.Settings, errOut io.Writer) (*logger.Logger, error) {
	human := cfg.LogFormat == "console"
	if cfg.LogFormat == "" || cfg.LogFormat == "auto" {
		if f, ok := errOut.(*os.File); ok {
			human = term.IsTerminal(int(f.Fd()))
		}
	}

	return logger.New(logger.Options{
		Level:         cfg.LogLevel,
		HumanReadable: human,
		Writer:        errOut,
	})
}

// readPipedInput falls back to stdin when --input is empty and data is piped
// in. An interactive terminal is never read from.
func readPipedInput(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ""
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
