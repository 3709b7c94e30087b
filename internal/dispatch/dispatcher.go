package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confmgrlabs/goadapter/internal/binding"
	"github.com/confmgrlabs/goadapter/internal/document"
	"github.com/confmgrlabs/goadapter/internal/envelope"
	"github.com/confmgrlabs/goadapter/internal/logger"
	"github.com/confmgrlabs/goadapter/internal/settings"
	"github.com/confmgrlabs/goadapter/pkg/adaptererrors"
)

// Dispatcher routes one request to its bound resource logic and wraps the
// outcome in a result envelope. It is stateless across invocations: each
// process run constructs fresh request and envelope values and exits.
type Dispatcher struct {
	registry   *binding.Registry
	diffPolicy document.AbsentKeyPolicy
	logger     *logger.Logger
}

// New creates a dispatcher over the given binding registry.
func New(registry *binding.Registry, cfg *settings.Settings, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		diffPolicy: cfg.DiffPolicy(),
		logger:     log,
	}
}

// Execute runs one operation to completion and returns the envelope to emit.
// Envelope construction is all-or-nothing: on any error, no envelope exists.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (*envelope.Envelope, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Input is parsed before binding resolution so malformed payloads are
	// rejected uniformly; bindings are never asked to interpret bad JSON.
	input, err := document.Parse(req.Input)
	if err != nil {
		return nil, adaptererrors.NewInvalidInputError(err)
	}

	bound, err := d.registry.Get(req.ResourceType)
	if err != nil {
		var notFound binding.ErrBindingNotFound
		if errors.As(err, &notFound) {
			return nil, adaptererrors.NewUnknownResourceTypeError(req.ResourceType, d.registry.List())
		}
		return nil, err
	}

	start := time.Now()
	var results []envelope.ResourceResult

	switch req.Operation {
	case OperationGet:
		results, err = d.runGet(ctx, req, bound, input)
	case OperationSet:
		results, err = d.runSet(ctx, req, bound, input)
	case OperationTest:
		results, err = d.runTest(ctx, req, bound, input)
	case OperationExport:
		results, err = d.runExport(ctx, req, bound)
	default:
		err = adaptererrors.NewInvalidInputError(fmt.Errorf("unsupported operation '%s'", req.Operation))
	}
	if err != nil {
		return nil, err
	}

	d.logDebug(req, fmt.Sprintf("operation completed in %s", time.Since(start)))
	return envelope.New(string(req.Operation), results), nil
}

func (d *Dispatcher) runGet(ctx context.Context, req Request, bound binding.Binding, input document.Document) ([]envelope.ResourceResult, error) {
	reader, ok := bound.(binding.Reader)
	if !ok {
		return nil, adaptererrors.NewUnsupportedOperationError(req.ResourceType, string(req.Operation))
	}

	actual, err := d.read(ctx, req, reader, input)
	if err != nil {
		return nil, err
	}

	return []envelope.ResourceResult{{
		Type:   req.ResourceType,
		Result: envelope.GetResult{ActualState: actual},
	}}, nil
}

func (d *Dispatcher) runSet(ctx context.Context, req Request, bound binding.Binding, input document.Document) ([]envelope.ResourceResult, error) {
	applier, ok := bound.(binding.Applier)
	if !ok {
		return nil, adaptererrors.NewUnsupportedOperationError(req.ResourceType, string(req.Operation))
	}

	actual, changed, err := applier.Apply(ctx, input)
	if err != nil {
		return nil, adaptererrors.NewResourceOperationError(req.ResourceType, string(req.Operation), err)
	}
	if changed == nil {
		changed = []string{}
	}

	return []envelope.ResourceResult{{
		Type: req.ResourceType,
		Result: envelope.SetResult{
			ChangedProperties: changed,
			ActualState:       actual.EnsureExist(true),
		},
	}}, nil
}

// runTest reads observed state and computes the property diff itself. The
// binding is never asked to apply anything here, so Test stays pure.
func (d *Dispatcher) runTest(ctx context.Context, req Request, bound binding.Binding, input document.Document) ([]envelope.ResourceResult, error) {
	reader, ok := bound.(binding.Reader)
	if !ok {
		return nil, adaptererrors.NewUnsupportedOperationError(req.ResourceType, string(req.Operation))
	}

	actual, err := d.read(ctx, req, reader, input)
	if err != nil {
		return nil, err
	}

	differing := document.Diff(input, actual, d.diffPolicy)

	// An omitted _exist in the desired document means the caller expects
	// the resource to exist.
	desiredExist, present := input.Exist()
	if !present {
		desiredExist = true
	}
	observedExist, _ := actual.Exist()

	return []envelope.ResourceResult{{
		Type: req.ResourceType,
		Result: envelope.TestResult{
			InDesiredState:      len(differing) == 0 && desiredExist == observedExist,
			ActualState:         actual,
			DifferingProperties: differing,
		},
	}}, nil
}

func (d *Dispatcher) runExport(ctx context.Context, req Request, bound binding.Binding) ([]envelope.ResourceResult, error) {
	enumerator, ok := bound.(binding.Enumerator)
	if !ok {
		return nil, adaptererrors.NewUnsupportedOperationError(req.ResourceType, string(req.Operation))
	}

	// The enumeration is collected fully before the envelope is built; the
	// one-shot stdout contract rules out streaming mid-enumeration.
	docs, err := enumerator.Enumerate(ctx)
	if err != nil {
		return nil, adaptererrors.NewResourceOperationError(req.ResourceType, string(req.Operation), err)
	}

	results := make([]envelope.ResourceResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, envelope.ResourceResult{
			Type:   req.ResourceType,
			Result: envelope.GetResult{ActualState: doc.EnsureExist(true)},
		})
	}
	return results, nil
}

// read invokes the binding's Read and normalizes the not-found and
// missing-_exist cases: a located resource defaults to _exist true, an
// unlocated one becomes the canonical _exist:false document.
func (d *Dispatcher) read(ctx context.Context, req Request, reader binding.Reader, input document.Document) (document.Document, error) {
	observed, err := reader.Read(ctx, input)
	if err != nil {
		if errors.Is(err, binding.ErrNotFound) {
			return document.NotFoundState(), nil
		}
		return nil, adaptererrors.NewResourceOperationError(req.ResourceType, string(req.Operation), err)
	}
	return observed.EnsureExist(true), nil
}

func (d *Dispatcher) logDebug(req Request, msg string) {
	if d.logger == nil {
		return
	}
	d.logger.WithFields(map[string]any{
		"operation":    string(req.Operation),
		"resourceType": req.ResourceType,
	}).Debug(msg)
}
