package binding

import (
	"context"
	"errors"

	"github.com/confmgrlabs/goadapter/internal/document"
)

// ErrNotFound signals that a Read could not locate the resource. The
// dispatcher translates it into an actual state of _exist:false rather than
// a failure.
var ErrNotFound = errors.New("resource not found")

// Binding is the base contract every resource binding satisfies. Operation
// capabilities are separate interfaces so a binding implements only what its
// resource supports; the dispatcher detects them via type assertion and
// surfaces a missing capability as a typed error, not a crash.
type Binding interface {
	// BindingMetadata returns the binding's identity and description.
	BindingMetadata() Metadata
}

// Reader provides read-only observation of a resource instance.
//
// CRITICAL CONTRACT: Read MUST NOT mutate any external state. A read that
// cannot locate the resource returns either ErrNotFound or a document with
// _exist set to false and the remaining properties empty. It must never
// return a document without a deterministic _exist.
type Reader interface {
	Binding
	Read(ctx context.Context, input document.Document) (document.Document, error)
}

// Applier mutates the resource toward the desired state described by input.
//
// Apply MUST be idempotent: applying the same desired state twice returns an
// empty changed-property set on the second call. The returned document is
// the post-apply observed state, not the input echoed back.
type Applier interface {
	Binding
	Apply(ctx context.Context, input document.Document) (document.Document, []string, error)
}

// Enumerator yields the observed state of every instance of the resource
// type. The sequence is finite; order is preserved in the result envelope.
type Enumerator interface {
	Binding
	Enumerate(ctx context.Context) ([]document.Document, error)
}
