package dispatch

import (
	"context"
	"sync"

	"github.com/confmgrlabs/goadapter/internal/binding"
	"github.com/confmgrlabs/goadapter/internal/document"
)

// mockBinding implements every capability; tests that need a narrower
// surface wrap it in readOnlyBinding below.
type mockBinding struct {
	mu          sync.Mutex
	meta        binding.Metadata
	calls       []string
	readFn      func(ctx context.Context, input document.Document) (document.Document, error)
	applyFn     func(ctx context.Context, input document.Document) (document.Document, []string, error)
	enumerateFn func(ctx context.Context) ([]document.Document, error)
}

func newMockBinding(typeName string) *mockBinding {
	return &mockBinding{meta: binding.Metadata{
		Type:        typeName,
		Version:     "1.0.0",
		Description: "mock binding for dispatcher tests",
	}}
}

func (m *mockBinding) BindingMetadata() binding.Metadata {
	return m.meta
}

func (m *mockBinding) Read(ctx context.Context, input document.Document) (document.Document, error) {
	m.record("read")
	if m.readFn == nil {
		return document.Document{document.ExistKey: true}, nil
	}
	return m.readFn(ctx, input)
}

func (m *mockBinding) Apply(ctx context.Context, input document.Document) (document.Document, []string, error) {
	m.record("apply")
	if m.applyFn == nil {
		return input.Clone().EnsureExist(true), []string{}, nil
	}
	return m.applyFn(ctx, input)
}

func (m *mockBinding) Enumerate(ctx context.Context) ([]document.Document, error) {
	m.record("enumerate")
	if m.enumerateFn == nil {
		return nil, nil
	}
	return m.enumerateFn(ctx)
}

func (m *mockBinding) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockBinding) callCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c == call {
			count++
		}
	}
	return count
}

func (m *mockBinding) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// readOnlyBinding exposes only the Read capability of the wrapped mock.
type readOnlyBinding struct {
	inner *mockBinding
}

func (r readOnlyBinding) BindingMetadata() binding.Metadata {
	return r.inner.BindingMetadata()
}

func (r readOnlyBinding) Read(ctx context.Context, input document.Document) (document.Document, error) {
	return r.inner.Read(ctx, input)
}

var (
	_ binding.Reader     = (*mockBinding)(nil)
	_ binding.Applier    = (*mockBinding)(nil)
	_ binding.Enumerator = (*mockBinding)(nil)
	_ binding.Reader     = readOnlyBinding{}
)
