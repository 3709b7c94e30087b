package binding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubBinding struct {
	meta Metadata
}

func (s *stubBinding) BindingMetadata() Metadata {
	return s.meta
}

func newStub(typeName string) *stubBinding {
	return &stubBinding{meta: Metadata{
		Type:        typeName,
		Version:     "1.0.0",
		Description: "stub binding for registry tests",
	}}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(newStub("GoTest/Get")))

	b, err := reg.Get("GoTest/Get")
	require.NoError(t, err)
	require.Equal(t, "GoTest/Get", b.BindingMetadata().Type)
}

func TestRegistryGetIsCaseInsensitiveFallback(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(newStub("Microsoft.Linux.Apt/Package")))

	b, err := reg.Get("microsoft.linux.apt/package")
	require.NoError(t, err)
	require.Equal(t, "Microsoft.Linux.Apt/Package", b.BindingMetadata().Type)
}

func TestRegistryGetUnknownType(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)

	_, err := reg.Get("Nope/Missing")
	require.Error(t, err)
	require.ErrorAs(t, err, &ErrBindingNotFound{})
	require.Contains(t, err.Error(), "Nope/Missing")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(newStub("GoTest/Get")))
	require.Error(t, reg.Register(newStub("GoTest/Get")))
}

func TestRegistryRejectsNilBinding(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	require.Error(t, reg.Register(nil))
}

func TestRegistryListIsSorted(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(newStub("Zeta/Type")))
	require.NoError(t, reg.Register(newStub("Alpha/Type")))

	require.Equal(t, []string{"Alpha/Type", "Zeta/Type"}, reg.List())
}

func TestRegistryReset(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(newStub("GoTest/Get")))

	reg.Reset()
	require.Empty(t, reg.List())
}

func TestMetadataValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		meta    Metadata
		wantErr bool
	}{
		{"valid", Metadata{Type: "GoTest/Get", Version: "1.0.0"}, false},
		{"deep namespace", Metadata{Type: "Microsoft.Linux.Apt/Package", Version: "0.1.0"}, false},
		{"empty type", Metadata{Version: "1.0.0"}, true},
		{"no namespace", Metadata{Type: "Package", Version: "1.0.0"}, true},
		{"empty version", Metadata{Type: "GoTest/Get"}, true},
		{"bad version", Metadata{Type: "GoTest/Get", Version: "not-semver"}, true},
		{"prerelease version", Metadata{Type: "GoTest/Get", Version: "1.2.0-rc.1"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.meta.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
