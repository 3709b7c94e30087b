package binding

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Resource type names are namespaced, e.g. "Microsoft.Linux.Apt/Package".
var typeNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.]*(/[A-Za-z][A-Za-z0-9.]*)+$`)

// Metadata describes binding identity for the registry.
type Metadata struct {
	// Type is the namespaced resource type name this binding handles.
	Type string
	// Version is the binding's semantic version.
	Version string
	// Description is a short human-readable summary.
	Description string
}

// Validate ensures metadata is well-formed.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Type) == "" {
		return fmt.Errorf("binding metadata requires a non-empty Type")
	}
	if !typeNamePattern.MatchString(m.Type) {
		return fmt.Errorf("binding type '%s' is not a namespaced resource type (expected format: Namespace/Name)", m.Type)
	}
	if strings.TrimSpace(m.Version) == "" {
		return fmt.Errorf("binding '%s' metadata requires Version", m.Type)
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("binding '%s' has invalid Version '%s': %w", m.Type, m.Version, err)
	}
	return nil
}
