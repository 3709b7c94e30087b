package aptpkg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/confmgrlabs/goadapter/internal/binding"
	"github.com/confmgrlabs/goadapter/internal/bindings/execx"
	"github.com/confmgrlabs/goadapter/internal/document"
)

type aptBinding struct{}

// New creates the APT package binding.
func New() binding.Binding {
	return &aptBinding{}
}

var (
	_ binding.Reader     = (*aptBinding)(nil)
	_ binding.Applier    = (*aptBinding)(nil)
	_ binding.Enumerator = (*aptBinding)(nil)
)

func (b *aptBinding) BindingMetadata() binding.Metadata {
	return binding.Metadata{
		Type:        "Microsoft.Linux.Apt/Package",
		Version:     "0.1.0",
		Description: "Manages APT packages on Linux.",
	}
}

func packageName(input document.Document) (string, error) {
	value, ok := input["name"].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("property 'name' is required and must be a non-empty string")
	}
	return value, nil
}

func desiredVersion(input document.Document) string {
	value, _ := input["version"].(string)
	return value
}

// Read queries dpkg for the package. A query failure with a non-zero exit
// means the package is not installed; any other failure is a real error.
func (b *aptBinding) Read(ctx context.Context, input document.Document) (document.Document, error) {
	name, err := packageName(input)
	if err != nil {
		return nil, err
	}

	res, err := execx.Run(ctx, "dpkg-query", "-W", "-f=${Package}\t${Version}\n", name)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return document.Document{"name": name, document.ExistKey: false}, nil
		}
		return nil, fmt.Errorf("query package %s: %w", name, err)
	}

	state := document.Document{"name": name, document.ExistKey: true}
	if fields := strings.SplitN(strings.TrimSpace(res.Stdout), "\t", 2); len(fields) == 2 && fields[1] != "" {
		state["version"] = fields[1]
	}
	return state, nil
}

// Apply installs or removes the package to match the desired _exist, pinning
// the version when one is requested. Already-converged state runs no
// commands and reports no changed properties.
func (b *aptBinding) Apply(ctx context.Context, input document.Document) (document.Document, []string, error) {
	name, err := packageName(input)
	if err != nil {
		return nil, nil, err
	}

	pre, err := b.Read(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	preExist, _ := pre.Exist()
	preVersion, _ := pre["version"].(string)

	wantExist, present := input.Exist()
	if !present {
		wantExist = true
	}
	wantVersion := desiredVersion(input)

	changed := []string{}

	switch {
	case wantExist && preExist && (wantVersion == "" || wantVersion == preVersion):
		return pre, changed, nil

	case wantExist:
		if !preExist {
			changed = append(changed, document.ExistKey)
		}
		if wantVersion != "" && wantVersion != preVersion {
			changed = append(changed, "version")
		}
		target := name
		if wantVersion != "" {
			target = name + "=" + wantVersion
		}
		if _, err := execx.Run(ctx, "apt-get", "install", "-y", target); err != nil {
			return nil, nil, fmt.Errorf("install package %s: %w", name, err)
		}

	case preExist:
		changed = append(changed, document.ExistKey)
		if _, err := execx.Run(ctx, "apt-get", "remove", "-y", name); err != nil {
			return nil, nil, fmt.Errorf("remove package %s: %w", name, err)
		}

	default:
		// Absent and expected absent.
		return pre, changed, nil
	}

	post, err := b.Read(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	return post, changed, nil
}

// Enumerate lists every installed package as one Get-shaped document.
func (b *aptBinding) Enumerate(ctx context.Context) ([]document.Document, error) {
	res, err := execx.Run(ctx, "dpkg-query", "-W", "-f=${Package}\t${Version}\n")
	if err != nil {
		return nil, fmt.Errorf("enumerate packages: %w", err)
	}

	var docs []document.Document
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		doc := document.Document{"name": fields[0], document.ExistKey: true}
		if len(fields) == 2 && fields[1] != "" {
			doc["version"] = fields[1]
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
