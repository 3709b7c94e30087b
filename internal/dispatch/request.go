package dispatch

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/confmgrlabs/goadapter/pkg/adaptererrors"
)

// Operation is one of the fixed lifecycle operation kinds.
type Operation string

const (
	OperationGet    Operation = "Get"
	OperationSet    Operation = "Set"
	OperationTest   Operation = "Test"
	OperationExport Operation = "Export"
)

// ParseOperation resolves an operation name case-insensitively.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "get":
		return OperationGet, nil
	case "set":
		return OperationSet, nil
	case "test":
		return OperationTest, nil
	case "export":
		return OperationExport, nil
	default:
		return "", fmt.Errorf("unsupported operation '%s'. Expected one of: Get, Set, Test, Export", s)
	}
}

// Request is a single adapter invocation: one operation against one resource
// type with a raw JSON input document. ResourceType is never mutated after
// construction; Input is parsed by the dispatcher before any binding runs.
type Request struct {
	Operation    Operation `validate:"required,oneof=Get Set Test Export"`
	ResourceType string    `validate:"required,resource_type"`
	Input        string
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	resourceTypePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.]*(/[A-Za-z][A-Za-z0-9.]*)+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("resource_type", func(fl validator.FieldLevel) bool {
			return resourceTypePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks structural request invariants before dispatch.
func (r Request) Validate() error {
	if err := validatorInstance().Struct(r); err != nil {
		return adaptererrors.NewInvalidInputError(fmt.Errorf("invalid request: %w", err))
	}
	return nil
}
