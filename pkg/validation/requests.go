package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxNodeIDLength = 200
	MaxNodes        = 500
	MinNodes        = 1
)

func init() {
	validate = validator.New()
}

// PinRequest asks the layout engine to hold a node at fixed coordinates
type PinRequest struct {
	ID string  `json:"id" validate:"required,max=200"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// UnpinRequest releases a previously pinned node
type UnpinRequest struct {
	ID string `json:"id" validate:"required,max=200"`
}

// ReheatRequest restarts a cooled simulation, optionally at a given alpha
type ReheatRequest struct {
	Alpha *float64 `json:"alpha" validate:"omitempty,gt=0,lte=1"`
}

// ConfigUpdateRequest carries a partial pipeline reconfiguration.
// Nil fields keep their current values.
type ConfigUpdateRequest struct {
	MaxNodes        *int    `json:"maxNodes" validate:"omitempty,min=1,max=500"`
	MinLinkStrength *int    `json:"minLinkStrength" validate:"omitempty,min=0"`
	Variant         *string `json:"variant" validate:"omitempty,oneof=standard radial cluster"`
}

// LoginRequest exchanges credentials for a token
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// ValidatePinRequest validates a pin request
func ValidatePinRequest(req *PinRequest) error {
	if req == nil {
		return errors.New("pin request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if err := ValidateNodeID(req.ID); err != nil {
		return fmt.Errorf("ID: %w", err)
	}

	// The engine holds pinned coordinates verbatim, so they must be real numbers
	if math.IsNaN(req.X) || math.IsInf(req.X, 0) {
		return errors.New("X: must be a finite number")
	}
	if math.IsNaN(req.Y) || math.IsInf(req.Y, 0) {
		return errors.New("Y: must be a finite number")
	}

	return nil
}

// ValidateUnpinRequest validates an unpin request
func ValidateUnpinRequest(req *UnpinRequest) error {
	if req == nil {
		return errors.New("unpin request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if err := ValidateNodeID(req.ID); err != nil {
		return fmt.Errorf("ID: %w", err)
	}

	return nil
}

// ValidateReheatRequest validates a reheat request
func ValidateReheatRequest(req *ReheatRequest) error {
	if req == nil {
		return errors.New("reheat request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.Alpha != nil && (math.IsNaN(*req.Alpha) || math.IsInf(*req.Alpha, 0)) {
		return errors.New("Alpha: must be a finite number")
	}

	return nil
}

// ValidateConfigUpdate validates a partial pipeline reconfiguration
func ValidateConfigUpdate(req *ConfigUpdateRequest) error {
	if req == nil {
		return errors.New("config update cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.MaxNodes == nil && req.MinLinkStrength == nil && req.Variant == nil {
		return errors.New("config update has no fields to apply")
	}

	return nil
}

// ValidateLoginRequest validates a credential exchange
func ValidateLoginRequest(req *LoginRequest) error {
	if req == nil {
		return errors.New("login request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	return nil
}

// ValidateNodeID validates a keyword node identifier. Keywords are free
// text, so anything printable is allowed; only empty, oversized, or
// malformed strings are rejected.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("node id cannot be blank")
	}
	if len(id) > MaxNodeIDLength {
		return fmt.Errorf("node id exceeds maximum length of %d bytes", MaxNodeIDLength)
	}
	if !utf8.ValidString(id) {
		return errors.New("node id is not valid UTF-8")
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return errors.New("node id contains control characters")
		}
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
