package validation

import (
	"math"
	"strings"
	"testing"
)

func TestValidatePinRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       *PinRequest
		expectErr bool
	}{
		{"nil request", nil, true},
		{"valid", &PinRequest{ID: "graph theory", X: 100, Y: 200}, false},
		{"unicode keyword", &PinRequest{ID: "ニューラルネット", X: 0, Y: 0}, false},
		{"negative coordinates", &PinRequest{ID: "a", X: -50, Y: -10}, false},
		{"missing id", &PinRequest{X: 1, Y: 2}, true},
		{"blank id", &PinRequest{ID: "   ", X: 1, Y: 2}, true},
		{"oversized id", &PinRequest{ID: strings.Repeat("k", 201), X: 1, Y: 2}, true},
		{"nan x", &PinRequest{ID: "a", X: math.NaN(), Y: 0}, true},
		{"inf y", &PinRequest{ID: "a", X: 0, Y: math.Inf(1)}, true},
		{"control character", &PinRequest{ID: "bad\x00id", X: 0, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePinRequest(tt.req)
			if tt.expectErr && err == nil {
				t.Error("Expected error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateUnpinRequest(t *testing.T) {
	if err := ValidateUnpinRequest(&UnpinRequest{ID: "graph"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateUnpinRequest(&UnpinRequest{}); err == nil {
		t.Error("Expected error for missing id")
	}
	if err := ValidateUnpinRequest(nil); err == nil {
		t.Error("Expected error for nil request")
	}
}

func TestValidateReheatRequest(t *testing.T) {
	alpha := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		req       *ReheatRequest
		expectErr bool
	}{
		{"nil request", nil, true},
		{"default alpha", &ReheatRequest{}, false},
		{"explicit alpha", &ReheatRequest{Alpha: alpha(0.3)}, false},
		{"full alpha", &ReheatRequest{Alpha: alpha(1.0)}, false},
		{"zero alpha", &ReheatRequest{Alpha: alpha(0)}, true},
		{"negative alpha", &ReheatRequest{Alpha: alpha(-0.5)}, true},
		{"too hot", &ReheatRequest{Alpha: alpha(1.5)}, true},
		{"nan alpha", &ReheatRequest{Alpha: alpha(math.NaN())}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReheatRequest(tt.req)
			if tt.expectErr && err == nil {
				t.Error("Expected error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateConfigUpdate(t *testing.T) {
	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }

	tests := []struct {
		name      string
		req       *ConfigUpdateRequest
		expectErr bool
	}{
		{"nil request", nil, true},
		{"empty update", &ConfigUpdateRequest{}, true},
		{"max nodes only", &ConfigUpdateRequest{MaxNodes: intp(50)}, false},
		{"all fields", &ConfigUpdateRequest{
			MaxNodes:        intp(100),
			MinLinkStrength: intp(2),
			Variant:         strp("cluster"),
		}, false},
		{"zero max nodes", &ConfigUpdateRequest{MaxNodes: intp(0)}, true},
		{"excessive max nodes", &ConfigUpdateRequest{MaxNodes: intp(501)}, true},
		{"negative strength", &ConfigUpdateRequest{MinLinkStrength: intp(-1)}, true},
		{"zero strength", &ConfigUpdateRequest{MinLinkStrength: intp(0)}, false},
		{"unknown variant", &ConfigUpdateRequest{Variant: strp("spiral")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigUpdate(tt.req)
			if tt.expectErr && err == nil {
				t.Error("Expected error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       *LoginRequest
		expectErr bool
	}{
		{"nil request", nil, true},
		{"valid", &LoginRequest{Username: "curator", Password: "orbit-flux-42"}, false},
		{"short username", &LoginRequest{Username: "ab", Password: "orbit-flux-42"}, true},
		{"short password", &LoginRequest{Username: "curator", Password: "short"}, true},
		{"missing password", &LoginRequest{Username: "curator"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLoginRequest(tt.req)
			if tt.expectErr && err == nil {
				t.Error("Expected error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	if err := ValidateNodeID("machine learning"); err != nil {
		t.Errorf("Unexpected error for plain keyword: %v", err)
	}
	if err := ValidateNodeID("знание"); err != nil {
		t.Errorf("Unexpected error for unicode keyword: %v", err)
	}
	if err := ValidateNodeID(""); err == nil {
		t.Error("Expected error for empty id")
	}
	if err := ValidateNodeID("\t\n"); err == nil {
		t.Error("Expected error for whitespace id")
	}
	if err := ValidateNodeID(string([]byte{0xff, 0xfe})); err == nil {
		t.Error("Expected error for invalid UTF-8")
	}
	if err := ValidateNodeID(strings.Repeat("x", MaxNodeIDLength+1)); err == nil {
		t.Error("Expected error for oversized id")
	}
}

func TestFormatValidationErrorMessages(t *testing.T) {
	err := ValidatePinRequest(&PinRequest{})
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "ID") {
		t.Errorf("Error should name the failing field, got: %v", err)
	}

	err = ValidateConfigUpdate(&ConfigUpdateRequest{Variant: func(v string) *string { return &v }("wave")})
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "Variant") {
		t.Errorf("Error should name the failing field, got: %v", err)
	}
}
