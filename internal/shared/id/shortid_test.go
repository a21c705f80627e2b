package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	id, err := Generate(DefaultLength)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(id) != DefaultLength {
		t.Errorf("Generate() length = %d, want %d", len(id), DefaultLength)
	}
	for _, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			t.Errorf("Generate() produced character %q outside alphabet", r)
		}
	}
}

func TestGenerate_NonPositiveLengthUsesDefault(t *testing.T) {
	id, err := Generate(0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(id) != DefaultLength {
		t.Errorf("Generate(0) length = %d, want %d", len(id), DefaultLength)
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	id, err := GenerateWithPrefix(PrefixPaymentMethod, DefaultLength)
	if err != nil {
		t.Fatalf("GenerateWithPrefix() error = %v", err)
	}
	if !strings.HasPrefix(id, "pm_") {
		t.Errorf("GenerateWithPrefix() = %q, want pm_ prefix", id)
	}
	if !HasPrefix(id, PrefixPaymentMethod) {
		t.Errorf("HasPrefix(%q, pm) = false, want true", id)
	}
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		prefix  string
		wantErr bool
	}{
		{"valid payment method", "pm_xK9mP2vL3nQa", "pm", false},
		{"valid event", "evt_abc123", "evt", false},
		{"wrong prefix", "sub_abc123", "pm", true},
		{"no underscore", "pmabc123", "pm", true},
		{"empty rest", "pm_", "pm", true},
		{"empty input", "", "pm", true},
		{"bare underscore", "_", "pm", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrefix(tt.id, tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrefix(%q, %q) error = %v, wantErr %v", tt.id, tt.prefix, err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := MustGenerate(DefaultLength)
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func FuzzValidatePrefix(f *testing.F) {
	seeds := []string{
		"pm_xK9mP2vL3nQa",
		"evt_abc123",
		"sub_subscription",
		"",
		"nounderscore",
		"_leadingunderscore",
		"trailing_",
		"multiple_under_scores_here",
		strings.Repeat("a", 1000) + "_" + strings.Repeat("b", 1000),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		err := ValidatePrefix(input, "pm")

		prefix, rest, found := strings.Cut(input, "_")
		wellFormed := found && rest != "" && prefix == "pm"
		if wellFormed && err != nil {
			t.Errorf("ValidatePrefix(%q) = %v, want nil", input, err)
		}
		if !wellFormed && err == nil {
			t.Errorf("ValidatePrefix(%q) = nil, want error", input)
		}
	})
}
