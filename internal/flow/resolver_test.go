package flow

import "testing"

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		expected   string
	}{
		{"empty falls back to default", "", DefaultModel},
		{"whitespace falls back to default", "   ", DefaultModel},
		{"known alias", "default_gemini_flash", "gemini-2.0-flash"},
		{"known alias with case and padding", "  Default_Gemini_Flash  ", "gemini-2.0-flash"},
		{"preview alias unified on newer snapshot", "experimental_gemini_2_5_flash_preview", "gemini-2.5-flash-preview-05-20"},
		{"provider prefix passes through", "gemini-9.9-ultra", "gemini-9.9-ultra"},
		{"models prefix passes through", "models/gemini-1.5-flash-8b", "models/gemini-1.5-flash-8b"},
		{"unknown identifier falls back", "gpt-4o", DefaultModel},
		{"garbage falls back", "!!!###", DefaultModel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveModel(tc.identifier)
			if got == "" {
				t.Fatal("ResolveModel returned an empty model name")
			}
			if got != tc.expected {
				t.Errorf("ResolveModel(%q) = %q, want %q", tc.identifier, got, tc.expected)
			}
		})
	}
}

func TestResolveModel_NeverEmpty(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "unknown", "gemini-", "models/", "a", string(rune(0))}
	for _, in := range inputs {
		if got := ResolveModel(in); got == "" {
			t.Errorf("ResolveModel(%q) returned empty string", in)
		}
	}
}

func TestModelAliases_ReturnsCopy(t *testing.T) {
	aliases := ModelAliases()
	aliases["default_gemini_flash"] = "tampered"

	if ResolveModel("default_gemini_flash") == "tampered" {
		t.Error("mutating the returned alias map changed resolver behavior")
	}
}
