package flow

import (
	"log"
	"strings"
)

// DefaultModel is the universal fallback. Plan tier never affects model
// choice; it only changes prompt wording. The legacy behavior of routing
// pro users to a different default was organic drift and is not kept.
const DefaultModel = "gemini-2.0-flash"

// modelAliases is the closed set of admin-facing model identifiers. The
// preview alias previously pointed at two different dated snapshots in
// different flows; it is unified on the newer one here.
var modelAliases = map[string]string{
	"default_gemini_flash":                  "gemini-2.0-flash",
	"gemini_1_5_flash":                      "gemini-1.5-flash",
	"gemini_1_5_pro":                        "gemini-1.5-pro",
	"experimental_gemini_2_5_flash_preview": "gemini-2.5-flash-preview-05-20",
	"experimental_gemini_2_5_pro_preview":   "gemini-2.5-pro-preview-05-06",
}

// providerPrefixes mark identifiers that are passed through verbatim.
// Trust the admin, but log it.
var providerPrefixes = []string{"gemini-", "models/gemini-"}

// ResolveModel maps an optional admin-supplied identifier to a concrete
// backend model name. Resolution is total: unknown, empty, and malformed
// identifiers all terminate in DefaultModel.
func ResolveModel(identifier string) string {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" {
		return DefaultModel
	}

	if model, ok := modelAliases[id]; ok {
		return model
	}

	for _, prefix := range providerPrefixes {
		if strings.HasPrefix(id, prefix) {
			log.Printf("WARNING: passing through unrecognized model identifier %q", id)
			return id
		}
	}

	log.Printf("WARNING: unknown model identifier %q, falling back to %s", id, DefaultModel)
	return DefaultModel
}

// ModelAliases exposes a copy of the alias table for the admin panel.
func ModelAliases() map[string]string {
	out := make(map[string]string, len(modelAliases))
	for k, v := range modelAliases {
		out[k] = v
	}
	return out
}

// isPreviewModel drives the terser prompt phrasing used for fast preview
// model variants.
func isPreviewModel(model string) bool {
	return strings.Contains(model, "preview")
}
