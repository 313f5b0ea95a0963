package gemini

import (
	"google.golang.org/genai"

	"github.com/medveritas/medveritas-api/internal/domain"
)

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

// medicineScanSchema is a flat object of seven required strings.
func medicineScanSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"brandName":          stringSchema(),
			"saltComposition":    stringSchema(),
			"manufacturer":       stringSchema(),
			"batchNumber":        stringSchema(),
			"expiryDate":         stringSchema(),
			"authenticityStatus": stringSchema(),
			"reason":             stringSchema(),
		},
		Required: []string{
			"brandName", "saltComposition", "manufacturer", "batchNumber",
			"expiryDate", "authenticityStatus", "reason",
		},
	}
}

// prescriptionReadSchema is a raw text field plus an array of medicine entries.
func prescriptionReadSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"rawText": stringSchema(),
			"medicines": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        stringSchema(),
						"dosage":      stringSchema(),
						"frequency":   stringSchema(),
						"duration":    stringSchema(),
						"uses":        stringSchema(),
						"sideEffects": stringSchema(),
						"warnings":    stringSchema(),
					},
					Required: []string{"name", "dosage", "frequency", "duration"},
				},
			},
		},
		Required: []string{"rawText", "medicines"},
	}
}

// schemaFor returns the response schema bound to mode.
func schemaFor(mode domain.AnalysisMode) *genai.Schema {
	if mode == domain.AnalysisModeMedicineScan {
		return medicineScanSchema()
	}
	return prescriptionReadSchema()
}
