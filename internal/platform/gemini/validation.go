package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/domain"
)

// newResponseValidator builds the validator used for provider payloads.
func newResponseValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("authstatus", func(fl validator.FieldLevel) bool {
		return domain.AuthenticityStatus(fl.Field().String()).IsValid()
	})
	return v
}

// decodeResponse unmarshals the provider text into out and checks it against
// the struct's validation tags. Every failure wraps analysis.ErrInvalidResponse.
func decodeResponse(v *validator.Validate, text string, out any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: empty response text", analysis.ErrInvalidResponse)
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: response is not valid JSON: %v", analysis.ErrInvalidResponse, err)
	}

	if err := v.Struct(out); err != nil {
		return fmt.Errorf("%w: response does not match schema: %v", analysis.ErrInvalidResponse, err)
	}
	return nil
}
