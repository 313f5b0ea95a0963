// Package gemini provides an implementation of the analysis.Analyzer interface
// that uses Google's Gemini API to interpret photographs of medicine packages
// and handwritten prescriptions.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's domain logic to Google's external Gemini AI service.
//
// Key components:
//
// 1. GeminiAnalyzer:
//   - Implements the analysis.Analyzer interface
//   - Sends one multimodal request per analysis (prompt + inline JPEG + schema)
//   - Offers a text-only connectivity probe
//
// 2. Prompts and schemas:
//   - Two fixed prompts carrying the anti-hallucination safety rules
//   - Two fixed response schemas, declared to the provider and re-checked locally
//
// 3. Response processing:
//   - Parses the JSON text of the first candidate
//   - Validates presence of every required field with validator/v10
//   - Converts the wire shape into domain types
//
// There is no retry: a failed call surfaces immediately as an analysis error.
package gemini
