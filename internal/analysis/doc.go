// Package analysis defines the boundary between the application and the
// external multimodal AI provider that interprets medicine and prescription
// photographs. The Analyzer interface hides the provider (Gemini) from the
// service and API layers, and the error values here form the error taxonomy
// every adapter must map onto.
package analysis
