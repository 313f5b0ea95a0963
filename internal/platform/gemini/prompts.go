package gemini

import "github.com/medveritas/medveritas-api/internal/domain"

// The safety rules in these prompts are domain requirements. They must not be
// relaxed: the provider may never substitute a guessed medicine name.

const medicineScanPrompt = `
Analyze the provided image of a medicine strip or packaging.
Extract the following information in JSON format:
- brandName: The commercial name of the medicine.
- saltComposition: The active ingredients/chemical composition.
- manufacturer: The company that produced it.
- batchNumber: The batch or lot number.
- expiryDate: The expiration date.
- authenticityStatus: One of "Likely Authentic", "Suspicious", or "Unable to Determine".
- reason: A clear explanation for the authenticity status. Look for red flags like spelling mistakes, missing batch info, inconsistent fonts, or poor print quality.

STRICT SAFETY RULES:
1. NEVER guess a medicine name. If text is blurry or unreadable, set the field to "Text Unclear".
2. NEVER default to common medicines like Paracetamol if the image is unclear.
3. If you cannot find a specific field, mark it as "Not Found".
`

const prescriptionReadPrompt = `
Analyze the provided image of a handwritten doctor's prescription.
Convert the handwriting into clean text and extract a list of medicines.
For each medicine, identify:
- name: Name of the medicine.
- dosage: Strength (e.g., 500mg, 5ml).
- frequency: How often to take it (e.g., 1-0-1, twice a day).
- duration: For how many days/weeks.
- uses: General purpose of this medicine.
- sideEffects: Common side effects.
- warnings: Important safety warnings.

STRICT SAFETY RULES:
1. NEVER guess a medicine name. If handwriting is illegible, set the name to "Text Unclear".
2. Provide a rawText field containing the full transcribed text of the prescription.
3. Return the data in JSON format.
`

// probePrompt is the text-only request used by the connectivity probe.
const probePrompt = "Hello, test connection."

// promptFor returns the fixed prompt bound to mode.
func promptFor(mode domain.AnalysisMode) string {
	if mode == domain.AnalysisModeMedicineScan {
		return medicineScanPrompt
	}
	return prescriptionReadPrompt
}
