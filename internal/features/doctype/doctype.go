package doctype

// Document types and their fixed sub-categories. The table is static: types
// and categories are part of the regulatory filing structure, not user data.
var Categories = map[string][]string{
	"CTD":            {"Module 1", "Module 2", "Module 3", "Module 4", "Module 5"},
	"eCTD":           {"Administrative", "Summaries", "Quality", "Nonclinical", "Clinical"},
	"SOP":            {"Quality Control", "Manufacturing", "Regulatory", "Clinical", "General"},
	"Protocol":       {"Clinical Trial", "Validation", "Cleaning", "Analytical"},
	"ClinicalReport": {"Study Report", "Safety Report", "Efficacy Report", "Statistical Report"},
	"Manufacturing":  {"Batch Records", "Specifications", "Validation", "Change Control"},
	"Regulatory":     {"Submissions", "Correspondence", "Approvals", "Inspections"},
}

// ValidType reports whether documentType is a known type.
func ValidType(documentType string) bool {
	_, ok := Categories[documentType]
	return ok
}

// ValidCategory reports whether category belongs to documentType.
func ValidCategory(documentType, category string) bool {
	for _, c := range Categories[documentType] {
		if c == category {
			return true
		}
	}
	return false
}
