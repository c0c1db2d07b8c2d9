// Package catalog holds the built-in assessment templates and the dimension
// names used to lay out their checklists.
package catalog

import (
	"slices"

	"github.com/colonyops/assess/internal/core/assessment"
)

// Template ids of the built-in catalog.
const (
	DSMM           = "dsmm"
	DJCP           = "djcp"
	GRXXB          = "grxxb"
	DJCPDataLevel1 = "djcp_data_level1"
	DJCPData       = "djcp_data"
)

// genericDimensions is used for templates without a dimension table entry.
var genericDimensions = []string{"Dimension 1", "Dimension 2"}

var dataSecurityDimensions = []string{
	"Data classification and grading",
	"Access control",
	"Storage security",
	"Transmission security",
	"Backup and recovery",
	"Secure disposal",
	"Monitoring and audit",
}

var dimensionNames = map[string][]string{
	DSMM: {
		"Data collection security",
		"Data transmission security",
		"Data storage security",
		"Data processing security",
	},
	DJCP:           {"General security requirements", "Data security extensions"},
	GRXXB:          {"Collection", "Use", "Retention", "Sharing", "Deletion"},
	DJCPDataLevel1: dataSecurityDimensions,
	DJCPData:       dataSecurityDimensions,
}

// Default returns a fresh copy of the built-in template catalog.
func Default() []assessment.Template {
	return []assessment.Template{
		{
			ID:          DSMM,
			Name:        "DSMM Data Security Capability Maturity Model",
			Standard:    "GB/T 37988-2019",
			Description: "Data security capability maturity assessment",
			Dimensions:  4,
			Items:       21,
			Levels:      "Levels 1-5",
		},
		{
			ID:          DJCP,
			Name:        "Classified Protection 2.0 Baseline Requirements",
			Standard:    "GB/T 22239-2019",
			Description: "Cybersecurity classified protection, level 2 assessment",
			Dimensions:  2,
			Items:       22,
			Levels:      "Level 2",
		},
		{
			ID:          GRXXB,
			Name:        "Personal Information Security Specification",
			Standard:    "GB/T 35273-2020",
			Description: "Personal information protection compliance assessment",
			Dimensions:  5,
			Items:       15,
			Levels:      "Baseline",
		},
		{
			ID:          DJCPDataLevel1,
			Name:        "Classified Protection Data Security Requirements (Level 1)",
			Standard:    "GA/T 2380-2026",
			Description: "Data security baseline requirements for classified protection",
			Dimensions:  7,
			Items:       10,
			Levels:      "Level 1",
		},
		{
			ID:          DJCPData,
			Name:        "Classified Protection Data Security Requirements (Level 3)",
			Standard:    "GA/T 2380-2026",
			Description: "Data security baseline requirements for classified protection",
			Dimensions:  7,
			Items:       45,
			Levels:      "Level 3",
		},
	}
}

// DimensionNames returns the ordered dimension names for a template id.
// Unknown ids get a generic two-dimension layout.
//
// Use Layout to include names carried by the template itself.
func DimensionNames(templateID string) []string {
	names, ok := dimensionNames[templateID]
	if !ok {
		names = genericDimensions
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Layout returns the dimension names used to generate tpl's checklist: the
// template's own names when it has any, otherwise DimensionNames(tpl.ID).
func Layout(tpl assessment.Template) []string {
	if len(tpl.DimensionNames) > 0 {
		return slices.Clone(tpl.DimensionNames)
	}
	return DimensionNames(tpl.ID)
}

// Find returns the template with the given id.
func Find(templates []assessment.Template, id string) (assessment.Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return assessment.Template{}, false
}

// Merge appends extra templates to base. An extra template whose id already
// exists in base replaces it in place.
func Merge(base, extra []assessment.Template) []assessment.Template {
	out := make([]assessment.Template, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, t := range extra {
		replaced := false
		for i := range out {
			if out[i].ID == t.ID {
				out[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, t)
		}
	}
	return out
}
