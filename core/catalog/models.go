package catalog

import "time"

// Reference data: owned externally, read-only to this system.
// All identifiers are opaque stable keys compared by equality.
type (
	University struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// TaskTemplate is a global checklist item definition; it belongs to no
	// university and is expanded into per-user task instances at registration.
	TaskTemplate struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Deadline holds the known due date for one (university, template) pair.
	// A row with an empty TemplateID applies to every template of the
	// university (legacy data sets keyed deadlines on the university alone).
	// Absence of a row means the deadline is unknown, which is valid.
	Deadline struct {
		UniversityID string    `json:"university_id"`
		TemplateID   string    `json:"template_id"`
		Due          time.Time `json:"due"`
	}
)
