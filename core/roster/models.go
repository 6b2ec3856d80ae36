package roster

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrTaskNotFound         = errors.New("task not found")
	ErrEmptyTemplateCatalog = errors.New("task template catalog is empty")
	// ErrPartialWrite should be structurally impossible: the repository
	// contract requires the full created set or a definitive failure.
	ErrPartialWrite = errors.New("batch write created fewer tasks than requested")
)

// Task is the only mutable, user-owned record in the system.
// Its identity is the (UserID, UniversityID, TemplateID) triple, unique
// within a user's task set; it is created exactly once at registration
// and never deleted.
type Task struct {
	UserID       string    `json:"user_id"`
	UniversityID string    `json:"university_id"`
	TemplateID   string    `json:"template_id"`
	Completed    bool      `json:"completed"`
	Favorite     bool      `json:"favorite"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}
