package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/tkoide/shutsugan/core/catalog"
)

// DueStatus is the tri-state countdown marker. Negative day counts never
// appear: a past due date is Overdue, not "-n days", so it can never be
// confused with "due today = 0".
type DueStatus string

const (
	DueScheduled DueStatus = "scheduled"
	DueOverdue   DueStatus = "overdue"
	DueUnknown   DueStatus = "unknown"
)

// SortOrder selects one of the two mutually exclusive board orderings.
type SortOrder string

const (
	// SortByDueDate orders by days-until-due ascending; Overdue sorts after
	// all known future values and Unknown last, stable on join order.
	SortByDueDate SortOrder = "due"
	// SortByUniversity orders by university name ascending with template ID
	// as the secondary stable key.
	SortByUniversity SortOrder = "university"
)

type (
	// ViewRow is a derived, read-only display record. DaysLeft is only
	// meaningful when Status == DueScheduled (0 = due today).
	ViewRow struct {
		UniversityID string     `json:"university_id"`
		TemplateID   string     `json:"template_id"`
		University   string     `json:"university"`
		Task         string     `json:"task"`
		Due          *time.Time `json:"due,omitempty"`
		Status       DueStatus  `json:"status"`
		DaysLeft     int        `json:"days_left"`
		Completed    bool       `json:"completed"`
		Favorite     bool       `json:"favorite"`
	}

	// ProjectOptions carries the two independent filter predicates (AND-composed,
	// both off by default) and the selected sort order.
	ProjectOptions struct {
		HideCompleted bool
		FavoritesOnly bool
		SortBy        SortOrder
	}
)

// DueLabel renders the countdown for human consumption (reminder emails).
func (r ViewRow) DueLabel() string {
	switch r.Status {
	case DueOverdue:
		return "overdue"
	case DueUnknown:
		return "no deadline"
	}
	switch r.DaysLeft {
	case 0:
		return "due today"
	case 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", r.DaysLeft)
	}
}

// Project joins task instances against the reference catalogs and derives the
// ordered board view. It is pure: inputs are never mutated and identical
// inputs always yield identical output order and content.
func Project(
	tasks []Task,
	unis []catalog.University,
	tmpls []catalog.TaskTemplate,
	deadlines []catalog.Deadline,
	now time.Time,
	opts ProjectOptions,
) []ViewRow {
	uniNames := make(map[string]string, len(unis))
	for _, u := range unis {
		uniNames[u.ID] = u.Name
	}
	tmplNames := make(map[string]string, len(tmpls))
	for _, t := range tmpls {
		tmplNames[t.ID] = t.Name
	}

	// deadlines key on (university, template); a row with an empty template
	// ID is a university-wide fallback used when no exact row exists
	type dlKey struct{ uni, tmpl string }
	dues := make(map[dlKey]time.Time, len(deadlines))
	for _, d := range deadlines {
		dues[dlKey{d.UniversityID, d.TemplateID}] = d.Due
	}

	rows := make([]ViewRow, 0, len(tasks))
	for _, t := range tasks {
		if opts.HideCompleted && t.Completed {
			continue
		}
		if opts.FavoritesOnly && !t.Favorite {
			continue
		}

		row := ViewRow{
			UniversityID: t.UniversityID,
			TemplateID:   t.TemplateID,
			University:   uniNames[t.UniversityID],
			Task:         tmplNames[t.TemplateID],
			Status:       DueUnknown,
			Completed:    t.Completed,
			Favorite:     t.Favorite,
		}

		due, ok := dues[dlKey{t.UniversityID, t.TemplateID}]
		if !ok {
			due, ok = dues[dlKey{t.UniversityID, ""}]
		}
		if ok {
			d := due
			row.Due = &d
			if days := daysBetween(now, due); days >= 0 {
				row.Status = DueScheduled
				row.DaysLeft = days
			} else {
				row.Status = DueOverdue
			}
		}
		rows = append(rows, row)
	}

	switch opts.SortBy {
	case SortByDueDate:
		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := dueRank(rows[i]), dueRank(rows[j])
			if ri != rj {
				return ri < rj
			}
			if rows[i].Status == DueScheduled && rows[j].Status == DueScheduled {
				return rows[i].DaysLeft < rows[j].DaysLeft
			}
			return false
		})
	case SortByUniversity:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].University != rows[j].University {
				return rows[i].University < rows[j].University
			}
			return rows[i].TemplateID < rows[j].TemplateID
		})
	}
	return rows
}

func dueRank(r ViewRow) int {
	switch r.Status {
	case DueScheduled:
		return 0
	case DueOverdue:
		return 1
	default:
		return 2
	}
}

// daysBetween counts whole calendar days from `from`'s date to `to`'s date;
// negative when `to` is in the past.
func daysBetween(from, to time.Time) int {
	from, to = from.UTC(), to.UTC()
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDate.Sub(fromDate) / (24 * time.Hour))
}
