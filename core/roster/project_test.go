package roster

import (
	"reflect"
	"testing"
	"time"

	"github.com/tkoide/shutsugan/core/catalog"
)

var projNow = time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return projNow.AddDate(0, 0, offset)
}

func task(uni, tmpl string, completed, favorite bool) Task {
	return Task{UserID: "u", UniversityID: uni, TemplateID: tmpl, Completed: completed, Favorite: favorite}
}

func projFixtures() ([]catalog.University, []catalog.TaskTemplate, []catalog.Deadline) {
	unis := []catalog.University{
		{ID: "keio", Name: "Keio"},
		{ID: "aoyama", Name: "Aoyama"},
	}
	tmpls := []catalog.TaskTemplate{
		{ID: "essay", Name: "Essay"},
		{ID: "transcript", Name: "Transcript"},
		{ID: "fee", Name: "Fee"},
	}
	deadlines := []catalog.Deadline{
		{UniversityID: "keio", TemplateID: "essay", Due: day(1)},
		{UniversityID: "keio", Due: day(5)},            // university-wide fallback
		{UniversityID: "aoyama", TemplateID: "essay", Due: day(-2)}, // past
	}
	return unis, tmpls, deadlines
}

func rowKeys(rows []ViewRow) []string {
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.UniversityID+"/"+r.TemplateID)
	}
	return keys
}

func TestProject_dueResolution(t *testing.T) {
	unis, tmpls, deadlines := projFixtures()
	tasks := []Task{
		task("keio", "essay", false, false),      // exact deadline
		task("keio", "transcript", false, false), // university-wide fallback
		task("aoyama", "essay", false, false),    // past -> overdue
		task("aoyama", "fee", false, false),      // no deadline at all
	}

	rows := Project(tasks, unis, tmpls, deadlines, projNow, ProjectOptions{})
	if len(rows) != 4 {
		t.Fatalf("Project() returned %d rows, want 4", len(rows))
	}

	want := []struct {
		status   DueStatus
		daysLeft int
	}{
		{DueScheduled, 1},
		{DueScheduled, 5},
		{DueOverdue, 0},
		{DueUnknown, 0},
	}
	for i, w := range want {
		if rows[i].Status != w.status {
			t.Errorf("rows[%d].Status = %s, want %s", i, rows[i].Status, w.status)
		}
		if rows[i].DaysLeft != w.daysLeft {
			t.Errorf("rows[%d].DaysLeft = %d, want %d", i, rows[i].DaysLeft, w.daysLeft)
		}
	}

	if rows[0].University != "Keio" || rows[0].Task != "Essay" {
		t.Errorf("rows[0] names = (%s, %s), want (Keio, Essay)", rows[0].University, rows[0].Task)
	}
	if rows[3].Due != nil {
		t.Errorf("rows[3].Due = %v, want nil", rows[3].Due)
	}
}

func TestProject_dueToday(t *testing.T) {
	unis, tmpls, _ := projFixtures()
	// due earlier today: still "due today", never negative
	deadlines := []catalog.Deadline{
		{UniversityID: "keio", TemplateID: "essay", Due: projNow.Add(-2 * time.Hour)},
	}
	tasks := []Task{task("keio", "essay", false, false)}

	rows := Project(tasks, unis, tmpls, deadlines, projNow, ProjectOptions{})
	if rows[0].Status != DueScheduled {
		t.Errorf("Status = %s, want %s", rows[0].Status, DueScheduled)
	}
	if rows[0].DaysLeft != 0 {
		t.Errorf("DaysLeft = %d, want 0", rows[0].DaysLeft)
	}
}

func TestProject_filters(t *testing.T) {
	unis, tmpls, deadlines := projFixtures()
	tasks := []Task{
		task("keio", "essay", true, true),
		task("keio", "transcript", true, false),
		task("aoyama", "essay", false, true),
		task("aoyama", "fee", false, false),
	}

	tests := []struct {
		name string
		opts ProjectOptions
		want []string
	}{
		{name: "no filters", opts: ProjectOptions{},
			want: []string{"keio/essay", "keio/transcript", "aoyama/essay", "aoyama/fee"}},
		{name: "hide completed", opts: ProjectOptions{HideCompleted: true},
			want: []string{"aoyama/essay", "aoyama/fee"}},
		{name: "favorites only", opts: ProjectOptions{FavoritesOnly: true},
			want: []string{"keio/essay", "aoyama/essay"}},
		{name: "filters compose with AND", opts: ProjectOptions{HideCompleted: true, FavoritesOnly: true},
			want: []string{"aoyama/essay"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Project(tasks, unis, tmpls, deadlines, projNow, tt.opts)
			if got := rowKeys(rows); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Project() rows = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProject_sortByDueDate(t *testing.T) {
	unis, tmpls, deadlines := projFixtures()
	tasks := []Task{
		task("aoyama", "fee", false, false),      // unknown
		task("aoyama", "essay", false, false),    // overdue
		task("keio", "transcript", false, false), // +5
		task("keio", "essay", false, false),      // +1
	}

	rows := Project(tasks, unis, tmpls, deadlines, projNow, ProjectOptions{SortBy: SortByDueDate})

	want := []string{"keio/essay", "keio/transcript", "aoyama/essay", "aoyama/fee"}
	if got := rowKeys(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("Project() rows = %v, want %v", got, want)
	}
}

func TestProject_sortByDueDate_stable(t *testing.T) {
	unis, tmpls, _ := projFixtures()
	// two tasks due the same day keep their join order
	deadlines := []catalog.Deadline{
		{UniversityID: "keio", Due: day(3)},
		{UniversityID: "aoyama", Due: day(3)},
	}
	tasks := []Task{
		task("keio", "essay", false, false),
		task("aoyama", "essay", false, false),
		task("keio", "transcript", false, false),
	}

	rows := Project(tasks, unis, tmpls, deadlines, projNow, ProjectOptions{SortBy: SortByDueDate})

	want := []string{"keio/essay", "aoyama/essay", "keio/transcript"}
	if got := rowKeys(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("Project() rows = %v, want %v", got, want)
	}
}

func TestProject_sortByUniversity(t *testing.T) {
	unis, tmpls, deadlines := projFixtures()
	tasks := []Task{
		task("keio", "transcript", false, false),
		task("keio", "essay", false, false),
		task("aoyama", "fee", false, false),
		task("aoyama", "essay", false, false),
	}

	rows := Project(tasks, unis, tmpls, deadlines, projNow, ProjectOptions{SortBy: SortByUniversity})

	want := []string{"aoyama/essay", "aoyama/fee", "keio/essay", "keio/transcript"}
	if got := rowKeys(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("Project() rows = %v, want %v", got, want)
	}
}

func TestProject_pure(t *testing.T) {
	unis, tmpls, deadlines := projFixtures()
	tasks := []Task{
		task("aoyama", "fee", false, false),
		task("keio", "essay", false, false),
	}
	tasksCopy := append([]Task(nil), tasks...)

	first := Project(tasks, unis, tmpls, deadlines, projNow, ProjectOptions{SortBy: SortByDueDate})
	second := Project(tasks, unis, tmpls, deadlines, projNow, ProjectOptions{SortBy: SortByDueDate})

	if !reflect.DeepEqual(first, second) {
		t.Error("Project() is not deterministic for identical inputs")
	}
	if !reflect.DeepEqual(tasks, tasksCopy) {
		t.Error("Project() mutated its input")
	}
}

func TestViewRow_DueLabel(t *testing.T) {
	tests := []struct {
		name string
		row  ViewRow
		want string
	}{
		{name: "overdue", row: ViewRow{Status: DueOverdue}, want: "overdue"},
		{name: "unknown", row: ViewRow{Status: DueUnknown}, want: "no deadline"},
		{name: "today", row: ViewRow{Status: DueScheduled, DaysLeft: 0}, want: "due today"},
		{name: "tomorrow", row: ViewRow{Status: DueScheduled, DaysLeft: 1}, want: "due tomorrow"},
		{name: "later", row: ViewRow{Status: DueScheduled, DaysLeft: 12}, want: "due in 12 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.DueLabel(); got != tt.want {
				t.Errorf("DueLabel() = %s, want %s", got, tt.want)
			}
		})
	}
}

func Test_daysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{name: "same day", from: projNow, to: projNow.Add(5 * time.Hour), want: 0},
		{name: "late tonight", from: projNow, to: day(0).Add(13 * time.Hour), want: 0},
		{name: "tomorrow morning", from: projNow, to: day(1).Add(-10 * time.Hour), want: 1},
		{name: "next week", from: projNow, to: day(7), want: 7},
		{name: "yesterday", from: projNow, to: day(-1), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("daysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
