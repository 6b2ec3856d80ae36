package postgrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/roster"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(&core.Config{
		Store: core.StoreConfig{PostgrestURL: srv.URL, PostgrestToken: "test-token"},
	})
	return client, srv
}

func TestClient_headersAndFilters(t *testing.T) {
	var gotReq *http.Request
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var out []taskRow
	filters := []Eq{{"user_id", "u1"}, {"university_id", "keio"}}
	if err := client.Select(context.Background(), tableTasks, filters, &out); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if got := gotReq.URL.Path; got != "/rest/v1/tasks" {
		t.Errorf("path = %s, want /rest/v1/tasks", got)
	}
	q := gotReq.URL.Query()
	if got := q.Get("user_id"); got != "eq.u1" {
		t.Errorf("user_id filter = %s, want eq.u1", got)
	}
	if got := q.Get("university_id"); got != "eq.keio" {
		t.Errorf("university_id filter = %s, want eq.keio", got)
	}
	if got := gotReq.Header.Get("apikey"); got != "test-token" {
		t.Errorf("apikey header = %s, want test-token", got)
	}
	if got := gotReq.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Errorf("Authorization header = %s, want Bearer test-token", got)
	}
}

func TestClient_writesAskForRepresentation(t *testing.T) {
	var gotPrefer string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var out []taskRow
	if err := client.Insert(context.Background(), tableTasks, []taskRow{}, &out); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if gotPrefer != "return=representation" {
		t.Errorf("Prefer header = %s, want return=representation", gotPrefer)
	}
}

func TestRosterRepository_CreateTasksUpserts(t *testing.T) {
	var gotPrefer string
	var gotRows []taskRow
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		_ = json.NewDecoder(r.Body).Decode(&gotRows)
		data, _ := json.Marshal(gotRows)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	repo := NewRosterRepository(client)
	created, err := repo.CreateTasks(context.Background(), []roster.Task{
		{UserID: "u1", UniversityID: "keio", TemplateID: "essay"},
	})
	if err != nil {
		t.Fatalf("CreateTasks() error = %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("CreateTasks() returned %d tasks, want 1", len(created))
	}

	// two tabs registering the same university race to the same batch
	// insert; merge-duplicates makes the loser converge instead of failing
	// or duplicating rows
	if gotPrefer != "resolution=merge-duplicates,return=representation" {
		t.Errorf("Prefer header = %s, want resolution=merge-duplicates,return=representation", gotPrefer)
	}
}

func TestClient_failuresAreStoreUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "server error", handler: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{name: "auth rejected", handler: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}},
		{name: "garbage body", handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(tt.handler)
			defer srv.Close()

			var out []taskRow
			err := client.Select(context.Background(), tableTasks, nil, &out)
			if !core.IsStoreUnavailable(err) {
				t.Errorf("Select() error = %v, want ErrStoreUnavailable cause", err)
			}
		})
	}
}

func TestRosterRepository_UpdateTaskFlag(t *testing.T) {
	t.Run("no matching row", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		repo := NewRosterRepository(client)
		key := roster.TaskKey{UserID: "u1", UniversityID: "keio", TemplateID: "essay"}
		if err := repo.UpdateTaskFlag(context.Background(), key, roster.FlagCompleted, true); err != roster.ErrTaskNotFound {
			t.Errorf("UpdateTaskFlag() error = %v, want %v", err, roster.ErrTaskNotFound)
		}
	})

	t.Run("patches the right column", func(t *testing.T) {
		var gotFields map[string]interface{}
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				t.Errorf("method = %s, want PATCH", r.Method)
			}
			_ = json.NewDecoder(r.Body).Decode(&gotFields)
			_, _ = w.Write([]byte(`[{"user_id": "u1", "university_id": "keio", "template_id": "essay", "favorite": true}]`))
		}))
		defer srv.Close()

		repo := NewRosterRepository(client)
		key := roster.TaskKey{UserID: "u1", UniversityID: "keio", TemplateID: "essay"}
		if err := repo.UpdateTaskFlag(context.Background(), key, roster.FlagFavorite, true); err != nil {
			t.Fatalf("UpdateTaskFlag() error = %v", err)
		}
		if got, ok := gotFields["favorite"].(bool); !ok || !got {
			t.Errorf("patched fields = %v, want favorite=true", gotFields)
		}
		if _, ok := gotFields["completed"]; ok {
			t.Error("patch touched the completed column")
		}
	})
}
