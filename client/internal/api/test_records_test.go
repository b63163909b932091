package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/townpass/roadwatch/client/internal/types"
)

func TestListTestRecords_Success(t *testing.T) {
	t.Parallel()
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/test_records" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, `[{"id":1,"title":"t1","description":null},{"id":2,"title":"t2","description":"d"}]`)
	})

	recs, err := ListTestRecords(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("ListTestRecords error: %v", err)
	}
	if len(recs) != 2 || recs[0].Description != nil || recs[1].Description == nil || *recs[1].Description != "d" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestCreateTestRecord_OmitsNilDescription(t *testing.T) {
	t.Parallel()
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["description"]; ok {
			t.Errorf("description should be omitted, got %+v", raw)
		}
		writeJSON(w, http.StatusOK, `{"id":9,"title":"only title"}`)
	})

	rec, err := CreateTestRecord(context.Background(), srv.Client(), srv.URL, types.CreateTestRecordRequest{Title: "only title"})
	if err != nil {
		t.Fatalf("CreateTestRecord error: %v", err)
	}
	if rec.ID != 9 || rec.Title != "only title" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestCreateTestRecord_NonOK(t *testing.T) {
	t.Parallel()
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := CreateTestRecord(context.Background(), srv.Client(), srv.URL, types.CreateTestRecordRequest{Title: "x"})
	if err == nil || err.Error() != "failed to create test record" {
		t.Fatalf("expected fallback error, got %v", err)
	}
}
