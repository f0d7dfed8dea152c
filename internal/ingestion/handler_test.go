package ingestion_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aganswers/spotlight/internal/ingestion"
	"github.com/aganswers/spotlight/pkg/routes"
)

func newTestServer(t *testing.T, configure func(*pipeline)) (*httptest.Server, *pipeline) {
	t.Helper()

	orchestrator, p := newPipeline(t, configure)
	handler := ingestion.NewHandler(orchestrator, 2, testLogger(t))

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, p
}

func TestIngestEndpoint(t *testing.T) {
	server, _ := newTestServer(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("Field notes.")
	})

	body := `{"course_name":"ag101","s3_path":"courses/ag101/notes.txt","readable_filename":"notes.txt"}`
	resp, err := http.Post(server.URL+"/ingest", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result ingestion.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != ingestion.StatusComplete {
		t.Errorf("status = %q, reasons = %v", result.Status, result.Reasons)
	}
	if result.Record == nil || result.Record.DisplayName != "notes.txt" {
		t.Errorf("record = %+v", result.Record)
	}
}

func TestIngestEndpointUnsupportedType(t *testing.T) {
	server, _ := newTestServer(t, nil)

	body := `{"course_name":"ag101","s3_path":"courses/ag101/tool.exe"}`
	resp, err := http.Post(server.URL+"/ingest", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestIngestEndpointRejectsBadJSON(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp, err := http.Post(server.URL+"/ingest", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBatchEndpointReportsPerItemOutcomes(t *testing.T) {
	server, p := newTestServer(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/a.txt"] = []byte("doc a")
		p.raw.objects["courses/ag101/b.txt"] = []byte("doc b")
	})

	body := `{"documents":[
		{"course_name":"ag101","s3_path":"courses/ag101/a.txt"},
		{"course_name":"ag101","s3_path":"courses/ag101/b.txt"},
		{"course_name":"ag101","s3_path":"courses/ag101/missing.txt"}
	]}`
	resp, err := http.Post(server.URL+"/ingest/batch", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var parsed struct {
		Items []struct {
			SourcePointer string            `json:"s3_path"`
			Result        *ingestion.Result `json:"result"`
			Error         string            `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(parsed.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(parsed.Items))
	}

	failures := 0
	for _, item := range parsed.Items {
		if item.Error != "" {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("failures = %d, want 1 (the missing document)", failures)
	}
	if len(p.catalog.stored) != 2 {
		t.Errorf("stored records = %d, want 2", len(p.catalog.stored))
	}
}

func TestBatchEndpointRejectsEmptyList(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp, err := http.Post(server.URL+"/ingest/batch", "application/json",
		strings.NewReader(`{"documents":[]}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	server, p := newTestServer(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("to be deleted")
	})

	body := `{"course_name":"ag101","s3_path":"courses/ag101/notes.txt"}`
	resp, err := http.Post(server.URL+"/ingest", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	resp.Body.Close()

	target := server.URL + "/documents?course_name=ag101&s3_path=" +
		url.QueryEscape("courses/ag101/notes.txt")
	req, err := http.NewRequest(http.MethodDelete, target, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if len(p.catalog.stored) != 0 {
		t.Error("record should be gone")
	}
}

func TestDeleteEndpointMissingRecord(t *testing.T) {
	server, _ := newTestServer(t, nil)

	target := server.URL + "/documents?course_name=ag101&s3_path=" +
		url.QueryEscape("courses/ag101/ghost.txt")
	req, err := http.NewRequest(http.MethodDelete, target, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
