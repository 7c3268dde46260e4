package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postQuery(t *testing.T, handler *GraphQLHandler, req GraphQLRequest) (*httptest.ResponseRecorder, GraphQLResponse) {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	httpReq := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httpReq)

	var response GraphQLResponse
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
	}
	return rr, response
}

func TestGraphQLHTTPHandler(t *testing.T) {
	handler := NewGraphQLHandler(buildTestSchema(t, newTestSession(t)))

	rr, response := postQuery(t, handler, GraphQLRequest{
		Query: `{ stats { keyword count } }`,
	})

	if rr.Code != http.StatusOK {
		t.Errorf("Handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if len(response.Errors) > 0 {
		t.Errorf("Response has errors: %v", response.Errors)
	}
	if response.Data == nil {
		t.Fatal("Response data is nil")
	}

	data := response.Data.(map[string]any)
	stats := data["stats"].([]any)
	if len(stats) != 4 {
		t.Errorf("len(stats) = %d, want 4", len(stats))
	}
	first := stats[0].(map[string]any)
	if first["keyword"] != "graph" {
		t.Errorf("First stat keyword = %v, want graph", first["keyword"])
	}
	// JSON numbers decode as float64
	if first["count"] != float64(4) {
		t.Errorf("First stat count = %v, want 4", first["count"])
	}
}

func TestGraphQLHTTPHandlerWithVariables(t *testing.T) {
	handler := NewGraphQLHandler(buildTestSchema(t, newTestSession(t)))

	rr, response := postQuery(t, handler, GraphQLRequest{
		Query: `query NodeByID($id: ID!) {
			node(id: $id) { id count }
		}`,
		Variables: map[string]any{"id": "layout"},
	})

	if rr.Code != http.StatusOK {
		t.Errorf("Handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if len(response.Errors) > 0 {
		t.Errorf("Response has errors: %v", response.Errors)
	}

	data := response.Data.(map[string]any)
	node, ok := data["node"].(map[string]any)
	if !ok {
		t.Fatalf("node is %T, want object", data["node"])
	}
	if node["id"] != "layout" || node["count"] != float64(3) {
		t.Errorf("node = %v, want layout/3", node)
	}
}

func TestGraphQLHTTPHandlerInvalidJSON(t *testing.T) {
	handler := NewGraphQLHandler(buildTestSchema(t, newTestSession(t)))

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Handler returned wrong status code for invalid JSON: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

func TestGraphQLHTTPHandlerMethodNotAllowed(t *testing.T) {
	handler := NewGraphQLHandler(buildTestSchema(t, newTestSession(t)))

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Handler returned wrong status code for GET: got %v want %v", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestGraphQLHTTPHandlerOptions(t *testing.T) {
	handler := NewGraphQLHandler(buildTestSchema(t, newTestSession(t)))

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Handler returned wrong status code for OPTIONS: got %v want %v", rr.Code, http.StatusOK)
	}
}

// Malformed queries come back as 200 with errors in the body, matching
// the GraphQL convention.
func TestGraphQLHTTPHandlerQueryErrors(t *testing.T) {
	handler := NewGraphQLHandler(buildTestSchema(t, newTestSession(t)))

	rr, response := postQuery(t, handler, GraphQLRequest{
		Query: `{ nonexistentField }`,
	})

	if rr.Code != http.StatusOK {
		t.Errorf("Handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if len(response.Errors) == 0 {
		t.Fatal("Expected errors for unknown field")
	}
	if response.Errors[0].Message == "" {
		t.Error("Error message should not be empty")
	}
}
