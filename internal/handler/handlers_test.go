package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

// --- Shared test helpers ---

func testNumeric(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		t.Fatalf("scan numeric %q: %v", s, err)
	}
	return n
}

func testText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// data unwraps the success envelope's data object.
func data(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decodeBody(t, rr)
	if resp["success"] != true {
		t.Fatalf("success: got %v, want true; body: %s", resp["success"], rr.Body.String())
	}
	d, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object: %s", rr.Body.String())
	}
	return d
}
