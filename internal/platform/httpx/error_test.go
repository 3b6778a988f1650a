package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorForUsesCodeStatus(t *testing.T) {
	cases := map[string]int{
		CodeProgramNotFound:    http.StatusNotFound,
		CodeProgramFetchFailed: http.StatusBadGateway,
		CodeRateLimited:        http.StatusTooManyRequests,
		CodeInvalidEnquiry:     http.StatusBadRequest,
		"something_else":       http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ErrorFor(code, "msg").Status; got != want {
			t.Errorf("ErrorFor(%q).Status = %d, want %d", code, got, want)
		}
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	err := ErrorFor(CodeInvalidEnquiry, "fix\nfields").WithDetails(map[string]any{"fields": map[string]string{"email": "email is required"}})
	WriteError(context.Background(), rr, err)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != CodeInvalidEnquiry || body["message"] != "fix fields" || body["status"] != float64(http.StatusBadRequest) {
		t.Fatalf("envelope = %v", body)
	}
	if _, ok := body["request_id"]; ok {
		t.Fatal("request_id should be omitted without a request id")
	}
	if fields, ok := body["fields"].(map[string]any); !ok || fields["email"] != "email is required" {
		t.Fatalf("fields = %v", body["fields"])
	}
}
