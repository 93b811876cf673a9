package response

import (
	"net/http"
	"testing"
)

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"key": "value"})

	if !resp.Success {
		t.Error("Expected Success to be true")
	}
	if resp.Data == nil {
		t.Error("Expected Data to be set")
	}
	if resp.Error != nil {
		t.Error("Expected Error to be nil")
	}
}

func TestError(t *testing.T) {
	resp := Error(ErrCodeNotFound, "settings not found")

	if resp.Success {
		t.Error("Expected Success to be false")
	}
	if resp.Error == nil {
		t.Fatal("Expected Error to be set")
	}
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("Expected code %s, got %s", ErrCodeNotFound, resp.Error.Code)
	}
	if resp.Error.Message != "settings not found" {
		t.Errorf("Unexpected message: %s", resp.Error.Message)
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeEventFull, http.StatusConflict},
		{ErrCodePaymentFailed, http.StatusPaymentRequired},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := GetHTTPStatus(tt.code); got != tt.expected {
				t.Errorf("GetHTTPStatus(%s) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

func TestPaginated(t *testing.T) {
	resp := Paginated([]string{"a", "b"}, 1, 20, 45)

	if resp.Meta == nil {
		t.Fatal("Expected Meta to be set")
	}
	if resp.Meta.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", resp.Meta.TotalPages)
	}
	if resp.Meta.Total != 45 {
		t.Errorf("Expected total 45, got %d", resp.Meta.Total)
	}
}

func TestDefaultMessages(t *testing.T) {
	if Unauthorized("").Error.Message != "Authentication required" {
		t.Error("Unexpected default unauthorized message")
	}
	if ServiceUnavailable("").Error.Message != "Service temporarily unavailable" {
		t.Error("Unexpected default service unavailable message")
	}
	if NotFound("").Error.Message != "Resource not found" {
		t.Error("Unexpected default not found message")
	}
}
