package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/service"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrMealPlanNotFound, want: http.StatusNotFound},
		{err: fmt.Errorf("%w: bad date", service.ErrInvalidInput), want: http.StatusBadRequest},
		{err: service.ErrInvalidToken, want: http.StatusUnauthorized},
		{err: service.ErrEmailTaken, want: http.StatusBadRequest},
		{err: service.ErrUpstream, want: http.StatusInternalServerError},
		{err: errors.New("database is locked"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForKind(service.KindOf(tt.err)); got != tt.want {
			t.Fatalf("statusForKind(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespondServiceErrorHidesPersistenceDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/meal-plans/1", nil)

	api := &API{exposeRaw: true}
	api.respondServiceError(c, errors.New("pq: connection refused"))

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if rr.Code != http.StatusInternalServerError || strings.Contains(body["error"], "pq:") {
		t.Fatalf("unexpected response: %d %v", rr.Code, body)
	}
}

func TestRespondServiceErrorIncludesRawOutput(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/users/u/meal-plans/generate", nil)

	api := &API{exposeRaw: true}
	api.respondServiceError(c, &service.ModelOutputError{Raw: "not json", Err: errors.New("invalid character")})

	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), "not json") {
		t.Fatalf("unexpected response: %d %s", rr.Code, rr.Body.String())
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc", token: "abc", ok: true},
		{header: "bearer  abc ", token: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		if ok != tt.ok || token != tt.token {
			t.Fatalf("bearerToken(%q) = %q, %v", tt.header, token, ok)
		}
	}
}
