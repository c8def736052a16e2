package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

func bindBody(t *testing.T, body string, dst interface{}) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestDailyTaskRules(t *testing.T) {
	Setup()

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name: "valid",
			body: `{"title":"Optics","date":"2026-03-14","subject":"physics","context_text":"Refraction of light through lenses and prisms."}`,
		},
		{
			name:      "unknown subject",
			body:      `{"title":"Optics","date":"2026-03-14","subject":"maths","context_text":"Refraction of light through lenses and prisms."}`,
			wantField: "subject",
		},
		{
			name:      "bad date",
			body:      `{"title":"Optics","date":"14/03/2026","subject":"physics","context_text":"Refraction of light through lenses and prisms."}`,
			wantField: "date",
		},
		{
			name:      "context too short",
			body:      `{"title":"Optics","date":"2026-03-14","subject":"physics","context_text":"short"}`,
			wantField: "context_text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req model.CreateDailyTaskRequest
			fields := bindBody(t, tt.body, &req)
			if tt.wantField == "" {
				if fields != nil {
					t.Fatalf("unexpected errors: %v", fields)
				}
				return
			}
			msg, ok := fields[tt.wantField]
			if !ok {
				t.Fatalf("fields = %v, want key %q", fields, tt.wantField)
			}
			if msg == "" {
				t.Error("empty translated message")
			}
		})
	}
}

func TestSubjectMessageIsTranslated(t *testing.T) {
	Setup()
	var req model.GenerateDailyTaskRequest
	fields := bindBody(t, `{"date":"2026-03-14","subject":"maths"}`, &req)
	if got := fields["subject"]; !strings.Contains(got, "physics, chemistry, biology") {
		t.Errorf("subject message = %q", got)
	}
}

func TestMalformedJSON(t *testing.T) {
	Setup()
	var req model.GenerateDailyTaskRequest
	fields := bindBody(t, `{"date":`, &req)
	if _, ok := fields["detail"]; !ok {
		t.Errorf("fields = %v, want detail", fields)
	}
}
