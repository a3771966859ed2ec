package utils

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "session not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"session not found"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		SessionID string `json:"sessionId" validate:"required"`
		Text      string `json:"text" validate:"max=5"`
	}

	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"sessionId":"s1","text":"hi"}`, ""},
		{"empty", ``, "request body is empty"},
		{"malformed", `{"sessionId":`, "invalid request body"},
		{"missing", `{"text":"hi"}`, `SessionID failed "required" validation`},
		{"too long", `{"sessionId":"s1","text":"hello there"}`, `Text failed "max" validation`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst payload
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "s1", dst.SessionID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func TestSendSSEEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupSSEHeaders(rec)
	require.NoError(t, SendSSEEvent(rec, rec, "typing", map[string]bool{"typing": true}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	sc := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	assert.Equal(t, []string{"event: typing", `data: {"typing":true}`, ""}, lines)
}
