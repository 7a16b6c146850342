package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// songMIDI is a one-bar 4/4 file at 91 BPM with a single note
func songMIDI(t *testing.T, num, denom uint8) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)

	var track smf.Track
	track.Add(0, smf.MetaTempo(91))
	track.Add(0, smf.MetaMeter(num, denom))
	track.Add(0, midi.NoteOn(0, 60, 100))
	track.Add(96, midi.NoteOff(0, 60))
	track.Close(0)
	require.NoError(t, s.Add(track))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, query string, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert"+query, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(zap.NewNop()).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := serve(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := serve(req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestListOptions(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Defaults map[string]interface{} `json:"defaults"`
		Sounds   []string               `json:"sounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(128), body.Defaults["notes_per_bar"])
	assert.Equal(t, "piano", body.Sounds[0])
}

func TestConvert(t *testing.T) {
	rec := serve(uploadRequest(t, "?notes_per_bar=8&tab_size=1", "song.mid", songMIDI(t, 4, 4)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	text := rec.Body.String()
	assert.True(t, strings.HasPrefix(text, "setcpm(91/4)\n"))
	assert.Contains(t, text, "  c4\n >`).sound(\"piano\")\n")
	assert.Equal(t, "attachment; filename=song.strudel.txt", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"no file", uploadRequest(t, "", "", nil), http.StatusBadRequest},
		{"bad query", uploadRequest(t, "?notes_per_bar=abc", "a.mid", songMIDI(t, 4, 4)), http.StatusBadRequest},
		{"bad flat", uploadRequest(t, "?flat=maybe", "a.mid", songMIDI(t, 4, 4)), http.StatusBadRequest},
		{"invalid config", uploadRequest(t, "?notes_per_bar=0", "a.mid", songMIDI(t, 4, 4)), http.StatusBadRequest},
		{"malformed", uploadRequest(t, "", "a.mid", []byte("garbage")), http.StatusBadRequest},
		{"waltz", uploadRequest(t, "", "a.mid", songMIDI(t, 3, 4)), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.req)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}
