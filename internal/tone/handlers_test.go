package tone

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"calculator-widget/internal/testutil"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(DefaultTable()))
	return r
}

func TestListTones(t *testing.T) {
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/tones", nil), newTestRouter())
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var body struct {
		Tones []Cue `json:"tones"`
	}
	testutil.DecodeJSONBody(t, w.Body, &body)

	if len(body.Tones) != len(DefaultTable()) {
		t.Fatalf("expected %d tones, got %d", len(DefaultTable()), len(body.Tones))
	}
	if body.Tones[0].Tag != Button {
		t.Fatalf("expected tones sorted by tag, first is %q", body.Tones[0].Tag)
	}
}

func TestWAVServesRenderedCue(t *testing.T) {
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/tones/error.wav", nil), newTestRouter())
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if ct := w.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("expected Content-Type audio/wav, got %q", ct)
	}
	if body := w.Body.Bytes(); len(body) < 44 || string(body[:4]) != "RIFF" {
		t.Fatal("expected a RIFF body")
	}
}

func TestWAVUnknownTone(t *testing.T) {
	for _, path := range []string{"/tones/bogus.wav", "/tones/error.mp3"} {
		t.Run(path, func(t *testing.T) {
			w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, path, nil), newTestRouter())
			testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
		})
	}
}
