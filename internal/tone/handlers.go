package tone

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"calculator-widget/internal/handlers"
	"calculator-widget/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("tone")

// Cue is the JSON description of a tone a browser shell should play.
type Cue struct {
	Tag        Tag     `json:"tag"`
	Frequency  float64 `json:"frequency_hz"`
	DurationMS int64   `json:"duration_ms"`
	URL        string  `json:"url"`
}

// CueFor describes the tone for tag, or returns nil when the table has none.
func (t Table) CueFor(tag Tag) *Cue {
	tn, ok := t.Lookup(tag)
	if !ok {
		return nil
	}
	return &Cue{
		Tag:        tag,
		Frequency:  tn.Frequency,
		DurationMS: tn.DurationMillis(),
		URL:        fmt.Sprintf("/tones/%s.wav", tag),
	}
}

// Handler serves the cue table and rendered cues.
type Handler struct {
	table Table
}

func NewHandler(table Table) *Handler {
	return &Handler{table: table}
}

// RegisterRoutes mounts the tone endpoints under /tones.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/tones", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{file}", h.WAV)
	})
}

// List handles GET /tones
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cues := make([]*Cue, 0, len(h.table))
	for _, tag := range h.table.Tags() {
		cues = append(cues, h.table.CueFor(tag))
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{"tones": cues})
}

// WAV handles GET /tones/{tag}.wav
func (h *Handler) WAV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	file := chi.URLParam(r, "file")
	tag := Tag(strings.TrimSuffix(file, ".wav"))

	ctx, span := tracer.Start(ctx, "tone.render",
		trace.WithAttributes(attribute.String("tone.tag", string(tag))),
	)
	defer span.End()

	tn, ok := h.table.Lookup(tag)
	if !strings.HasSuffix(file, ".wav") || !ok {
		span.SetStatus(codes.Error, "unknown tone")
		handlers.WriteError(w, http.StatusNotFound, fmt.Sprintf("unknown tone %q", file))
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, tn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		logger.Error("tone render failed", zap.String("tag", string(tag)), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("tone.bytes", buf.Len()))
	span.SetStatus(codes.Ok, "")

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
