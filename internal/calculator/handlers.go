package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"calculator-widget/internal/handlers"
	"calculator-widget/internal/observability"
	"calculator-widget/internal/tone"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const (
	maxBodyBytes      = 4 << 10
	maxExpressionSize = 256
)

var errInvalidBody = errors.New("invalid request body")

// Handler serves the calculator HTTP shell. Every widget session owns a Pad
// in the store.
type Handler struct {
	store *Store
	tones tone.Table
}

func NewHandler(store *Store, tones tone.Table) *Handler {
	if tones == nil {
		tones = tone.DefaultTable()
	}
	return &Handler{store: store, tones: tones}
}

// ---------------------------------------------------------------------------
// Handlers: session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	id, pad := h.store.Create()

	span.SetAttributes(attribute.String("calculator.session", id))
	span.SetStatus(codes.Ok, "")
	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create")))

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", requestID),
	)

	h.writeSnapshot(w, http.StatusCreated, id, pad.Snapshot())
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.handlePadOp(w, r, "display", func(_ context.Context, pad *Pad, _ *http.Request) (Snapshot, error) {
		return pad.Snapshot(), nil
	})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(
			attribute.String("calculator.session", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete_session", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session closed",
		zap.String("session_id", id),
		zap.String("request_id", requestID),
	)

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers: input events
// ---------------------------------------------------------------------------

// Input handles POST /calculator/sessions/{id}/input
func (h *Handler) Input(w http.ResponseWriter, r *http.Request) {
	h.handlePadOp(w, r, "append", func(ctx context.Context, pad *Pad, r *http.Request) (Snapshot, error) {
		var req InputRequest
		if err := decodeBody(r, &req); err != nil {
			return Snapshot{}, err
		}
		token, err := parseToken(req.Token)
		if err != nil {
			return Snapshot{}, err
		}
		return pad.Append(ctx, token)
	})
}

// Key handles POST /calculator/sessions/{id}/keys
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	h.handlePadOp(w, r, "key", func(ctx context.Context, pad *Pad, r *http.Request) (Snapshot, error) {
		var req KeyRequest
		if err := decodeBody(r, &req); err != nil {
			return Snapshot{}, err
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("calculator.key", req.Key))
		return pad.Press(ctx, req.Key)
	})
}

// EvaluateSession handles POST /calculator/sessions/{id}/evaluate
func (h *Handler) EvaluateSession(w http.ResponseWriter, r *http.Request) {
	h.handlePadOp(w, r, "evaluate", func(ctx context.Context, pad *Pad, _ *http.Request) (Snapshot, error) {
		return pad.Evaluate(ctx), nil
	})
}

// Clear handles POST /calculator/sessions/{id}/clear
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.handlePadOp(w, r, "clear", func(ctx context.Context, pad *Pad, _ *http.Request) (Snapshot, error) {
		return pad.Clear(ctx), nil
	})
}

// DeleteLast handles POST /calculator/sessions/{id}/delete
func (h *Handler) DeleteLast(w http.ResponseWriter, r *http.Request) {
	h.handlePadOp(w, r, "delete", func(ctx context.Context, pad *Pad, _ *http.Request) (Snapshot, error) {
		return pad.DeleteLast(ctx), nil
	})
}

type padOp func(ctx context.Context, pad *Pad, r *http.Request) (Snapshot, error)

// handlePadOp is the shared implementation for all session input events:
// child span, pad lookup, timed operation, metrics, trace-correlated logging
// and the JSON snapshot response.
func (h *Handler) handlePadOp(w http.ResponseWriter, r *http.Request, opName string, op padOp) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("calculator.session", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	pad, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return
	}

	start := time.Now()
	snap, err := op(ctx, pad, r)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		msg := err.Error()
		if errors.Is(err, errInvalidBody) {
			msg = errInvalidBody.Error()
		}
		observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, http.StatusBadRequest, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	switch snap.Feedback {
	case tone.Equals:
		evaluationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
		resultGauge.Record(ctx, snap.Value, attrs)
		span.AddEvent("evaluation.complete", trace.WithAttributes(
			attribute.Float64("result", snap.Value),
		))
	case tone.Error:
		kind := ErrorKind(snap.Err)
		evaluationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", kind)))
		errorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", opName),
			attribute.String("kind", kind),
		))
		span.AddEvent("evaluation.failed", trace.WithAttributes(
			attribute.String("error.kind", kind),
			attribute.String("error.message", snap.Err.Error()),
		))
	}

	span.SetAttributes(
		attribute.String("calculator.display", snap.Display),
		attribute.String("calculator.state", snap.State.String()),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator input handled",
		zap.String("operation", opName),
		zap.String("session_id", id),
		zap.String("display", snap.Display),
		zap.String("state", snap.State.String()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	h.writeSnapshot(w, http.StatusOK, id, snap)
}

// ---------------------------------------------------------------------------
// Handler: stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It evaluates a whole expression
// without a session.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate_expression",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req EvaluateRequest
	if err := decodeBody(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate_expression", errInvalidBody.Error(), err, http.StatusBadRequest, w)
		return
	}

	if n := len(req.Expression); n == 0 || n > maxExpressionSize {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate_expression", "expression length out of range",
			fmt.Errorf("expression length %d not in [1, %d]", n, maxExpressionSize), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	start := time.Now()
	value, err := EvaluateExpression(req.Expression)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		kind := ErrorKind(err)
		evaluationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", kind)))
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate_expression", kind, err, http.StatusUnprocessableEntity, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate_expression"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	evaluationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	resultGauge.Record(ctx, value, attrs)

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.Float64("result", value),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.Float64("result", value),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Expression,
		Display:    FormatResult(value),
		Value:      value,
	})
}

// ErrorKind names an evaluation failure for responses and metric attributes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNonFiniteResult):
		return "non_finite_result"
	case errors.Is(err, ErrMalformedExpression):
		return "malformed_expression"
	default:
		return "internal"
	}
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, status int, id string, snap Snapshot) {
	resp := SessionResponse{
		SessionID:    id,
		Display:      snap.Display,
		State:        snap.State.String(),
		ErrorKind:    ErrorKind(snap.Err),
		ClearAfterMS: snap.ClearIn.Milliseconds(),
	}
	if snap.Feedback != "" {
		resp.Feedback = h.tones.CueFor(snap.Feedback)
	}

	handlers.WriteJSON(w, status, resp)
}

func decodeBody(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func parseToken(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedToken, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
