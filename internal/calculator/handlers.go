package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints on top of a session store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers: evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate with a throwaway session built
// from the store defaults and the optional settings in the body.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(ctx, span, logger, "evaluate", err, w)
		return
	}

	settings := h.store.Defaults()
	if req.Settings != nil {
		var err error
		if settings, err = req.Settings.Apply(settings); err != nil {
			fail(ctx, span, logger, "evaluate", err, w)
			return
		}
	}

	session, err := NewSession(settings)
	if err != nil {
		fail(ctx, span, logger, "evaluate", err, w)
		return
	}

	resp, err := evaluate(ctx, span, logger, "evaluate", session, req.Equation)
	if err != nil {
		fail(ctx, span, logger, "evaluate", err, w)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// EvaluateInSession handles POST /calculator/sessions/{id}/evaluate.
func (h *Handler) EvaluateInSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "session.evaluate")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(ctx, span, logger, "session.evaluate", err, w)
		return
	}

	var resp EvaluateResponse
	err := h.store.With(id, func(s *Session) error {
		var err error
		resp, err = evaluate(ctx, span, logger.With(zap.String("session_id", id)), "session.evaluate", s, req.Equation)
		return err
	})
	if err != nil {
		fail(ctx, span, logger.With(zap.String("session_id", id)), "session.evaluate", err, w)
		return
	}

	resp.SessionID = id
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// evaluate runs one evaluation and records its metrics, span event and log.
func evaluate(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, s *Session, equation *string) (EvaluateResponse, error) {
	if equation != nil {
		span.SetAttributes(attribute.String("calculator.equation", *equation))
	}

	start := time.Now()
	result, err := s.EvaluateText(equation)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	if err != nil {
		return EvaluateResponse{}, err
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	last, _ := s.LastEquation()

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator evaluation completed",
		zap.String("operation", opName),
		zap.String("equation", last.Equation),
		zap.Float64("result", result),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	return EvaluateResponse{
		Equation:       last.Equation,
		Result:         result,
		Formatted:      last.Result,
		IntegerPart:    s.IntegerPart(),
		FractionalPart: s.FractionalPart(),
	}, nil
}

// Faculty handles GET /calculator/faculty/{n}.
func (h *Handler) Faculty(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "faculty")
	defer span.End()

	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		invalidRequest(ctx, span, logger, "faculty", err, w)
		return
	}

	result := Faculty(n)
	span.SetAttributes(
		attribute.Int("calculator.faculty.n", n),
		attribute.Int("calculator.result", result),
	)
	span.SetStatus(codes.Ok, "")
	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "faculty")))

	handlers.WriteJSON(w, http.StatusOK, FacultyResponse{N: n, Result: result})
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions. The body is optional.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "session.create")
	defer span.End()

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		invalidRequest(ctx, span, logger, "session.create", err, w)
		return
	}

	id, err := h.store.Create(req.Settings)
	if err != nil {
		fail(ctx, span, logger, "session.create", err, w)
		return
	}

	var resp SessionResponse
	_ = h.store.With(id, func(s *Session) error {
		resp = describe(id, s)
		return nil
	})

	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, resp)
}

// GetSession handles GET /calculator/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "session.get", func(id string, s *Session) (int, any, error) {
		return http.StatusOK, describe(id, s), nil
	})
}

// DeleteSession handles DELETE /calculator/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "session.delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	if err := h.store.Delete(id); err != nil {
		fail(ctx, span, logger, "session.delete", err, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /calculator/sessions/{id}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "session.history", func(id string, s *Session) (int, any, error) {
		return http.StatusOK, HistoryResponse{ID: id, History: s.History()}, nil
	})
}

// ClearHistory handles DELETE /calculator/sessions/{id}/history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "session.history.clear", func(_ string, s *Session) (int, any, error) {
		s.ClearHistory()
		return http.StatusNoContent, nil, nil
	})
}

// UpdateSettings handles PATCH /calculator/sessions/{id}/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch SettingsPatch
	decodeErr := json.NewDecoder(r.Body).Decode(&patch)

	h.withSession(w, r, "session.settings", func(id string, s *Session) (int, any, error) {
		if decodeErr != nil {
			return 0, nil, fmt.Errorf("%w: %v", errInvalidBody, decodeErr)
		}
		if err := s.ApplySettings(patch); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, describe(id, s), nil
	})
}

// withSession is the shared implementation for the session endpoints that
// only read or mutate a stored session. fn runs under the session lock; a
// nil body writes the bare status.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, opName string, fn func(id string, s *Session) (int, any, error)) {
	ctx, span, logger := startSpan(r, opName)
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))
	logger = logger.With(zap.String("session_id", id))

	var (
		status int
		body   any
	)
	err := h.store.With(id, func(s *Session) error {
		var err error
		status, body, err = fn(id, s)
		return err
	})
	if errors.Is(err, errInvalidBody) {
		invalidRequest(ctx, span, logger, opName, err, w)
		return
	}
	if err != nil {
		fail(ctx, span, logger, opName, err, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Debug("calculator session request completed",
		zap.String("operation", opName),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	if body == nil {
		w.WriteHeader(status)
		return
	}
	handlers.WriteJSON(w, status, body)
}

func describe(id string, s *Session) SessionResponse {
	last, _ := s.LastResult()
	return SessionResponse{
		ID:             id,
		Settings:       s.Settings(),
		CurrentResult:  s.CurrentResult(),
		IntegerPart:    s.IntegerPart(),
		FractionalPart: s.FractionalPart(),
		LastResult:     last,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var errInvalidBody = errors.New("invalid request body")

func startSpan(r *http.Request, opName string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator."+opName,
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

// fail reports a calculator error with the status of its kind.
func fail(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	kind := KindOf(err)
	msg := "calculator request failed"
	if opName == "evaluate" || opName == "session.evaluate" {
		msg = "calculator evaluation failed"
	}

	observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err,
		handlers.ErrorResponse{Error: err.Error(), Kind: string(kind), Code: CodeOf(err)},
		StatusFor(kind), w)
}

func invalidRequest(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err,
		handlers.ErrorResponse{Error: "invalid request body", Kind: string(KindInvalidRequest)},
		http.StatusBadRequest, w)
}
