package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/generate"
	"resumetric/internal/observability"
	"resumetric/internal/parser"
	"resumetric/internal/scoring"
	"resumetric/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// newOperationClient creates an AI client for one operation and wires its
// token usage into the metrics pipeline
func (s *Server) newOperationClient(cfg *config.OperationAIConfig, operation string, om *observability.ObservabilityManager) (*ai.Client, error) {
	client, err := ai.NewClient(cfg, operation, s.Logger)
	if err != nil {
		return nil, err
	}

	metrics := om.GetMetrics()
	client.SetUsageRecorder(func(ctx context.Context, op string, usage *ai.TokenUsage) {
		metrics.RecordTokenUsage(ctx, op, usage.InputTokens, usage.OutputTokens, usage.TotalTokens, om)
	})

	return client, nil
}

// createParseHandler wraps the parse handler with observability
func (s *Server) createParseHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumetric.api")
		ctx, span := tracer.Start(ctx, "api.parse")
		defer span.End()

		var req ParseRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if len(req.ResumeText) > int(s.MaxRequestSize) {
			err := fmt.Errorf("resume text too large: %d chars", len(req.ResumeText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume text too large", fmt.Sprintf("resumeText exceeds size limit of %d characters", s.MaxRequestSize), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "parse"),
		)

		parseConfig := s.AppConfig.GetParseConfig()
		client, err := s.newOperationClient(&parseConfig, "parse", om)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI client", err.Error(), http.StatusInternalServerError)
			return
		}
		defer func() { _ = client.Close() }()

		p := parser.New(client, &parseConfig, s.Logger)

		metrics := om.GetMetrics()
		var record types.ResumeRecord
		err = metrics.TrackAIOperation(ctx, "parse", func(ctx context.Context) error {
			var opErr error
			record, opErr = p.Parse(ctx, req.ResumeText)
			return opErr
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_parsed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to parse resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_parsed", true, om,
			attribute.Int("experience_entries", len(record.Experience)),
			attribute.Int("skills_count", len(record.Skills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.experience_entries", len(record.Experience)),
		)

		writeJSONResponse(w, span, record)
	}
}

// createScoreHandler wraps the score handler with observability
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumetric.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if len(req.ResumeText) > int(s.MaxRequestSize/2) || len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("request content too large")
			span.RecordError(err)
			writeErrorResponse(w, "Request content too large", fmt.Sprintf("resumeText and jobDescription must each stay under %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "score"),
		)

		scoreConfig := s.AppConfig.GetScoreConfig()
		client, err := s.newOperationClient(&scoreConfig, "score", om)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI client", err.Error(), http.StatusInternalServerError)
			return
		}
		defer func() { _ = client.Close() }()

		scorer := scoring.NewScorer(client, &scoreConfig, s.Logger)

		metrics := om.GetMetrics()
		var result types.AtsScoreResult
		_ = metrics.TrackAIOperation(ctx, "score", func(ctx context.Context) error {
			result = scorer.Score(ctx, req.ResumeText, req.JobDescription, nil)
			return nil
		}, om)

		metrics.RecordBusinessMetric(ctx, "score_computed", true, om,
			attribute.Float64("ats.score", result.AtsScore),
			attribute.Int("missing_keywords", len(result.MissingKeywords)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("ats.score", result.AtsScore),
		)

		writeJSONResponse(w, span, result)
	}
}

// createBulletsHandler wraps the bullets handler with observability
func (s *Server) createBulletsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumetric.api")
		ctx, span := tracer.Start(ctx, "api.bullets")
		defer span.End()

		var req BulletsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			err := fmt.Errorf("missing text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing text", "text field is required", http.StatusBadRequest)
			return
		}
		if req.SectionType == "" {
			req.SectionType = "experience"
		}

		span.SetAttributes(
			attribute.Int("request.text_length", len(req.Text)),
			attribute.String("request.section_type", req.SectionType),
			attribute.String("operation", "bullets"),
		)

		bulletsConfig := s.AppConfig.GetBulletsConfig()
		client, err := s.newOperationClient(&bulletsConfig, "bullets", om)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI client", err.Error(), http.StatusInternalServerError)
			return
		}
		defer func() { _ = client.Close() }()

		generator := generate.NewGenerator(client, &bulletsConfig, s.Logger)

		metrics := om.GetMetrics()
		var result types.BulletsOutput
		_ = metrics.TrackAIOperation(ctx, "bullets", func(ctx context.Context) error {
			result = generator.Bullets(ctx, req.Text, req.MissingKeywords, req.SectionType)
			return nil
		}, om)

		metrics.RecordBusinessMetric(ctx, "bullets_generated", true, om,
			attribute.String("section_type", result.SectionType))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.bullets_length", len(result.Bullets)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createRewriteHandler wraps the rewrite handler with observability
func (s *Server) createRewriteHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumetric.api")
		ctx, span := tracer.Start(ctx, "api.rewrite")
		defer span.End()

		var req RewriteRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			err := fmt.Errorf("missing text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing text", "text field is required", http.StatusBadRequest)
			return
		}
		if req.Tone == "" {
			req.Tone = "professional"
		}

		span.SetAttributes(
			attribute.Int("request.text_length", len(req.Text)),
			attribute.String("request.tone", req.Tone),
			attribute.String("operation", "rewrite"),
		)

		rewriteConfig := s.AppConfig.GetRewriteConfig()
		client, err := s.newOperationClient(&rewriteConfig, "rewrite", om)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI client", err.Error(), http.StatusInternalServerError)
			return
		}
		defer func() { _ = client.Close() }()

		rewriter := generate.NewRewriter(client, &rewriteConfig, s.Logger)

		metrics := om.GetMetrics()
		var result types.RewriteOutput
		_ = metrics.TrackAIOperation(ctx, "rewrite", func(ctx context.Context) error {
			result = rewriter.Rewrite(ctx, req.Text, req.Tone, req.MissingKeywords)
			return nil
		}, om)

		metrics.RecordBusinessMetric(ctx, "text_rewritten", true, om,
			attribute.String("tone", result.Tone),
			attribute.Int("output.rewritten_length", len(result.Rewritten)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.rewritten_length", len(result.Rewritten)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
