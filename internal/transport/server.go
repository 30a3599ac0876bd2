package transport

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/eval"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/logging"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// Method labels used in metrics and the audit log.
const (
	LabelPredictJourney           = "predict_journey"
	LabelAccommodationProgression = "accommodation_progression"
	LabelAnalyze                  = "analyze"
)

const (
	resultOK       = "ok"
	resultEvalFail = "eval_fail"
	resultInvalid  = "invalid_argument"
	resultError    = "error"
)

// #region server-struct
// Server implements JourneyServiceServer on top of a shared Engine.
type Server struct {
	engine        *journey.Engine
	harness       *eval.EvalHarness
	logger        *zap.Logger
	metrics       *Metrics
	auditDB       *sql.DB
	paramsVersion string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records request metrics on m.
func WithMetrics(m *Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithAuditLog writes one inference_log row per successful request. paramsVersion tags
// each row with the active parameter version.
func WithAuditLog(db *sql.DB, paramsVersion string) ServerOption {
	return func(s *Server) {
		s.auditDB = db
		s.paramsVersion = paramsVersion
	}
}

// WithEvalConfig overrides the default eval bounds.
func WithEvalConfig(cfg eval.EvalConfig) ServerOption {
	return func(s *Server) { s.harness = eval.NewEvalHarness(cfg, s.engine.Params()) }
}

// NewServer creates a server around engine.
func NewServer(engine *journey.Engine, opts ...ServerOption) *Server {
	s := &Server{
		engine:  engine,
		harness: eval.NewEvalHarness(eval.DefaultEvalConfig(), engine.Params()),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds the journey service and a health service to gs and marks both serving.
func (s *Server) Register(gs grpc.ServiceRegistrar) *health.Server {
	RegisterJourneyServiceServer(gs, s)
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return hs
}

// #endregion server-struct

// #region methods
// PredictJourney returns the journey map for the request profile.
func (s *Server) PredictJourney(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.handle(ctx, LabelPredictJourney, req, func(p profile.Profile) (outcome, error) {
		jm, err := s.engine.PredictJourney(p)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			result:     jm,
			path:       jm.OptimalPath,
			confidence: jm.PathConfidence,
			eval:       s.harness.Run(jm, nil),
		}, nil
	})
}

// AccommodationProgression returns the accommodation progression for the request profile.
func (s *Server) AccommodationProgression(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.handle(ctx, LabelAccommodationProgression, req, func(p profile.Profile) (outcome, error) {
		res, err := s.engine.Decode(p)
		if err != nil {
			return outcome{}, err
		}
		prog := journey.BuildProgression(p, res.Confidence)
		return outcome{
			result:     prog,
			path:       res.Stages,
			confidence: res.Confidence,
			eval:       s.harness.RunProgression(prog),
		}, nil
	})
}

// Analyze returns the full analysis for the request profile.
func (s *Server) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.handle(ctx, LabelAnalyze, req, func(p profile.Profile) (outcome, error) {
		a, err := s.engine.Analyze(p)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			result:     a,
			path:       a.JourneyMap.OptimalPath,
			confidence: a.JourneyMap.PathConfidence,
			eval:       s.harness.Run(a.JourneyMap, &a.AccommodationProgression),
		}, nil
	})
}

// #endregion methods

// #region pipeline
type outcome struct {
	result     any
	path       []string
	confidence float64
	eval       eval.EvalResult
}

func (s *Server) handle(ctx context.Context, method string, req *structpb.Struct, run func(profile.Profile) (outcome, error)) (*structpb.Struct, error) {
	start := time.Now()

	p, err := ProfileFromStruct(req)
	if err != nil {
		s.metrics.observe(method, resultInvalid, time.Since(start))
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", method, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	out, err := run(p)
	if err != nil {
		s.metrics.observe(method, resultError, time.Since(start))
		s.logger.Error("inference failed", zap.String("method", method), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s: %v", method, err)
	}

	resp, err := ToStruct(out.result)
	if err != nil {
		s.metrics.observe(method, resultError, time.Since(start))
		s.logger.Error("encode response", zap.String("method", method), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s: %v", method, err)
	}

	result := resultOK
	if !out.eval.Passed {
		result = resultEvalFail
		s.logger.Warn("eval failed", zap.String("method", method), zap.String("reason", out.eval.Reason))
	}
	s.audit(method, p, out)
	s.metrics.observe(method, result, time.Since(start))
	s.metrics.observeConfidence(out.confidence)

	s.logger.Info("inference",
		zap.String("method", method),
		zap.Strings("path", out.path),
		zap.Float64("confidence", out.confidence),
		zap.Bool("eval_passed", out.eval.Passed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func (s *Server) audit(method string, p profile.Profile, out outcome) {
	if s.auditDB == nil {
		return
	}
	err := logging.LogInference(s.auditDB, logging.InferenceEntry{
		ParamsVersion: s.paramsVersion,
		Method:        method,
		ProfileHash:   logging.ProfileHash(p),
		Path:          out.path,
		Confidence:    out.confidence,
		EvalPassed:    out.eval.Passed,
		Reason:        out.eval.Reason,
	})
	if err != nil {
		s.logger.Warn("audit log write failed", zap.String("method", method), zap.Error(err))
	}
}

// #endregion pipeline
