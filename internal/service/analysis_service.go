package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"legal-insight-be/internal/config"
	"legal-insight-be/internal/dto"
	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/pkg/logger"
	"legal-insight-be/internal/repository/specification"
	"legal-insight-be/internal/repository/unitofwork"
	"legal-insight-be/pkg/analytics/insight"
	"legal-insight-be/pkg/analytics/kmeans"
	"legal-insight-be/pkg/analytics/outlier"
	"legal-insight-be/pkg/analytics/projection"
	"legal-insight-be/pkg/analytics/vectormath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const analysisModule = "ANALYSIS"

var (
	ErrEmptyCorpus         = errors.New("corpus has no clauses")
	ErrMalformedEmbedding  = errors.New("malformed embedding")
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
	ErrNoAnalysisResult    = errors.New("no analysis result yet")
	ErrRunNotFound         = errors.New("analysis run not found")
)

type IAnalysisService interface {
	RunFullAnalysis(ctx context.Context) (*dto.AnalysisRunResponse, error)
	GetLatest(ctx context.Context) ([]*dto.AnalysisResultResponse, error)
	GetLatestByType(ctx context.Context, analysisType string) (*dto.AnalysisResultResponse, error)
	GetRun(ctx context.Context, runId uuid.UUID) ([]*dto.AnalysisResultResponse, error)
}

// ResultCache holds the latest results between runs. Implemented by memory.AnalysisCache.
type ResultCache interface {
	GetLatest() ([]*entity.AnalysisResult, bool)
	SetLatest(results []*entity.AnalysisResult)
	GetLatestByType(analysisType string) (*entity.AnalysisResult, bool)
	SetLatestByType(result *entity.AnalysisResult)
	Flush()
}

// RandSource hands every run its own generator.
type RandSource func() *rand.Rand

// SeededRandSource returns the same sequence on every run when seed is non-zero and
// a clock-seeded generator otherwise.
func SeededRandSource(seed int64) RandSource {
	return func() *rand.Rand {
		if seed != 0 {
			return rand.New(rand.NewSource(seed))
		}
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

type analysisService struct {
	uowFactory      unitofwork.RepositoryFactory
	cache           ResultCache
	logger          logger.ILogger
	tracer          trace.Tracer
	randSource      RandSource
	maxIterations   int
	powerIterations int
	retentionRuns   int
}

func NewAnalysisService(
	uowFactory unitofwork.RepositoryFactory,
	cache ResultCache,
	log logger.ILogger,
	cfg config.AnalysisConfig,
) IAnalysisService {
	return &analysisService{
		uowFactory:      uowFactory,
		cache:           cache,
		logger:          log,
		tracer:          otel.Tracer("legal-insight-be/analysis"),
		randSource:      SeededRandSource(cfg.Seed),
		maxIterations:   cfg.MaxIterations,
		powerIterations: cfg.PowerIterations,
		retentionRuns:   cfg.RetentionRuns,
	}
}

// corpus is the validated input of one run. Vectors are index-aligned with the records.
type corpus struct {
	clauses          []*entity.Clause
	agreements       []*entity.Agreement
	clauseVectors    [][]float64
	agreementVectors [][]float64
}

// computation is everything a run derives before it is written back.
type computation struct {
	k               int
	clusters        kmeans.Result
	outliers        outlier.Report
	clauseCoords    projection.Coordinates
	agreementCoords projection.Coordinates
	clustersData    insight.ClustersData
	similarityData  insight.SimilarityMatrixData
	outliersData    insight.OutliersData
	riskData        insight.RiskAnalysisData
	insightsData    insight.InsightsData
}

func (s *analysisService) RunFullAnalysis(ctx context.Context) (*dto.AnalysisRunResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.run")
	defer span.End()

	started := time.Now()
	res, err := s.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(analysisModule, "Analysis run failed", map[string]interface{}{
			"error":       err.Error(),
			"duration_ms": time.Since(started).Milliseconds(),
		})
		return nil, err
	}

	res.DurationMs = time.Since(started).Milliseconds()
	span.SetAttributes(
		attribute.String("analysis.run_id", res.RunId.String()),
		attribute.Int("analysis.k", res.K),
		attribute.Int("analysis.clauses", res.ClauseCount),
		attribute.Int("analysis.outliers", res.OutlierCount),
	)
	s.logger.Info(analysisModule, "Analysis run finished", map[string]interface{}{
		"run_id":      res.RunId.String(),
		"k":           res.K,
		"clauses":     res.ClauseCount,
		"agreements":  res.AgreementCount,
		"outliers":    res.OutlierCount,
		"iterations":  res.Iterations,
		"converged":   res.Converged,
		"duration_ms": res.DurationMs,
	})
	return res, nil
}

func (s *analysisService) run(ctx context.Context) (*dto.AnalysisRunResponse, error) {
	c, err := s.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	comp, err := s.compute(ctx, c)
	if err != nil {
		return nil, err
	}

	runId := uuid.New()
	results, err := buildResults(runId, comp)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, c, comp, results); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Flush()
	}

	return &dto.AnalysisRunResponse{
		RunId:          runId,
		K:              comp.k,
		ClauseCount:    len(c.clauses),
		AgreementCount: len(c.agreements),
		OutlierCount:   len(comp.outliersData.Outliers),
		Iterations:     comp.clusters.Iterations,
		Converged:      comp.clusters.Converged,
	}, nil
}

func (s *analysisService) loadCorpus(ctx context.Context) (*corpus, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.load")
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	clauses, err := uow.ClauseRepository().FindAll(ctx, specification.CorpusOrder{Table: "clauses"})
	if err != nil {
		return nil, fmt.Errorf("failed to load clauses: %w", err)
	}
	if len(clauses) == 0 {
		return nil, ErrEmptyCorpus
	}

	agreements, err := uow.AgreementRepository().FindAll(ctx, specification.CorpusOrder{Table: "agreements"})
	if err != nil {
		return nil, fmt.Errorf("failed to load agreements: %w", err)
	}

	dim := len(clauses[0].Embedding)
	if dim == 0 {
		return nil, fmt.Errorf("%w: clause %s has no embedding", ErrMalformedEmbedding, clauses[0].Id)
	}

	c := &corpus{
		clauses:          clauses,
		agreements:       agreements,
		clauseVectors:    make([][]float64, len(clauses)),
		agreementVectors: make([][]float64, len(agreements)),
	}
	for i, cl := range clauses {
		if len(cl.Embedding) != dim {
			return nil, fmt.Errorf("%w: clause %s has %d dimensions, want %d", ErrMalformedEmbedding, cl.Id, len(cl.Embedding), dim)
		}
		c.clauseVectors[i] = vectormath.ToFloat64(cl.Embedding)
	}
	for i, a := range agreements {
		if len(a.Embedding) != dim {
			return nil, fmt.Errorf("%w: agreement %s has %d dimensions, want %d", ErrMalformedEmbedding, a.Id, len(a.Embedding), dim)
		}
		c.agreementVectors[i] = vectormath.ToFloat64(a.Embedding)
	}

	span.SetAttributes(
		attribute.Int("analysis.clauses", len(clauses)),
		attribute.Int("analysis.agreements", len(agreements)),
		attribute.Int("analysis.dimensions", dim),
	)
	return c, nil
}

func (s *analysisService) compute(ctx context.Context, c *corpus) (*computation, error) {
	_, span := s.tracer.Start(ctx, "analysis.compute")
	defer span.End()

	rng := s.randSource()
	comp := &computation{k: insight.ChooseK(len(c.clauses))}

	comp.clusters = kmeans.Cluster(c.clauseVectors, comp.k,
		kmeans.WithMaxIterations(s.maxIterations),
		kmeans.WithRand(rng),
	)
	if !comp.clusters.Converged {
		s.logger.Warn(analysisModule, "k-means stopped before convergence", map[string]interface{}{
			"k":          comp.k,
			"iterations": comp.clusters.Iterations,
		})
	}

	report, err := outlier.Score(c.clauseVectors, comp.clusters.Assignments, comp.clusters.Centroids)
	if err != nil {
		return nil, fmt.Errorf("failed to score outliers: %w", err)
	}
	comp.outliers = report

	comp.clauseCoords = projection.PCA2D(c.clauseVectors,
		projection.WithIterations(s.powerIterations),
		projection.WithRand(rng),
	)
	comp.agreementCoords = projection.PCA2D(c.agreementVectors,
		projection.WithIterations(s.powerIterations),
		projection.WithRand(rng),
	)

	clauses := toInsightClauses(c.clauses)
	agreements := toInsightAgreements(c.agreements)
	matrix := insight.SimilarityMatrix(c.agreementVectors)

	summaries := insight.SummarizeClusters(clauses, comp.clusters.Assignments)
	comp.clustersData = insight.ClustersData{K: comp.k, Clusters: summaries}
	comp.similarityData = insight.BuildSimilarityData(agreements, matrix)
	comp.outliersData = insight.BuildOutliers(clauses, comp.clusters.Assignments, report)
	comp.riskData = insight.BuildRiskAnalysis(clauses, agreements)
	comp.insightsData = insight.InsightsData{Insights: insight.Derive(insight.Input{
		Clauses:    clauses,
		Agreements: agreements,
		Similarity: matrix,
		Clusters:   summaries,
		Outliers:   comp.outliersData,
		Risk:       comp.riskData,
	})}

	span.SetAttributes(
		attribute.Int("analysis.k", comp.k),
		attribute.Int("analysis.iterations", comp.clusters.Iterations),
		attribute.Float64("analysis.outlier_threshold", report.Threshold),
	)
	return comp, nil
}

func (s *analysisService) persist(ctx context.Context, c *corpus, comp *computation, results []*entity.AnalysisResult) error {
	ctx, span := s.tracer.Start(ctx, "analysis.persist")
	defer span.End()

	clausePatches := make([]entity.ClausePatch, len(c.clauses))
	for i, cl := range c.clauses {
		clausePatches[i] = entity.ClausePatch{
			Id:           cl.Id,
			X:            comp.clauseCoords.X[i],
			Y:            comp.clauseCoords.Y[i],
			ClusterId:    comp.clusters.Assignments[i],
			IsOutlier:    comp.outliers.Flags[i],
			OutlierScore: comp.outliers.Scores[i],
		}
	}

	agreementPatches := make([]entity.AgreementPatch, len(c.agreements))
	for i, a := range c.agreements {
		agreementPatches[i] = entity.AgreementPatch{
			Id: a.Id,
			X:  comp.agreementCoords.X[i],
			Y:  comp.agreementCoords.Y[i],
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ClauseRepository().ApplyAnalysis(ctx, clausePatches); err != nil {
		return err
	}
	if err := uow.AgreementRepository().ApplyProjection(ctx, agreementPatches); err != nil {
		return err
	}
	if err := uow.AnalysisResultRepository().CreateBulk(ctx, results); err != nil {
		return fmt.Errorf("failed to store analysis results: %w", err)
	}

	if s.retentionRuns > 0 {
		pruned, err := uow.AnalysisResultRepository().PruneRuns(ctx, s.retentionRuns)
		if err != nil {
			return fmt.Errorf("failed to prune analysis runs: %w", err)
		}
		if pruned > 0 {
			s.logger.Debug(analysisModule, "Pruned old analysis results", map[string]interface{}{"rows": pruned})
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit analysis run: %w", err)
	}
	return nil
}

func (s *analysisService) GetLatest(ctx context.Context) ([]*dto.AnalysisResultResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetLatest(); ok {
			return toResultResponses(cached), nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	results, err := uow.AnalysisResultRepository().LatestPerType(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(results) > 0 {
		s.cache.SetLatest(results)
	}
	return toResultResponses(results), nil
}

func (s *analysisService) GetLatestByType(ctx context.Context, analysisType string) (*dto.AnalysisResultResponse, error) {
	if !entity.IsAnalysisType(analysisType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysisType, analysisType)
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetLatestByType(analysisType); ok {
			return toResultResponse(cached), nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := uow.AnalysisResultRepository().LatestByType(ctx, analysisType)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNoAnalysisResult
	}

	if s.cache != nil {
		s.cache.SetLatestByType(result)
	}
	return toResultResponse(result), nil
}

func (s *analysisService) GetRun(ctx context.Context, runId uuid.UUID) ([]*dto.AnalysisResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	results, err := uow.AnalysisResultRepository().FindAll(ctx,
		specification.ByRunID{RunID: runId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrRunNotFound
	}
	return toResultResponses(sortByAnalysisType(results)), nil
}

func buildResults(runId uuid.UUID, comp *computation) ([]*entity.AnalysisResult, error) {
	type row struct {
		analysisType string
		title        string
		description  string
		data         interface{}
	}

	rows := []row{
		{
			entity.AnalysisTypeClusters,
			"Clause clusters",
			fmt.Sprintf("%d clause groups found by semantic similarity", len(comp.clustersData.Clusters)),
			comp.clustersData,
		},
		{
			entity.AnalysisTypeSimilarityMatrix,
			"Agreement similarity",
			fmt.Sprintf("Pairwise cosine similarity between %d agreements", len(comp.similarityData.Labels)),
			comp.similarityData,
		},
		{
			entity.AnalysisTypeOutliers,
			"Unusual clauses",
			fmt.Sprintf("%d clauses deviate from their cluster by more than %.4f", len(comp.outliersData.Outliers), comp.outliersData.Threshold),
			comp.outliersData,
		},
		{
			entity.AnalysisTypeInsights,
			"Portfolio insights",
			fmt.Sprintf("%d findings across the clause corpus", len(comp.insightsData.Insights)),
			comp.insightsData,
		},
		{
			entity.AnalysisTypeRiskAnalysis,
			"Risk breakdown",
			fmt.Sprintf("Risk and favorability of %d clauses by agreement and clause type", comp.riskData.Overall.Total),
			comp.riskData,
		},
	}

	results := make([]*entity.AnalysisResult, len(rows))
	for i, r := range rows {
		data, err := json.Marshal(r.data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", r.analysisType, err)
		}
		results[i] = &entity.AnalysisResult{
			Id:           uuid.New(),
			RunId:        runId,
			AnalysisType: r.analysisType,
			Title:        r.title,
			Description:  r.description,
			Data:         data,
		}
	}
	return results, nil
}

func toInsightClauses(clauses []*entity.Clause) []insight.Clause {
	out := make([]insight.Clause, len(clauses))
	for i, c := range clauses {
		out[i] = insight.Clause{
			ID:            c.Id.String(),
			AgreementID:   c.AgreementId.String(),
			AgreementName: c.AgreementName,
			ClauseType:    c.ClauseType,
			Title:         c.Title,
			RiskLevel:     c.RiskLevel,
			Favorability:  c.Favorability,
		}
	}
	return out
}

func toInsightAgreements(agreements []*entity.Agreement) []insight.Agreement {
	out := make([]insight.Agreement, len(agreements))
	for i, a := range agreements {
		out[i] = insight.Agreement{
			ID:       a.Id.String(),
			Name:     a.Name,
			Provider: a.Provider,
		}
	}
	return out
}

func sortByAnalysisType(results []*entity.AnalysisResult) []*entity.AnalysisResult {
	sorted := make([]*entity.AnalysisResult, 0, len(results))
	for _, t := range entity.AnalysisTypes {
		for _, r := range results {
			if r.AnalysisType == t {
				sorted = append(sorted, r)
			}
		}
	}
	return sorted
}

func toResultResponse(r *entity.AnalysisResult) *dto.AnalysisResultResponse {
	return &dto.AnalysisResultResponse{
		Id:           r.Id,
		RunId:        r.RunId,
		AnalysisType: r.AnalysisType,
		Title:        r.Title,
		Description:  r.Description,
		Data:         r.Data,
		CreatedAt:    r.CreatedAt,
	}
}

func toResultResponses(results []*entity.AnalysisResult) []*dto.AnalysisResultResponse {
	out := make([]*dto.AnalysisResultResponse, len(results))
	for i, r := range results {
		out[i] = toResultResponse(r)
	}
	return out
}
