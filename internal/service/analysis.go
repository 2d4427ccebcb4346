package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"feasibility_analysis/internal/climate"
	"feasibility_analysis/internal/config"
	"feasibility_analysis/internal/logger"
	"feasibility_analysis/internal/methodology"
	"feasibility_analysis/internal/metrics"
	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/psychro"
	"feasibility_analysis/internal/repository"
)

// ErrInvalidRequest marks a request rejected before any computation.
var ErrInvalidRequest = eris.New("invalid analysis request")

const inlineLocation = "inline samples"

// DatasetLoader resolves a climate source to hourly samples.
type DatasetLoader interface {
	Load(ctx context.Context, src climate.Source) (climate.Dataset, error)
}

type AnalysisService struct {
	runRepo   repository.RunRepo
	eventRepo repository.EventRepo
	loader    DatasetLoader
	defaults  config.AnalysisConfig
	oracle    psychro.Oracle
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func NewAnalysisService(
	runRepo repository.RunRepo,
	eventRepo repository.EventRepo,
	loader DatasetLoader,
	defaults config.AnalysisConfig,
	oracle psychro.Oracle,
	m *metrics.Metrics,
	log *logger.Logger,
) *AnalysisService {
	if oracle == nil {
		oracle = psychro.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AnalysisService{
		runRepo:   runRepo,
		eventRepo: eventRepo,
		loader:    loader,
		defaults:  defaults,
		oracle:    oracle,
		metrics:   m,
		log:       log,
	}
}

// Evaluate runs the analysis synchronously.
func (s *AnalysisService) Evaluate(ctx context.Context, req models.AnalysisRequest) (*models.Report, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.execute(ctx, req)
}

// Submit stores the request as a pending run for the background runner.
func (s *AnalysisService) Submit(ctx context.Context, req models.AnalysisRequest, userID int) (models.Run, error) {
	if err := validateRequest(req); err != nil {
		return models.Run{}, err
	}
	now := time.Now().UTC()
	run := models.Run{
		ID:        uuid.NewString(),
		Status:    models.RunPending,
		Request:   req,
		CreatedBy: userID,
		CreatedAt: now,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return models.Run{}, err
	}
	if err := s.eventRepo.Append(ctx, models.RunEvent{
		EventID:     uuid.NewString(),
		RunID:       run.ID,
		OccurredAt:  now,
		Type:        models.EventQueued,
		Description: "Analysis queued for " + describeSource(req),
	}); err != nil {
		s.log.Warnw("event_append_failed", "run_id", run.ID, "type", models.EventQueued, "error", err)
	}
	s.log.Infow("run_queued", "run_id", run.ID, "user_id", userID)
	return run, nil
}

// validateRequest checks what can be checked without loading any data.
func validateRequest(req models.AnalysisRequest) error {
	if len(req.Samples) == 0 && strings.TrimSpace(req.Climate.Zone) == "" && strings.TrimSpace(req.Climate.File) == "" {
		return eris.Wrap(ErrInvalidRequest, "one of samples, climate.zone or climate.file is required")
	}
	if t := req.ComfortThreshold; t != nil && !(*t > 0 && *t <= 1) {
		return eris.Wrapf(ErrInvalidRequest, "comfort_threshold %g outside (0, 1]", *t)
	}
	for _, c := range req.Components {
		if _, err := methodology.ParseComponentType(c.Type); err != nil {
			return err
		}
	}
	return nil
}

func describeSource(req models.AnalysisRequest) string {
	switch {
	case len(req.Samples) > 0:
		return fmt.Sprintf("%d inline samples", len(req.Samples))
	case req.Climate.File != "":
		return req.Climate.File
	default:
		period := req.Climate.Period
		if period == "" {
			period = climate.DefaultPeriod
		}
		return req.Climate.Zone + " (" + period + ")"
	}
}

// execute loads the dataset, runs the classification and builds the report,
// recording the outcome in metrics.
func (s *AnalysisService) execute(ctx context.Context, req models.AnalysisRequest) (*models.Report, error) {
	start := time.Now()
	report, err := s.analyze(ctx, req)
	var hours map[string]int
	if report != nil {
		hours = make(map[string]int, len(report.Zones))
		for _, z := range report.Zones {
			hours[z.Mode] = z.Hours
		}
	}
	s.metrics.AnalysisDone(time.Since(start), hours, err)
	return report, err
}

func (s *AnalysisService) analyze(ctx context.Context, req models.AnalysisRequest) (*models.Report, error) {
	location, ds, err := s.dataset(ctx, req)
	if err != nil {
		return nil, err
	}
	set, err := s.components(req.Components)
	if err != nil {
		return nil, err
	}
	humidification := s.defaults.Humidification
	if req.Humidification != nil {
		humidification = *req.Humidification
	}
	threshold := s.defaults.ComfortThreshold
	if threshold <= 0 {
		threshold = methodology.DefaultComfortThreshold
	}
	if req.ComfortThreshold != nil {
		threshold = *req.ComfortThreshold
	}

	res, err := methodology.Analyze(ds, methodology.Config{
		Components:     set,
		Parameters:     s.parameters(req.Parameters),
		Defaults:       s.fallbacks(),
		Humidification: humidification,
		Oracle:         s.oracle,
	})
	if err != nil {
		return nil, err
	}
	for _, note := range res.Parameters.Notes {
		s.log.Infow("parameter_default", "location", location, "note", note)
	}
	rec, err := methodology.Recommend(res, threshold)
	if err != nil {
		return nil, err
	}
	return buildReport(location, set, humidification, threshold, res, rec, req.IncludeHours), nil
}

func (s *AnalysisService) dataset(ctx context.Context, req models.AnalysisRequest) (string, methodology.Dataset, error) {
	if len(req.Samples) > 0 {
		ds := make(methodology.Dataset, len(req.Samples))
		for i, sp := range req.Samples {
			ds[i] = methodology.Sample{T: sp.TDry, W: sp.W}
		}
		return inlineLocation, ds, nil
	}
	if s.loader == nil {
		return "", nil, eris.Wrap(ErrInvalidRequest, "no climate loader configured")
	}
	loaded, err := s.loader.Load(ctx, climate.Source{
		Zone:   req.Climate.Zone,
		Period: req.Climate.Period,
		File:   req.Climate.File,
	})
	if err != nil {
		return "", nil, err
	}
	if len(loaded.Samples) == 0 {
		return "", nil, eris.Wrapf(ErrInvalidRequest, "climate dataset %s is empty", loaded.Location)
	}
	return loaded.Location, loaded.Samples, nil
}

// components builds the set from the request, falling back to the configured
// installation and then to the nominal one.
func (s *AnalysisService) components(specs []models.ComponentSpec) (methodology.ComponentSet, error) {
	if len(specs) == 0 {
		for _, c := range s.defaults.Components {
			spec := models.ComponentSpec{Type: c.Type}
			if c.Efficiency > 0 {
				eff := c.Efficiency
				spec.Efficiency = &eff
			}
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		return methodology.DefaultComponentSet(), nil
	}
	components := make([]methodology.Component, 0, len(specs))
	for _, spec := range specs {
		t, err := methodology.ParseComponentType(spec.Type)
		if err != nil {
			return methodology.ComponentSet{}, err
		}
		eff := methodology.DefaultEfficiency(t)
		if spec.Efficiency != nil {
			eff = *spec.Efficiency
		}
		c, err := methodology.NewComponent(t, eff)
		if err != nil {
			return methodology.ComponentSet{}, err
		}
		components = append(components, c)
	}
	return methodology.NewComponentSet(components...)
}

// parameters carries the request values only. Whatever it leaves nil is
// filled by Resolve from fallbacks.
func (s *AnalysisService) parameters(spec models.ParameterSpec) methodology.Parameters {
	return methodology.Parameters{
		TSuMin: spec.TSuMin,
		TSuMax: spec.TSuMax,
		TReg:   spec.TReg,
		TIn:    spec.TIn,
		RHIn:   spec.RHIn,
		WIn:    spec.WIn,
		TWbIn:  spec.TWbIn,
	}
}

// fallbacks returns the configured defaults. Unset entries keep the nominal
// value; a configured zero is kept as zero.
func (s *AnalysisService) fallbacks() *methodology.Defaults {
	d := methodology.NominalDefaults()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.TSuMin, s.defaults.TSuMin)
	set(&d.TSuMax, s.defaults.TSuMax)
	set(&d.TReg, s.defaults.TReg)
	set(&d.TIn, s.defaults.TIn)
	set(&d.RHIn, s.defaults.RHIn)
	return &d
}

func buildReport(location string, set methodology.ComponentSet, humidification bool, threshold float64,
	res methodology.Result, rec methodology.Recommendation, includeHours bool) *models.Report {
	report := &models.Report{
		Location:       location,
		Hours:          res.Hours,
		Humidification: humidification,
		Parameters: models.ResolvedParameters{
			TSuMin: res.Parameters.TSuMin,
			TSuMax: res.Parameters.TSuMax,
			TReg:   res.Parameters.TReg,
			TIn:    res.Parameters.TIn,
			RHIn:   res.Parameters.RHIn,
			WIn:    res.Parameters.WIn,
			TWbIn:  res.Parameters.TWbIn,
		},
		Notes: res.Parameters.Notes,
	}
	for _, c := range set.Components() {
		report.Components = append(report.Components, models.ComponentReport{Type: string(c.Type()), Efficiency: c.Efficiency()})
	}
	for _, z := range res.Zones {
		zr := models.ZoneReport{
			Mode:      z.Mode.String(),
			Hours:     z.Count(),
			Equipment: componentNames(z.Mode.Equipment()),
		}
		if res.Hours > 0 {
			zr.Share = float64(zr.Hours) / float64(res.Hours)
		}
		if includeHours {
			zr.Indices = append([]int(nil), z.Hours...)
		}
		report.Zones = append(report.Zones, zr)
	}
	for _, b := range res.Boundaries {
		report.Boundaries = append(report.Boundaries, boundaryReport(b))
	}
	report.Recommendation = models.Recommendation{
		Mode:          rec.Mode.String(),
		Components:    componentNames(rec.Components),
		ComfortHours:  rec.ComfortHours,
		Share:         rec.Share,
		Threshold:     threshold,
		ActiveCooling: rec.ActiveCooling,
		Message:       recommendationMessage(rec),
	}
	return report
}

func boundaryReport(b methodology.ModeBoundary) models.BoundaryReport {
	out := models.BoundaryReport{
		Mode:   b.Mode.String(),
		Legend: b.Legend,
		Line:   b.Line.String(),
		Ref:    [2][2]float64{{b.Ref[0].T, b.Ref[0].W}, {b.Ref[1].T, b.Ref[1].W}},
	}
	if t, ok := b.Line.Threshold(); ok {
		out.Threshold = &t
	}
	if slope, intercept, ok := b.Line.Coefficients(); ok {
		out.Slope, out.Intercept = &slope, &intercept
	}
	return out
}

func componentNames(ts []methodology.ComponentType) []string {
	if len(ts) == 0 {
		return nil
	}
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

func recommendationMessage(rec methodology.Recommendation) string {
	pct := rec.Share * 100
	if rec.ActiveCooling {
		return fmt.Sprintf("Active cooling required: passive modes cannot reach the comfort threshold (%.1f%% of hours covered only with active cooling)", pct)
	}
	if len(rec.Components) == 0 {
		return fmt.Sprintf("%s covers %.1f%% of hours without evaporative or desiccant components", rec.Mode, pct)
	}
	return fmt.Sprintf("%s covers %.1f%% of hours with %s", rec.Mode, pct, strings.Join(componentNames(rec.Components), ", "))
}

// IsInvalidInput reports whether err was caused by the request rather than by
// a failure while computing.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		methodology.IsConfigError(err) ||
		errors.Is(err, climate.ErrUnknownZone) ||
		errors.Is(err, climate.ErrUnknownPeriod) ||
		errors.Is(err, climate.ErrMissingColumn) ||
		errors.Is(err, climate.ErrInvalidValue)
}

// IsUnprocessable reports whether the inputs were accepted but lead to a
// degenerate psychrometric construction.
func IsUnprocessable(err error) bool {
	return errors.Is(err, methodology.ErrInvalidGeometry) ||
		errors.Is(err, methodology.ErrNoConvergence) ||
		errors.Is(err, methodology.ErrOracle) ||
		errors.Is(err, psychro.ErrOutOfRange)
}
