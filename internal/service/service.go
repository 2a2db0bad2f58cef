package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/climate-trends-service/internal/dataset"
	"github.com/kjstillabower/climate-trends-service/internal/models"
	"github.com/kjstillabower/climate-trends-service/internal/noise"
	"github.com/kjstillabower/climate-trends-service/internal/observability"
	"github.com/kjstillabower/climate-trends-service/internal/stats"
	"github.com/kjstillabower/climate-trends-service/internal/synth"
	"github.com/kjstillabower/climate-trends-service/internal/validation"
)

// WeatherDataService turns a location query into a WeatherResponse: resolve file, load
// table, normalize columns, compute stats, synthesize daily series. Every call reads the
// file fresh; nothing is cached between requests.
type WeatherDataService struct {
	resolver *dataset.Resolver
	gauss    *noise.Gaussian
	daily    *synth.Synthesizer
}

// NewWeatherDataService creates a service reading datasets through resolver and drawing
// synthetic noise from g (nil for unseeded randomness).
func NewWeatherDataService(resolver *dataset.Resolver, g *noise.Gaussian) *WeatherDataService {
	return &WeatherDataService{
		resolver: resolver,
		gauss:    g,
		daily:    synth.New(g),
	}
}

// GetWeatherData runs the full pipeline for q. Errors matching dataset.ErrNotFound mean no
// dataset exists for the city; any other error is a processing failure.
func (s *WeatherDataService) GetWeatherData(ctx context.Context, q validation.Query) (models.WeatherResponse, error) {
	logger := observability.LoggerFromContext(ctx).With(zap.String("city", q.City), zap.String("state", q.State))

	res, err := s.resolver.Resolve(q.City)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			observability.RecordResolution(observability.ResolutionMiss)
		}
		return models.WeatherResponse{}, err
	}
	if res.Fuzzy {
		observability.RecordResolution(observability.ResolutionFuzzy)
		logger.Info("exact dataset missing, using similar file", zap.String("key", res.Key), zap.String("path", res.Path))
	} else {
		observability.RecordResolution(observability.ResolutionExact)
	}

	if err := ctx.Err(); err != nil {
		return models.WeatherResponse{}, err
	}

	start := time.Now()
	table, err := s.loadTable(res.Path, logger)
	observability.RecordDatasetLoad(time.Since(start), err == nil)
	if err != nil {
		return models.WeatherResponse{}, err
	}

	summary, err := stats.Summarize(table.Years, table.Temperatures)
	if err != nil {
		return models.WeatherResponse{}, fmt.Errorf("summarize %s: %w", res.Key, err)
	}

	resp := models.WeatherResponse{
		Location: models.Location{State: q.State, City: q.City},
		Years:    table.Years,
		Temperature: models.TemperatureBlock{
			Yearly: table.Temperatures,
			Avg:    summary.Avg,
			Min:    summary.Min,
			Max:    summary.Max,
			Trend:  summary.Trend,
			Daily:  s.daily.Daily(table.Temperatures),
		},
	}
	logger.Debug("weather data served",
		zap.String("path", res.Path),
		zap.Int("years", len(table.Years)),
		zap.Int("rows", len(table.Temperatures)),
		zap.Duration("duration", time.Since(start)))
	return resp, nil
}

func (s *WeatherDataService) loadTable(path string, logger *zap.Logger) (dataset.Table, error) {
	logger.Debug("reading dataset", zap.String("path", path))
	df, err := dataset.Load(path)
	if err != nil {
		return dataset.Table{}, err
	}
	logger.Debug("dataset columns", zap.Strings("columns", df.Names()))

	table, err := dataset.Normalize(df, s.gauss)
	if err != nil {
		return dataset.Table{}, err
	}
	if table.YearsSynthesized {
		observability.RecordSyntheticColumn("year")
		logger.Info("Year column not found, using 1970-2020",
			zap.Int("rows", len(table.Temperatures)))
	}
	switch table.TemperatureSource {
	case dataset.TemperatureColumn:
	case "":
		observability.RecordSyntheticColumn("temperature")
		logger.Info("no numeric columns, synthesizing temperatures")
	default:
		observability.RecordSyntheticColumn("temperature_fallback")
		logger.Info("Temperature column not found, using first numeric column",
			zap.String("column", table.TemperatureSource))
	}
	return table, nil
}

// Cities lists the dataset keys available in the data directory.
func (s *WeatherDataService) Cities(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.resolver.Cities()
}
