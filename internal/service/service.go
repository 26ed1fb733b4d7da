package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/database"
	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/compositor"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/fetcher"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/kafka"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/metrics"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/quote"
	"github.com/google/uuid"
)

const (
	RouteDefault = "/"
	RoutePreset  = "/discosolaris"
)

type RenderService interface {
	Render(ctx context.Context, route string, req entity.RenderRequest) (*entity.RenderResult, error)
}

type PresetService interface {
	Render(ctx context.Context) (*entity.RenderResult, error)
}

type renderService struct {
	repo       database.AssetRepository
	fetcher    fetcher.Fetcher
	compositor compositor.Compositor
	producer   kafka.Producer
	metrics    *metrics.Metrics
	newID      func() string
}

func NewRenderService(repo database.AssetRepository, fetcher fetcher.Fetcher, compositor compositor.Compositor,
	producer kafka.Producer, metrics *metrics.Metrics) RenderService {
	return &renderService{
		repo:       repo,
		fetcher:    fetcher,
		compositor: compositor,
		producer:   producer,
		metrics:    metrics,
		newID:      uuid.NewString,
	}
}

// Preset is the fixed parameter set of the preset route.
type Preset struct {
	Background   string
	Logo         string
	Overlay      string
	TextColor    string
	DateLayout   string
	FallbackText string
}

type presetService struct {
	render  RenderService
	quotes  quote.Client
	preset  Preset
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPresetService(render RenderService, quotes quote.Client, preset Preset, metrics *metrics.Metrics) PresetService {
	return &presetService{
		render:  render,
		quotes:  quotes,
		preset:  preset,
		metrics: metrics,
		now:     time.Now,
	}
}
