package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/compositor"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// renderState is threaded through the pipeline stages of one request.
type renderState struct {
	route    string
	req      entity.RenderRequest
	id       string
	color    color.NRGBA
	acquired []string
	result   *entity.RenderResult
	log      *logrus.Entry
}

type stage struct {
	name string
	run  func(ctx context.Context, st *renderState) error
}

func (s *renderService) stages() []stage {
	return []stage{
		{name: "validate", run: s.validate},
		{name: "identify", run: s.identify},
		{name: "download " + entity.RoleBackground, run: s.download(entity.RoleBackground)},
		{name: "download " + entity.RoleLogo, run: s.download(entity.RoleLogo)},
		{name: "download " + entity.RoleOverlay, run: s.download(entity.RoleOverlay)},
		{name: "compose", run: s.compose},
	}
}

// Render runs the stages in order and stops at the first failure. Every
// temporary asset acquired along the way is removed before returning.
func (s *renderService) Render(ctx context.Context, route string, req entity.RenderRequest) (*entity.RenderResult, error) {
	start := time.Now()
	st := &renderState{
		route: route,
		req:   req,
		log:   logrus.WithField("route", route),
	}
	defer s.release(st)

	for _, stg := range s.stages() {
		if err := stg.run(ctx, st); err != nil {
			st.log.WithError(err).WithField("stage", stg.name).Warn("render failed")
			s.metrics.ObserveRender(route, outcomeOf(err), time.Since(start))
			return nil, err
		}
	}

	elapsed := time.Since(start)
	s.metrics.ObserveRender(route, metrics.OutcomeSuccess, elapsed)
	st.log.WithFields(logrus.Fields{
		"width":    st.result.Width,
		"height":   st.result.Height,
		"lines":    len(st.result.Lines),
		"bytes":    len(st.result.PNG),
		"duration": elapsed,
	}).Info("render completed")

	event := entity.RenderEvent{
		RequestID:  st.id,
		Route:      route,
		Width:      st.result.Width,
		Height:     st.result.Height,
		Lines:      len(st.result.Lines),
		Bytes:      len(st.result.PNG),
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.producer.SendMessage(ctx, st.id, event); err != nil {
		st.log.WithError(err).Error("failed to publish render event")
	}

	return st.result, nil
}

func (s *renderService) validate(_ context.Context, st *renderState) error {
	required := []struct {
		field string
		value string
	}{
		{field: entity.RoleBackground, value: st.req.Background},
		{field: entity.RoleLogo, value: st.req.Logo},
		{field: "text", value: st.req.Text},
		{field: entity.RoleOverlay, value: st.req.Overlay},
	}
	for _, r := range required {
		if r.value == "" {
			return &entity.MissingFieldError{Field: r.field}
		}
	}

	c, ok := compositor.ResolveTextColor(st.req.TextColor)
	if !ok {
		st.log.WithField("text_color", st.req.TextColor).Warn("invalid text color, using default")
	}
	st.color = c
	return nil
}

func (s *renderService) identify(_ context.Context, st *renderState) error {
	st.id = s.newID()
	st.log = st.log.WithField("request_id", st.id)
	return nil
}

func (s *renderService) download(role string) func(ctx context.Context, st *renderState) error {
	return func(ctx context.Context, st *renderState) error {
		st.acquired = append(st.acquired, role)

		body, err := s.fetcher.Fetch(ctx, role, st.req.URL(role))
		if err != nil {
			return err
		}
		defer body.Close()

		n, err := s.repo.Save(st.id, role, body)
		s.metrics.AddDownloadBytes(role, n)
		if err != nil {
			var te *entity.TransportError
			if errors.As(err, &te) {
				return te
			}
			return &entity.TransportError{Role: role, Err: err}
		}

		st.log.WithFields(logrus.Fields{"role": role, "bytes": n}).Debug("asset downloaded")
		return nil
	}
}

func (s *renderService) compose(_ context.Context, st *renderState) error {
	decoded := make(map[string]image.Image, len(entity.AssetRoles))
	for _, role := range entity.AssetRoles {
		img, err := s.decode(st.id, role)
		if err != nil {
			return err
		}
		decoded[role] = img
	}
	layers := compositor.Layers{
		Background: decoded[entity.RoleBackground],
		Logo:       decoded[entity.RoleLogo],
		Overlay:    decoded[entity.RoleOverlay],
	}

	png, layout, err := s.compositor.Render(layers, compositor.Options{
		Text:  st.req.Text,
		Color: st.color,
	})
	if err != nil {
		return err
	}

	bounds := layers.Background.Bounds()
	st.result = &entity.RenderResult{
		ID:     st.id,
		PNG:    png,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Lines:  layout.Lines,
	}
	return nil
}

func (s *renderService) decode(id, role string) (image.Image, error) {
	rc, err := s.repo.Open(id, role)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrCompositionFailed, role, err)
	}
	defer rc.Close()
	return s.compositor.Decode(rc)
}

func (s *renderService) release(st *renderState) {
	for _, role := range st.acquired {
		if !s.repo.Exists(st.id, role) {
			continue
		}
		if err := s.repo.Remove(st.id, role); err != nil {
			st.log.WithError(err).WithField("role", role).Debug("failed to remove temporary asset")
		}
	}
}

func outcomeOf(err error) string {
	var (
		missing  *entity.MissingFieldError
		download *entity.DownloadFailedError
		network  *entity.TransportError
	)
	switch {
	case errors.As(err, &missing):
		return metrics.OutcomeInvalidRequest
	case errors.As(err, &download):
		return metrics.OutcomeDownloadFailed
	case errors.As(err, &network):
		return metrics.OutcomeTransportError
	default:
		return metrics.OutcomeCompositionError
	}
}
