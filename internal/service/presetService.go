package service

import (
	"context"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/sirupsen/logrus"
)

// Render fills the request from the preset and a freshly fetched quote. The
// quote is awaited before rendering; a failed fetch only changes the text.
func (s *presetService) Render(ctx context.Context) (*entity.RenderResult, error) {
	req := entity.RenderRequest{
		Background: s.preset.Background,
		Logo:       s.preset.Logo,
		Overlay:    s.preset.Overlay,
		TextColor:  s.preset.TextColor,
		Text:       s.text(ctx),
	}
	return s.render.Render(ctx, RoutePreset, req)
}

func (s *presetService) text(ctx context.Context) string {
	prefix := "[" + s.now().Format(s.preset.DateLayout) + "]"

	q, err := s.quotes.Random(ctx)
	if err != nil {
		logrus.WithError(err).Warn("quote fetch failed, using fallback text")
		s.metrics.IncQuoteFailure()
		if s.preset.FallbackText == "" {
			return prefix
		}
		return prefix + " " + s.preset.FallbackText
	}
	return prefix + " " + q.Content
}
