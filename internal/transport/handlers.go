package transport

import (
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/service"
)

type ImageHandler struct {
	render  service.RenderService
	preset  service.PresetService
	timeout time.Duration
}

// NewImageHandler bounds every render by timeout. Zero leaves renders bound
// only by the client connection.
func NewImageHandler(render service.RenderService, preset service.PresetService, timeout time.Duration) *ImageHandler {
	return &ImageHandler{render: render, preset: preset, timeout: timeout}
}
