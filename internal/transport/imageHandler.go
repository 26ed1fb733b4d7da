package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *ImageHandler) RenderImage(c *gin.Context) {
	req := entity.RenderRequest{
		Background: c.Query("background"),
		Logo:       c.Query("logo"),
		Overlay:    c.Query("overlay"),
		Text:       c.Query("text"),
		TextColor:  c.Query("text-color"),
	}

	ctx, cancel := h.renderContext(c)
	defer cancel()

	res, err := h.render.Render(ctx, service.RouteDefault, req)
	if err != nil {
		sendError(c, err)
		return
	}

	sendImage(c, res.PNG, false)
}

func (h *ImageHandler) RenderPreset(c *gin.Context) {
	ctx, cancel := h.renderContext(c)
	defer cancel()

	res, err := h.preset.Render(ctx)
	if err != nil {
		sendError(c, err)
		return
	}

	sendImage(c, res.PNG, true)
}

func (h *ImageHandler) renderContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// sendImage writes a PNG body. Cacheable responses carry an ETag and answer
// a matching If-None-Match with 304.
func sendImage(c *gin.Context, body []byte, noCache bool) {
	if noCache {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
	} else {
		etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
		c.Header("ETag", etag)
		if etagMatches(c.GetHeader("If-None-Match"), etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	c.Data(http.StatusOK, "image/png", body)
}

// etagMatches applies the weak comparison of RFC 9110 to an If-None-Match
// list.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func sendError(c *gin.Context, err error) {
	var (
		missing  *entity.MissingFieldError
		download *entity.DownloadFailedError
		network  *entity.TransportError
	)

	switch {
	case errors.As(err, &missing), errors.As(err, &download):
		c.String(http.StatusBadRequest, err.Error())
	case errors.As(err, &network):
		c.String(http.StatusInternalServerError, network.Error())
	default:
		c.String(http.StatusInternalServerError, entity.ErrCompositionFailed.Error())
	}
}
