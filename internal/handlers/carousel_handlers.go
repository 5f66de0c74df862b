package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyphera/wallet-rpc/internal/carousel"
)

// SlideService holds the carousel slides.
type SlideService interface {
	Slides() []carousel.Slide
	Refresh(ctx context.Context, in carousel.Inputs) ([]carousel.Slide, bool)
	Dismiss(id string) error
}

// CarouselHandler serves the home screen carousel.
type CarouselHandler struct {
	slides SlideService
	// remoteEnabled gates remote slides regardless of what the client asks.
	remoteEnabled bool
}

func NewCarouselHandler(slides SlideService, remoteEnabled bool) *CarouselHandler {
	return &CarouselHandler{slides: slides, remoteEnabled: remoteEnabled}
}

// CarouselResponse is the current slide list.
type CarouselResponse struct {
	Slides  []carousel.Slide `json:"slides"`
	Changed bool             `json:"changed"`
}

func (h *CarouselHandler) GetSlides(c *gin.Context) {
	sendSuccess(c, http.StatusOK, CarouselResponse{Slides: h.slides.Slides()})
}

// RefreshSlides recomposes the list from the posted wallet facts.
func (h *CarouselHandler) RefreshSlides(c *gin.Context) {
	var in carousel.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	in.RemoteSlidesEnabled = in.RemoteSlidesEnabled && h.remoteEnabled

	slides, changed := h.slides.Refresh(c.Request.Context(), in)
	sendSuccess(c, http.StatusOK, CarouselResponse{Slides: slides, Changed: changed})
}

func (h *CarouselHandler) DismissSlide(c *gin.Context) {
	err := h.slides.Dismiss(c.Param("id"))
	switch {
	case errors.Is(err, carousel.ErrSlideNotFound):
		sendError(c, http.StatusNotFound, "Slide not found", err)
	case errors.Is(err, carousel.ErrUndismissable):
		sendError(c, http.StatusConflict, "Slide cannot be dismissed", err)
	case err != nil:
		sendError(c, http.StatusInternalServerError, "Failed to dismiss slide", err)
	default:
		sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Slide dismissed"})
	}
}
