package carousel

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/logger"
)

var (
	ErrSlideNotFound = errors.New("slide not found")
	ErrUndismissable = errors.New("slide cannot be dismissed")
)

// Service holds the wallet's current slide list.
type Service struct {
	composer   *Composer
	dispatcher *Dispatcher

	mu     sync.RWMutex
	slides []Slide
}

// NewService returns a Service with an empty slide list.
func NewService(composer *Composer) *Service {
	s := &Service{composer: composer}
	s.dispatcher = NewDispatcher(s.setSlides)
	return s
}

func (s *Service) setSlides(slides []Slide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slides = slides
}

// Slides returns a copy of the current list.
func (s *Service) Slides() []Slide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.slides)
}

// Refresh recomposes the list and stores it when it changed. A compose
// failure leaves the current list in place.
func (s *Service) Refresh(ctx context.Context, in Inputs) ([]Slide, bool) {
	composed, err := s.composer.Compose(ctx, in, s.Slides())
	if err != nil {
		logger.Log.Warn("Failed to load carousel slides", zap.Error(err))
		return s.Slides(), false
	}
	changed := s.dispatcher.Dispatch(composed)
	return s.Slides(), changed
}

// Dismiss marks a slide dismissed.
func (s *Service) Dismiss(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.slides, func(sl Slide) bool { return sl.ID == id })
	if i < 0 {
		return ErrSlideNotFound
	}
	if s.slides[i].Undismissable {
		return ErrUndismissable
	}
	s.slides[i].Dismissed = true
	return nil
}
