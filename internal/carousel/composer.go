package carousel

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/logger"
)

// AgentMobile is the lineage agent of the mobile app.
const AgentMobile = "mobile"

// LineageEntry is one client that has used the user's profile.
type LineageEntry struct {
	Agent string `json:"agent"`
}

// Lineage lists the clients of a user profile.
type Lineage struct {
	Lineage []LineageEntry `json:"lineage"`
}

// LineageService looks up the user profile lineage. A nil lineage means the
// profile is unknown.
type LineageService interface {
	UserProfileLineage(ctx context.Context) (*Lineage, error)
}

// RemoteSlides are the slides served by the content feed.
type RemoteSlides struct {
	PrioritySlides []Slide `json:"prioritySlides"`
	RegularSlides  []Slide `json:"regularSlides"`
}

// SlideSource fetches remote slides.
type SlideSource interface {
	FetchSlides(ctx context.Context) (*RemoteSlides, error)
}

// Inputs are the wallet facts the slide list derives from.
type Inputs struct {
	Balance                    string `json:"balance"`
	UseExternalServices        bool   `json:"useExternalServices"`
	ShowDownloadMobileAppSlide bool   `json:"showDownloadMobileAppSlide"`
	RemoteSlidesEnabled        bool   `json:"remoteSlidesEnabled"`
}

// Composer builds slide lists.
type Composer struct {
	lineage LineageService
	source  SlideSource
	now     func() time.Time
	logger  *zap.Logger
}

// NewComposer returns a Composer. source may be nil when no feed is
// configured.
func NewComposer(lineage LineageService, source SlideSource) *Composer {
	return &Composer{
		lineage: lineage,
		source:  source,
		now:     time.Now,
		logger:  logger.Log,
	}
}

// WithClock overrides the time used for date windows.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Compose returns the slide list for in. previous is the current list, used
// to carry dismissed state over to remote slides. A failed remote fetch
// falls back to the default slides.
func (c *Composer) Compose(ctx context.Context, in Inputs, previous []Slide) ([]Slide, error) {
	slides := DefaultSlides(HasZeroBalance(in.Balance), in.UseExternalServices)

	if in.UseExternalServices && in.ShowDownloadMobileAppSlide && c.lineage != nil {
		lineage, err := c.lineage.UserProfileLineage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get user profile lineage: %w", err)
		}
		if lineage != nil && !onMobile(lineage) {
			slides = append([]Slide{downloadMobileAppSlide}, slides...)
		}
	}

	if !in.RemoteSlidesEnabled || c.source == nil {
		return slides, nil
	}

	remote, err := c.source.FetchSlides(ctx)
	if err != nil {
		c.logger.Warn("Failed to fetch remote carousel slides", zap.Error(err))
		return slides, nil
	}

	now := c.now()
	merged := c.normalize(remote.PrioritySlides, previous, now)
	merged = append(merged, slides...)
	return append(merged, c.normalize(remote.RegularSlides, previous, now)...), nil
}

func (c *Composer) normalize(remote, previous []Slide, now time.Time) []Slide {
	out := make([]Slide, 0, len(remote))
	for _, s := range remote {
		if i := slices.IndexFunc(previous, func(p Slide) bool { return p.ID == s.ID }); i >= 0 {
			s.Dismissed = previous[i].Dismissed
			s.Undismissable = s.Undismissable || previous[i].Undismissable
		} else {
			s.Dismissed = false
		}
		if IsActive(s, now) {
			out = append(out, s)
		}
	}
	return out
}

func onMobile(l *Lineage) bool {
	return slices.ContainsFunc(l.Lineage, func(e LineageEntry) bool { return e.Agent == AgentMobile })
}

// Dispatcher forwards a slide list only when it differs by value from the
// last one it forwarded.
type Dispatcher struct {
	mu       sync.Mutex
	last     []Slide
	sent     bool
	dispatch func([]Slide)
}

// NewDispatcher returns a Dispatcher calling dispatch on change.
func NewDispatcher(dispatch func([]Slide)) *Dispatcher {
	return &Dispatcher{dispatch: dispatch}
}

// Dispatch reports whether slides were forwarded.
func (d *Dispatcher) Dispatch(slides []Slide) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sent && reflect.DeepEqual(d.last, slides) {
		return false
	}
	d.last = slices.Clone(slides)
	d.sent = true
	d.dispatch(slices.Clone(slides))
	return true
}
