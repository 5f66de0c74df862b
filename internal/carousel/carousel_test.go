package carousel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyphera/wallet-rpc/internal/httpclient"
)

func ids(slides []Slide) []string {
	out := make([]string, len(slides))
	for i, s := range slides {
		out[i] = s.ID
	}
	return out
}

func ptr(t time.Time) *time.Time { return &t }

type stubSource struct {
	remote *RemoteSlides
	err    error
}

func (s stubSource) FetchSlides(context.Context) (*RemoteSlides, error) {
	return s.remote, s.err
}

type stubLineage struct {
	lineage *Lineage
	err     error
	calls   int
}

func (s *stubLineage) UserProfileLineage(context.Context) (*Lineage, error) {
	s.calls++
	return s.lineage, s.err
}

func TestHasZeroBalance(t *testing.T) {
	tests := map[string]bool{
		"":         true,
		"0x0":      true,
		"0x00":     true,
		"0x1":      false,
		"0xde0b6b": false,
		"garbage":  false,
	}
	for balance, want := range tests {
		assert.Equal(t, want, HasZeroBalance(balance), balance)
	}
}

func TestDefaultSlides(t *testing.T) {
	t.Run("zero balance leads with an undismissable fund slide", func(t *testing.T) {
		slides := DefaultSlides(true, true)
		assert.Equal(t, []string{"fund", "card", "backupAndSync", "solana"}, ids(slides))
		assert.True(t, slides[0].Undismissable)
	})

	t.Run("funded wallet places the fund slide third", func(t *testing.T) {
		slides := DefaultSlides(false, true)
		assert.Equal(t, []string{"card", "backupAndSync", "fund", "solana"}, ids(slides))
		assert.False(t, slides[2].Undismissable)
	})

	t.Run("basic functionality slide when external services are off", func(t *testing.T) {
		slides := DefaultSlides(false, false)
		assert.Equal(t, []string{"card", "backupAndSync", "fund", "basic_functionality", "solana"}, ids(slides))
	})
}

func TestIsActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsActive(Slide{}, now))
	assert.False(t, IsActive(Slide{StartDate: ptr(now.Add(time.Hour))}, now))
	assert.False(t, IsActive(Slide{EndDate: ptr(now.Add(-time.Hour))}, now))
	assert.True(t, IsActive(Slide{StartDate: ptr(now.Add(-time.Hour)), EndDate: ptr(now.Add(time.Hour))}, now))
}

func TestComposer_DownloadMobileSlide(t *testing.T) {
	ctx := context.Background()
	in := Inputs{Balance: "0x1", UseExternalServices: true, ShowDownloadMobileAppSlide: true}

	t.Run("prepended when the profile has no mobile agent", func(t *testing.T) {
		lineage := &stubLineage{lineage: &Lineage{Lineage: []LineageEntry{{Agent: "extension"}}}}
		slides, err := NewComposer(lineage, nil).Compose(ctx, in, nil)
		require.NoError(t, err)
		assert.Equal(t, "downloadMobileApp", slides[0].ID)
	})

	t.Run("omitted for mobile users", func(t *testing.T) {
		lineage := &stubLineage{lineage: &Lineage{Lineage: []LineageEntry{{Agent: AgentMobile}}}}
		slides, err := NewComposer(lineage, nil).Compose(ctx, in, nil)
		require.NoError(t, err)
		assert.NotContains(t, ids(slides), "downloadMobileApp")
	})

	t.Run("not looked up when the slide is disabled", func(t *testing.T) {
		lineage := &stubLineage{}
		_, err := NewComposer(lineage, nil).Compose(ctx, Inputs{UseExternalServices: true}, nil)
		require.NoError(t, err)
		assert.Zero(t, lineage.calls)
	})

	t.Run("lineage failure fails the composition", func(t *testing.T) {
		lineage := &stubLineage{err: errors.New("unauthorized")}
		_, err := NewComposer(lineage, nil).Compose(ctx, in, nil)
		assert.ErrorContains(t, err, "unauthorized")
	})
}

func TestComposer_RemoteSlides(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{Balance: "0x1", UseExternalServices: true, RemoteSlidesEnabled: true}

	remote := &RemoteSlides{
		PrioritySlides: []Slide{
			{ID: "sweepstakes", StartDate: ptr(now.Add(-time.Hour)), EndDate: ptr(now.Add(time.Hour))},
			{ID: "expired", EndDate: ptr(now.Add(-time.Hour))},
		},
		RegularSlides: []Slide{
			{ID: "staking", Dismissed: true},
			{ID: "bridge"},
		},
	}
	previous := []Slide{
		{ID: "bridge", Dismissed: true, Undismissable: true},
	}

	slides, err := NewComposer(nil, stubSource{remote: remote}).WithClock(func() time.Time { return now }).
		Compose(ctx, in, previous)
	require.NoError(t, err)

	assert.Equal(t, []string{"sweepstakes", "card", "backupAndSync", "fund", "solana", "staking", "bridge"}, ids(slides))
	assert.False(t, slides[5].Dismissed, "dismissed state only comes from the previous list")
	assert.True(t, slides[6].Dismissed)
	assert.True(t, slides[6].Undismissable)
}

func TestComposer_RemoteFailureFallsBack(t *testing.T) {
	in := Inputs{Balance: "0x0", UseExternalServices: true, RemoteSlidesEnabled: true}
	slides, err := NewComposer(nil, stubSource{err: errors.New("timeout")}).Compose(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, ids(DefaultSlides(true, true)), ids(slides))
}

func TestComposer_RemoteDisabledSkipsFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	source := NewFeedSource(httpclient.New(httpclient.WithBaseURL(server.URL)), "/slides")
	_, err := NewComposer(nil, source).Compose(context.Background(), Inputs{}, nil)
	require.NoError(t, err)
	assert.Zero(t, hits.Load())
}

func TestDispatcher(t *testing.T) {
	var dispatched [][]Slide
	d := NewDispatcher(func(s []Slide) { dispatched = append(dispatched, s) })

	first := DefaultSlides(true, true)
	assert.True(t, d.Dispatch(first))
	assert.False(t, d.Dispatch(DefaultSlides(true, true)))
	assert.True(t, d.Dispatch(DefaultSlides(false, true)))
	assert.Len(t, dispatched, 2)
}

func TestService_RefreshAndDismiss(t *testing.T) {
	svc := NewService(NewComposer(nil, nil))
	ctx := context.Background()

	slides, changed := svc.Refresh(ctx, Inputs{Balance: "0x0", UseExternalServices: true})
	assert.True(t, changed)
	assert.Equal(t, "fund", slides[0].ID)

	assert.ErrorIs(t, svc.Dismiss("fund"), ErrUndismissable)
	assert.ErrorIs(t, svc.Dismiss("nope"), ErrSlideNotFound)
	require.NoError(t, svc.Dismiss("card"))

	slides, changed = svc.Refresh(ctx, Inputs{Balance: "0x0", UseExternalServices: true})
	assert.False(t, changed)
	assert.True(t, slides[1].Dismissed)
}

func TestService_RefreshKeepsSlidesOnFailure(t *testing.T) {
	lineage := &stubLineage{lineage: &Lineage{}}
	svc := NewService(NewComposer(lineage, nil))
	in := Inputs{UseExternalServices: true, ShowDownloadMobileAppSlide: true}

	before, _ := svc.Refresh(context.Background(), in)
	lineage.err = errors.New("down")
	after, changed := svc.Refresh(context.Background(), in)

	assert.False(t, changed)
	assert.Equal(t, before, after)
}

func TestFeedSourceAndLineageClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/slides":
			_, _ = w.Write([]byte(`{"prioritySlides":[{"id":"p1","title":"t"}],"regularSlides":[{"id":"r1"}]}`))
		case "/lineage":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"lineage":[{"agent":"mobile"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := httpclient.New(httpclient.WithBaseURL(server.URL))

	remote, err := NewFeedSource(client, "/slides").FetchSlides(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p1", remote.PrioritySlides[0].ID)
	assert.Equal(t, "r1", remote.RegularSlides[0].ID)

	tokens := func(context.Context) (string, error) { return "tok", nil }
	lineage, err := NewLineageClient(client, "/lineage", tokens).UserProfileLineage(context.Background())
	require.NoError(t, err)
	assert.True(t, onMobile(lineage))

	_, err = NewFeedSource(client, "/missing").FetchSlides(context.Background())
	assert.Error(t, err)
}
