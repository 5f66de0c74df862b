package carousel

import (
	"context"
	"fmt"

	"github.com/cyphera/wallet-rpc/internal/httpclient"
)

// FeedSource reads remote slides from a JSON content feed.
type FeedSource struct {
	client *httpclient.Client
	path   string
}

// NewFeedSource returns a source reading path through client.
func NewFeedSource(client *httpclient.Client, path string) *FeedSource {
	return &FeedSource{client: client, path: path}
}

func (f *FeedSource) FetchSlides(ctx context.Context) (*RemoteSlides, error) {
	resp, err := f.client.Get(ctx, f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch carousel feed: %w", err)
	}
	var out RemoteSlides
	if err := httpclient.DecodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LineageClient reads the profile lineage from the profile sync API.
type LineageClient struct {
	client *httpclient.Client
	path   string
	tokens func(ctx context.Context) (string, error)
}

// NewLineageClient returns a LineageService backed by the profile sync API.
// tokens may be nil for unauthenticated deployments.
func NewLineageClient(client *httpclient.Client, path string, tokens func(ctx context.Context) (string, error)) *LineageClient {
	return &LineageClient{client: client, path: path, tokens: tokens}
}

func (l *LineageClient) UserProfileLineage(ctx context.Context) (*Lineage, error) {
	var opts []httpclient.RequestOption
	if l.tokens != nil {
		token, err := l.tokens(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, httpclient.WithBearerToken(token))
	}

	resp, err := l.client.Get(ctx, l.path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile lineage: %w", err)
	}
	var out Lineage
	if err := httpclient.DecodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StaticLineage is a fixed lineage, used when no profile API is configured.
type StaticLineage struct {
	Lineage *Lineage
}

func (s StaticLineage) UserProfileLineage(context.Context) (*Lineage, error) {
	return s.Lineage, nil
}
