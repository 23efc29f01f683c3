package solanarpc

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/pkg/logger"
	"github.com/solmint-labs/solmint/pkg/logger/slogx"
)

const defaultProbeTimeout = 5 * time.Second

// ClientFactory constructs a Contract for an endpoint URL.
type ClientFactory func(endpoint string) Contract

// Selector picks the first reachable RPC endpoint from an ordered list.
type Selector struct {
	factory      ClientFactory
	probeTimeout time.Duration
}

type SelectorOptions struct {
	// Factory overrides how endpoint clients are constructed.
	Factory ClientFactory

	// ProbeTimeout bounds a single endpoint probe. (default: 5s)
	ProbeTimeout time.Duration
}

func NewSelector(options ...SelectorOptions) *Selector {
	var opts SelectorOptions
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.Factory == nil {
		opts.Factory = func(endpoint string) Contract {
			return NewClient(endpoint)
		}
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	return &Selector{
		factory:      opts.Factory,
		probeTimeout: opts.ProbeTimeout,
	}
}

// Select probes the primary endpoint and then each backup in order,
// returning a client for the first endpoint that responds. Each endpoint
// is probed at most once per call. Malformed endpoint URLs are rejected
// before any endpoint is contacted.
func (s *Selector) Select(ctx context.Context, primary string, backups ...string) (Contract, string, error) {
	endpoints := lo.Uniq(append([]string{primary}, backups...))
	for _, endpoint := range endpoints {
		if endpoint == "" {
			continue
		}
		if err := validateEndpoint(endpoint); err != nil {
			return nil, "", errors.WithStack(err)
		}
	}
	for _, endpoint := range endpoints {
		if endpoint == "" {
			continue
		}
		client := s.factory(endpoint)
		version, err := s.probe(ctx, client)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", errors.WithStack(ctx.Err())
			}
			logger.WarnContext(ctx, "rpc endpoint is not responding, trying next",
				slog.String("endpoint", endpoint),
				slogx.Error(err),
			)
			continue
		}
		logger.DebugContext(ctx, "selected rpc endpoint",
			slog.String("endpoint", endpoint),
			slog.String("version", version),
		)
		return client, endpoint, nil
	}
	return nil, "", errors.Wrapf(errs.AllEndpointsExhausted, "tried %d endpoints", len(endpoints))
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.Wrapf(errs.InvalidConfiguration, "rpc endpoint %q is not a valid url: %v", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errs.InvalidConfiguration, "rpc endpoint %q must be an http(s) url", endpoint)
	}
	return nil
}

func (s *Selector) probe(ctx context.Context, client Contract) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()
	return client.GetVersion(ctx)
}
