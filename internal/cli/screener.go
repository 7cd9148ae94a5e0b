package cli

import (
	"fmt"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/metrics"
	"github.com/rshade/amlscreen/internal/screening"
)

// newScreeningClient builds the upstream client from the effective config.
// m may be nil.
func newScreeningClient(cfg *config.Config, m *metrics.Metrics) (*screening.Client, error) {
	client, err := screening.NewClient(screening.ClientConfig{
		Endpoint: cfg.Upstream.Endpoint,
		Token:    cfg.Upstream.Token,
		Timeout:  cfg.Upstream.Timeout,
	}, screening.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("configuring screening client: %w", err)
	}
	return client, nil
}
