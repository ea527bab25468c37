package elastic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultUsername = "elastic"

// ClientConfig is the connection part of the elasticsearch config section.
type ClientConfig struct {
	Hosts      []string
	Username   string
	Password   string
	MaxRetries int
}

func (c ClientConfig) esConfig() elasticsearch.Config {
	username := c.Username
	if username == "" {
		username = defaultUsername
	}
	return elasticsearch.Config{
		Addresses:     c.Hosts,
		Username:      username,
		Password:      c.Password,
		MaxRetries:    c.MaxRetries,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}
}

// NewElasticClient builds the client and checks the cluster answers before returning it.
func NewElasticClient(ctx context.Context, cfg ClientConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(cfg.esConfig())
	if err != nil {
		return nil, fmt.Errorf("elastic: cannot create client: %w", err)
	}
	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elastic: cannot reach %v: %w", cfg.Hosts, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic: cluster returned error: %s", res.String())
	}
	return client, nil
}
