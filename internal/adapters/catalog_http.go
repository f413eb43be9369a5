package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cenk/backoff"
	"github.com/rs/zerolog/log"

	"mmpm/internal/ports"
	"mmpm/internal/shared"
	"mmpm/internal/types"
)

// DefaultCatalogURL is the rendered JSON listing of the community wiki's
// third-party module page.
const DefaultCatalogURL = "https://raw.githubusercontent.com/wiki-data/magicmirror-modules/master/packages.json"

// HTTPCatalogFetcher retrieves the community catalog over HTTP with bounded
// exponential retry. The listing endpoint serves the same category-keyed
// object shape the snapshot file uses.
type HTTPCatalogFetcher struct {
	URL    string
	Client *http.Client
}

func NewHTTPCatalogFetcher(url string) HTTPCatalogFetcher {
	if url == "" {
		url = DefaultCatalogURL
	}
	return HTTPCatalogFetcher{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f HTTPCatalogFetcher) Fetch(ctx context.Context) (types.Catalog, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = time.Minute

	var body []byte
	operation := func() error {
		data, err := f.fetchOnce(ctx)
		if err != nil {
			log.Debug().Err(err).Str("url", f.URL).Msg("catalog fetch attempt failed")
			return err
		}
		body = data
		return nil
	}
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to retrieve the remote package listing").
			WithCause(err)
	}

	var catalog types.Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("remote package listing is malformed").
			WithCause(err)
	}
	return catalog, nil
}

func (f HTTPCatalogFetcher) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := shared.HTTPStatusError(resp.StatusCode, f.URL)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

var _ ports.CatalogFetcher = HTTPCatalogFetcher{}
