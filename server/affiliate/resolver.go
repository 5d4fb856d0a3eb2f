package affiliate

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// MaxRedirects is the number of redirect hops followed before giving up.
	MaxRedirects = 10
	// DefaultResolveTimeout bounds one resolution request chain.
	DefaultResolveTimeout = 10 * time.Second

	userAgent = "Mattermost-Affiliate-Links-Plugin/1.0"
)

var errTooManyRedirects = errors.Errorf("stopped after %d redirects", MaxRedirects)

// Resolver follows redirects of shortened links to their landing URL.
type Resolver struct {
	client   *http.Client
	log      Logger
	observer Observer
}

// NewResolver creates a resolver whose request chains are bounded by timeout.
func NewResolver(timeout time.Duration, log Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	return &Resolver{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return errTooManyRedirects
				}
				return nil
			},
		},
		log:      log,
		observer: nopObserver{},
	}
}

// Resolve returns the URL the input finally lands on. Any failure returns the input unchanged.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	final, err := r.follow(ctx, rawURL)
	if err != nil {
		r.log.LogDebug("Failed to resolve link, using it as is", "url", rawURL, "error", err.Error())
		r.observer.RedirectFailed()
		return rawURL
	}
	return final
}

func (r *Resolver) follow(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to create GET request")
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "GET request failed")
	}
	defer resp.Body.Close()

	return resp.Request.URL.String(), nil
}
