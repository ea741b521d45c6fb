package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/interpreter"
)

// Fetcher produces facts for one check through registered DataFetchers.
type Fetcher struct {
	client *interpreter.Client
	cfg    *config.Config
	memo   *factMemo
}

// fetchFrame links the facts currently being fetched on one call path, so a
// fetcher that (indirectly) asks for its own fact fails instead of deadlocking.
type fetchFrame struct {
	flightKey string
	parent    *fetchFrame
}

type fetchFrameKey struct{}

func NewFetcher(client *interpreter.Client, cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		memo:   newFactMemo(),
	}
}

// Client is nil when no interpreter is configured.
func (f *Fetcher) Client() *interpreter.Client {
	return f.client
}

func (f *Fetcher) Config() *config.Config {
	return f.cfg
}

// Fetch returns the fact for key, fetching it at most once per check.
// Failed fetches are retried on the next call.
func (f *Fetcher) Fetch(ctx context.Context, key data.DependencyKey, params map[string]string) (any, error) {
	switch {
	case ctx == nil:
		return nil, errors.New("Fetch: nil context")
	case f == nil:
		return nil, errors.New("Fetch: nil Fetcher")
	case f.cfg == nil || f.memo == nil:
		return nil, errors.New("Fetch: Fetcher not initialised (use NewFetcher)")
	case key == "":
		return nil, errors.New("Fetch: empty dependency key")
	}

	provider, ok := ResolveDataFetcher(key)
	if !ok {
		return nil, fmt.Errorf("unsupported dependency key: %s", key)
	}

	flightKey, err := f.flightKey(provider.Scope(), key, params)
	if err != nil {
		return nil, err
	}
	ctx, err = enterFetch(ctx, flightKey)
	if err != nil {
		return nil, err
	}

	return f.memo.do(flightKey, func() (any, error) {
		return provider.Fetch(ctx, params, f)
	})
}

func enterFetch(ctx context.Context, flightKey string) (context.Context, error) {
	parent, _ := ctx.Value(fetchFrameKey{}).(*fetchFrame)
	var path []string
	for fr := parent; fr != nil; fr = fr.parent {
		path = append([]string{fr.flightKey}, path...)
		if fr.flightKey == flightKey {
			return nil, fmt.Errorf("Fetch: dependency cycle detected: %s -> %s", strings.Join(path, " -> "), flightKey)
		}
	}
	return context.WithValue(ctx, fetchFrameKey{}, &fetchFrame{flightKey: flightKey, parent: parent}), nil
}

// flightKey identifies a fact by what it depends on: the interpreter
// executable or the absolute project directory, plus its parameters.
func (f *Fetcher) flightKey(scope data.FetchScope, key data.DependencyKey, params map[string]string) (string, error) {
	var prefix string
	switch scope {
	case data.ScopeInterpreter:
		if f.client == nil {
			return "", fmt.Errorf("Fetch: no interpreter client for interpreter-scoped dependency: %s", key)
		}
		prefix = "interpreter=" + f.client.Python
	case data.ScopeProject:
		dir, err := filepath.Abs(f.cfg.Project.Dir)
		if err != nil {
			return "", fmt.Errorf("Fetch: resolve project directory for %s: %w", key, err)
		}
		prefix = "project=" + dir
	default:
		return "", fmt.Errorf("Fetch: unknown fetch scope %q for dependency: %s", scope, key)
	}

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	// Encode sorts by key.
	return prefix + ":" + string(key) + ":" + q.Encode(), nil
}
