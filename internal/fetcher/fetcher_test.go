package fetcher_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/fetcher"
	"envready/internal/interpreter"
	"envready/internal/interpreter/interpretertest"
)

type testCycleFetcher struct {
	key    data.DependencyKey
	target data.DependencyKey
}

func (t *testCycleFetcher) Key() data.DependencyKey { return t.key }

func (t *testCycleFetcher) Scope() data.FetchScope { return data.ScopeProject }

func (t *testCycleFetcher) Fetch(ctx context.Context, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	return f.Fetch(ctx, t.target, nil)
}

type testValueFetcher struct {
	key   data.DependencyKey
	scope data.FetchScope
	calls *int32
	fail  bool
}

func (t *testValueFetcher) Key() data.DependencyKey { return t.key }

func (t *testValueFetcher) Scope() data.FetchScope { return t.scope }

func (t *testValueFetcher) Fetch(_ context.Context, params map[string]string, _ *fetcher.Fetcher) (any, error) {
	atomic.AddInt32(t.calls, 1)
	if t.fail {
		return nil, errors.New("boom")
	}
	return "ok:" + params["v"], nil
}

const (
	testCycleA         data.DependencyKey = "test.cycle.a"
	testCycleB         data.DependencyKey = "test.cycle.b"
	testProjectKey     data.DependencyKey = "test.scope.project"
	testInterpreterKey data.DependencyKey = "test.scope.interpreter"
	testFailingKey     data.DependencyKey = "test.failing"
)

var (
	testProjectCalls     int32
	testInterpreterCalls int32
	testFailingCalls     int32
	testFetchersOnce     sync.Once
)

func ensureTestFetchersRegistered() {
	testFetchersOnce.Do(func() {
		fetcher.RegisterDataFetcher(&testCycleFetcher{key: testCycleA, target: testCycleB})
		fetcher.RegisterDataFetcher(&testCycleFetcher{key: testCycleB, target: testCycleA})
		fetcher.RegisterDataFetcher(&testValueFetcher{key: testProjectKey, scope: data.ScopeProject, calls: &testProjectCalls})
		fetcher.RegisterDataFetcher(&testValueFetcher{key: testInterpreterKey, scope: data.ScopeInterpreter, calls: &testInterpreterCalls})
		fetcher.RegisterDataFetcher(&testValueFetcher{key: testFailingKey, scope: data.ScopeProject, calls: &testFailingCalls, fail: true})
	})
}

func newTestFetcher(t *testing.T, withClient bool) *fetcher.Fetcher {
	t.Helper()
	ensureTestFetchersRegistered()

	cfg := config.New()
	cfg.Project.Dir = t.TempDir()
	var client *interpreter.Client
	if withClient {
		var err error
		client, err = interpreter.NewClient("python3", interpreter.WithRunner(&interpretertest.Runner{}))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
	}
	return fetcher.NewFetcher(client, cfg)
}

func TestFetch_DetectsCycles(t *testing.T) {
	f := newTestFetcher(t, false)

	_, err := f.Fetch(context.Background(), testCycleA, nil)
	if err == nil {
		t.Fatalf("expected cycle error, got nil")
	}
	if !strings.Contains(err.Error(), "dependency cycle detected") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetch_UnknownKey(t *testing.T) {
	f := newTestFetcher(t, false)
	if _, err := f.Fetch(context.Background(), "nope", nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestFetch_CachesPerParams(t *testing.T) {
	f := newTestFetcher(t, false)
	before := atomic.LoadInt32(&testProjectCalls)

	for i := 0; i < 3; i++ {
		v, err := f.Fetch(context.Background(), testProjectKey, map[string]string{"v": "1"})
		if err != nil {
			t.Fatalf("Fetch error: %v", err)
		}
		if v != "ok:1" {
			t.Fatalf("unexpected value %v", v)
		}
	}
	if _, err := f.Fetch(context.Background(), testProjectKey, map[string]string{"v": "2"}); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if got := atomic.LoadInt32(&testProjectCalls) - before; got != 2 {
		t.Fatalf("expected 2 underlying fetches, got %d", got)
	}
}

func TestFetch_RemembersFailures(t *testing.T) {
	f := newTestFetcher(t, false)
	before := atomic.LoadInt32(&testFailingCalls)

	var errs []error
	for i := 0; i < 2; i++ {
		_, err := f.Fetch(context.Background(), testFailingKey, nil)
		if err == nil {
			t.Fatalf("expected error, got nil")
		}
		errs = append(errs, err)
	}
	if got := atomic.LoadInt32(&testFailingCalls) - before; got != 1 {
		t.Fatalf("expected the failure to be remembered, got %d calls", got)
	}
	if errs[0].Error() != errs[1].Error() {
		t.Fatalf("expected the same error twice, got %q and %q", errs[0], errs[1])
	}
}

func TestFetch_InterpreterScopeRequiresClient(t *testing.T) {
	if _, err := newTestFetcher(t, false).Fetch(context.Background(), testInterpreterKey, nil); err == nil {
		t.Fatalf("expected error without interpreter client")
	}
	if _, err := newTestFetcher(t, true).Fetch(context.Background(), testInterpreterKey, nil); err != nil {
		t.Fatalf("unexpected error with client: %v", err)
	}
}

func TestFetch_NilContext(t *testing.T) {
	f := newTestFetcher(t, false)
	//lint:ignore SA1012 exercising nil-context guard
	if _, err := f.Fetch(nil, testProjectKey, nil); err == nil { //nolint:staticcheck
		t.Fatalf("expected error, got nil")
	}
}

func TestRegisterDataFetcher_RejectsInvalidFetchers(t *testing.T) {
	tests := []struct {
		name string
		df   fetcher.DataFetcher
	}{
		{name: "nil", df: nil},
		{name: "empty key", df: &testValueFetcher{key: "", scope: data.ScopeProject}},
		{name: "unknown scope", df: &testValueFetcher{key: "test.bad.scope", scope: "repository"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected RegisterDataFetcher to panic")
				}
			}()
			fetcher.RegisterDataFetcher(tt.df)
		})
	}
}

func TestRegisterDataFetcher_RejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration to panic")
		}
	}()
	df := &testValueFetcher{key: "test.duplicate", scope: data.ScopeProject}
	fetcher.RegisterDataFetcher(df)
	fetcher.RegisterDataFetcher(df)
}
