package content_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timeline/pkg/content"
)

type loaderFunc func(ctx context.Context, src content.Source) ([]byte, error)

func (f loaderFunc) Load(ctx context.Context, src content.Source) ([]byte, error) {
	return f(ctx, src)
}

func recordSleeps(delays *[]time.Duration) content.SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestFetch_RetryBudgetExactness(t *testing.T) {
	calls := 0
	failing := loaderFunc(func(context.Context, content.Source) ([]byte, error) {
		calls++
		return nil, errors.New("connection refused")
	})

	var delays []time.Duration
	base := 50 * time.Millisecond
	ref := content.Ref{Key: "historical_events", Source: content.SourceFromFile("data/historical_events.json")}

	_, err := content.Fetch(context.Background(), failing, ref, content.FetchOptions{
		Attempts:  3,
		BaseDelay: base,
		Sleep:     recordSleeps(&delays),
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}

	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}

	want := []time.Duration{base, 2 * base}
	if diff := cmp.Diff(want, delays); diff != "" {
		t.Fatalf("delay schedule mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(delays); i++ {
		if delays[i] < delays[i-1] {
			t.Fatalf("delays must be non-decreasing, got %v", delays)
		}
	}

	var loadErr *content.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	if loadErr.Key != "historical_events" || loadErr.Attempts != 3 {
		t.Fatalf("unexpected LoadError fields: %+v", loadErr)
	}
}

func TestFetch_SyntaxFailureRetriesLikeTransport(t *testing.T) {
	calls := 0
	malformed := loaderFunc(func(context.Context, content.Source) ([]byte, error) {
		calls++
		return []byte(`{"companies": [`), nil
	})

	var delays []time.Duration
	ref := content.Ref{Key: "companies", Source: content.SourceFromFile("companies.json")}

	_, err := content.Fetch(context.Background(), malformed, ref, content.FetchOptions{
		Attempts:  2,
		BaseDelay: time.Millisecond,
		Sleep:     recordSleeps(&delays),
	})
	if err == nil {
		t.Fatal("expected exhaustion error for malformed body")
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if len(delays) != 1 {
		t.Fatalf("expected 1 inter-attempt delay, got %v", delays)
	}
}

func TestFetch_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	flaky := loaderFunc(func(context.Context, content.Source) ([]byte, error) {
		calls++
		if calls < 3 {
			return nil, fmt.Errorf("status 503")
		}
		return []byte(`{"policies": []}`), nil
	})

	var delays []time.Duration
	ref := content.Ref{Key: "policies", Source: content.SourceFromFile("policies.json")}

	doc, err := content.Fetch(context.Background(), flaky, ref, content.FetchOptions{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		Sleep:     recordSleeps(&delays),
	})
	if err != nil {
		t.Fatalf("expected success on final attempt: %v", err)
	}
	if calls != 3 || len(delays) != 2 {
		t.Fatalf("unexpected attempt/delay counts: %d attempts, %v delays", calls, delays)
	}
	if doc.Key() != "policies" {
		t.Fatalf("unexpected key: %s", doc.Key())
	}
	if doc.Data() == nil {
		t.Fatal("expected parsed data")
	}
}

func TestFetch_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	failing := loaderFunc(func(context.Context, content.Source) ([]byte, error) {
		return nil, errors.New("unreachable")
	})
	cancelSleep := content.SleepFunc(func(ctx context.Context, _ time.Duration) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	ref := content.Ref{Key: "statistics", Source: content.SourceFromFile("statistics.json")}
	_, err := content.Fetch(ctx, failing, ref, content.FetchOptions{Attempts: 3, Sleep: cancelSleep})

	var loadErr *content.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestFetchAll_OptionalDegradation(t *testing.T) {
	var sequence []string
	loads := loaderFunc(func(_ context.Context, src content.Source) ([]byte, error) {
		sequence = append(sequence, "load:"+src.Location())
		switch content.KeyFromLocation(src.Location()) {
		case "historical_events":
			return []byte(`{"heroStats": []}`), nil
		case "statistics":
			return nil, errors.New("always down")
		default:
			return []byte(`{}`), nil
		}
	})

	batch := content.DirBatch("data")
	opts := content.FetchOptions{
		Attempts: 2,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}

	col, err := content.FetchAll(context.Background(), loads, batch, opts, func(doc content.Document) {
		sequence = append(sequence, "observe:"+doc.Key())
	})
	if err != nil {
		t.Fatalf("optional failure must not abort: %v", err)
	}

	if col.Has("statistics") {
		t.Fatal("statistics should be absent, not present")
	}
	if _, ok := col.Get("statistics"); ok {
		t.Fatal("Get must report absence for degraded optional")
	}
	if !col.Has("companies") || !col.Has("historical_events") {
		t.Fatalf("expected surviving documents, got %v", col.Keys())
	}
	if col.MandatoryKey() != "historical_events" {
		t.Fatalf("unexpected mandatory key: %s", col.MandatoryKey())
	}

	if len(sequence) < 2 || sequence[1] != "observe:historical_events" {
		t.Fatalf("mandatory document must be observed before optional fetches, got %v", sequence)
	}
}

func TestFetchAll_MandatoryFailureAborts(t *testing.T) {
	down := loaderFunc(func(context.Context, content.Source) ([]byte, error) {
		return nil, errors.New("network down")
	})

	opts := content.FetchOptions{
		Attempts: 2,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}

	_, err := content.FetchAll(context.Background(), down, content.DirBatch("data"), opts, nil)
	var loadErr *content.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Key != "historical_events" {
		t.Fatalf("fatal error should name the mandatory key, got %q", loadErr.Key)
	}
}
