package insights

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emiliopalmerini/mhabit/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func countingCompute(calls *atomic.Int32) ComputeFunc {
	return func(ctx context.Context) (*domain.InsightReport, error) {
		n := calls.Add(1)
		return &domain.InsightReport{AnalysisReady: true, OverallAnalysis: string(rune('a' + n - 1))}, nil
	}
}

func TestCache_HitWithinTTL(t *testing.T) {
	clock := &fakeClock{now: refNow}
	cache := NewCacheWithClock(5*time.Minute, clock.Now)
	var calls atomic.Int32
	ctx := context.Background()

	first, hit, err := cache.GetOrCompute(ctx, countingCompute(&calls))
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}

	clock.Advance(4*time.Minute + 59*time.Second)
	second, hit, err := cache.GetOrCompute(ctx, countingCompute(&calls))
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if second != first {
		t.Error("cache hit should return the stored report verbatim")
	}
	if calls.Load() != 1 {
		t.Errorf("compute called %d times, want 1", calls.Load())
	}
}

func TestCache_ExpiresAtTTL(t *testing.T) {
	clock := &fakeClock{now: refNow}
	cache := NewCacheWithClock(5*time.Minute, clock.Now)
	var calls atomic.Int32
	ctx := context.Background()

	if _, _, err := cache.GetOrCompute(ctx, countingCompute(&calls)); err != nil {
		t.Fatal(err)
	}
	clock.Advance(5 * time.Minute)

	if _, ok := cache.Get(); ok {
		t.Error("report should be stale exactly at the TTL")
	}
	if _, hit, _ := cache.GetOrCompute(ctx, countingCompute(&calls)); hit {
		t.Error("expected a miss after expiry")
	}
	if calls.Load() != 2 {
		t.Errorf("compute called %d times, want 2", calls.Load())
	}
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(time.Minute)
	var calls atomic.Int32
	ctx := context.Background()

	if _, _, err := cache.GetOrCompute(ctx, countingCompute(&calls)); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate()

	if _, ok := cache.Get(); ok {
		t.Fatal("Get() should miss after Invalidate")
	}
	if _, hit, _ := cache.GetOrCompute(ctx, countingCompute(&calls)); hit {
		t.Error("expected recompute after Invalidate")
	}
	if calls.Load() != 2 {
		t.Errorf("compute called %d times, want 2", calls.Load())
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()
	boom := errors.New("boom")

	_, _, err := cache.GetOrCompute(ctx, func(ctx context.Context) (*domain.InsightReport, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok := cache.Get(); ok {
		t.Error("a failed computation must not populate the cache")
	}
}

func TestCache_StaleComputationIsDiscarded(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = cache.GetOrCompute(ctx, func(ctx context.Context) (*domain.InsightReport, error) {
			close(started)
			<-release
			return &domain.InsightReport{OverallAnalysis: "stale"}, nil
		})
	}()

	<-started
	cache.Invalidate()
	close(release)
	<-done

	if r, ok := cache.Get(); ok {
		t.Errorf("report computed before an invalidation was stored: %+v", r)
	}
}

func TestCache_ConcurrentMissesShareOneComputation(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()
	var calls atomic.Int32
	release := make(chan struct{})

	compute := func(ctx context.Context) (*domain.InsightReport, error) {
		calls.Add(1)
		<-release
		return &domain.InsightReport{AnalysisReady: true}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := cache.GetOrCompute(ctx, compute); err != nil {
				t.Errorf("GetOrCompute() error = %v", err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("compute called %d times, want 1", calls.Load())
	}
}

func TestCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	cache := NewCache(time.Minute)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var computeErr atomic.Value

	compute := func(ctx context.Context) (*domain.InsightReport, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			computeErr.Store(err)
			return nil, err
		}
		return &domain.InsightReport{AnalysisReady: true}, nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, _, err := cache.GetOrCompute(ctxA, compute)
		errA <- err
	}()
	<-started

	type result struct {
		report *domain.InsightReport
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		r, _, err := cache.GetOrCompute(context.Background(), compute)
		resB <- result{r, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(release)
	got := <-resB
	if got.err != nil {
		t.Fatalf("healthy caller error = %v", got.err)
	}
	if got.report == nil || !got.report.AnalysisReady {
		t.Errorf("healthy caller report = %+v", got.report)
	}
	if v := computeErr.Load(); v != nil {
		t.Errorf("shared computation saw a cancelled context: %v", v)
	}
	if calls.Load() != 1 {
		t.Errorf("compute called %d times, want 1", calls.Load())
	}
	if _, ok := cache.Get(); !ok {
		t.Error("result of the shared computation should be cached")
	}
}

func TestNewCache_DefaultTTL(t *testing.T) {
	if c := NewCache(0); c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
