package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authflow "github.com/membercore/authflow"
	redisstore "github.com/membercore/authflow/store/redis"
)

// Each device owns one persisted session under its own key prefix. The load
// test seeds a fleet of devices and then drives two phases against the store:
// snapshot loads (the bootstrap/token path) and lock cycles (logout followed
// by unlock, which rewrites the snapshot).

type device struct {
	store  *redisstore.Store
	mu     sync.Mutex
	locked bool
}

func main() {
	var (
		devices     = flag.Int("devices", 50000, "number of device sessions to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (load + lock-cycle)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "af", "per-device key prefix stem")
	)
	flag.Parse()

	if *devices <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "devices, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  *redis.Client
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	fleet := make([]device, *devices)
	fmt.Printf("seeding %d device sessions...\n", *devices)
	startSeed := time.Now()
	for i := range fleet {
		fleet[i].store = redisstore.New(client, fmt.Sprintf("%s-%d", *prefix, i))
		if err := fleet[i].store.SaveSession(ctx, seedSession(i)); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	loadStats := runLoadPhase(ctx, fleet, *ops, *concurrency)
	cycleStats := runLockCyclePhase(ctx, fleet, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("load", loadStats)
	printStats("lock-cycle", cycleStats)
}

func runLoadPhase(ctx context.Context, fleet []device, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				d := &fleet[r.Intn(len(fleet))]
				t0 := time.Now()
				sess, err := d.store.LoadSession(ctx)
				elapsed := time.Since(t0)
				if err != nil || sess == nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, elapsed)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

func runLockCyclePhase(ctx context.Context, fleet []device, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				d := &fleet[r.Intn(len(fleet))]

				d.mu.Lock()
				t0 := time.Now()
				sess, err := d.store.LoadSession(ctx)
				if err == nil && sess != nil {
					sess.Locked = !d.locked
					err = d.store.SaveSession(ctx, sess)
				}
				elapsed := time.Since(t0)
				if err == nil && sess != nil {
					d.locked = !d.locked
				} else {
					atomic.AddInt64(&failures, 1)
				}
				d.mu.Unlock()

				mu.Lock()
				latencies = append(latencies, elapsed)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func seedSession(i int) *authflow.PersistedSession {
	now := time.Now()
	return &authflow.PersistedSession{
		Token:          fmt.Sprintf("tok-%d", i),
		RefreshToken:   fmt.Sprintf("refresh-%d", i),
		TokenExpiresAt: now.Add(24 * time.Hour),
		User: &authflow.User{
			ID:          fmt.Sprintf("member-%d", i),
			DisplayName: fmt.Sprintf("Member %d", i),
		},
		Membership: &authflow.MembershipInfo{
			MemberNumber: fmt.Sprintf("M-%06d", i),
			Tier:         "standard",
		},
	}
}
