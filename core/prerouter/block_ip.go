package prerouter

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayomtuase/julieth/core"
	"github.com/ayomtuase/julieth/topk"
)

const (
	blockingDuration = 3 * time.Minute
	defaultBlockCost = 1

	// 1 hour buckets
	bucketDurationSec = 3600
)

// getTimeBucket returns the bucket number for a given time (periods since Unix epoch)
func getTimeBucket(t time.Time) int64 {
	return t.Unix() / bucketDurationSec
}

// formatBlockKey creates a consistent cache key for blocked IPs
func formatBlockKey(ip string, bucket int64) string {
	return fmt.Sprintf("blockip:%s|%d", ip, bucket)
}

// sketchLevels are the presets selectable with block_ip.level. Credential
// submissions are rare compared to page loads, so ticks are small.
// - "low":    ~10 KB. A few submissions per second.
// - "medium": ~120 KB. Most deployments.
// - "high":   ~640 KB. Busy sites that need accuracy.
var sketchLevels = map[string]topk.SketchParams{
	"low": {
		K:               2,
		WindowSize:      5,
		Width:           256,
		Depth:           2,
		TickSize:        20,
		MaxSharePercent: 50,
		ActivationRPS:   2,
	},
	"medium": {
		K:               3,
		WindowSize:      10,
		Width:           1024,
		Depth:           3,
		TickSize:        50,
		MaxSharePercent: 30,
		ActivationRPS:   5,
	},
	"high": {
		K:               5,
		WindowSize:      10,
		Width:           4096,
		Depth:           4,
		TickSize:        100,
		MaxSharePercent: 20,
		ActivationRPS:   20,
	},
}

// BlockIp is a circuit breaker in front of the credential endpoints: clients
// sending a disproportionate share of the submissions are refused for a while.
// It is not a rate limiter.
type BlockIp struct {
	env    Env
	sketch *topk.TopKSketch
	now    func() time.Time
}

// NewBlockIp reads the level once. The level is validated in config.Validate.
func NewBlockIp(env Env) *BlockIp {
	params := sketchLevels[env.Config().BlockIp.Level]
	return &BlockIp{
		env:    env,
		sketch: topk.New(params),
		now:    time.Now,
	}
}

func (b *BlockIp) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := b.env.Config()
		if !cfg.BlockIp.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := ClientIP(r, cfg.Server.ClientIpProxyHeader)
		if b.IsBlocked(ip) {
			core.WriteIpBlocked(w)
			return
		}
		b.Process(ip)

		next.ServeHTTP(w, r)
	})
}

// IsBlocked checks if a given IP address is currently blocked by looking in the cache.
func (b *BlockIp) IsBlocked(ip string) bool {
	_, found := b.env.Cache().Get(formatBlockKey(ip, getTimeBucket(b.now())))
	return found
}

// Block adds ip to the block list. A block crossing into the next bucket is
// also stored there for the remaining time.
func (b *BlockIp) Block(ip string) error {
	now := b.now()
	currentBucket := getTimeBucket(now)
	nextBucket := currentBucket + 1

	if !b.env.Cache().SetWithTTL(formatBlockKey(ip, currentBucket), true, defaultBlockCost, blockingDuration) {
		return fmt.Errorf("failed to block IP %s in current bucket %d", ip, currentBucket)
	}

	timeUntilNextBucket := time.Duration(nextBucket*bucketDurationSec-now.Unix()) * time.Second
	if ttlNext := blockingDuration - timeUntilNextBucket; ttlNext > 0 {
		if !b.env.Cache().SetWithTTL(formatBlockKey(ip, nextBucket), true, defaultBlockCost, ttlNext) {
			return fmt.Errorf("failed to block IP %s in next bucket %d", ip, nextBucket)
		}
	}

	b.env.Logger().Info("blockip: IP blocked", "ip", ip, "bucket", currentBucket, "duration", blockingDuration)
	return nil
}

// Process feeds ip to the sketch and blocks the heavy hitters it reports.
// Blocking runs in the background, the cache batches the writes.
func (b *BlockIp) Process(ip string) {
	blocked := b.sketch.ProcessTick(ip)
	if len(blocked) == 0 {
		return
	}
	b.env.Logger().Warn("blockip: heavy hitters", "ips", blocked)
	go func(ips []string) {
		for _, ip := range ips {
			if err := b.Block(ip); err != nil {
				b.env.Logger().Error("blockip: failed to block IP", "ip", ip, "error", err)
			}
		}
	}(blocked)
}
