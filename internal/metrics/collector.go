package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/liftedinit/hashchain/internal/chain"
)

// ChainCollector exposes chain and mining activity. It is fed through the
// chain.Observer and pow.Observer hooks, so scrapes never touch the chain itself.
type ChainCollector struct {
	mu sync.Mutex

	height        uint64
	appended      uint64
	rejected      map[chain.Outcome]uint64
	mined         uint64
	hashAttempts  uint64
	miningSeconds float64

	heightDesc        *prometheus.Desc
	appendedDesc      *prometheus.Desc
	rejectedDesc      *prometheus.Desc
	minedDesc         *prometheus.Desc
	hashAttemptsDesc  *prometheus.Desc
	miningSecondsDesc *prometheus.Desc
}

func NewChainCollector() *ChainCollector {
	return &ChainCollector{
		rejected: make(map[chain.Outcome]uint64),
		heightDesc: prometheus.NewDesc(
			prometheus.BuildFQName("hashchain", "chain", "height"),
			"Id of the latest appended block",
			nil, nil,
		),
		appendedDesc: prometheus.NewDesc(
			prometheus.BuildFQName("hashchain", "blocks", "appended_total"),
			"Blocks accepted by append",
			nil, nil,
		),
		rejectedDesc: prometheus.NewDesc(
			prometheus.BuildFQName("hashchain", "blocks", "rejected_total"),
			"Blocks rejected by append, by validation outcome",
			[]string{"outcome"}, nil,
		),
		minedDesc: prometheus.NewDesc(
			prometheus.BuildFQName("hashchain", "miner", "blocks_total"),
			"Blocks mined",
			nil, nil,
		),
		hashAttemptsDesc: prometheus.NewDesc(
			prometheus.BuildFQName("hashchain", "miner", "hash_attempts_total"),
			"Hashes computed by successful searches",
			nil, nil,
		),
		miningSecondsDesc: prometheus.NewDesc(
			prometheus.BuildFQName("hashchain", "miner", "seconds_total"),
			"Time spent in successful searches",
			nil, nil,
		),
	}
}

func (c *ChainCollector) BlockAppended(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appended++
	c.height = id
}

func (c *ChainCollector) BlockRejected(_ uint64, outcome chain.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejected[outcome]++
}

func (c *ChainCollector) BlockMined(_ uint64, nonce uint64, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mined++
	c.hashAttempts += nonce + 1
	c.miningSeconds += elapsed.Seconds()
}

func (c *ChainCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.heightDesc
	ch <- c.appendedDesc
	ch <- c.rejectedDesc
	ch <- c.minedDesc
	ch <- c.hashAttemptsDesc
	ch <- c.miningSecondsDesc
}

func (c *ChainCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.heightDesc, prometheus.GaugeValue, float64(c.height))
	ch <- prometheus.MustNewConstMetric(c.appendedDesc, prometheus.CounterValue, float64(c.appended))
	for _, outcome := range chain.Outcomes() {
		ch <- prometheus.MustNewConstMetric(c.rejectedDesc, prometheus.CounterValue, float64(c.rejected[outcome]), outcome.String())
	}
	ch <- prometheus.MustNewConstMetric(c.minedDesc, prometheus.CounterValue, float64(c.mined))
	ch <- prometheus.MustNewConstMetric(c.hashAttemptsDesc, prometheus.CounterValue, float64(c.hashAttempts))
	ch <- prometheus.MustNewConstMetric(c.miningSecondsDesc, prometheus.CounterValue, c.miningSeconds)
}
