package config

import (
	"strings"
	"time"
)

// RedisConfig contains Redis configuration. Sessions, list snapshots and
// fetch sequence counters are kept here when Enabled.
type RedisConfig struct {
	Enabled            bool     `env:"ENABLED"              envDefault:"false"`
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`

	// KeyPrefix namespaces every key the service writes.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"backoffice:"`

	// ListStateTTL bounds how long an idle session's list snapshots are kept.
	ListStateTTL time.Duration `env:"LIST_STATE_TTL" envDefault:"12h"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	r.KeyPrefix = strings.TrimSpace(r.KeyPrefix)
	if r.KeyPrefix == "" {
		r.KeyPrefix = "backoffice:"
	}
	if r.ListStateTTL < time.Minute {
		r.ListStateTTL = time.Minute
	}
	if r.UseCluster && r.UseSentinel {
		// Cluster wins; sentinel settings are ignored.
		r.UseSentinel = false
	}
}
