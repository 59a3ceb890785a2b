// Package resultcache memoizes simulation summaries in a SQLite database,
// keyed by a hash of the system manifest plus window/trial_size/seed, so
// repeated runs of the same (system, window, seed) don't re-simulate.
// Entries never expire: a key is a hash of everything that determines the
// result, and the simulator is deterministic for a fixed key, so there is
// nothing for a TTL to protect against.
package resultcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/simulator"
	"github.com/brianmickel/adequacy/internal/units"
)

// Summary is the cached, cheap-to-serialize result of a simulation run:
// enough to answer metric queries without re-running Monte Carlo sampling.
type Summary struct {
	MeanNetCapacity float64            `json:"mean_net_capacity"`
	MinNetCapacity  float64            `json:"min_net_capacity"`
	MaxNetCapacity  float64            `json:"max_net_capacity"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Cache is a SQLite-backed key/value store from simulation identity to
// Summary. The zero value is not usable; construct with Open.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite database at path and ensures
// the cache table exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("resultcache: open %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS summaries (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("resultcache: create schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Key derives a deterministic cache key from a system snapshot and
// simulation config: identical (system, window, trial_size, seed) always
// hashes to the same key. sys.Units() is already ordered by ascending id
// (Builder.Build sorts it), so insertion order never affects the hash.
func Key(sys energysystem.System, cfg simulator.Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:%s:%d:%d", cfg.StartHour.UnixNano(), cfg.EndHour.UnixNano(), cfg.StartHour.Location(), cfg.TrialSize, cfg.Seed)
	for _, u := range sys.Units() {
		fmt.Fprintf(h, ":%d:%s:%.6f", u.ID, u.Kind.String(), u.Nameplate())
		switch u.Kind {
		case units.KindDemand:
			fmt.Fprintf(h, ":%v:%v", u.Demand.HourlyDemand.Times(), u.Demand.HourlyDemand.Values())
		case units.KindStatic:
			fmt.Fprintf(h, ":%v:%v", u.Static.HourlyCapacity.Times(), u.Static.HourlyCapacity.Values())
		case units.KindStochastic:
			st := u.Stochastic
			fmt.Fprintf(h, ":%v:%v:%v:%v", st.HourlyCapacity.Times(), st.HourlyCapacity.Values(), st.HourlyForcedOutageRate.Times(), st.HourlyForcedOutageRate.Values())
		case units.KindStorage:
			fmt.Fprintf(h, ":%v", *u.Storage)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached summary. A cache miss (unknown key or corrupt
// payload) reports ok=false rather than an error.
func (c *Cache) Get(key string) (Summary, bool) {
	var payload string
	err := c.db.QueryRow(`SELECT payload FROM summaries WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		return Summary{}, false
	}
	var s Summary
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return Summary{}, false
	}
	return s, true
}

// Set stores or replaces the cached summary for key.
func (c *Cache) Set(key string, summary Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("resultcache: marshal summary: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT INTO summaries (key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("resultcache: set %s: %w", key, err)
	}
	return nil
}

// Summarize assembles the cheap Summary the cache stores from an NCM's
// already-computed mean/min/max (see MeanMinMax) and metric values.
func Summarize(mean, min, max float64, metricValues map[string]float64) Summary {
	return Summary{MeanNetCapacity: mean, MinNetCapacity: min, MaxNetCapacity: max, Metrics: metricValues}
}
