package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv    string
	LogLevel  string
	AdminAddr string

	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string
	CachePfx  string

	GPSBase     string
	GPSKey      string
	RewardsBase string
	RewardsKey  string
	RemoteRPS   int
	RemoteTO    time.Duration

	CatalogSource string // gps|mysql

	ProximityBuffer float64
	AttractionRange float64
	NearbyTopK      int
	ScoringWorkers  int
	TrackWorkers    int
	SyncWorkers     int
	TrackInterval   time.Duration
	ShutdownGrace   time.Duration
	CacheTTL        time.Duration
	ScoreCacheTTL   time.Duration

	TrackUserIDs []uuid.UUID
}

func Load() Config {
	if os.Getenv("APP_ENV") == "dev" {
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("no .env loaded")
		}
	}
	c := Config{
		AppEnv:    env("APP_ENV", "prod"),
		LogLevel:  env("LOG_LEVEL", "info"),
		AdminAddr: env("ADMIN_ADDR", ":9100"),

		MySQLDSN:  env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tourguide?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisDB:   atoi("REDIS_DB", 0),
		RedisPass: env("REDIS_PASSWORD", ""),
		CachePfx:  env("CACHE_PREFIX", "tourguide:"),

		GPSBase:     env("GPS_BASE_URL", "http://localhost:8081"),
		GPSKey:      env("GPS_API_KEY", ""),
		RewardsBase: env("REWARDS_BASE_URL", "http://localhost:8082"),
		RewardsKey:  env("REWARDS_API_KEY", ""),
		RemoteRPS:   atoi("REMOTE_RPS", 50),
		RemoteTO:    time.Duration(atoi("REMOTE_TIMEOUT_SECONDS", 10)) * time.Second,

		CatalogSource: strings.ToLower(env("CATALOG_SOURCE", "gps")),

		ProximityBuffer: atof("PROXIMITY_BUFFER_MILES", 10),
		AttractionRange: atof("ATTRACTION_RANGE_MILES", 200),
		NearbyTopK:      atoi("NEARBY_TOP_K", 5),
		ScoringWorkers:  atoi("SCORING_WORKERS", 64),
		TrackWorkers:    atoi("TRACK_WORKERS", 16),
		SyncWorkers:     atoi("SYNC_WORKERS", 8),
		TrackInterval:   time.Duration(atoi("TRACK_INTERVAL_SECONDS", 300)) * time.Second,
		ShutdownGrace:   time.Duration(atoi("SHUTDOWN_GRACE_SECONDS", 60)) * time.Second,
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		ScoreCacheTTL:   time.Duration(atoi("SCORE_CACHE_TTL_SECONDS", 3600)) * time.Second,

		TrackUserIDs: uuids("TRACK_USER_IDS"),
	}
	if c.GPSKey == "" {
		log.Warn().Msg("GPS_API_KEY is empty")
	}
	if c.RewardsKey == "" {
		log.Warn().Msg("REWARDS_API_KEY is empty")
	}
	if c.CatalogSource != "gps" && c.CatalogSource != "mysql" {
		log.Warn().Str("source", c.CatalogSource).Msg("unknown CATALOG_SOURCE, using gps")
		c.CatalogSource = "gps"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
	}
	return def
}

// uuids parses a comma-separated list, skipping blanks and logging bad entries.
func uuids(k string) []uuid.UUID {
	var out []uuid.UUID
	for _, s := range strings.Split(os.Getenv(k), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			log.Warn().Str("key", k).Str("value", s).Msg("invalid uuid skipped")
			continue
		}
		out = append(out, id)
	}
	return out
}
