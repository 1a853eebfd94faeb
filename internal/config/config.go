package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCleanupAPIKey CACHE_CLEANUP_API_KEY 미설정 시 사용되는 값 (운영 환경에서는 반드시 교체)
const DefaultCleanupAPIKey = "default-cleanup-key"

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	SiteURL    string

	// ProxyHeader carries the client IP, honoured only for requests from
	// TrustedProxies (IPs or CIDR ranges). No trusted proxies means the
	// socket address is always used.
	ProxyHeader    string
	TrustedProxies []string

	// Database
	DatabaseURL string

	Places    PlacesConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Data      DataConfig
	Email     EmailConfig

	// SigNoz
	SigNozEndpoint string
}

// PlacesConfig 외부 장소 검색 API 설정
type PlacesConfig struct {
	APIKey         string
	BaseURL        string
	Radius         int
	PageDelay      time.Duration
	RequestTimeout time.Duration
	MaxPages       int
}

// CacheConfig 결과 캐시 설정
type CacheConfig struct {
	TTL             time.Duration
	HotTTL          time.Duration
	HotCapacity     int
	CleanupAPIKey   string
	CleanupInterval time.Duration
}

// RateLimitConfig 문의 등록 rate limit 설정
type RateLimitConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	GlobalMax     int
	GlobalWindow  time.Duration
	IPMax         int
	IPWindow      time.Duration
}

// EmailConfig 문의 알림 메일 발송 (SMTP). Host가 비어 있으면 발송하지 않음
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	UseTLS   bool
	NotifyTo string
	SiteName string
}

// DataConfig 키워드/지역 데이터 파일 경로
type DataConfig struct {
	KeywordsPath  string
	LocationsPath string
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		SiteURL:    getEnvWithFallback("SITE_URL", "NEXT_PUBLIC_BASE_URL", "http://localhost:3000"),

		ProxyHeader:    getEnv("PROXY_HEADER", "X-Forwarded-For"),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		// DATABASE_URL 우선, 없으면 개별 환경변수로 구성
		DatabaseURL: getDatabaseURL(),

		Places: PlacesConfig{
			APIKey:         getEnvWithFallback("PLACES_API_KEY", "GOOGLE_PLACES_API_KEY", ""),
			BaseURL:        getEnv("PLACES_API_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
			Radius:         getEnvAsInt("PLACES_SEARCH_RADIUS", 50000),
			PageDelay:      getEnvAsDuration("PLACES_PAGE_DELAY", 2*time.Second),
			RequestTimeout: getEnvAsDuration("PLACES_REQUEST_TIMEOUT", 10*time.Second),
			MaxPages:       getEnvAsInt("PLACES_MAX_PAGES", 3),
		},

		Cache: CacheConfig{
			TTL:             time.Duration(getEnvAsInt("CACHE_TTL_DAYS", 180)) * 24 * time.Hour,
			HotTTL:          getEnvAsDuration("HOT_CACHE_TTL", 5*time.Minute),
			HotCapacity:     getEnvAsInt("HOT_CACHE_CAPACITY", 1000),
			CleanupAPIKey:   getEnv("CACHE_CLEANUP_API_KEY", DefaultCleanupAPIKey),
			CleanupInterval: getEnvAsDuration("CACHE_CLEANUP_INTERVAL", 0),
		},

		RateLimit: RateLimitConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			GlobalMax:     getEnvAsInt("RATE_LIMIT_GLOBAL_MAX", 2500),
			GlobalWindow:  getEnvAsDuration("RATE_LIMIT_GLOBAL_WINDOW", 24*time.Hour),
			IPMax:         getEnvAsInt("RATE_LIMIT_IP_MAX", 100),
			IPWindow:      getEnvAsDuration("RATE_LIMIT_IP_WINDOW", time.Hour),
		},

		Data: DataConfig{
			KeywordsPath:  getEnv("DATA_KEYWORDS_PATH", "data/keywords.json"),
			LocationsPath: getEnv("DATA_LOCATIONS_PATH", "data/locations.csv"),
		},

		Email: EmailConfig{
			Host:     getEnv("EMAIL_HOST", ""),
			Port:     getEnvAsInt("EMAIL_PORT", 587),
			User:     getEnv("EMAIL_HOST_USER", ""),
			Password: getEnv("EMAIL_HOST_PASSWORD", ""),
			From:     getEnv("DEFAULT_FROM_EMAIL", ""),
			UseTLS:   getEnvAsBool("EMAIL_USE_TLS", true),
			NotifyTo: getEnv("INQUIRY_NOTIFY_EMAIL", ""),
			SiteName: getEnv("SITE_NAME", "Local Directory"),
		},

		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

// UsesDefaultCleanupKey reports whether the admin cache endpoints are guarded
// by the built-in key.
func (c *Config) UsesDefaultCleanupKey() bool {
	return c.Cache.CleanupAPIKey == DefaultCleanupAPIKey
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvWithFallback tries primary key first, then fallback key
func getEnvWithFallback(primary, fallback, defaultValue string) string {
	if value, exists := os.LookupEnv(primary); exists && value != "" {
		return value
	}
	if value, exists := os.LookupEnv(fallback); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList 쉼표 구분 목록, 빈 항목 제외
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnvAsDuration "2s", "5m" 형식 또는 초 단위 정수
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "localdirectory")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
