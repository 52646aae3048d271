package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 백엔드 선택값
const (
	PromptProviderMistral = "mistral"
	PromptProviderGemini  = "gemini"

	ImageBackendModal  = "modal"
	ImageBackendGemini = "gemini"

	HistoryBackendMemory = "memory"
	HistoryBackendRedis  = "redis"

	AssetStoreLocal    = "local"
	AssetStoreSupabase = "supabase"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Server
	Port string

	// Modal GPU (Flux) API
	ModalAPIURL  string
	ImageBackend string

	// Prompt Writer (Mistral / Gemini)
	PromptProvider   string
	MistralAPIKey    string
	MistralAPIURL    string
	MistralModel     string
	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string
	PromptCacheTTL   time.Duration

	// Generation History
	HistoryBackend string
	HistoryKey     string
	RedisHost      string
	RedisPort      string
	RedisUsername  string
	RedisPassword  string
	RedisUseTLS    bool

	// Asset Store
	AssetStore         string
	OutputDir          string
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	// Tool Broker
	ToolServerCommand    string
	ToolCallTimeout      time.Duration
	GenerationRatePerSec float64
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Modal GPU
		ModalAPIURL:  getEnv("MODAL_API_URL", ""),
		ImageBackend: getEnv("IMAGE_BACKEND", ImageBackendModal),

		// Prompt Writer
		PromptProvider:   getEnv("PROMPT_PROVIDER", PromptProviderMistral),
		MistralAPIKey:    getEnv("MISTRAL_API_KEY", ""),
		MistralAPIURL:    getEnv("MISTRAL_API_URL", "https://api.mistral.ai/v1"),
		MistralModel:     getEnv("MISTRAL_MODEL", "mistral-large-latest"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		PromptCacheTTL:   getDuration("PROMPT_CACHE_TTL", 30*time.Minute),

		// History
		HistoryBackend: getEnv("HISTORY_BACKEND", HistoryBackendMemory),
		HistoryKey:     getEnv("HISTORY_KEY", "marketing:history"),
		RedisHost:      getEnv("REDIS_HOST", ""),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisUsername:  getEnv("REDIS_USERNAME", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:    getBool("REDIS_USE_TLS", false),

		// Asset Store
		AssetStore:         getEnv("ASSET_STORE", AssetStoreLocal),
		OutputDir:          getEnv("OUTPUT_DIR", "created_image"),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "marketing-assets"),

		// Broker
		ToolServerCommand:    getEnv("TOOL_SERVER_COMMAND", ""),
		ToolCallTimeout:      getDuration("TOOL_CALL_TIMEOUT", 500*time.Second),
		GenerationRatePerSec: getFloat("GENERATION_RATE_PER_SEC", 2),
	}

	// 필수 환경변수 검증
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	globalConfig = cfg

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Image backend: %s (Modal: %s)", cfg.ImageBackend, cfg.ModalAPIURL)
	log.Printf("   Prompt provider: %s", cfg.PromptProvider)
	log.Printf("   History: %s", cfg.HistoryBackend)
	log.Printf("   Assets: %s (%s)", cfg.AssetStore, cfg.OutputDir)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 선택값 및 선택된 백엔드의 필수값 검증
func (c *Config) validate() error {
	switch c.ImageBackend {
	case ImageBackendModal, ImageBackendGemini:
	default:
		return fmt.Errorf("IMAGE_BACKEND must be %q or %q, got %q", ImageBackendModal, ImageBackendGemini, c.ImageBackend)
	}
	switch c.PromptProvider {
	case PromptProviderMistral, PromptProviderGemini:
	default:
		return fmt.Errorf("PROMPT_PROVIDER must be %q or %q, got %q", PromptProviderMistral, PromptProviderGemini, c.PromptProvider)
	}
	if (c.ImageBackend == ImageBackendGemini || c.PromptProvider == PromptProviderGemini) && len(c.GeminiAPIKeys()) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required when a Gemini backend is selected")
	}
	switch c.HistoryBackend {
	case HistoryBackendMemory:
	case HistoryBackendRedis:
		if c.RedisHost == "" {
			return fmt.Errorf("REDIS_HOST is required when HISTORY_BACKEND=redis")
		}
	default:
		return fmt.Errorf("HISTORY_BACKEND must be %q or %q, got %q", HistoryBackendMemory, HistoryBackendRedis, c.HistoryBackend)
	}
	switch c.AssetStore {
	case AssetStoreLocal:
	case AssetStoreSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required when ASSET_STORE=supabase")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required when ASSET_STORE=supabase")
		}
	default:
		return fmt.Errorf("ASSET_STORE must be %q or %q, got %q", AssetStoreLocal, AssetStoreSupabase, c.AssetStore)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if s := os.Getenv(key); s != "" {
		if parsed, err := strconv.ParseBool(s); err == nil {
			return parsed
		}
		log.Printf("⚠️  Invalid %s=%q, using default %v", key, s, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if parsed, err := time.ParseDuration(s); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("⚠️  Invalid %s=%q, using default %s", key, s, defaultValue)
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if s := os.Getenv(key); s != "" {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("⚠️  Invalid %s=%q, using default %v", key, s, defaultValue)
	}
	return defaultValue
}

// GeminiAPIKeys - GEMINI_API_KEY를 쉼표로 나눈 키 목록 (429 시 다음 키 사용)
func (c *Config) GeminiAPIKeys() []string {
	var keys []string
	for _, k := range strings.Split(c.GeminiAPIKey, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
