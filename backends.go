package main

import (
	"fmt"
	"log"

	"ai-marketing-content-creator/modules/assistant"
	"ai-marketing-content-creator/modules/common/config"
	"ai-marketing-content-creator/modules/common/database"
	"ai-marketing-content-creator/modules/common/gemini"
	"ai-marketing-content-creator/modules/common/history"
	"ai-marketing-content-creator/modules/common/model"
	redisconn "ai-marketing-content-creator/modules/common/redis"
	"ai-marketing-content-creator/modules/common/storage"
	"ai-marketing-content-creator/modules/common/utils"
	"ai-marketing-content-creator/modules/submodule/modalflux"
	"ai-marketing-content-creator/modules/submodule/nanobanana"
)

// buildGeminiClient - Gemini 백엔드를 하나라도 쓰면 생성, 아니면 nil
func buildGeminiClient(cfg *config.Config) (*gemini.Client, error) {
	if cfg.ImageBackend != config.ImageBackendGemini && cfg.PromptProvider != config.PromptProviderGemini {
		return nil, nil
	}
	return gemini.NewClient(cfg.GeminiAPIKeys())
}

// buildGenerator - IMAGE_BACKEND 선택
func buildGenerator(cfg *config.Config, gem *gemini.Client) (model.Generator, error) {
	switch cfg.ImageBackend {
	case config.ImageBackendModal:
		log.Printf("🖼️  Image backend: Modal Flux (%s)", cfg.ModalAPIURL)
		return modalflux.NewService(cfg.ModalAPIURL), nil
	case config.ImageBackendGemini:
		if gem == nil {
			return nil, fmt.Errorf("gemini image backend requires a Gemini client")
		}
		log.Printf("🖼️  Image backend: Gemini (%s)", cfg.GeminiImageModel)
		return nanobanana.NewService(gem, cfg.GeminiImageModel), nil
	}
	return nil, fmt.Errorf("unknown image backend %q", cfg.ImageBackend)
}

// buildWriter - PROMPT_PROVIDER 선택
func buildWriter(cfg *config.Config, gem *gemini.Client) (assistant.Writer, error) {
	switch cfg.PromptProvider {
	case config.PromptProviderMistral:
		return assistant.NewMistralWriter(cfg.MistralAPIKey, cfg.MistralAPIURL, cfg.MistralModel), nil
	case config.PromptProviderGemini:
		if gem == nil {
			return nil, fmt.Errorf("gemini prompt provider requires a Gemini client")
		}
		return assistant.NewGeminiWriter(gem, cfg.GeminiTextModel), nil
	}
	return nil, fmt.Errorf("unknown prompt provider %q", cfg.PromptProvider)
}

// buildHistory - HISTORY_BACKEND 선택. 반환된 close는 항상 호출 가능
func buildHistory(cfg *config.Config) (history.Store, func(), error) {
	if cfg.HistoryBackend != config.HistoryBackendRedis {
		return history.NewMemoryStore(), func() {}, nil
	}

	rdb, err := redisconn.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return history.NewRedisStore(rdb, cfg.HistoryKey), func() { rdb.Close() }, nil
}

// buildAssetStore - ASSET_STORE 선택. supabase도 로컬 사본을 유지
func buildAssetStore(cfg *config.Config) (storage.AssetStore, error) {
	local, err := storage.NewLocalStore(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if cfg.AssetStore != config.AssetStoreSupabase {
		return local, nil
	}

	db, err := database.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		return nil, err
	}
	log.Printf("☁️  Publishing assets to Supabase bucket %s", cfg.SupabaseBucket)
	return storage.NewSupabaseStore(local, db, cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket, utils.ConvertPNGToWebP), nil
}
