package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"ai-marketing-content-creator/modules/broker"
	"ai-marketing-content-creator/modules/common/config"
	"ai-marketing-content-creator/modules/studio"
)

const shutdownTimeout = 10 * time.Second

// brokerStatus - /metrics 에서 쓰는 브로커 상태
type brokerStatus interface {
	IsConnected() bool
	Tools() []string
	Stats() broker.Stats
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := buildAssetStore(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := broker.New(cfg.ToolCallTimeout)
	hub := NewHub(func() broker.Event {
		return broker.Event{Type: broker.EventConnection, Connected: b.IsConnected(), Time: time.Now()}
	})
	b.OnEvent(hub.Broadcast)

	// 툴 서버 연결 + 큐 처리 (백그라운드)
	go func() {
		if err := b.Run(ctx, toolServerConnector(cfg)); err != nil {
			log.Printf("❌ [Broker] %v", err)
		}
	}()

	r := newRouter(hub, b, studio.NewHandler(studio.NewService(b, store)))
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down...")
		b.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️  Server shutdown: %v", err)
		}
	}()

	log.Printf("🚀 AI Marketing Content Creator starting on port %s", cfg.Port)
	log.Printf("🎨 UI: http://localhost:%s/", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// toolServerConnector - TOOL_SERVER_COMMAND가 없으면 자기 바이너리를 tool-server로 실행
func toolServerConnector(cfg *config.Config) broker.ConnectFunc {
	return func(ctx context.Context) (broker.Caller, error) {
		command, args, err := toolServerCommand(cfg.ToolServerCommand)
		if err != nil {
			return nil, err
		}
		caller, err := broker.NewMCPCaller(ctx, command, args, nil)
		if err != nil {
			return nil, err
		}
		return caller, nil
	}
}

func toolServerCommand(configured string) (string, []string, error) {
	if fields := strings.Fields(configured); len(fields) > 0 {
		return fields[0], fields[1:], nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("failed to locate own executable: %w", err)
	}
	return exe, []string{"tool-server"}, nil
}

func newRouter(hub *Hub, b brokerStatus, ui *studio.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/metrics", getMetrics(hub, b)).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWebSocket)
	ui.RegisterRoutes(r)
	return r
}

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ai-marketing-content-creator",
	})
}

// 서버 메트릭 조회 엔드포인트
func getMetrics(hub *Hub, b brokerStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hub.metrics.mutex.RLock()
		startTime := hub.metrics.StartTime
		totalConnections := hub.metrics.TotalConnections
		hub.metrics.mutex.RUnlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"server": map[string]interface{}{
				"uptime":           time.Since(startTime).String(),
				"startTime":        startTime,
				"totalConnections": totalConnections,
				"currentClients":   hub.ClientCount(),
			},
			"broker": map[string]interface{}{
				"connected": b.IsConnected(),
				"tools":     b.Tools(),
				"stats":     b.Stats(),
			},
		})
	}
}
