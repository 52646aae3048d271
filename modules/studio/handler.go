package studio

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"ai-marketing-content-creator/modules/broker"
)

//go:embed web/index.html
var indexHTML []byte

type Handler struct {
	service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{service: svc}
}

// RegisterRoutes - UI + API 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.HandleIndex).Methods("GET")
	r.HandleFunc("/api/status", h.HandleStatus).Methods("GET")
	r.HandleFunc("/api/tools", h.HandleTools).Methods("GET")
	r.HandleFunc("/api/strategy/{type}", h.HandleStrategy).Methods("GET")
	r.HandleFunc("/api/templates", h.HandleTemplates).Methods("GET")

	r.HandleFunc("/api/single", h.HandleSingle).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/batch", h.HandleBatch).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/social", h.HandleSocial).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/ai-prompt", h.HandleAIPrompt).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/ai-prompt/improve", h.HandleImprove).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/ai-prompt/image", h.HandlePromptImage).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/ab-report", h.HandleABReport).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/package", h.HandlePackage).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/templates/{name}", h.HandleFillTemplate).Methods("POST", "OPTIONS")

	r.HandleFunc("/images/{name}", h.HandleImage).Methods("GET")
}

// HandleIndex - GET /
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// HandleStatus - GET /api/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ConnectionStatus())
}

// HandleTools - GET /api/tools
func (h *Handler) HandleTools(w http.ResponseWriter, r *http.Request) {
	status := h.service.ConnectionStatus()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connected": status.Connected,
		"tools":     status.Tools,
	})
}

// HandleStrategy - GET /api/strategy/{type}
func (h *Handler) HandleStrategy(w http.ResponseWriter, r *http.Request) {
	variationType := mux.Vars(r)["type"]
	writeJSON(w, http.StatusOK, map[string]string{
		"variation_type": variationType,
		"info":           h.service.StrategyInfo(variationType),
	})
}

// HandleTemplates - GET /api/templates
func (h *Handler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Templates())
}

// HandleFillTemplate - POST /api/templates/{name}
func (h *Handler) HandleFillTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	filled, err := h.service.FillTemplate(mux.Vars(r)["name"], req.Values)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"prompt": filled})
}

// HandleSingle - POST /api/single
func (h *Handler) HandleSingle(w http.ResponseWriter, r *http.Request) {
	var req SingleRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	log.Printf("🎨 [Studio] Single image: style=%s, steps=%d", req.Style, req.Steps)
	writeJSON(w, http.StatusOK, h.service.SingleImage(r.Context(), req))
}

// HandleBatch - POST /api/batch
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	log.Printf("🔄 [Studio] Batch variations: type=%s, count=%d", req.VariationType, req.Count)
	writeJSON(w, http.StatusOK, h.service.BatchVariations(r.Context(), req))
}

// HandleSocial - POST /api/social
func (h *Handler) HandleSocial(w http.ResponseWriter, r *http.Request) {
	var req SocialRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	log.Printf("📱 [Studio] Social pack: platforms=%v", req.Platforms)
	writeJSON(w, http.StatusOK, h.service.SocialPack(r.Context(), req))
}

// HandleAIPrompt - POST /api/ai-prompt
func (h *Handler) HandleAIPrompt(w http.ResponseWriter, r *http.Request) {
	var req AIPromptRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.GenerateAIPrompt(r.Context(), req))
}

// HandleImprove - POST /api/ai-prompt/improve
func (h *Handler) HandleImprove(w http.ResponseWriter, r *http.Request) {
	var req ImproveRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.ImprovePrompt(r.Context(), req))
}

// HandlePromptImage - POST /api/ai-prompt/image
func (h *Handler) HandlePromptImage(w http.ResponseWriter, r *http.Request) {
	var req PromptImageRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.GenerateFromAIPrompt(r.Context(), req))
}

// HandleABReport - POST /api/ab-report
func (h *Handler) HandleABReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.ABReport(r.Context(), req))
}

// HandlePackage - POST /api/package (zip 다운로드)
func (h *Handler) HandlePackage(w http.ResponseWriter, r *http.Request) {
	var req PackageRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	data, filename, err := h.service.Package(r.Context(), req)
	if err != nil {
		log.Printf("❌ [Studio] Package failed: %v", err)
		code := http.StatusBadRequest
		if errors.Is(err, broker.ErrNotConnected) {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// HandleImage - GET /images/{name}
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	rc, err := h.service.store.Open(name)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, os.ErrNotExist) {
			code = http.StatusNotFound
		}
		http.Error(w, "image not found", code)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("⚠️  [Studio] Failed to stream %s: %v", name, err)
	}
}

// decodeRequest - OPTIONS는 200으로 끝내고, JSON 파싱 실패는 400
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("❌ [Studio] Invalid request: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ [Studio] Failed to encode response: %v", err)
	}
}
