package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ai-marketing-content-creator/modules/assistant"
	"ai-marketing-content-creator/modules/common/fallback"
	"ai-marketing-content-creator/modules/common/model"
	"ai-marketing-content-creator/modules/prompt"
)

const serverVersion = "1.0.0"

// NewMCPServer - Service의 각 동작을 MCP 툴로 등록
func NewMCPServer(svc *Service) *server.MCPServer {
	s := server.NewMCPServer(ServerName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(ToolGeneratePrompt,
		mcp.WithDescription("Use an LLM to turn a user idea into a detailed, cinematic Flux prompt"),
		mcp.WithString("user_input", mcp.Required(), mcp.Description("What the user wants to see")),
		mcp.WithString("context", mcp.DefaultString(assistant.DefaultContext)),
		mcp.WithString("style", mcp.DefaultString(assistant.DefaultStyle)),
		mcp.WithString("platform", mcp.DefaultString(assistant.DefaultPlatform)),
	), svc.handleGeneratePrompt)

	s.AddTool(mcp.NewTool(ToolEnhancePrompt,
		mcp.WithDescription("Enhance a basic prompt with rich visual details"),
		mcp.WithString("base_prompt", mcp.Required()),
		mcp.WithString("enhancement_type", mcp.DefaultString(assistant.DefaultEnhancementType)),
	), svc.handleEnhancePrompt)

	s.AddTool(mcp.NewTool(ToolGenerateImage,
		mcp.WithDescription("Generate a single image with specified dimensions"),
		mcp.WithString("prompt", mcp.Required()),
		stepsParam(), widthParam(), heightParam(),
	), svc.handleGenerateImage)

	s.AddTool(mcp.NewTool(ToolSmartVariations,
		mcp.WithDescription("Generate multiple meaningful variations for A/B testing content"),
		mcp.WithString("prompt", mcp.Required()),
		mcp.WithNumber("count", mcp.DefaultNumber(prompt.DefaultVariations), mcp.Max(prompt.MaxVariations)),
		mcp.WithString("variation_type", mcp.DefaultString(prompt.VariationMixed),
			mcp.Description("mixed, color_schemes, composition_styles, emotional_tones, visual_styles, lighting_moods, social_media, engagement_hooks, brand_positioning")),
		stepsParam(), widthParam(), heightParam(),
	), svc.handleSmartVariations)

	s.AddTool(mcp.NewTool(ToolABReport,
		mcp.WithDescription("Generate a template for tracking A/B test results"),
		mcp.WithString("variations_data", mcp.Required(), mcp.Description("JSON output of a batch generation")),
	), svc.handleABReport)

	s.AddTool(mcp.NewTool(ToolBatchImages,
		mcp.WithDescription("Generate multiple images with mixed smart variations"),
		mcp.WithString("prompt", mcp.Required()),
		mcp.WithNumber("count", mcp.DefaultNumber(prompt.DefaultVariations)),
		stepsParam(), widthParam(), heightParam(),
	), svc.handleBatchImages)

	s.AddTool(mcp.NewTool(ToolSocialMediaSet,
		mcp.WithDescription("Generate images sized for different social media platforms"),
		mcp.WithString("prompt", mcp.Required()),
		mcp.WithArray("platforms", mcp.Required(), mcp.Items(map[string]any{"type": "string"})),
		stepsParam(),
	), svc.handleSocialMediaSet)

	s.AddTool(mcp.NewTool(ToolAddStyleModifier,
		mcp.WithDescription("Add style modifiers to ensure brand consistency"),
		mcp.WithString("prompt", mcp.Required()),
		mcp.WithString("style", mcp.Required(), mcp.Description(strings.Join(prompt.StyleNames(), ", "))),
	), svc.handleAddStyleModifier)

	s.AddTool(mcp.NewTool(ToolGenerationHistory,
		mcp.WithDescription("Get recent generation history for reuse and reference"),
		mcp.WithNumber("limit", mcp.DefaultNumber(DefaultHistoryLimit)),
	), svc.handleGenerationHistory)

	s.AddTool(mcp.NewTool(ToolCreateImagePackage,
		mcp.WithDescription("Create a package manifest of generated images with metadata"),
		mcp.WithArray("image_data_list", mcp.Required(), mcp.Items(map[string]any{"type": "object"})),
		mcp.WithString("package_name", mcp.DefaultString(DefaultPackageName)),
	), svc.handleCreateImagePackage)

	s.AddTool(mcp.NewTool(ToolHealthCheck,
		mcp.WithDescription("Check if the image backend is healthy"),
	), svc.handleHealthCheck)

	return s
}

// Serve - stdin/stdout으로 MCP 제공 (로그는 stderr)
func Serve(ctx context.Context, svc *Service) error {
	return ServeIO(ctx, svc, os.Stdin, os.Stdout)
}

// ServeIO - 임의의 스트림으로 MCP 제공
func ServeIO(ctx context.Context, svc *Service, in io.Reader, out io.Writer) error {
	log.SetOutput(os.Stderr)
	log.Printf("🚀 [ToolServer] Starting %s MCP server on stdio", ServerName)

	stdio := server.NewStdioServer(NewMCPServer(svc))
	stdio.SetErrorLogger(log.New(os.Stderr, "[ToolServer] ", log.LstdFlags))
	return stdio.Listen(ctx, in, out)
}

func stepsParam() mcp.ToolOption {
	return mcp.WithNumber("num_inference_steps", mcp.DefaultNumber(model.DefaultSteps))
}

func widthParam() mcp.ToolOption {
	return mcp.WithNumber("width", mcp.DefaultNumber(model.DefaultWidth))
}

func heightParam() mcp.ToolOption {
	return mcp.WithNumber("height", mcp.DefaultNumber(model.DefaultHeight))
}

func imageRequest(request mcp.CallToolRequest) model.ImageRequest {
	return model.ImageRequest{
		Prompt:            request.GetString("prompt", ""),
		NumInferenceSteps: request.GetInt("num_inference_steps", model.DefaultSteps),
		Width:             request.GetInt("width", model.DefaultWidth),
		Height:            request.GetInt("height", model.DefaultHeight),
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Service) handleGeneratePrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userInput, err := request.RequireString("user_input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.GeneratePrompt(ctx, assistant.PromptRequest{
		UserInput: userInput,
		Context:   request.GetString("context", assistant.DefaultContext),
		Style:     request.GetString("style", assistant.DefaultStyle),
		Platform:  request.GetString("platform", assistant.DefaultPlatform),
	}))
}

func (s *Service) handleEnhancePrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	basePrompt, err := request.RequireString("base_prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.EnhancePrompt(ctx, basePrompt, request.GetString("enhancement_type", assistant.DefaultEnhancementType)))
}

func (s *Service) handleGenerateImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b64, err := s.GenerateImage(ctx, imageRequest(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(b64), nil
}

func (s *Service) handleSmartVariations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.SmartVariations(ctx,
		request.GetString("prompt", ""),
		request.GetInt("count", prompt.DefaultVariations),
		request.GetString("variation_type", prompt.VariationMixed),
		imageRequest(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Service) handleABReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.ABReport(request.GetString("variations_data", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (s *Service) handleBatchImages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.BatchImages(ctx,
		request.GetString("prompt", ""),
		request.GetInt("count", prompt.DefaultVariations),
		imageRequest(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Service) handleSocialMediaSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.SocialMediaSet(ctx,
		request.GetString("prompt", ""),
		request.GetStringSlice("platforms", nil),
		request.GetInt("num_inference_steps", model.DefaultSteps))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Service) handleAddStyleModifier(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.AddStyleModifier(request.GetString("prompt", ""), request.GetString("style", "")))
}

func (s *Service) handleGenerationHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.GenerationHistory(ctx, request.GetInt("limit", DefaultHistoryLimit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Service) handleCreateImagePackage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	raw := fallback.SafeList(args["image_data_list"])

	items := make([]PackageItem, 0, len(raw))
	for _, item := range raw {
		items = append(items, PackageItem{
			Prompt:   fallback.SafeString(item["prompt"], ""),
			Metadata: fallback.SafeMap(item["metadata"]),
		})
	}
	return jsonResult(s.CreateImagePackage(items, request.GetString("package_name", DefaultPackageName)))
}

func (s *Service) handleHealthCheck(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.HealthCheck(ctx)), nil
}
