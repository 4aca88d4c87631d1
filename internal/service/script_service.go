package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gamevideogen/api/internal/client"
	"github.com/gamevideogen/api/internal/model"
)

// ScriptGenerator defines the interface for script generation
type ScriptGenerator interface {
	Generate(ctx context.Context, req *model.ScriptGenerateRequest) (*model.VideoScript, error)
}

// ScriptService generates scene-by-scene promo video scripts using OpenAI
type ScriptService struct {
	openaiClient *client.OpenAIClient
}

// NewScriptService creates a new script service with an OpenAI client
func NewScriptService(openaiClient *client.OpenAIClient) *ScriptService {
	return &ScriptService{
		openaiClient: openaiClient,
	}
}

// Generate creates a video script for the given game. One scene covers two
// seconds, so the scene count is duration / 2.
func (s *ScriptService) Generate(ctx context.Context, req *model.ScriptGenerateRequest) (*model.VideoScript, error) {
	language := req.Language
	if language == "" {
		language = model.LanguageEN
	}

	// Use mock response if client is not configured
	if s.openaiClient == nil || !s.openaiClient.IsConfigured() {
		return s.generateMock(req), nil
	}

	systemPrompt := s.buildSystemPrompt(req, language)
	userPrompt := s.buildUserPrompt(req, language)

	response, err := s.openaiClient.ChatCompletion(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("AI script generation failed: %w", err)
	}

	script, err := s.parseScriptResponse(response, req.Duration)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return script, nil
}

// platformStyle returns the platform-specific style guidance for prompts
func platformStyle(platform model.Platform, language model.Language) string {
	zh := language == model.LanguageZH
	switch platform {
	case model.PlatformDouyin:
		if zh {
			return "快节奏、年轻化、魔性音乐"
		}
		return "Fast-paced, youthful, catchy music"
	case model.PlatformKuaishou:
		if zh {
			return "接地气、真实感、强互动"
		}
		return "Down-to-earth, authentic, interactive"
	default:
		if zh {
			return "精致、专业、国际化"
		}
		return "Polished, professional, international"
	}
}

func (s *ScriptService) buildSystemPrompt(req *model.ScriptGenerateRequest, language model.Language) string {
	sceneCount := int(req.Duration) / 2
	style := platformStyle(req.Platform, language)

	if language == model.LanguageZH {
		return fmt.Sprintf(`你是一个专业的游戏视频脚本创作者。请为%s平台创作一个%d秒的游戏宣传视频脚本。

平台风格: %s

要求:
1. 严格使用中文
2. 总时长%d秒
3. 分为%d个场景，每场景2秒
4. 每个场景包含视觉提示(visualPrompt)和音频提示(audioPrompt)
5. 视觉提示要详细描述画面内容
6. 音频提示描述配音或音效

请以JSON格式输出，格式如下:
{"scenes": [{"duration": 2, "visualPrompt": "场景视觉描述", "audioPrompt": "场景音频描述"}], "totalDuration": %d}`,
			req.Platform, req.Duration, style, req.Duration, sceneCount, req.Duration)
	}

	return fmt.Sprintf(`You are a professional game video script creator. Create a %d-second promotional video script for %s.

Platform style: %s

Requirements:
1. Use English only
2. Total duration: %d seconds
3. Divide into %d scenes, 2 seconds each
4. Each scene includes visualPrompt and audioPrompt
5. Visual prompt should describe the scene in detail
6. Audio prompt describes voice-over or sound effects

Output in JSON format:
{"scenes": [{"duration": 2, "visualPrompt": "Scene visual description", "audioPrompt": "Scene audio description"}], "totalDuration": %d}`,
		req.Duration, req.Platform, style, req.Duration, sceneCount, req.Duration)
}

func (s *ScriptService) buildUserPrompt(req *model.ScriptGenerateRequest, language model.Language) string {
	if language == model.LanguageZH {
		return fmt.Sprintf("游戏名称: %s\n游戏描述: %s", req.GameName, req.GameDescription)
	}
	return fmt.Sprintf("Game name: %s\nGame description: %s", req.GameName, req.GameDescription)
}

func (s *ScriptService) parseScriptResponse(response string, duration model.VideoDuration) (*model.VideoScript, error) {
	response = extractJSON(response)

	var script model.VideoScript
	if err := json.Unmarshal([]byte(response), &script); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}

	if len(script.Scenes) == 0 {
		return nil, fmt.Errorf("no scenes in response")
	}
	for i, scene := range script.Scenes {
		if strings.TrimSpace(scene.VisualPrompt) == "" {
			return nil, fmt.Errorf("scene %d has an empty visual prompt", i)
		}
	}
	if script.TotalDuration == 0 {
		script.TotalDuration = int(duration)
	}

	return &script, nil
}

// extractJSON attempts to extract JSON from a response that may contain extra text
func extractJSON(s string) string {
	// Find the first { and last }
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

// generateMock builds a deterministic script for development/testing
func (s *ScriptService) generateMock(req *model.ScriptGenerateRequest) *model.VideoScript {
	sceneCount := int(req.Duration) / 2
	scenes := make([]model.ScriptScene, 0, sceneCount)
	for i := 0; i < sceneCount; i++ {
		scenes = append(scenes, model.ScriptScene{
			Duration:     2,
			VisualPrompt: fmt.Sprintf("Scene %d: %s gameplay footage, cinematic camera sweep", i+1, req.GameName),
			AudioPrompt:  fmt.Sprintf("Upbeat soundtrack, voice-over highlighting %s", req.GameName),
		})
	}

	return &model.VideoScript{
		Scenes:        scenes,
		TotalDuration: int(req.Duration),
	}
}
