package model

// VideoGenerateRequest represents the request body for starting a video
// generation task
type VideoGenerateRequest struct {
	GameName        string        `json:"gameName" validate:"required,min=1,max=100"`
	GameDescription string        `json:"gameDescription" validate:"required,min=1,max=2000"`
	Platform        Platform      `json:"platform" validate:"required,oneof=douyin kuaishou youtube"`
	Duration        VideoDuration `json:"duration" validate:"required,oneof=4 8 12"`
	AspectRatio     AspectRatio   `json:"aspectRatio" validate:"required,oneof=16:9 9:16"`
	Language        Language      `json:"language" validate:"required,oneof=zh en"`
}

// VideoGenerateResponse represents the immediate response for a submission
type VideoGenerateResponse struct {
	TaskID  string     `json:"taskId"`
	Status  TaskStatus `json:"status"`
	Message string     `json:"message"`
}

// TaskStatusResponse represents the polled snapshot of a task
type TaskStatusResponse struct {
	TaskID       string     `json:"taskId"`
	Status       TaskStatus `json:"status"`
	VideoURL     string     `json:"videoUrl,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	Cost         *float64   `json:"cost,omitempty"`
	Error        *string    `json:"error,omitempty"`
}

// ScriptScene is a single scene in a generated video script
type ScriptScene struct {
	Duration     int    `json:"duration"`
	VisualPrompt string `json:"visualPrompt"`
	AudioPrompt  string `json:"audioPrompt,omitempty"`
}

// VideoScript is the ordered scene sequence produced by script generation
type VideoScript struct {
	Scenes        []ScriptScene `json:"scenes"`
	TotalDuration int           `json:"totalDuration"`
}

// ScriptGenerateRequest represents the request body for script generation
type ScriptGenerateRequest struct {
	GameName        string        `json:"gameName" validate:"required,min=1,max=100"`
	GameDescription string        `json:"gameDescription" validate:"required,min=1,max=2000"`
	Platform        Platform      `json:"platform" validate:"required,oneof=douyin kuaishou youtube"`
	Duration        VideoDuration `json:"duration" validate:"required,oneof=4 8 12"`
	Language        Language      `json:"language" validate:"required,oneof=zh en"`
}

// ScriptGenerateResponse represents the response for script generation
type ScriptGenerateResponse struct {
	Script        *VideoScript `json:"script"`
	EstimatedCost float64      `json:"estimatedCost"`
}

// CostEstimate breaks down the expected generation cost
type CostEstimate struct {
	ScriptCost float64 `json:"scriptCost"`
	VideoCost  float64 `json:"videoCost"`
	TotalCost  float64 `json:"totalCost"`
}
