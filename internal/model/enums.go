package model

// Target platforms
type Platform string

const (
	PlatformDouyin   Platform = "douyin"
	PlatformKuaishou Platform = "kuaishou"
	PlatformYoutube  Platform = "youtube"
)

var ValidPlatforms = []Platform{
	PlatformDouyin, PlatformKuaishou, PlatformYoutube,
}

// Video durations in seconds
type VideoDuration int

const (
	Duration4  VideoDuration = 4
	Duration8  VideoDuration = 8
	Duration12 VideoDuration = 12
)

var ValidDurations = []VideoDuration{Duration4, Duration8, Duration12}

// IsValid reports whether the duration is one the video provider accepts.
func (d VideoDuration) IsValid() bool {
	for _, v := range ValidDurations {
		if d == v {
			return true
		}
	}
	return false
}

// Aspect ratios
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

var ValidAspectRatios = []AspectRatio{AspectLandscape, AspectPortrait}

// IsValid reports whether the aspect ratio is one the video provider accepts.
func (a AspectRatio) IsValid() bool {
	for _, v := range ValidAspectRatios {
		if a == v {
			return true
		}
	}
	return false
}

// Language
type Language string

const (
	LanguageZH Language = "zh"
	LanguageEN Language = "en"
)

// Task status
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal returns true if the status represents a final state.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}
