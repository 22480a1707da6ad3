package config

// TrackerConfig defines configuration for the capture polling loop
type TrackerConfig struct {
	IntervalSeconds     int  `json:"interval_seconds,omitempty" yaml:"interval_seconds,omitempty" validate:"min=1"`
	DurationMinutes     int  `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty" validate:"min=0"`
	MinPixelsChanged    int  `json:"min_pixels_changed,omitempty" yaml:"min_pixels_changed,omitempty" validate:"min=1"`
	AIEnabled           bool `json:"ai_enabled" yaml:"ai_enabled"`
	SkipPermissionCheck bool `json:"skip_permission_check,omitempty" yaml:"skip_permission_check,omitempty"`
}

// NewDefaultTrackerConfig creates default tracker configuration
func NewDefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		IntervalSeconds:     DefaultTrackerIntervalSeconds,
		DurationMinutes:     DefaultTrackerDurationMinutes,
		MinPixelsChanged:    DefaultTrackerMinPixelsChanged,
		AIEnabled:           DefaultTrackerAIEnabled,
		SkipPermissionCheck: false,
	}
}
