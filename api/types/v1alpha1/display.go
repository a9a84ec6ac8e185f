package v1alpha1

// DisplayConfig describes how connected displays render the overlay. It is
// the union of a persisted subset and the computed ServerIPs field, which is
// server-authoritative and recomputed on every load and write.
type DisplayConfig struct {
	// Platforms is the ordered list of selectable platform labels
	Platforms []string `json:"platforms"`
	// CurrentPlatformIndex selects the active platform, always in range
	CurrentPlatformIndex int `json:"currentPlatformIndex"`
	// BackgroundColor is the overlay background, hex or rgba()
	BackgroundColor string `json:"backgroundColor"`
	// FontSizeEpisode is the episode title size in points
	FontSizeEpisode float64 `json:"fontSizeEpisode"`
	// FontSizeSeries is the series title size in points
	FontSizeSeries float64 `json:"fontSizeSeries"`

	FontColorEpisode  string `json:"fontColorEpisode"`
	FontColorSeries   string `json:"fontColorSeries"`
	FontColorTime     string `json:"fontColorTime"`
	FontColorProgress string `json:"fontColorProgress"`

	ProgressBarFilledColor     string `json:"progressBarFilledColor"`
	ProgressBarBackgroundColor string `json:"progressBarBackgroundColor"`
	ProgressDotColor           string `json:"progressDotColor"`

	PillActiveBackgroundColor   string `json:"pillActiveBackgroundColor"`
	PillActiveFontColor         string `json:"pillActiveFontColor"`
	PillInactiveBackgroundColor string `json:"pillInactiveBackgroundColor"`
	PillInactiveFontColor       string `json:"pillInactiveFontColor"`

	// ServerIPs lists the non-loopback IPv4 addresses of the relay host.
	// Computed at load and on every write, never persisted.
	ServerIPs []string `json:"serverIPs,omitempty"`
}
