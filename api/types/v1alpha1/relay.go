package v1alpha1

// RelayMessageType discriminates messages on the streaming channel.
type RelayMessageType string

const (
	// RelayMessageFromExtension carries a playback snapshot from the producer
	RelayMessageFromExtension RelayMessageType = "FROM_EXTENSION"
	// RelayMessageVideoUpdate carries the current snapshot and config to displays
	RelayMessageVideoUpdate RelayMessageType = "VIDEO_UPDATE"
	// RelayMessageConfigUpdated announces an accepted config mutation
	RelayMessageConfigUpdated RelayMessageType = "CONFIG_UPDATED"
)

// RelayMessage is the tagged variant exchanged over the streaming channel.
// Data is set for FROM_EXTENSION and VIDEO_UPDATE, Config for VIDEO_UPDATE
// and CONFIG_UPDATED.
type RelayMessage struct {
	// Type indicates the kind of relay message
	Type RelayMessageType `json:"type"`
	// Data contains the playback snapshot if applicable
	Data *PlaybackSnapshot `json:"data,omitempty"`
	// Config contains the display configuration if applicable
	Config *DisplayConfig `json:"config,omitempty"`
}

// StatusReport summarizes the relay's connection state for the control plane.
type StatusReport struct {
	// Connections is the number of open streaming sessions
	Connections int `json:"connections"`
	// ProducerConnected reports whether an authoritative producer session exists
	ProducerConnected bool `json:"producerConnected"`
	// Tracking is the title currently being relayed
	Tracking string `json:"tracking"`
}
