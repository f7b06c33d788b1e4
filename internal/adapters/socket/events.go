package socket

// Lifecycle events every channel dispatches alongside application events.
const (
	EventConnect      = "connect"
	EventConnectError = "connect_error"
	EventDisconnect   = "disconnect"
	EventError        = "error"
)

// Application events published by the admin-dashboard gateway.
const (
	EventInitialData      = "admin-dashboard-initial-data"
	EventActiveUsersCount = "active-users-count"
	EventNewUserSignup    = "new-user-signup"
	EventVideoTranscode   = "video-transcode"
	EventVideoProcessed   = "video-processed"
	EventTranscription    = "transcription"
	EventTitleSummary     = "title-summary"
	EventThumbnail        = "thumbnail"
	EventSubscription     = "subscription-update"
)

// Channel paths on the socket gateway.
const (
	UserChannelPath  = "/user/socket.io"
	VideoChannelPath = "/video/socket.io"
)
