package domain

// PromotionalVideo is a CMS entry for the landing-page video rail.
type PromotionalVideo struct {
	ID          string `json:"id"`
	VideoID     string `json:"videoId"`
	Category    string `json:"category"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden"`
	Priority    int    `json:"priority"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	S3Key       string `json:"s3Key,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// VideoDraft is the mutable subset an operator edits; VideoID and S3Key are
// filled in by the signed-upload flow for new videos.
type VideoDraft struct {
	Category    string `json:"category"`
	Hidden      bool   `json:"hidden"`
	Priority    int    `json:"priority"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	VideoID     string `json:"videoId,omitempty"`
	S3Key       string `json:"s3Key,omitempty"`
}

// SignedUpload is the backend's answer to a signed-URL request: a fresh video
// id plus a URL the original file is PUT to directly.
type SignedUpload struct {
	VideoID   string `json:"videoId"`
	SignedURL string `json:"signedUrl"`
}
