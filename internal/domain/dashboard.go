package domain

import (
	"encoding/json"
	"fmt"
)

type VideoStatusValue string

const (
	StatusProcessing VideoStatusValue = "processing"
	StatusSuccess    VideoStatusValue = "success"
	StatusFailed     VideoStatusValue = "failed"
)

// MaxRecentSubscriptions bounds the dashboard's subscription history.
const MaxRecentSubscriptions = 5

// VideoStatus is a single pipeline-status report for one video. Known fields
// are typed; anything else the backend attaches (transcript text, titles,
// thumbnail URLs) lands in Extra untouched.
type VideoStatus struct {
	VideoID string
	Status  VideoStatusValue
	Extra   map[string]any
}

func (v VideoStatus) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(v.Extra)+2)
	for k, val := range v.Extra {
		out[k] = val
	}
	out["videoId"] = v.VideoID
	out["status"] = string(v.Status)
	return json.Marshal(out)
}

func (v *VideoStatus) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode video status: %w", err)
	}

	if id, ok := raw["videoId"]; ok {
		if err := json.Unmarshal(id, &v.VideoID); err != nil {
			return fmt.Errorf("decode video status id: %w", err)
		}
		delete(raw, "videoId")
	}
	if st, ok := raw["status"]; ok {
		if err := json.Unmarshal(st, &v.Status); err != nil {
			return fmt.Errorf("decode video status value: %w", err)
		}
		delete(raw, "status")
	}

	if len(raw) == 0 {
		v.Extra = nil
		return nil
	}
	v.Extra = make(map[string]any, len(raw))
	for k, msg := range raw {
		var val any
		if err := json.Unmarshal(msg, &val); err != nil {
			return fmt.Errorf("decode video status field %q: %w", k, err)
		}
		v.Extra[k] = val
	}
	return nil
}

// StatusBoard holds at most one VideoStatus per video id. Upsert removes any
// previous entry for the id before appending, so iteration order is
// oldest-first and an update refreshes the entry's recency.
type StatusBoard struct {
	entries []VideoStatus
}

func (b *StatusBoard) Upsert(status VideoStatus) {
	for i, entry := range b.entries {
		if entry.VideoID == status.VideoID {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			break
		}
	}
	b.entries = append(b.entries, status)
}

func (b StatusBoard) Get(videoID string) (VideoStatus, bool) {
	for _, entry := range b.entries {
		if entry.VideoID == videoID {
			return entry, true
		}
	}
	return VideoStatus{}, false
}

func (b StatusBoard) Len() int {
	return len(b.entries)
}

// Entries returns a copy in insertion order, oldest first.
func (b StatusBoard) Entries() []VideoStatus {
	out := make([]VideoStatus, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b StatusBoard) Clone() StatusBoard {
	return StatusBoard{entries: b.Entries()}
}

// MarshalJSON emits the wire form, an object keyed by video id.
func (b StatusBoard) MarshalJSON() ([]byte, error) {
	out := make(map[string]VideoStatus, len(b.entries))
	for _, entry := range b.entries {
		out[entry.VideoID] = entry
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the wire object form. Entry order after decoding is
// unspecified, matching the unordered wire representation.
func (b *StatusBoard) UnmarshalJSON(data []byte) error {
	var raw map[string]VideoStatus
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode status board: %w", err)
	}
	b.entries = b.entries[:0]
	for id, status := range raw {
		if status.VideoID == "" {
			status.VideoID = id
		}
		b.entries = append(b.entries, status)
	}
	return nil
}

type SubscriptionUpdate struct {
	UserID string         `json:"userId"`
	Status string         `json:"status"`
	PlanID string         `json:"planId,omitempty"`
	Extra  map[string]any `json:"-"`
}

// DashboardState is the aggregate the operations dashboard renders from. It
// is mutated only by its owning aggregator; consumers receive clones.
type DashboardState struct {
	ActiveUsers              int
	NewSignups               int
	TotalUsers               int
	TranscodingVideos        StatusBoard
	ProcessedVideos          StatusBoard
	Transcriptions           StatusBoard
	TitleSummaries           StatusBoard
	Thumbnails               StatusBoard
	Subscriptions            []SubscriptionUpdate
	ActiveSubscriptionsCount int
}

// RecordSubscription prepends the update, truncates history to
// MaxRecentSubscriptions, and counts newly active subscriptions. The count
// only ever increments; deactivations leave it untouched.
func (s *DashboardState) RecordSubscription(update SubscriptionUpdate) {
	s.Subscriptions = append([]SubscriptionUpdate{update}, s.Subscriptions...)
	if len(s.Subscriptions) > MaxRecentSubscriptions {
		s.Subscriptions = s.Subscriptions[:MaxRecentSubscriptions]
	}
	if update.Status == "active" {
		s.ActiveSubscriptionsCount++
	}
}

func (s DashboardState) Clone() DashboardState {
	out := s
	out.TranscodingVideos = s.TranscodingVideos.Clone()
	out.ProcessedVideos = s.ProcessedVideos.Clone()
	out.Transcriptions = s.Transcriptions.Clone()
	out.TitleSummaries = s.TitleSummaries.Clone()
	out.Thumbnails = s.Thumbnails.Clone()
	out.Subscriptions = make([]SubscriptionUpdate, len(s.Subscriptions))
	copy(out.Subscriptions, s.Subscriptions)
	return out
}

// InitialSnapshot is the bootstrap payload both channels emit on request.
// Fields absent from the payload are nil and leave the aggregate untouched.
type InitialSnapshot struct {
	ActiveUsers              *int                  `json:"activeUsers"`
	NewSignups               *int                  `json:"newSignups"`
	TotalUsers               *int                  `json:"totalUsers"`
	TranscodingVideos        *StatusBoard          `json:"transcodingVideos"`
	ProcessedVideos          *StatusBoard          `json:"processedVideos"`
	Transcriptions           *StatusBoard          `json:"transcriptions"`
	TitleSummaries           *StatusBoard          `json:"titleSummaries"`
	Thumbnails               *StatusBoard          `json:"thumbnails"`
	Subscriptions            []SubscriptionUpdate  `json:"subscriptions"`
	ActiveSubscriptionsCount *int                  `json:"activeSubscriptionsCount"`
}

// MergeInto shallow-merges the snapshot's present fields into state.
func (snap InitialSnapshot) MergeInto(state *DashboardState) {
	if snap.ActiveUsers != nil {
		state.ActiveUsers = *snap.ActiveUsers
	}
	if snap.NewSignups != nil {
		state.NewSignups = *snap.NewSignups
	}
	if snap.TotalUsers != nil {
		state.TotalUsers = *snap.TotalUsers
	}
	if snap.TranscodingVideos != nil {
		state.TranscodingVideos = snap.TranscodingVideos.Clone()
	}
	if snap.ProcessedVideos != nil {
		state.ProcessedVideos = snap.ProcessedVideos.Clone()
	}
	if snap.Transcriptions != nil {
		state.Transcriptions = snap.Transcriptions.Clone()
	}
	if snap.TitleSummaries != nil {
		state.TitleSummaries = snap.TitleSummaries.Clone()
	}
	if snap.Thumbnails != nil {
		state.Thumbnails = snap.Thumbnails.Clone()
	}
	if snap.Subscriptions != nil {
		subs := make([]SubscriptionUpdate, len(snap.Subscriptions))
		copy(subs, snap.Subscriptions)
		if len(subs) > MaxRecentSubscriptions {
			subs = subs[:MaxRecentSubscriptions]
		}
		state.Subscriptions = subs
	}
	if snap.ActiveSubscriptionsCount != nil {
		state.ActiveSubscriptionsCount = *snap.ActiveSubscriptionsCount
	}
}
