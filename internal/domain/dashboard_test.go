package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusBoardUpsertKeepsOneEntryPerVideo(t *testing.T) {
	var board StatusBoard

	board.Upsert(VideoStatus{VideoID: "v1", Status: StatusProcessing})
	board.Upsert(VideoStatus{VideoID: "v2", Status: StatusProcessing})
	board.Upsert(VideoStatus{VideoID: "v1", Status: StatusSuccess})

	require.Equal(t, 2, board.Len())

	got, ok := board.Get("v1")
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, got.Status)
}

func TestStatusBoardUpsertRefreshesRecency(t *testing.T) {
	var board StatusBoard
	board.Upsert(VideoStatus{VideoID: "v1", Status: StatusProcessing})
	board.Upsert(VideoStatus{VideoID: "v2", Status: StatusProcessing})
	board.Upsert(VideoStatus{VideoID: "v1", Status: StatusFailed})

	entries := board.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "v2", entries[0].VideoID)
	assert.Equal(t, "v1", entries[1].VideoID)
}

func TestStatusBoardEntriesReturnsCopy(t *testing.T) {
	var board StatusBoard
	board.Upsert(VideoStatus{VideoID: "v1", Status: StatusProcessing})

	entries := board.Entries()
	entries[0].VideoID = "mutated"

	got, ok := board.Get("v1")
	require.True(t, ok)
	assert.Equal(t, "v1", got.VideoID)
}

func TestVideoStatusJSONKeepsUnknownFields(t *testing.T) {
	payload := []byte(`{"videoId":"v7","status":"success","transcription":"hello","attempts":2}`)

	var status VideoStatus
	require.NoError(t, json.Unmarshal(payload, &status))

	assert.Equal(t, "v7", status.VideoID)
	assert.Equal(t, StatusSuccess, status.Status)
	assert.Equal(t, "hello", status.Extra["transcription"])
	assert.Equal(t, float64(2), status.Extra["attempts"])

	round, err := json.Marshal(status)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(round))
}

func TestStatusBoardWireFormIsKeyedByVideoID(t *testing.T) {
	var board StatusBoard
	board.Upsert(VideoStatus{VideoID: "v1", Status: StatusProcessing})
	board.Upsert(VideoStatus{VideoID: "v2", Status: StatusFailed})

	data, err := json.Marshal(board)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v1":{"videoId":"v1","status":"processing"},"v2":{"videoId":"v2","status":"failed"}}`, string(data))

	var decoded StatusBoard
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, 2, decoded.Len())
	got, ok := decoded.Get("v2")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, got.Status)
}

func TestRecordSubscriptionBoundsHistory(t *testing.T) {
	var state DashboardState
	for i := 1; i <= 6; i++ {
		state.RecordSubscription(SubscriptionUpdate{UserID: fmt.Sprintf("u%d", i), Status: "active"})
	}

	require.Len(t, state.Subscriptions, MaxRecentSubscriptions)
	assert.Equal(t, "u6", state.Subscriptions[0].UserID)
	assert.Equal(t, "u2", state.Subscriptions[4].UserID)
	assert.Equal(t, 6, state.ActiveSubscriptionsCount)
}

func TestRecordSubscriptionCountsOnlyActive(t *testing.T) {
	var state DashboardState
	state.RecordSubscription(SubscriptionUpdate{UserID: "u1", Status: "active"})
	state.RecordSubscription(SubscriptionUpdate{UserID: "u2", Status: "cancelled"})
	state.RecordSubscription(SubscriptionUpdate{UserID: "u3", Status: "halted"})

	assert.Equal(t, 1, state.ActiveSubscriptionsCount)
	assert.Len(t, state.Subscriptions, 3)
}

func TestInitialSnapshotMergeLeavesAbsentFieldsAlone(t *testing.T) {
	state := DashboardState{ActiveUsers: 3, NewSignups: 9}
	state.TranscodingVideos.Upsert(VideoStatus{VideoID: "v1", Status: StatusProcessing})

	var snap InitialSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"activeUsers":12,"totalUsers":400}`), &snap))
	snap.MergeInto(&state)

	assert.Equal(t, 12, state.ActiveUsers)
	assert.Equal(t, 400, state.TotalUsers)
	assert.Equal(t, 9, state.NewSignups)
	assert.Equal(t, 1, state.TranscodingVideos.Len())
}

func TestInitialSnapshotMergeTruncatesSubscriptions(t *testing.T) {
	var state DashboardState
	snap := InitialSnapshot{Subscriptions: []SubscriptionUpdate{
		{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"},
		{UserID: "u4"}, {UserID: "u5"}, {UserID: "u6"},
	}}
	snap.MergeInto(&state)

	assert.Len(t, state.Subscriptions, MaxRecentSubscriptions)
	assert.Equal(t, "u1", state.Subscriptions[0].UserID)
}

func TestDashboardStateCloneIsIndependent(t *testing.T) {
	var state DashboardState
	state.Thumbnails.Upsert(VideoStatus{VideoID: "v1", Status: StatusProcessing})
	state.RecordSubscription(SubscriptionUpdate{UserID: "u1", Status: "active"})

	clone := state.Clone()
	clone.Thumbnails.Upsert(VideoStatus{VideoID: "v2", Status: StatusSuccess})
	clone.Subscriptions[0].UserID = "mutated"

	assert.Equal(t, 1, state.Thumbnails.Len())
	assert.Equal(t, "u1", state.Subscriptions[0].UserID)
}
