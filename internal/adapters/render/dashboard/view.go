package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/klyve/vodctl/internal/domain"
)

// maxBoardRows keeps each pipeline board readable on one screen; older
// entries scroll off first.
const maxBoardRows = 8

func renderView(state domain.DashboardState, connected bool, s styles) string {
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.title.Render("VOD Admin Dashboard"),
			"  ",
			connectionBadge(connected, s),
		),
		s.section.Render(renderCounters(state, s)),
	}

	boards := []struct {
		title string
		board domain.StatusBoard
	}{
		{"Transcoding", state.TranscodingVideos},
		{"Processing", state.ProcessedVideos},
		{"Transcription", state.Transcriptions},
		{"Title & Summary", state.TitleSummaries},
		{"Thumbnails", state.Thumbnails},
	}
	for _, b := range boards {
		lines = append(lines, s.section.Render(renderBoard(b.title, b.board, s)))
	}

	lines = append(lines, s.section.Render(renderSubscriptions(state, s)))
	lines = append(lines, s.help.Render("q to quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func connectionBadge(connected bool, s styles) string {
	if connected {
		return s.connected.Render("● live")
	}
	return s.disconnected.Render("○ reconnecting")
}

func renderCounters(state domain.DashboardState, s styles) string {
	counter := func(label string, value int) string {
		return s.counterKey.Render(label+": ") + s.counterValue.Render(fmt.Sprintf("%d", value))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		counter("active users", state.ActiveUsers),
		"   ",
		counter("total users", state.TotalUsers),
		"   ",
		counter("new signups", state.NewSignups),
		"   ",
		counter("active subscriptions", state.ActiveSubscriptionsCount),
	)
}

func renderBoard(title string, board domain.StatusBoard, s styles) string {
	lines := []string{s.boardTitle.Render(fmt.Sprintf("%s (%d)", title, board.Len()))}

	entries := board.Entries()
	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("  nothing in flight"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	// Newest entries last in the board; show the tail.
	if len(entries) > maxBoardRows {
		entries = entries[len(entries)-maxBoardRows:]
	}
	for _, entry := range entries {
		lines = append(lines, "  "+s.videoID.Render(entry.VideoID)+" "+statusLabel(entry.Status, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusLabel(status domain.VideoStatusValue, s styles) string {
	switch status {
	case domain.StatusProcessing:
		return s.processing.Render("processing")
	case domain.StatusSuccess:
		return s.success.Render("done")
	case domain.StatusFailed:
		return s.failed.Render("failed")
	default:
		return s.empty.Render(string(status))
	}
}

func renderSubscriptions(state domain.DashboardState, s styles) string {
	lines := []string{s.boardTitle.Render("Recent subscriptions")}

	if len(state.Subscriptions) == 0 {
		lines = append(lines, s.empty.Render("  no subscription activity yet"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, sub := range state.Subscriptions {
		lines = append(lines, "  "+s.subscription.Render(fmt.Sprintf("%s → %s", sub.UserID, sub.Status)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
