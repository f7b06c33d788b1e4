package application

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/klyve/vodctl/internal/adapters/socket"
	"github.com/klyve/vodctl/internal/domain"
	"github.com/klyve/vodctl/internal/ports"
)

// DashboardService folds the user and video channel streams into one
// DashboardState. Each channel delivers its events in arrival order; the
// mutex only reconciles the two independent streams (and snapshot readers),
// it imposes no cross-channel ordering. Handlers are O(1) or O(len) over the
// bounded subscription list and never block.
type DashboardService struct {
	userCh  ports.Channel
	videoCh ports.Channel
	log     zerolog.Logger

	mu          sync.Mutex
	state       domain.DashboardState
	subscribers map[int]chan domain.DashboardState
	nextSubID   int

	unsubscribes []func()
	closeOnce    sync.Once
}

func NewDashboardService(userCh, videoCh ports.Channel, log zerolog.Logger) *DashboardService {
	s := &DashboardService{
		userCh:      userCh,
		videoCh:     videoCh,
		log:         log,
		subscribers: make(map[int]chan domain.DashboardState),
	}
	s.wire()
	return s
}

func (s *DashboardService) wire() {
	s.watch(s.userCh, socket.EventInitialData, s.onInitialData)
	s.watch(s.videoCh, socket.EventInitialData, s.onInitialData)

	// A channel that connects (or reconnects) after a consumer already asked
	// for the bootstrap snapshot asks again on its own.
	s.watch(s.userCh, socket.EventConnect, s.requestBootstrap(s.userCh))
	s.watch(s.videoCh, socket.EventConnect, s.requestBootstrap(s.videoCh))

	s.watch(s.userCh, socket.EventActiveUsersCount, s.onActiveUsers)
	s.watch(s.userCh, socket.EventNewUserSignup, s.onNewSignup)
	s.watch(s.userCh, socket.EventSubscription, s.onSubscription)

	s.watch(s.videoCh, socket.EventVideoTranscode, s.onVideoStatus(func(st *domain.DashboardState) *domain.StatusBoard {
		return &st.TranscodingVideos
	}))
	s.watch(s.videoCh, socket.EventVideoProcessed, s.onVideoStatus(func(st *domain.DashboardState) *domain.StatusBoard {
		return &st.ProcessedVideos
	}))
	s.watch(s.videoCh, socket.EventTranscription, s.onVideoStatus(func(st *domain.DashboardState) *domain.StatusBoard {
		return &st.Transcriptions
	}))
	s.watch(s.videoCh, socket.EventTitleSummary, s.onVideoStatus(func(st *domain.DashboardState) *domain.StatusBoard {
		return &st.TitleSummaries
	}))
	s.watch(s.videoCh, socket.EventThumbnail, s.onVideoStatus(func(st *domain.DashboardState) *domain.StatusBoard {
		return &st.Thumbnails
	}))

	s.watch(s.userCh, socket.EventError, s.onChannelError("user"))
	s.watch(s.videoCh, socket.EventError, s.onChannelError("video"))
}

func (s *DashboardService) watch(ch ports.Channel, event string, handler func(json.RawMessage)) {
	s.unsubscribes = append(s.unsubscribes, ch.On(event, handler))
}

// FetchInitialData re-requests the bootstrap snapshot on both channels, for
// consumers that attach after the sockets already connected. While either
// channel is still down it reports ErrNotConnected instead of emitting into
// the void; the connect handler re-requests once the channel comes up.
func (s *DashboardService) FetchInitialData() error {
	if !s.userCh.Connected() || !s.videoCh.Connected() {
		return domain.ErrNotConnected
	}
	s.userCh.Emit(socket.EventInitialData, nil)
	s.videoCh.Emit(socket.EventInitialData, nil)
	return nil
}

func (s *DashboardService) requestBootstrap(ch ports.Channel) func(json.RawMessage) {
	return func(json.RawMessage) {
		ch.Emit(socket.EventInitialData, nil)
	}
}

// Connected reports whether both underlying channels are up.
func (s *DashboardService) Connected() bool {
	return s.userCh.Connected() && s.videoCh.Connected()
}

// Snapshot returns an independent copy of the current aggregate.
func (s *DashboardService) Snapshot() domain.DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe returns a channel that carries the latest snapshot after each
// mutation. A slow consumer only ever misses intermediate snapshots, never
// the newest one. The returned func cancels the subscription.
func (s *DashboardService) Subscribe() (<-chan domain.DashboardState, func()) {
	updates := make(chan domain.DashboardState, 1)

	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = updates
	s.mu.Unlock()

	return updates, func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close detaches every event handler. The underlying channels stay open;
// they belong to the socket client that created them.
func (s *DashboardService) Close() {
	s.closeOnce.Do(func() {
		for _, unsubscribe := range s.unsubscribes {
			unsubscribe()
		}
	})
}

// mutate applies fn under the lock and publishes the resulting snapshot.
func (s *DashboardService) mutate(fn func(*domain.DashboardState)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.Clone()
	subscribers := make([]chan domain.DashboardState, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subscribers = append(subscribers, sub)
	}
	s.mu.Unlock()

	for _, sub := range subscribers {
		// Replace a pending stale snapshot instead of blocking.
		select {
		case sub <- snapshot:
		default:
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- snapshot:
			default:
			}
		}
	}
}

func (s *DashboardService) onInitialData(payload json.RawMessage) {
	var snap domain.InitialSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.log.Warn().Err(err).Msg("drop malformed initial-data payload")
		return
	}
	s.mutate(func(st *domain.DashboardState) {
		snap.MergeInto(st)
	})
}

func (s *DashboardService) onActiveUsers(payload json.RawMessage) {
	var data struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		s.log.Warn().Err(err).Msg("drop malformed active-users payload")
		return
	}
	s.mutate(func(st *domain.DashboardState) {
		st.ActiveUsers = data.Count
	})
}

func (s *DashboardService) onNewSignup(payload json.RawMessage) {
	var data struct {
		NewSignups int `json:"newSignups"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		s.log.Warn().Err(err).Msg("drop malformed signup payload")
		return
	}
	s.mutate(func(st *domain.DashboardState) {
		st.NewSignups = data.NewSignups
	})
}

func (s *DashboardService) onSubscription(payload json.RawMessage) {
	var update domain.SubscriptionUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		s.log.Warn().Err(err).Msg("drop malformed subscription payload")
		return
	}
	s.mutate(func(st *domain.DashboardState) {
		st.RecordSubscription(update)
	})
}

func (s *DashboardService) onVideoStatus(board func(*domain.DashboardState) *domain.StatusBoard) func(json.RawMessage) {
	return func(payload json.RawMessage) {
		var status domain.VideoStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			s.log.Warn().Err(err).Msg("drop malformed video status payload")
			return
		}
		s.mutate(func(st *domain.DashboardState) {
			board(st).Upsert(status)
		})
	}
}

// onChannelError logs gateway-reported errors; they never touch the state.
func (s *DashboardService) onChannelError(channel string) func(json.RawMessage) {
	return func(payload json.RawMessage) {
		var data struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(payload, &data)
		s.log.Error().Str("channel", channel).Str("message", data.Message).Msg("dashboard channel error")
	}
}
