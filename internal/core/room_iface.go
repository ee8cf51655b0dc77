package core

import "github.com/dkeye/Huddle/internal/domain"

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []ConnID
}

type RoomInfo struct {
	ID          domain.RoomID `json:"room"`
	MemberCount int           `json:"member_count"`
}

// MembershipTracker keeps the per-connection side of room membership.
// The room directory calls it while holding its own lock so both sides
// change together.
type MembershipTracker interface {
	// TrackJoin records room on the connection; false means the connection
	// is not (or no longer) registered and the join must not happen.
	TrackJoin(id ConnID, room domain.RoomID) bool
	TrackLeave(id ConnID, room domain.RoomID)
}
