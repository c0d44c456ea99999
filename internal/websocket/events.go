package websocket

// Event is the envelope for every WebSocket message.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Server-to-client event types.
const (
	// EventChallengeReceived is pushed to the opponent when a challenge is created.
	EventChallengeReceived = "challenge:received"

	// EventOpponentFinished is pushed to the other player when one player
	// submits a score. Push supplements the completion polling endpoint,
	// it never replaces it.
	EventOpponentFinished = "competition:opponent_finished"

	// EventCompetitionCompleted is pushed to both players once the match is
	// finalized and the ranking view can be unlocked.
	EventCompetitionCompleted = "competition:completed"

	// EventFriendRequestReceived is pushed to the recipient of a friend request.
	EventFriendRequestReceived = "friend:request_received"
)
