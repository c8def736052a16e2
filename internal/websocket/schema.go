package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError        Event = "error"
	EventPong         Event = "pong"
	EventSubscribed   Event = "subscribed"
	EventImageStarted Event = "image_started"
	EventImageDone    Event = "image_done"
	EventImageFailed  Event = "image_failed"
	EventBatchDone    Event = "batch_done"
	EventQuizReady    Event = "quiz_ready"
)

// ProgressEvent reports the state of one image batch. It is published on the
// batch's Redis channel and relayed verbatim to subscribed sockets.
type ProgressEvent struct {
	Event     Event  `json:"event"`
	BatchID   string `json:"batch_id"`
	Index     int    `json:"index,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Message   string `json:"message,omitempty"`
	Processed int    `json:"processed,omitempty"`
	Total     int    `json:"total,omitempty"`
	QuizID    string `json:"quiz_id,omitempty"`
}

// Terminal reports whether no further events follow for the batch.
func (e ProgressEvent) Terminal() bool {
	return e.Event == EventQuizReady || e.Event == EventError
}

type SubscribedResponse struct {
	Event   Event  `json:"event"`
	BatchID string `json:"batch_id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
