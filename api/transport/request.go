package transport

// TaskCreateRequest mirrors domain.TaskCreate with string timestamps.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
	Priority    *int   `json:"priority"`
}

// TaskUpdateRequest is a partial update; absent fields stay untouched.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed"`
	Priority    *int    `json:"priority"`
}

type EventDetailsRequest struct {
	EventText  string   `json:"event_text"`
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Location   string   `json:"location"`
	Attendees  []string `json:"attendees"`
	Duration   string   `json:"duration"`
	Recurrence string   `json:"recurrence"`
	Notes      string   `json:"notes"`
}

type EventListRequest struct {
	EventDetails EventDetailsRequest `json:"event_details"`
	TargetStart  string              `json:"target_start"`
	UserID       string              `json:"user_id"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
