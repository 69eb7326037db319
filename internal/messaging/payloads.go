package messaging

// Queue and exchange names for the asynchronous generation pipeline.
const (
	TaskQueueName          = "story_generation_tasks"
	NotificationsQueueName = "story_generation_updates"
	DeadLetterExchange     = "story_generation_tasks_dlx"
	DeadLetterQueue        = "story_generation_tasks_dlq"
	DeadLetterRoutingKey   = "dlq"
)

// NotificationStatus values reported to clients.
const (
	NotificationStatusSuccess = "success"
	NotificationStatusError   = "error"
)

// StoryTaskPayload is one queued generation request. Profiles are passed
// by hero id; the worker resolves them through the hero store.
type StoryTaskPayload struct {
	TaskID              string `json:"task_id"`
	UserID              string `json:"user_id"`
	Language            string `json:"language"`
	StoryType           string `json:"story_type"`
	ChildHeroID         string `json:"child_hero_id,omitempty"`
	CompanionHeroID     string `json:"companion_hero_id,omitempty"`
	RelationshipNote    string `json:"relationship_note,omitempty"`
	Moral               string `json:"moral"`
	TargetLengthMinutes int    `json:"target_length_minutes"`
	ParentStorySummary  string `json:"parent_story_summary,omitempty"`
	WithAudio           bool   `json:"with_audio"`
	VoiceProvider       string `json:"voice_provider,omitempty"`
	VoiceID             string `json:"voice_id,omitempty"`
}

// NotificationPayload tells the client tier how a queued task ended.
type NotificationPayload struct {
	TaskID        string `json:"task_id"`
	UserID        string `json:"user_id"`
	Status        string `json:"status"`
	StoryID       string `json:"story_id,omitempty"`
	AttemptsCount int    `json:"attempts_count,omitempty"`
	ErrorDetails  string `json:"error_details,omitempty"`
}
