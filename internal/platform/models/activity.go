package models

// ActivityRecord is the append-only ledger entry derived from a
// MutationEvent plus the acting user. Records are never updated; display
// order is created_at descending.
type ActivityRecord struct {
	ID          string                 `json:"id"`
	BoardID     string                 `json:"board_id"`
	UserID      string                 `json:"user_id"`
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   int64                  `json:"created_at"`
}

// Closed set of activity types. Anything outside this set is a programming
// error at the emitting call site, not data to be coerced.
const (
	ActivityBoardCreated  = "board_created"
	ActivityBoardUpdated  = "board_updated"
	ActivityBoardDeleted  = "board_deleted"
	ActivityListCreated   = "list_created"
	ActivityListUpdated   = "list_updated"
	ActivityListDeleted   = "list_deleted"
	ActivityListMoved     = "list_moved"
	ActivityTaskCreated   = "task_created"
	ActivityTaskUpdated   = "task_updated"
	ActivityTaskDeleted   = "task_deleted"
	ActivityTaskMoved     = "task_moved"
	ActivityTaskAssigned  = "task_assigned"
	ActivityTaskCompleted = "task_completed"
	ActivityMemberAdded   = "member_added"
	ActivityMemberRemoved = "member_removed"
	ActivityCommentAdded  = "comment_added"
)

var activityTypeForEvent = map[string]string{
	EventBoardCreated:  ActivityBoardCreated,
	EventBoardUpdated:  ActivityBoardUpdated,
	EventBoardDeleted:  ActivityBoardDeleted,
	EventListCreated:   ActivityListCreated,
	EventListUpdated:   ActivityListUpdated,
	EventListDeleted:   ActivityListDeleted,
	EventListMoved:     ActivityListMoved,
	EventTaskCreated:   ActivityTaskCreated,
	EventTaskUpdated:   ActivityTaskUpdated,
	EventTaskDeleted:   ActivityTaskDeleted,
	EventTaskMoved:     ActivityTaskMoved,
	EventTaskAssigned:  ActivityTaskAssigned,
	EventTaskCompleted: ActivityTaskCompleted,
	EventMemberAdded:   ActivityMemberAdded,
	EventMemberRemoved: ActivityMemberRemoved,
	EventCommentAdded:  ActivityCommentAdded,
}

// ActivityTypeForEvent maps a pipeline event name to its ledger type. The
// second result is false for event names outside the closed set.
func ActivityTypeForEvent(eventName string) (string, bool) {
	t, ok := activityTypeForEvent[eventName]
	return t, ok
}
