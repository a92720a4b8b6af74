package models

import "time"

// Entity type labels used in MutationEvent.
const (
	EntityBoard = "board"
	EntityList  = "list"
	EntityTask  = "task"
)

// Event names emitted by the mutation pipeline. Webhook subscriptions filter
// on these, realtime frames carry them, and activity types are derived from
// them.
const (
	EventBoardCreated  = "board.created"
	EventBoardUpdated  = "board.updated"
	EventBoardDeleted  = "board.deleted"
	EventListCreated   = "list.created"
	EventListUpdated   = "list.updated"
	EventListDeleted   = "list.deleted"
	EventListMoved     = "list.moved"
	EventTaskCreated   = "task.created"
	EventTaskUpdated   = "task.updated"
	EventTaskDeleted   = "task.deleted"
	EventTaskMoved     = "task.moved"
	EventTaskAssigned  = "task.assigned"
	EventTaskCompleted = "task.completed"
	EventMemberAdded   = "member.added"
	EventMemberRemoved = "member.removed"
	EventCommentAdded  = "comment.added"
)

// MutationEvent describes one accepted entity mutation. It is built once,
// after the primary write has committed, and handed read-only to the three
// fan-out consumers. None of them may modify it.
type MutationEvent struct {
	BoardID    string      `json:"board_id"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	Name       string      `json:"event"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewMutationEvent(boardID, entityType, entityID, name string, payload interface{}) MutationEvent {
	return MutationEvent{
		BoardID:    boardID,
		EntityType: entityType,
		EntityID:   entityID,
		Name:       name,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}
