// Package boards implements the entity mutations feeding the propagation
// pipeline. Every accepted mutation follows the same shape: validate,
// allocate a position if ordering is involved, persist, then hand a
// MutationEvent to the pipeline. The primary write is always durable before
// fan-out starts, and fan-out failures never surface here.
package boards

import (
	"errors"
	"fmt"

	"boardly/internal/engine/ordering"
	"boardly/internal/platform/models"
	"boardly/internal/platform/repositories"
)

var (
	ErrEmptyName  = errors.New("name must not be empty")
	ErrEmptyTitle = errors.New("title must not be empty")
)

// Notifier receives committed mutations for fan-out. Production wiring is
// the pipeline orchestrator.
type Notifier interface {
	AfterMutation(event models.MutationEvent, actingUserID, description string)
}

type Service struct {
	boards   *repositories.BoardRepository
	lists    *repositories.ListRepository
	tasks    *repositories.TaskRepository
	notifier Notifier
}

func NewService(boards *repositories.BoardRepository, lists *repositories.ListRepository, tasks *repositories.TaskRepository, notifier Notifier) *Service {
	return &Service{boards: boards, lists: lists, tasks: tasks, notifier: notifier}
}

// notify dispatches fan-out off the request path. The mutation has already
// committed; the caller's response never waits on a slow webhook endpoint.
func (s *Service) notify(event models.MutationEvent, userID, description string) {
	go s.notifier.AfterMutation(event, userID, description)
}

func (s *Service) CreateBoard(userID, name string) (*models.Board, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	board := &models.Board{Name: name, OwnerID: userID}
	if err := s.boards.Create(board); err != nil {
		return nil, err
	}

	s.notify(
		models.NewMutationEvent(board.ID, models.EntityBoard, board.ID, models.EventBoardCreated, board),
		userID, fmt.Sprintf("created board %q", board.Name))
	return board, nil
}

func (s *Service) UpdateBoard(boardID, userID, name string) (*models.Board, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	board, err := s.boards.GetByID(boardID)
	if err != nil {
		return nil, err
	}
	board.Name = name
	if err := s.boards.Update(board); err != nil {
		return nil, err
	}

	s.notify(
		models.NewMutationEvent(board.ID, models.EntityBoard, board.ID, models.EventBoardUpdated, board),
		userID, fmt.Sprintf("renamed board to %q", board.Name))
	return board, nil
}

func (s *Service) DeleteBoard(boardID, userID string) error {
	board, err := s.boards.GetByID(boardID)
	if err != nil {
		return err
	}
	if err := s.boards.Delete(boardID); err != nil {
		return err
	}

	s.notify(
		models.NewMutationEvent(boardID, models.EntityBoard, boardID, models.EventBoardDeleted, map[string]interface{}{"id": boardID}),
		userID, fmt.Sprintf("deleted board %q", board.Name))
	return nil
}

func (s *Service) CreateList(boardID, userID, title string) (*models.List, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if _, err := s.boards.GetByID(boardID); err != nil {
		return nil, err
	}

	siblings, err := s.lists.ListByBoard(boardID)
	if err != nil {
		return nil, err
	}

	list := &models.List{
		BoardID:  boardID,
		Title:    title,
		Position: ordering.NextPosition(listPositions(siblings)),
	}
	if err := s.lists.Create(list); err != nil {
		return nil, err
	}

	s.notify(
		models.NewMutationEvent(boardID, models.EntityList, list.ID, models.EventListCreated, list),
		userID, fmt.Sprintf("added list %q", list.Title))
	return list, nil
}

func (s *Service) UpdateList(listID, userID, title string) (*models.List, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	list, err := s.lists.GetByID(listID)
	if err != nil {
		return nil, err
	}
	list.Title = title
	if err := s.lists.Update(list); err != nil {
		return nil, err
	}

	s.notify(
		models.NewMutationEvent(list.BoardID, models.EntityList, list.ID, models.EventListUpdated, list),
		userID, fmt.Sprintf("renamed list to %q", list.Title))
	return list, nil
}

func (s *Service) DeleteList(listID, userID string) error {
	list, err := s.lists.GetByID(listID)
	if err != nil {
		return err
	}
	if err := s.lists.Delete(listID); err != nil {
		return err
	}

	s.notify(
		models.NewMutationEvent(list.BoardID, models.EntityList, listID, models.EventListDeleted, map[string]interface{}{"id": listID}),
		userID, fmt.Sprintf("deleted list %q", list.Title))
	return nil
}

// ReorderLists assigns every list on the board a fresh position equal to
// its index in orderedIDs. A malformed request is rejected before any
// write.
func (s *Service) ReorderLists(boardID, userID string, orderedIDs []string) error {
	siblings, err := s.lists.ListByBoard(boardID)
	if err != nil {
		return err
	}

	positions, err := ordering.Renumber(orderedIDs, listIDs(siblings))
	if err != nil {
		return err
	}
	if err := s.lists.UpdatePositions(positions); err != nil {
		return err
	}

	s.notify(
		models.NewMutationEvent(boardID, models.EntityList, boardID, models.EventListMoved,
			map[string]interface{}{"order": orderedIDs}),
		userID, "reordered lists")
	return nil
}

type TaskInput struct {
	Title       string
	Description string
	AssigneeID  string
}

func (s *Service) CreateTask(listID, userID string, input TaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrEmptyTitle
	}

	list, err := s.lists.GetByID(listID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.tasks.ListByList(listID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ListID:      listID,
		BoardID:     list.BoardID,
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  input.AssigneeID,
		Position:    ordering.NextPosition(taskPositions(siblings)),
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	s.notify(
		models.NewMutationEvent(task.BoardID, models.EntityTask, task.ID, models.EventTaskCreated, task),
		userID, fmt.Sprintf("created task %q", task.Title))
	return task, nil
}

type TaskUpdate struct {
	Title       *string
	Description *string
	AssigneeID  *string
	Completed   *bool
}

// UpdateTask applies a partial update. Assignment and completion get their
// own event names so webhook subscribers can filter on them.
func (s *Service) UpdateTask(taskID, userID string, update TaskUpdate) (*models.Task, error) {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	eventName := models.EventTaskUpdated
	description := fmt.Sprintf("updated task %q", task.Title)

	if update.Title != nil {
		if *update.Title == "" {
			return nil, ErrEmptyTitle
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.AssigneeID != nil && *update.AssigneeID != task.AssigneeID {
		task.AssigneeID = *update.AssigneeID
		if task.AssigneeID != "" {
			eventName = models.EventTaskAssigned
			description = fmt.Sprintf("assigned task %q", task.Title)
		}
	}
	if update.Completed != nil && *update.Completed != task.Completed {
		task.Completed = *update.Completed
		if task.Completed {
			eventName = models.EventTaskCompleted
			description = fmt.Sprintf("completed task %q", task.Title)
		}
	}

	if err := s.tasks.Update(task); err != nil {
		return nil, err
	}

	s.notify(
		models.NewMutationEvent(task.BoardID, models.EntityTask, task.ID, eventName, task),
		userID, description)
	return task, nil
}

func (s *Service) DeleteTask(taskID, userID string) error {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(taskID); err != nil {
		return err
	}

	s.notify(
		models.NewMutationEvent(task.BoardID, models.EntityTask, taskID, models.EventTaskDeleted, map[string]interface{}{"id": taskID}),
		userID, fmt.Sprintf("deleted task %q", task.Title))
	return nil
}

// ReorderTasks renumbers the tasks of one list to match orderedIDs.
func (s *Service) ReorderTasks(listID, userID string, orderedIDs []string) error {
	list, err := s.lists.GetByID(listID)
	if err != nil {
		return err
	}

	siblings, err := s.tasks.ListByList(listID)
	if err != nil {
		return err
	}

	positions, err := ordering.Renumber(orderedIDs, taskIDs(siblings))
	if err != nil {
		return err
	}
	if err := s.tasks.UpdatePositions(positions); err != nil {
		return err
	}

	s.notify(
		models.NewMutationEvent(list.BoardID, models.EntityTask, listID, models.EventTaskMoved,
			map[string]interface{}{"list_id": listID, "order": orderedIDs}),
		userID, "reordered tasks")
	return nil
}

// MoveTask places a task into targetListID, then renumbers the target list
// to match orderedIDs (which must include the moved task). Moving within
// the same list is just a reorder.
func (s *Service) MoveTask(taskID, targetListID, userID string, orderedIDs []string) (*models.Task, error) {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	target, err := s.lists.GetByID(targetListID)
	if err != nil {
		return nil, err
	}

	// Validate the target ordering before any write: the expected sibling
	// set is the target list's tasks plus the moved one.
	siblings, err := s.tasks.ListByList(targetListID)
	if err != nil {
		return nil, err
	}
	expected := taskIDs(siblings)
	if task.ListID != targetListID {
		expected = append(expected, task.ID)
	}

	positions, err := ordering.Renumber(orderedIDs, expected)
	if err != nil {
		return nil, err
	}

	if task.ListID != targetListID {
		task.ListID = targetListID
		task.BoardID = target.BoardID
		if err := s.tasks.Update(task); err != nil {
			return nil, err
		}
	}
	if err := s.tasks.UpdatePositions(positions); err != nil {
		return nil, err
	}
	task.Position = positions[task.ID]

	s.notify(
		models.NewMutationEvent(task.BoardID, models.EntityTask, task.ID, models.EventTaskMoved, task),
		userID, fmt.Sprintf("moved task %q", task.Title))
	return task, nil
}

// Read-side passthroughs used by the HTTP layer.

func (s *Service) GetBoard(boardID string) (*models.Board, error) { return s.boards.GetByID(boardID) }

func (s *Service) ListBoards(ownerID string) ([]*models.Board, error) {
	return s.boards.ListByOwner(ownerID)
}

func (s *Service) ListLists(boardID string) ([]*models.List, error) {
	return s.lists.ListByBoard(boardID)
}

func (s *Service) ListTasks(listID string) ([]*models.Task, error) {
	return s.tasks.ListByList(listID)
}

func listPositions(lists []*models.List) []int {
	out := make([]int, len(lists))
	for i, l := range lists {
		out[i] = l.Position
	}
	return out
}

func listIDs(lists []*models.List) []string {
	out := make([]string, len(lists))
	for i, l := range lists {
		out[i] = l.ID
	}
	return out
}

func taskPositions(tasks []*models.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.Position
	}
	return out
}

func taskIDs(tasks []*models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
