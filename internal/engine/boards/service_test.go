package boards

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"boardly/internal/engine/ordering"
	"boardly/internal/platform/database"
	"boardly/internal/platform/models"
	"boardly/internal/platform/repositories"
)

type capturedMutation struct {
	event       models.MutationEvent
	userID      string
	description string
}

// captureNotifier records fan-out calls; the service notifies from a
// goroutine, so tests receive from the channel.
type captureNotifier struct {
	ch chan capturedMutation
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{ch: make(chan capturedMutation, 16)}
}

func (n *captureNotifier) AfterMutation(event models.MutationEvent, userID, description string) {
	n.ch <- capturedMutation{event: event, userID: userID, description: description}
}

func (n *captureNotifier) next(t *testing.T) capturedMutation {
	t.Helper()
	select {
	case m := <-n.ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no mutation event emitted")
		return capturedMutation{}
	}
}

func setupService(t *testing.T) (*Service, *captureNotifier, *repositories.TaskRepository) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	notifier := newCaptureNotifier()
	tasks := repositories.NewTaskRepository(db)
	svc := NewService(
		repositories.NewBoardRepository(db),
		repositories.NewListRepository(db),
		tasks,
		notifier,
	)
	return svc, notifier, tasks
}

func mustBoardAndList(t *testing.T, svc *Service, n *captureNotifier) (*models.Board, *models.List) {
	t.Helper()
	board, err := svc.CreateBoard("usr_1", "Launch")
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	n.next(t)
	list, err := svc.CreateList(board.ID, "usr_1", "Todo")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	n.next(t)
	return board, list
}

func TestCreateTask_AppendPositions(t *testing.T) {
	svc, notifier, _ := setupService(t)
	_, list := mustBoardAndList(t, svc, notifier)

	for want := 0; want < 3; want++ {
		task, err := svc.CreateTask(list.ID, "usr_1", TaskInput{Title: "t"})
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		if task.Position != want {
			t.Errorf("task %d position = %d, want %d", want, task.Position, want)
		}
		m := notifier.next(t)
		if m.event.Name != models.EventTaskCreated {
			t.Errorf("event = %s, want %s", m.event.Name, models.EventTaskCreated)
		}
	}
}

func TestMoveTask_ToFront(t *testing.T) {
	svc, notifier, tasks := setupService(t)
	_, list := mustBoardAndList(t, svc, notifier)

	first, _ := svc.CreateTask(list.ID, "usr_1", TaskInput{Title: "first"})
	notifier.next(t)
	second, _ := svc.CreateTask(list.ID, "usr_1", TaskInput{Title: "second"})
	notifier.next(t)
	moved, err := svc.CreateTask(list.ID, "usr_1", TaskInput{Title: "moved"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	notifier.next(t)
	if moved.Position != 2 {
		t.Fatalf("appended task position = %d, want 2", moved.Position)
	}

	got, err := svc.MoveTask(moved.ID, list.ID, "usr_1", []string{moved.ID, first.ID, second.ID})
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if got.Position != 0 {
		t.Errorf("moved position = %d, want 0", got.Position)
	}
	m := notifier.next(t)
	if m.event.Name != models.EventTaskMoved {
		t.Errorf("event = %s, want %s", m.event.Name, models.EventTaskMoved)
	}

	ordered, err := tasks.ListByList(list.ID)
	if err != nil {
		t.Fatalf("ListByList: %v", err)
	}
	wantOrder := []string{moved.ID, first.ID, second.ID}
	for i, task := range ordered {
		if task.ID != wantOrder[i] {
			t.Errorf("slot %d = %s, want %s", i, task.ID, wantOrder[i])
		}
		if task.Position != i {
			t.Errorf("slot %d position = %d, want %d", i, task.Position, i)
		}
	}
}

func TestMoveTask_AcrossLists(t *testing.T) {
	svc, notifier, _ := setupService(t)
	board, source := mustBoardAndList(t, svc, notifier)

	target, err := svc.CreateList(board.ID, "usr_1", "Done")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	notifier.next(t)

	existing, _ := svc.CreateTask(target.ID, "usr_1", TaskInput{Title: "existing"})
	notifier.next(t)
	task, _ := svc.CreateTask(source.ID, "usr_1", TaskInput{Title: "roving"})
	notifier.next(t)

	moved, err := svc.MoveTask(task.ID, target.ID, "usr_1", []string{existing.ID, task.ID})
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	notifier.next(t)

	if moved.ListID != target.ID {
		t.Errorf("list = %s, want %s", moved.ListID, target.ID)
	}
	if moved.Position != 1 {
		t.Errorf("position = %d, want 1", moved.Position)
	}

	remaining, _ := svc.ListTasks(source.ID)
	if len(remaining) != 0 {
		t.Errorf("source list still has %d tasks", len(remaining))
	}
}

func TestReorderTasks_RejectsMalformedOrder(t *testing.T) {
	svc, notifier, tasks := setupService(t)
	_, list := mustBoardAndList(t, svc, notifier)

	a, _ := svc.CreateTask(list.ID, "usr_1", TaskInput{Title: "a"})
	notifier.next(t)
	b, _ := svc.CreateTask(list.ID, "usr_1", TaskInput{Title: "b"})
	notifier.next(t)

	cases := [][]string{
		{a.ID, a.ID},          // duplicate
		{a.ID, "tsk_ghost"},   // unknown
		{a.ID},                // missing
		{a.ID, b.ID, "extra"}, // too many
	}
	for _, ids := range cases {
		err := svc.ReorderTasks(list.ID, "usr_1", ids)
		var ordErr *ordering.InvalidOrderingError
		if !errors.As(err, &ordErr) {
			t.Errorf("ReorderTasks(%v): expected InvalidOrderingError, got %v", ids, err)
		}
	}

	// No partial state change: positions are untouched.
	after, _ := tasks.ListByList(list.ID)
	if after[0].ID != a.ID || after[0].Position != 0 || after[1].ID != b.ID || after[1].Position != 1 {
		t.Error("rejected reorder mutated positions")
	}

	select {
	case m := <-notifier.ch:
		t.Errorf("rejected reorder emitted event %s", m.event.Name)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestReorderLists_RoundTrip(t *testing.T) {
	svc, notifier, _ := setupService(t)
	board, first := mustBoardAndList(t, svc, notifier)

	second, _ := svc.CreateList(board.ID, "usr_1", "Doing")
	notifier.next(t)
	third, _ := svc.CreateList(board.ID, "usr_1", "Done")
	notifier.next(t)

	want := []string{third.ID, first.ID, second.ID}
	if err := svc.ReorderLists(board.ID, "usr_1", want); err != nil {
		t.Fatalf("ReorderLists: %v", err)
	}
	m := notifier.next(t)
	if m.event.Name != models.EventListMoved {
		t.Errorf("event = %s, want %s", m.event.Name, models.EventListMoved)
	}

	lists, _ := svc.ListLists(board.ID)
	for i, l := range lists {
		if l.ID != want[i] {
			t.Errorf("slot %d = %s, want %s", i, l.ID, want[i])
		}
	}
}

func TestUpdateTask_EventNames(t *testing.T) {
	svc, notifier, _ := setupService(t)
	_, list := mustBoardAndList(t, svc, notifier)

	task, _ := svc.CreateTask(list.ID, "usr_1", TaskInput{Title: "t"})
	notifier.next(t)

	assignee := "usr_2"
	if _, err := svc.UpdateTask(task.ID, "usr_1", TaskUpdate{AssigneeID: &assignee}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if m := notifier.next(t); m.event.Name != models.EventTaskAssigned {
		t.Errorf("event = %s, want %s", m.event.Name, models.EventTaskAssigned)
	}

	done := true
	if _, err := svc.UpdateTask(task.ID, "usr_1", TaskUpdate{Completed: &done}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if m := notifier.next(t); m.event.Name != models.EventTaskCompleted {
		t.Errorf("event = %s, want %s", m.event.Name, models.EventTaskCompleted)
	}

	title := "renamed"
	if _, err := svc.UpdateTask(task.ID, "usr_1", TaskUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if m := notifier.next(t); m.event.Name != models.EventTaskUpdated {
		t.Errorf("event = %s, want %s", m.event.Name, models.EventTaskUpdated)
	}
}

func TestCreate_ValidationErrorsSurface(t *testing.T) {
	svc, notifier, _ := setupService(t)
	board, list := mustBoardAndList(t, svc, notifier)

	if _, err := svc.CreateList(board.ID, "usr_1", ""); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("CreateList(\"\") err = %v, want ErrEmptyTitle", err)
	}
	if _, err := svc.CreateTask(list.ID, "usr_1", TaskInput{}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("CreateTask(empty) err = %v, want ErrEmptyTitle", err)
	}
	if _, err := svc.CreateBoard("usr_1", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("CreateBoard(\"\") err = %v, want ErrEmptyName", err)
	}
}
