// Package board holds the client-side state: the epics and tasks shown on the
// board, the chat transcript and which epics are expanded. Nothing is
// persisted; a Board lives as long as the process.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskchat/internal/gateway"
	"github.com/BuzzLyutic/taskchat/internal/model"
)

const ThinkingText = "Thinking..."

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNotFound     = errors.New("not found")
	ErrInvalidField = errors.New("invalid field value")
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Entry is one line of the chat transcript. Pending entries stand in for a
// response that has not arrived yet and are removed by ID.
type Entry struct {
	ID      string
	Sender  Sender
	Text    string
	Pending bool
	Error   bool
}

// Chatter sends a message to the extraction gateway.
type Chatter interface {
	Chat(ctx context.Context, message string) (gateway.Result, error)
}

// Board is safe for concurrent use.
type Board struct {
	mu         sync.Mutex
	epics      []model.Epic
	tasks      []model.Task // task-only responses
	transcript []Entry
	expanded   map[string]struct{}
	newID      func() string
}

func New() *Board {
	return &Board{
		expanded: make(map[string]struct{}),
		newID:    uuid.NewString,
	}
}

// Send runs the whole send protocol: Begin, the gateway call, Complete.
// Blank input returns ErrEmptyMessage without touching the board or the network.
func (b *Board) Send(ctx context.Context, c Chatter, input string) (gateway.Result, error) {
	pendingID, ok := b.Begin(input)
	if !ok {
		return gateway.Result{}, ErrEmptyMessage
	}
	res, err := c.Chat(ctx, input)
	return b.Complete(pendingID, res, err), err
}

// Begin records the user's message and a pending placeholder. It returns the
// placeholder's ID, or ok=false when the trimmed input is empty.
func (b *Board) Begin(input string) (pendingID string, ok bool) {
	if strings.TrimSpace(input) == "" {
		return "", false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.transcript = append(b.transcript, Entry{ID: b.newID(), Sender: SenderUser, Text: input})
	pendingID = b.newID()
	b.transcript = append(b.transcript, Entry{ID: pendingID, Sender: SenderAI, Text: ThinkingText, Pending: true})
	return pendingID, true
}

// Complete removes the placeholder and applies the gateway's answer. On
// success every epic and task gets a fresh ID and is appended to the board,
// followed by one summary entry; on failure one error entry is appended and
// the board is left alone. The returned Result carries the assigned IDs.
func (b *Board) Complete(pendingID string, res gateway.Result, err error) gateway.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.transcript = slices.DeleteFunc(b.transcript, func(e Entry) bool {
		return e.Pending && e.ID == pendingID
	})

	if err != nil {
		b.transcript = append(b.transcript, Entry{ID: b.newID(), Sender: SenderAI, Text: FormatError(err), Error: true})
		return gateway.Result{}
	}

	added := gateway.Result{
		Epics: cloneEpics(res.Epics),
		Tasks: slices.Clone(res.Tasks),
	}
	for i := range added.Epics {
		added.Epics[i].ID = b.newID()
		for j := range added.Epics[i].Tasks {
			added.Epics[i].Tasks[j].ID = b.newID()
		}
	}
	for i := range added.Tasks {
		added.Tasks[i].ID = b.newID()
	}

	b.epics = append(b.epics, cloneEpics(added.Epics)...)
	b.tasks = append(b.tasks, added.Tasks...)

	var summary []string
	if len(added.Epics) > 0 {
		summary = append(summary, FormatEpics(added.Epics))
	}
	if len(added.Tasks) > 0 {
		summary = append(summary, FormatTasks(added.Tasks))
	}
	if len(summary) == 0 {
		summary = append(summary, "Nothing to add.")
	}
	b.transcript = append(b.transcript, Entry{ID: b.newID(), Sender: SenderAI, Text: strings.Join(summary, "\n\n")})

	return gateway.Result{Epics: cloneEpics(added.Epics), Tasks: slices.Clone(added.Tasks)}
}

type EpicPatch struct {
	Title       *string
	Description *string
	Status      *model.Status
}

type TaskPatch struct {
	Title       *string
	Description *string
	Status      *model.Status
	Priority    *model.Priority
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// UpdateEpic changes only the fields set in p.
func (b *Board) UpdateEpic(epicID string, p EpicPatch) error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidField, *p.Status)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.epicIndex(epicID)
	if i < 0 {
		return fmt.Errorf("epic %s: %w", epicID, ErrNotFound)
	}
	e := &b.epics[i]
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	return nil
}

// UpdateTask changes only the fields set in p. An empty epicID addresses the
// task-only list.
func (b *Board) UpdateTask(epicID, taskID string, p TaskPatch) error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidField, *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidField, *p.Priority)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tasks, err := b.taskList(epicID)
	if err != nil {
		return err
	}
	j := slices.IndexFunc(*tasks, func(t model.Task) bool { return t.ID == taskID })
	if j < 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	t := &(*tasks)[j]
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return nil
}

func (b *Board) DeleteEpic(epicID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.epicIndex(epicID)
	if i < 0 {
		return fmt.Errorf("epic %s: %w", epicID, ErrNotFound)
	}
	b.epics = slices.Delete(b.epics, i, i+1)
	delete(b.expanded, epicID)
	return nil
}

// DeleteTask removes a task from its epic, or from the task-only list when
// epicID is empty.
func (b *Board) DeleteTask(epicID, taskID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks, err := b.taskList(epicID)
	if err != nil {
		return err
	}
	j := slices.IndexFunc(*tasks, func(t model.Task) bool { return t.ID == taskID })
	if j < 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	*tasks = slices.Delete(*tasks, j, j+1)
	return nil
}

func (b *Board) AddEpic() model.Epic {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := model.Epic{ID: b.newID(), Title: "New Epic", Status: model.StatusPending}
	b.epics = append(b.epics, e)
	return e
}

func (b *Board) AddTask(epicID string) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks, err := b.taskList(epicID)
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{ID: b.newID(), Title: "New Task", Priority: model.PriorityMedium, Status: model.StatusPending}
	*tasks = append(*tasks, t)
	return t, nil
}

// ToggleExpanded flips the epic's expanded flag and returns the new value.
func (b *Board) ToggleExpanded(epicID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.expanded[epicID]; ok {
		delete(b.expanded, epicID)
		return false
	}
	b.expanded[epicID] = struct{}{}
	return true
}

func (b *Board) IsExpanded(epicID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.expanded[epicID]
	return ok
}

// Epics returns a copy of the board's epics.
func (b *Board) Epics() []model.Epic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneEpics(b.epics)
}

// Tasks returns a copy of the task-only list.
func (b *Board) Tasks() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tasks)
}

func (b *Board) Transcript() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.transcript)
}

// Pending reports how many responses are still outstanding.
func (b *Board) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.transcript {
		if e.Pending {
			n++
		}
	}
	return n
}

func (b *Board) epicIndex(epicID string) int {
	return slices.IndexFunc(b.epics, func(e model.Epic) bool { return e.ID == epicID })
}

func (b *Board) taskList(epicID string) (*[]model.Task, error) {
	if epicID == "" {
		return &b.tasks, nil
	}
	i := b.epicIndex(epicID)
	if i < 0 {
		return nil, fmt.Errorf("epic %s: %w", epicID, ErrNotFound)
	}
	return &b.epics[i].Tasks, nil
}

func cloneEpics(epics []model.Epic) []model.Epic {
	if epics == nil {
		return nil
	}
	out := make([]model.Epic, len(epics))
	for i, e := range epics {
		e.Tasks = slices.Clone(e.Tasks)
		out[i] = e
	}
	return out
}
