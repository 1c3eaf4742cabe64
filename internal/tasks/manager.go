package tasks

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dohr-michael/tracker/internal/events"
	"github.com/dohr-michael/tracker/internal/history"
)

// History records which items were viewed, most recent last.
type History interface {
	Record(item Item)
	// Update refreshes a recorded item without changing its position.
	Update(item Item)
	Remove(item Item)
	List() []Item
}

// NewHistory returns the default in-memory history. limit 0 means unbounded.
func NewHistory(limit int) History {
	return history.New(limit, Item.ItemID)
}

// ManagerConfig holds optional collaborators for a Manager.
type ManagerConfig struct {
	History History            // default: unbounded in-memory history
	Bus     *events.Bus        // optional; lifecycle events are published when set
	Logger  *slog.Logger       // default: slog.Default()
	IDs     *IDAllocator       // default: first identity is 1
	BoardID string             // tags published events; default: random UUID
	Source  events.EventSource // default: events.SourceManager
}

// Manager owns tasks, epics and subtasks. All methods are safe for
// concurrent use; each operation runs under a single lock.
type Manager struct {
	mu       sync.Mutex
	tasks    map[int64]*Task
	epics    map[int64]*Epic
	subTasks map[int64]*SubTask
	ids      *IDAllocator
	index    *PrioritizedIndex
	history  History
	bus      *events.Bus
	logger   *slog.Logger
	boardID  string
	source   events.EventSource
}

// NewManager creates an empty Manager.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		tasks:    make(map[int64]*Task),
		epics:    make(map[int64]*Epic),
		subTasks: make(map[int64]*SubTask),
		ids:      cfg.IDs,
		index:    NewPrioritizedIndex(),
		history:  cfg.History,
		bus:      cfg.Bus,
		logger:   cfg.Logger,
		boardID:  cfg.BoardID,
		source:   cfg.Source,
	}
	if m.ids == nil {
		m.ids = NewIDAllocator(0)
	}
	if m.history == nil {
		m.history = NewHistory(0)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.boardID == "" {
		m.boardID = uuid.NewString()
	}
	if m.source == "" {
		m.source = events.SourceManager
	}
	return m
}

// BoardID returns the identifier attached to this manager's events.
func (m *Manager) BoardID() string {
	return m.boardID
}

// =============================================================================
// CREATE
// =============================================================================

// CreateTask stores t and returns its identity. A zero ID is assigned.
func (m *Manager) CreateTask(t Task) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := t.clone().(*Task)
	if err := m.checkNew(task); err != nil {
		return 0, m.reject("create", task, err)
	}

	m.assignID(&task.ID)
	m.tasks[task.ID] = task
	m.index.Upsert(task)
	m.emitCreated(task)
	return task.ID, nil
}

// CreateEpic stores e and returns its identity. Status is forced to NEW and
// the window stays empty until subtasks are added.
func (m *Manager) CreateEpic(e Epic) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic := e.clone().(*Epic)
	epic.SubTaskIDs = nil
	applyRollup(epic, nil)
	if err := m.checkID(epic.ID); err != nil {
		return 0, m.reject("create", epic, err)
	}

	m.assignID(&epic.ID)
	m.epics[epic.ID] = epic
	m.emitCreated(epic)
	return epic.ID, nil
}

// CreateSubTask stores s under its epic and returns its identity.
func (m *Manager) CreateSubTask(s SubTask) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := s.clone().(*SubTask)
	epic, ok := m.epics[sub.EpicID]
	if !ok {
		return 0, m.reject("create", sub, fmt.Errorf("epic %d: %w", sub.EpicID, ErrUnknownParentEpic))
	}
	if err := m.checkNew(sub); err != nil {
		return 0, m.reject("create", sub, err)
	}

	m.assignID(&sub.ID)
	m.subTasks[sub.ID] = sub
	m.index.Upsert(sub)
	epic.addSubTask(sub.ID)
	m.emitCreated(sub)
	m.rollup(epic)
	return sub.ID, nil
}

// =============================================================================
// UPDATE
// =============================================================================

// UpdateTask replaces the task stored under id.
func (m *Manager) UpdateTask(id int64, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := t.clone().(*Task)
	task.ID = id
	if _, ok := m.tasks[id]; !ok {
		return m.reject("update", task, fmt.Errorf("task %d: %w", id, ErrUnknownIdentity))
	}
	if err := m.checkFields(task); err != nil {
		return m.reject("update", task, err)
	}
	if err := Validate(task, m.index.Snapshot()); err != nil {
		return m.reject("update", task, err)
	}

	m.tasks[id] = task
	m.index.Upsert(task)
	m.history.Update(task.clone())
	m.emitUpdated(task, 0)
	return nil
}

// UpdateEpic replaces an epic's title and description. Its subtasks stay
// linked and its status and window are recomputed from them.
func (m *Manager) UpdateEpic(id int64, e Epic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[id]
	if !ok {
		e.ID = id
		return m.reject("update", &e, fmt.Errorf("epic %d: %w", id, ErrUnknownIdentity))
	}

	epic.Title = e.Title
	epic.Description = e.Description
	m.emitUpdated(epic, 0)
	m.rollup(epic)
	return nil
}

// UpdateSubTask replaces the subtask stored under id. Changing EpicID moves
// it to another epic; both epics are recomputed.
func (m *Manager) UpdateSubTask(id int64, s SubTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := s.clone().(*SubTask)
	sub.ID = id
	old, ok := m.subTasks[id]
	if !ok {
		return m.reject("update", sub, fmt.Errorf("subtask %d: %w", id, ErrUnknownIdentity))
	}
	newEpic, ok := m.epics[sub.EpicID]
	if !ok {
		return m.reject("update", sub, fmt.Errorf("epic %d: %w", sub.EpicID, ErrUnknownParentEpic))
	}
	if err := m.checkFields(sub); err != nil {
		return m.reject("update", sub, err)
	}
	if err := Validate(sub, m.index.Snapshot()); err != nil {
		return m.reject("update", sub, err)
	}

	m.subTasks[id] = sub
	m.index.Upsert(sub)
	m.history.Update(sub.clone())

	var previous int64
	if old.EpicID != sub.EpicID {
		previous = old.EpicID
		if oldEpic, ok := m.epics[old.EpicID]; ok {
			oldEpic.removeSubTask(id)
			m.rollup(oldEpic)
		}
		newEpic.addSubTask(id)
	}
	m.emitUpdated(sub, previous)
	m.rollup(newEpic)
	return nil
}

// =============================================================================
// READ
// =============================================================================

// Tasks returns all plain tasks ordered by ID.
func (m *Manager) Tasks() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return collect(m.tasks, func(t *Task) Task { return *t.clone().(*Task) })
}

// Epics returns all epics ordered by ID.
func (m *Manager) Epics() []Epic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return collect(m.epics, func(e *Epic) Epic { return *e.clone().(*Epic) })
}

// SubTasks returns all subtasks ordered by ID.
func (m *Manager) SubTasks() []SubTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return collect(m.subTasks, func(s *SubTask) SubTask { return *s.clone().(*SubTask) })
}

// GetByID looks id up among tasks, then epics, then subtasks and records
// the access in history. The result is a *Task, *Epic or *SubTask copy.
func (m *Manager) GetByID(id int64) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.find(id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get %d: %w", id, ErrUnknownIdentity)
	}
	m.history.Record(item.clone())
	return item.clone(), nil
}

// Lookup is GetByID without the history side effect.
func (m *Manager) Lookup(id int64) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.find(id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup %d: %w", id, ErrUnknownIdentity)
	}
	return item.clone(), nil
}

// EpicSubTasks returns the subtasks of an epic in the order they were added.
func (m *Manager) EpicSubTasks(epicID int64) ([]SubTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[epicID]
	if !ok {
		return nil, fmt.Errorf("epic %d: %w", epicID, ErrUnknownIdentity)
	}
	out := make([]SubTask, 0, len(epic.SubTaskIDs))
	for _, sid := range epic.SubTaskIDs {
		if sub, ok := m.subTasks[sid]; ok {
			out = append(out, *sub.clone().(*SubTask))
		}
	}
	return out, nil
}

// History returns recently viewed items, most recent last.
func (m *Manager) History() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.history.List())
}

// PrioritizedTasks returns tasks and subtasks ordered by start time, untimed last.
func (m *Manager) PrioritizedTasks() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.index.Snapshot())
}

// =============================================================================
// DELETE
// =============================================================================

// DeleteAllTasks removes every plain task.
func (m *Manager) DeleteAllTasks() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range slices.Sorted(maps.Keys(m.tasks)) {
		m.drop(m.tasks[id], true)
	}
	clear(m.tasks)
}

// DeleteAllEpics removes every epic and, with them, every subtask.
func (m *Manager) DeleteAllEpics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range slices.Sorted(maps.Keys(m.subTasks)) {
		m.drop(m.subTasks[id], true)
	}
	for _, id := range slices.Sorted(maps.Keys(m.epics)) {
		m.drop(m.epics[id], true)
	}
	clear(m.subTasks)
	clear(m.epics)
}

// DeleteAllSubTasks removes every subtask. Epics remain, reset to NEW with
// no children and no window.
func (m *Manager) DeleteAllSubTasks() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range slices.Sorted(maps.Keys(m.subTasks)) {
		m.drop(m.subTasks[id], true)
	}
	clear(m.subTasks)

	for _, id := range slices.Sorted(maps.Keys(m.epics)) {
		epic := m.epics[id]
		epic.SubTaskIDs = nil
		m.rollup(epic)
	}
}

// DeleteByID removes a task, an epic (with its subtasks) or a subtask.
func (m *Manager) DeleteByID(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.find(id)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %d: %w", id, ErrUnknownIdentity)
	}

	switch v := item.(type) {
	case *Task:
		m.drop(v, false)
		delete(m.tasks, id)
	case *Epic:
		for _, sid := range v.SubTaskIDs {
			if sub, ok := m.subTasks[sid]; ok {
				m.drop(sub, true)
				delete(m.subTasks, sid)
			}
		}
		m.drop(v, false)
		delete(m.epics, id)
	case *SubTask:
		m.drop(v, false)
		delete(m.subTasks, id)
		if epic, ok := m.epics[v.EpicID]; ok {
			epic.removeSubTask(id)
			m.rollup(epic)
		}
	}
	return nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// find searches tasks, epics then subtasks. Returns ErrNotFound when absent.
func (m *Manager) find(id int64) (Item, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	if e, ok := m.epics[id]; ok {
		return e, nil
	}
	if s, ok := m.subTasks[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// checkNew runs every check a create needs before anything is stored.
func (m *Manager) checkNew(item Item) error {
	if err := m.checkID(item.ItemID()); err != nil {
		return err
	}
	if err := m.checkFields(item); err != nil {
		return err
	}
	return Validate(item, m.index.Snapshot())
}

// checkID rejects a caller-chosen identity that is already taken.
func (m *Manager) checkID(id int64) error {
	if id < 0 {
		return fmt.Errorf("identity %d: %w", id, ErrUnknownIdentity)
	}
	if id == 0 {
		return nil
	}
	if _, err := m.find(id); err == nil {
		return fmt.Errorf("identity %d: %w", id, ErrIdentityInUse)
	}
	return nil
}

// checkFields normalizes an empty status to NEW and rejects bad values.
func (m *Manager) checkFields(item Item) error {
	t := header(item)
	if t.Status == "" {
		t.Status = StatusNew
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%q: %w", t.Status, ErrInvalidStatus)
	}
	if t.Duration < 0 {
		return fmt.Errorf("%s: %w", t.Duration, ErrInvalidDuration)
	}
	return nil
}

// assignID reserves a fresh identity when *id is zero, and otherwise makes
// sure the allocator never hands the caller's identity out again.
func (m *Manager) assignID(id *int64) {
	if *id == 0 {
		*id = m.ids.Next()
		return
	}
	m.ids.Observe(*id)
}

// rollup recomputes an epic from its subtasks and refreshes its history entry.
func (m *Manager) rollup(epic *Epic) {
	subs := make([]*SubTask, 0, len(epic.SubTaskIDs))
	for _, sid := range epic.SubTaskIDs {
		if sub, ok := m.subTasks[sid]; ok {
			subs = append(subs, sub)
		}
	}
	applyRollup(epic, subs)
	m.history.Update(epic.clone())

	m.logger.Debug("epic rolled up", "id", epic.ID, "status", epic.Status, "subtasks", len(subs))
	m.publish(events.EpicRolledUpPayload{
		EpicID:       epic.ID,
		Status:       string(epic.Status),
		SubTaskCount: len(subs),
		StartTime:    cloneTime(epic.StartTime),
		EndTime:      cloneTime(epic.End),
	})
}

// drop removes an item from the index and history. The caller deletes it
// from its store.
func (m *Manager) drop(item Item, cascade bool) {
	m.index.Remove(item.ItemID())
	m.history.Remove(item)

	m.logger.Debug("item deleted", "id", item.ItemID(), "kind", item.ItemKind(), "cascade", cascade)
	m.publish(events.TaskDeletedPayload{ItemPayload: itemPayload(item), Cascade: cascade})
}

func (m *Manager) reject(op string, item Item, err error) error {
	m.logger.Info("item rejected", "op", op, "kind", item.ItemKind(), "id", item.ItemID(), "error", err)
	m.publish(events.TaskRejectedPayload{
		Op:     op,
		Kind:   string(item.ItemKind()),
		ID:     item.ItemID(),
		Reason: err.Error(),
	})
	return fmt.Errorf("%s %s: %w", op, item.ItemKind(), err)
}

func (m *Manager) emitCreated(item Item) {
	m.logger.Debug("item created", "id", item.ItemID(), "kind", item.ItemKind())
	m.publish(events.TaskCreatedPayload{ItemPayload: itemPayload(item)})
}

func (m *Manager) emitUpdated(item Item, previousEpicID int64) {
	m.logger.Debug("item updated", "id", item.ItemID(), "kind", item.ItemKind())
	m.publish(events.TaskUpdatedPayload{ItemPayload: itemPayload(item), PreviousEpicID: previousEpicID})
}

func (m *Manager) publish(payload events.EventPayload) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(events.NewTypedEventWithBoard(m.source, payload, m.boardID))
}

// header returns the common Task fields of an item.
func header(item Item) *Task {
	switch v := item.(type) {
	case *Task:
		return v
	case *Epic:
		return &v.Task
	case *SubTask:
		return &v.Task
	default:
		panic(fmt.Sprintf("tasks: unexpected item type %T", item))
	}
}

func itemPayload(item Item) events.ItemPayload {
	t := header(item)
	p := events.ItemPayload{
		ID:        t.ID,
		Kind:      string(item.ItemKind()),
		Title:     t.Title,
		Status:    string(t.Status),
		StartTime: cloneTime(t.StartTime),
	}
	if sub, ok := item.(*SubTask); ok {
		p.EpicID = sub.EpicID
	}
	return p
}

func collect[T any, V any](store map[int64]*V, conv func(*V) T) []T {
	out := make([]T, 0, len(store))
	for _, id := range slices.Sorted(maps.Keys(store)) {
		out = append(out, conv(store[id]))
	}
	return out
}

func cloneAll(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}
