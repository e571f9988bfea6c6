package tasks

import (
	"sort"
	"sync"
)

// Counts summarises a board.
type Counts struct {
	Total int `json:"total"`
	Open  int `json:"open"`
	Done  int `json:"done"`
}

// Board holds the tasks of one session. Completion toggles live only in
// memory and are lost on Replace.
type Board struct {
	mu    sync.RWMutex
	tasks []Task
}

func NewBoard() *Board {
	return &Board{}
}

// Replace swaps the board contents for tasks, ordered by file then line.
func (b *Board) Replace(tasks []Task) {
	next := make([]Task, len(tasks))
	copy(next, tasks)
	sort.SliceStable(next, func(i, j int) bool {
		if next[i].File == next[j].File {
			return next[i].Line < next[j].Line
		}
		return next[i].File < next[j].File
	})
	b.mu.Lock()
	b.tasks = next
	b.mu.Unlock()
}

// Items returns a copy of the current tasks.
func (b *Board) Items() []Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Toggle flips the first task found on file:line and returns its new state.
func (b *Board) Toggle(file string, line int) (Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].File == file && b.tasks[i].Line == line {
			b.tasks[i].Completed = !b.tasks[i].Completed
			return b.tasks[i], true
		}
	}
	return Task{}, false
}

func (b *Board) Counts() Counts {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c := Counts{Total: len(b.tasks)}
	for _, t := range b.tasks {
		if t.Completed {
			c.Done++
		} else {
			c.Open++
		}
	}
	return c
}
