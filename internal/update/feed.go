package update

import (
	"sync"

	"github.com/sandeepkv93/atm/internal/model"
	"github.com/sandeepkv93/atm/internal/task"
)

// taskFeed receives the ordered list from the store's change hook. Model
// copies share one feed, so a mutation made through any path (palette,
// key handler, recurrence spawn) shows up on the next pull.
type taskFeed struct {
	mu      sync.Mutex
	tasks   []model.Task
	version uint64
}

func newTaskFeed(store *task.Store) *taskFeed {
	f := &taskFeed{}
	store.Subscribe(f.push)
	f.push(store.Tasks())
	return f
}

func (f *taskFeed) push(tasks []model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = tasks
	f.version++
}

func (f *taskFeed) latest() ([]model.Task, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks, f.version
}
