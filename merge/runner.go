package merge

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Runner executes a merge as a task graph over the merge task tree: one task
// per node, with every child task completing before its parent starts. Tasks
// with no ancestor relationship run concurrently on a fixed worker pool.
type Runner[P Prop, N Num] struct {
	merger  *Merger[P, N]
	threads int
}

// NewRunner wraps a merger for parallel execution on the given number of
// workers.
func NewRunner[P Prop, N Num](merger *Merger[P, N], threads int) *Runner[P, N] {
	if threads < 1 {
		threads = 1
	}
	return &Runner[P, N]{merger: merger, threads: threads}
}

type mergeTask[P Prop, N Num] struct {
	node    *rectNode[P, N]
	parent  *mergeTask[P, N]
	pending atomic.Int32
}

// Run performs pre-processing, drains the task graph on the worker pool, and
// runs post-processing on the calling goroutine.
func (r *Runner[P, N]) Run() {
	m := r.merger
	m.preProcess()

	tasks := scheduleTasks(&m.tree)
	ready := make(chan *mergeTask[P, N], len(tasks))
	for _, task := range tasks {
		if task.pending.Load() == 0 {
			ready <- task
		}
	}

	var done atomic.Int32
	var closeOnce sync.Once
	total := int32(len(tasks))

	var g errgroup.Group
	for w := 0; w < r.threads; w++ {
		g.Go(func() error {
			for task := range ready {
				m.mergeNode(task.node)
				if parent := task.parent; parent != nil {
					if parent.pending.Add(-1) == 0 {
						ready <- parent
					}
				}
				if done.Add(1) == total {
					closeOnce.Do(func() { close(ready) })
				}
			}
			return nil
		})
	}
	g.Wait()

	m.postProcess()
}

// scheduleTasks builds one task per tree node with a dependency count of its
// child count.
func scheduleTasks[P Prop, N Num](root *rectNode[P, N]) []*mergeTask[P, N] {
	var tasks []*mergeTask[P, N]
	var walk func(node *rectNode[P, N], parent *mergeTask[P, N])
	walk = func(node *rectNode[P, N], parent *mergeTask[P, N]) {
		task := &mergeTask[P, N]{node: node, parent: parent}
		task.pending.Store(int32(len(node.Children())))
		tasks = append(tasks, task)
		for _, child := range node.Children() {
			walk(child, task)
		}
	}
	walk(root, nil)
	return tasks
}
