package remedy

import (
	"runtime"

	"go-heatguard/internal/logging"
)

// Worker drains the job queue. Several run concurrently; the queue is
// safe for that and each job is independent.
type Worker struct {
	queue    *JobQueue
	executor *Executor
	workerID int
	running  bool
}

func NewWorker(queue *JobQueue, executor *Executor, workerID int) *Worker {
	return &Worker{
		queue:    queue,
		executor: executor,
		workerID: workerID,
	}
}

func (w *Worker) Start() {
	w.running = true
	logging.Debug("[REMEDY] Worker %d started", w.workerID)
	for w.running {
		job, ok := w.queue.Dequeue()
		if !ok {
			runtime.Gosched()
			continue
		}
		w.executor.Execute(job)
	}
}

func (w *Worker) Stop() {
	w.running = false
}
