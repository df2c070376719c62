package transport

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 256

// workerFunc is the unit of work a pool member repeats until the tomb
// dies or the task channel closes.
type workerFunc = func(t *tomb.Tomb, task any) error

// workerPool keeps a fixed number of goroutines pulling connections
// off a shared channel so accepting a new client never blocks on a
// slow one.
type workerPool struct {
	n     int
	tasks chan any
	work  workerFunc
}

func newWorkerPool(size int) *workerPool {
	return &workerPool{
		n:     size,
		tasks: make(chan any, taskChanSize),
	}
}

func (p *workerPool) addTask(task any) {
	p.tasks <- task
}

// run starts the pool's fixed set of workers and blocks until the
// tomb is dying.
func (p *workerPool) run(t *tomb.Tomb, work workerFunc) {
	p.work = work
	for i := 0; i < p.n; i++ {
		id := i
		t.Go(func() error {
			return p.worker(t, id)
		})
	}
	<-t.Dying()
}

func (p *workerPool) worker(t *tomb.Tomb, id int) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-p.tasks:
			if err := p.work(t, task); err != nil {
				log.Error().Err(err).Int("worker", id).Msg("worker exiting")
				return err
			}
		}
	}
}
