package assets

import (
	"fmt"
	"sync"

	"github.com/milk9111/tilescape/taskqueue"
)

// Decoder turns encoded bytes into an Image and reports the result through
// done. Implementations decide which goroutine runs done.
type Decoder interface {
	Decode(data []byte, mime string, done func(*Image, error))
}

// SyncDecoder decodes inline and calls done before returning.
type SyncDecoder struct {
	Registry *Registry
}

func (d SyncDecoder) Decode(data []byte, mime string, done func(*Image, error)) {
	img, err := d.Registry.Decode(data, mime)
	done(img, err)
}

// Mailbox carries callbacks from worker goroutines back to the goroutine
// that owns editor state. Post is safe from any goroutine; Drain belongs to
// the owner.
type Mailbox struct {
	mu      sync.Mutex
	pending []func()
}

func (m *Mailbox) Post(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Drain runs every posted callback in post order and returns how many ran.
func (m *Mailbox) Drain() int {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

type decodeJob struct {
	data []byte
	mime string
	done func(*Image, error)
}

// AsyncDecoder decodes on a worker pool. Completions are posted to the
// mailbox, so done always runs on the goroutine that drains it.
type AsyncDecoder struct {
	registry *Registry
	mailbox  *Mailbox
	queue    *taskqueue.Queue[decodeJob]
}

func NewAsyncDecoder(registry *Registry, mailbox *Mailbox, workers, queueSize int) (*AsyncDecoder, error) {
	if mailbox == nil {
		return nil, fmt.Errorf("assets: async decoder: nil mailbox")
	}
	d := &AsyncDecoder{registry: registry, mailbox: mailbox}
	q, err := taskqueue.New(workers, queueSize, d.work)
	if err != nil {
		return nil, fmt.Errorf("assets: async decoder: %w", err)
	}
	d.queue = q
	return d, nil
}

// Decode queues the job and returns at once, even when every worker is busy.
// After Close, done receives ErrDecoderClosed through the mailbox.
func (d *AsyncDecoder) Decode(data []byte, mime string, done func(*Image, error)) {
	if !d.queue.Enqueue(decodeJob{data: data, mime: mime, done: done}) {
		d.mailbox.Post(func() { done(nil, ErrDecoderClosed) })
	}
}

func (d *AsyncDecoder) work(job decodeJob) {
	var (
		img *Image
		err error
	)
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("assets: decode panic: %v", r)
		}
		d.mailbox.Post(func() { job.done(img, err) })
	}()
	img, err = d.registry.Decode(job.data, job.mime)
}

// Wait blocks until every submitted decode has been posted to the mailbox.
func (d *AsyncDecoder) Wait() {
	d.queue.Wait()
}

func (d *AsyncDecoder) Close() {
	d.queue.Close()
}
