package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/goroutine"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

const (
	defaultQueueLength = 1024
	defaultWorkers     = 4
	writeTimeout       = 5 * time.Second
)

var ErrDispatcherClosed = errors.New("event dispatcher closed")

type DispatcherCfg struct {
	Sinks       []listing.EventSink
	QueueLength int
	// Workers bounds the concurrent sink writes of one event
	Workers int
	Metrics metrics.Service
	Now     func() time.Time
}

type impl struct {
	sinks []listing.EventSink
	pool  *goroutines.Pool
	met   metrics.Service
	now   func() time.Time

	mu     sync.Mutex
	seq    uint64
	closed bool
	queue  chan *listing.Event
	done   chan struct{}

	release sync.Once
}

// New starts the consumer goroutine; call Close to stop it
func New(cfg *DispatcherCfg) listing.EventDispatcher {
	queueLength := cfg.QueueLength
	if queueLength <= 0 {
		queueLength = defaultQueueLength
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	im := &impl{
		sinks: cfg.Sinks,
		pool:  goroutines.NewPool(workers, goroutines.WithTaskQueueLength(workers), goroutines.WithPreAllocWorkers(workers)),
		met:   cfg.Metrics,
		now:   cfg.Now,
		queue: make(chan *listing.Event, queueLength),
		done:  make(chan struct{}),
	}
	if im.met == nil {
		im.met = metrics.New("event")
	}
	if im.now == nil {
		im.now = time.Now
	}

	go im.consume()
	return im
}

// Publish stamps evt with its Id and Seq and queues it. It blocks while the queue is full.
func (im *impl) Publish(c ctx.Ctx, evt listing.Event) error {
	id, err := uuid.NewRandom()
	if err != nil {
		c.WithField("err", err).Error("uuid.NewRandom failed")
		return err
	}

	im.mu.Lock()
	defer im.mu.Unlock()
	if im.closed {
		return ErrDispatcherClosed
	}

	im.seq++
	evt.Id = id.String()
	evt.Seq = im.seq
	evt.CreatedAt = im.now()

	select {
	case im.queue <- &evt:
		im.met.BumpSum("queued.count", 1, "type", string(evt.Type))
		return nil
	case <-c.Done():
		im.seq--
		return c.Err()
	}
}

func (im *impl) Close(c ctx.Ctx) error {
	im.mu.Lock()
	if !im.closed {
		im.closed = true
		close(im.queue)
	}
	im.mu.Unlock()

	select {
	case <-im.done:
		im.release.Do(im.pool.Release)
		return nil
	case <-c.Done():
		c.WithField("pending", len(im.queue)).Warn("event dispatcher closed before drained")
		return c.Err()
	}
}

// consume restarts the drain loop after a panic so later events are still delivered
func (im *impl) consume() {
	for {
		panicked := goroutine.RecoverableGo(im.drain, goroutine.WithName("event-dispatcher"))
		evt, ok := <-panicked
		if !ok {
			close(im.done)
			return
		}
		im.met.BumpSum("panic.count", 1)
		log.Log().WithField("panic", evt.Panic).Error("event dispatcher restarted")
	}
}

func (im *impl) drain() {
	for evt := range im.queue {
		im.deliver(evt)
	}
}

// deliver writes evt to every sink and returns once all of them are done
func (im *impl) deliver(evt *listing.Event) {
	defer im.met.BumpTime("deliver.time", "type", string(evt.Type)).End()

	c := ctx.WithFields(ctx.Background(), log.Fields{
		"eventId": evt.Id,
		"seq":     evt.Seq,
		"type":    evt.Type,
	})

	wg := sync.WaitGroup{}
	for _, sink := range im.sinks {
		sink := sink
		wg.Add(1)
		task := func() {
			defer wg.Done()
			im.write(c, sink, evt)
		}
		if err := im.pool.Schedule(task); err != nil {
			c.WithFields(log.Fields{"err": err, "sink": sink.Name()}).Warn("pool.Schedule failed, writing inline")
			task()
		}
	}
	wg.Wait()
}

func (im *impl) write(c ctx.Ctx, sink listing.EventSink, evt *listing.Event) {
	c, cancel := ctx.WithTimeout(c, writeTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			im.met.BumpSum("sink.panic", 1, "sink", sink.Name())
			c.WithFields(log.Fields{"panic": r, "sink": sink.Name()}).Error("sink.Write panicked")
		}
	}()

	// sinks get their own copy
	cp := *evt
	if err := sink.Write(c, &cp); err != nil {
		im.met.BumpSum("sink.err", 1, "sink", sink.Name())
		c.WithFields(log.Fields{"err": err, "sink": sink.Name()}).Error("sink.Write failed")
		return
	}
	im.met.BumpSum("sink.count", 1, "sink", sink.Name())
}
