package ripple

import (
	"container/list"
	"sync"
)

// Queue is a thread-safe FIFO of encoded records waiting to be persisted.
type Queue struct {
	mu   sync.Mutex
	list *list.List
}

// NewQueue creates and returns a new empty Queue.
func NewQueue() *Queue {
	return &Queue{list: list.New()}
}

// Enqueue adds a record to the end of the queue.
func (q *Queue) Enqueue(record Record) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list.PushBack(record)
}

// Dequeue removes and returns the front record.
// It returns false if the queue is empty.
func (q *Queue) Dequeue() (Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.list.Len() == 0 {
		return Record{}, false
	}
	front := q.list.Front()
	q.list.Remove(front)
	return front.Value.(Record), true
}

// Requeue puts records back at the front, keeping their order.
func (q *Queue) Requeue(records []Record) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := len(records) - 1; i >= 0; i-- {
		q.list.PushFront(records[i])
	}
}

// Drain removes and returns every record, oldest first.
func (q *Queue) Drain() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	records := make([]Record, 0, q.list.Len())
	for e := q.list.Front(); e != nil; e = e.Next() {
		records = append(records, e.Value.(Record))
	}
	q.list.Init()
	return records
}

func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.list.Len() == 0
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.list.Len()
}
