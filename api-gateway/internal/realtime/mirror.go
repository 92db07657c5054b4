package realtime

import "sync"

// Mirror keeps the latest snapshot of one feed and hands every new snapshot
// to its subscribers. Each subscriber is served by its own goroutine, so a
// slow one never blocks Set or the others; it only sees the newest snapshot
// when it falls behind.
type Mirror struct {
	mu     sync.Mutex
	latest []byte
	subs   map[int]chan []byte
	nextID int
}

func NewMirror() *Mirror {
	return &Mirror{subs: make(map[int]chan []byte)}
}

func (m *Mirror) Latest() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

func (m *Mirror) Set(snapshot []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = snapshot
	for _, ch := range m.subs {
		offer(ch, snapshot)
	}
}

// Subscribe calls onChange with the current snapshot, if any, and then with
// every later one. The returned function stops delivery and is safe to call
// more than once.
func (m *Mirror) Subscribe(onChange func([]byte)) (unsubscribe func()) {
	ch := make(chan []byte, 1)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	if m.latest != nil {
		ch <- m.latest
	}
	m.mu.Unlock()

	go func() {
		for snapshot := range ch {
			onChange(snapshot)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			close(ch)
			m.mu.Unlock()
		})
	}
}

// offer replaces a pending undelivered snapshot. Callers hold m.mu, which is
// the only place sends happen, so the second send cannot block.
func offer(ch chan []byte, snapshot []byte) {
	select {
	case ch <- snapshot:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- snapshot
}
