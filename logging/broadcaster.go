package logging

import (
	"bytes"
	"sync"
)

// Broadcaster is an io.Writer that fans complete log lines out to
// subscribers. Writes never block: a subscriber that falls behind loses
// lines rather than stalling the logger.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
	buf  bytes.Buffer
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan string]struct{})}
}

// Subscribe returns a channel receiving future log lines.
func (b *Broadcaster) Subscribe() chan string {
	ch := make(chan string, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (b *Broadcaster) Unsubscribe(ch chan string) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Write buffers partial writes and emits one message per completed line.
func (b *Broadcaster) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf.Write(p)
	for {
		line, err := b.buf.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it for the next write.
			b.buf.WriteString(line)
			break
		}
		line = line[:len(line)-1]
		for ch := range b.subs {
			select {
			case ch <- line:
			default:
			}
		}
	}

	return len(p), nil
}
