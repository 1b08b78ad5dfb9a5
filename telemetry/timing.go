package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/hledger/output"
)

// TimingCollector collects hierarchical timing data.
// It builds a tree structure of timers that can be reported as a nested view.
type TimingCollector struct {
	root    *timerNode
	current *timerNode
	mu      sync.Mutex
}

// timerNode represents a single timed operation in the tree.
type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
	parent   *timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return time.Since(n.start)
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation. The first timer becomes the root; later
// ones nest under the innermost running timer.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		c.root = &timerNode{name: name, start: time.Now()}
		c.current = c.root
		return &timingTimer{collector: c, node: c.root}
	}
	return c.push(c.current, name)
}

// push adds a running node under parent and makes it current.
// Callers hold c.mu.
func (c *TimingCollector) push(parent *timerNode, name string) Timer {
	node := &timerNode{
		name:   name,
		start:  time.Now(),
		parent: parent,
	}
	parent.children = append(parent.children, node)
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report outputs the timing tree to a writer.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}

	formatTimingTree(w, c.root, styles)
}

// timingTimer is a Timer implementation that records to a TimingCollector.
type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer. Ending a timer twice keeps the first end time.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = time.Now()

	if t.collector.current == t.node && t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

// Child creates a nested timer. Timers started on the collector while the
// child runs nest under it.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	return t.collector.push(t.node, name)
}
