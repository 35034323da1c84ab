package board

import (
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// Status is a snapshot of the message element.
type Status struct {
	Text    string
	Kind    model.MessageKind
	Visible bool
}

// Banner drives the message element. Every Show cancels the pending hide
// timer before arming its own, so an older timer can never hide a newer
// message.
type Banner struct {
	mu      *sync.Mutex // the board lock; guards node and the timer fields
	node    *html.Node
	timeout time.Duration
	timer   *time.Timer
	gen     uint64

	afterFunc func(time.Duration, func()) *time.Timer
}

func newBanner(mu *sync.Mutex, node *html.Node, timeout time.Duration) *Banner {
	return &Banner{mu: mu, node: node, timeout: timeout, afterFunc: time.AfterFunc}
}

// show must be called with b.mu held.
func (b *Banner) show(text string, kind model.MessageKind) {
	setText(b.node, text)
	setAttr(b.node, "class", string(kind))
	removeClass(b.node, classHidden)

	b.stop()
	if b.timeout <= 0 {
		return
	}
	gen := b.gen
	b.timer = b.afterFunc(b.timeout, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen != gen {
			return
		}
		addClass(b.node, classHidden)
		b.timer = nil
	})
}

// stop cancels the pending hide. Must be called with b.mu held.
func (b *Banner) stop() {
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// status must be called with b.mu held.
func (b *Banner) status() Status {
	var kind model.MessageKind
	switch {
	case hasClass(b.node, string(model.MessageSuccess)):
		kind = model.MessageSuccess
	case hasClass(b.node, string(model.MessageError)):
		kind = model.MessageError
	}
	return Status{
		Text:    textContent(b.node),
		Kind:    kind,
		Visible: !hasClass(b.node, classHidden),
	}
}
