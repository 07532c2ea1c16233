// Package presenter renders transfer.Client and command planner progress
// to the terminal, subscribing to the event bus instead of being threaded
// through download/upload call sites directly. It mirrors the teacher's
// pterm.MultiPrinter/ProgressbarPrinter usage in UpdateMods, generalized
// to an arbitrary number of concurrent named transfers and falling back
// to line-oriented output when stdout is not a terminal.
package presenter

import (
	"fmt"
	"sync"

	"github.com/pterm/pterm"

	"factorix/internal/eventbus"
	"factorix/internal/transfer"
)

// Presenter renders DownloadStarted/Progress/Completed and
// UploadStarted/Progress/Completed events for a set of concurrently
// running transfers, identified by URL.
type Presenter struct {
	bus  *eventbus.Bus
	subs []eventbus.Subscription

	mu    sync.Mutex
	multi *pterm.MultiPrinter
	bars  map[string]*pterm.ProgressbarPrinter
	raw   bool
}

// New attaches a Presenter to bus. raw forces line-oriented output
// (teacher's pterm.RawOutput path) regardless of TTY detection; callers
// typically pass !term.IsTerminal(stdout).
func New(bus *eventbus.Bus, raw bool) *Presenter {
	p := &Presenter{bus: bus, bars: make(map[string]*pterm.ProgressbarPrinter), raw: raw}
	if !raw {
		multi, _ := pterm.DefaultMultiPrinter.Start()
		p.multi = multi
	}

	p.subs = append(p.subs,
		bus.Subscribe(transfer.TopicDownloadStarted, p.onDownloadStarted),
		bus.Subscribe(transfer.TopicDownloadProgress, p.onDownloadProgress),
		bus.Subscribe(transfer.TopicDownloadCompleted, p.onDownloadCompleted),
		bus.Subscribe(transfer.TopicUploadStarted, p.onUploadStarted),
		bus.Subscribe(transfer.TopicUploadProgress, p.onUploadProgress),
		bus.Subscribe(transfer.TopicUploadCompleted, p.onUploadCompleted),
	)
	return p
}

// Stop unsubscribes from the bus and flushes the multi-printer, the
// presenter equivalent of the teacher's `multi.Stop()` call once
// UpdateMods's errgroup has drained.
func (p *Presenter) Stop() {
	for _, sub := range p.subs {
		p.bus.Unsubscribe(sub)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.multi != nil {
		_, _ = p.multi.Stop()
		fmt.Println()
	}
}

func (p *Presenter) barFor(key, title string) *pterm.ProgressbarPrinter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if bar, ok := p.bars[key]; ok {
		return bar
	}
	if p.raw || p.multi == nil {
		pterm.Info.Printf("%s...\n", title)
		return nil
	}
	writer := p.multi.NewWriter()
	bar, _ := pterm.DefaultProgressbar.WithTotal(100).WithWriter(writer).WithTitle(title).Start()
	p.bars[key] = bar
	return bar
}

func (p *Presenter) dropBar(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bars, key)
}

func percent(current, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(current * 100 / total)
	if pct > 100 {
		pct = 100
	}
	return pct
}

func setProgress(bar *pterm.ProgressbarPrinter, pct int) {
	if bar == nil {
		return
	}
	bar.Add(pct - bar.Current)
}

func (p *Presenter) onDownloadStarted(ev eventbus.Event) {
	payload, ok := ev.Payload.(transfer.DownloadStarted)
	if !ok {
		return
	}
	bar := p.barFor(payload.URL, fmt.Sprintf("Downloading %s", payload.URL))
	setProgress(bar, percent(payload.ResumeFrom, payload.TotalSize))
}

func (p *Presenter) onDownloadProgress(ev eventbus.Event) {
	payload, ok := ev.Payload.(transfer.DownloadProgress)
	if !ok {
		return
	}
	bar := p.barFor(payload.URL, fmt.Sprintf("Downloading %s", payload.URL))
	setProgress(bar, percent(payload.CurrentSize, payload.TotalSize))
}

func (p *Presenter) onDownloadCompleted(ev eventbus.Event) {
	payload, ok := ev.Payload.(transfer.DownloadCompleted)
	if !ok {
		return
	}
	p.mu.Lock()
	bar, found := p.bars[payload.URL]
	p.mu.Unlock()
	if found && bar != nil {
		setProgress(bar, 100)
		_, _ = bar.Stop()
	}
	p.dropBar(payload.URL)
	if p.raw || p.multi == nil {
		pterm.Success.Printf("Downloaded %s\n", payload.URL)
	}
}

func (p *Presenter) onUploadStarted(ev eventbus.Event) {
	if _, ok := ev.Payload.(transfer.UploadStarted); !ok {
		return
	}
	p.barFor("upload", "Uploading")
}

func (p *Presenter) onUploadProgress(ev eventbus.Event) {
	payload, ok := ev.Payload.(transfer.UploadProgress)
	if !ok {
		return
	}
	p.mu.Lock()
	bar, found := p.bars["upload"]
	p.mu.Unlock()
	if found && bar != nil {
		setProgress(bar, percent(payload.CurrentSize, payload.TotalSize))
	}
}

func (p *Presenter) onUploadCompleted(ev eventbus.Event) {
	if _, ok := ev.Payload.(transfer.UploadCompleted); !ok {
		return
	}
	p.mu.Lock()
	bar, found := p.bars["upload"]
	p.mu.Unlock()
	if found && bar != nil {
		setProgress(bar, 100)
		_, _ = bar.Stop()
	}
	p.dropBar("upload")
	if p.raw || p.multi == nil {
		pterm.Success.Println("Upload complete")
	}
}
