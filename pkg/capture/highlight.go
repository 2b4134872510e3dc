// pkg/capture/highlight.go
package capture

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Highlighter flashes selectors in a running browser so a user can
// verify what a generated statement targets. It only ever attaches; it
// never launches a browser of its own.
type Highlighter struct {
	browser *rod.Browser
	page    *rod.Page
}

// ConnectHighlighter attaches to the browser on the given debug port.
func ConnectHighlighter(port int) (*Highlighter, error) {
	controlURL, err := launcher.ResolveURL(fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("no browser on port %d: %w", port, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	pages, err := browser.Pages()
	if err != nil || len(pages) == 0 {
		return nil, fmt.Errorf("no open pages to highlight in")
	}

	return &Highlighter{browser: browser, page: pages.First()}, nil
}

// Highlight outlines every element matching the selector.
func (h *Highlighter) Highlight(selector string) error {
	_, err := h.page.Eval(`(sel) => {
		document.querySelectorAll(sel).forEach((el) => {
			el.dataset.flowgenOutline = el.style.outline;
			el.style.outline = '3px solid #ff5722';
		});
	}`, selector)
	if err != nil {
		return fmt.Errorf("failed to highlight %q: %w", selector, err)
	}
	return nil
}

// Clear removes every outline the highlighter applied.
func (h *Highlighter) Clear() error {
	_, err := h.page.Eval(`() => {
		document.querySelectorAll('[data-flowgen-outline]').forEach((el) => {
			el.style.outline = el.dataset.flowgenOutline;
			delete el.dataset.flowgenOutline;
		});
	}`)
	if err != nil {
		return fmt.Errorf("failed to clear highlights: %w", err)
	}
	return nil
}
