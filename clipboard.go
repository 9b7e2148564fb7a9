package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/milk9111/bugbash/store"
	"golang.design/x/clipboard"
)

var errNoClipboard = errors.New("clipboard: unavailable")

var (
	clipOnce sync.Once
	clipErr  error
)

// copyText puts s on the system clipboard. Init runs once; headless
// sessions without a clipboard report errNoClipboard.
func copyText(s string) error {
	clipOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			clipErr = fmt.Errorf("%w: %v", errNoClipboard, err)
		}
	})
	if clipErr != nil {
		return clipErr
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}

// bugSummary is the text copied from the inspect modal.
func bugSummary(b store.Bug) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s (+%d)", b.ID, b.Title, b.Bounty)
	if b.Priority != "" {
		fmt.Fprintf(&sb, " priority=%s", b.Priority)
	}
	if b.Assignee != "" {
		fmt.Fprintf(&sb, " assignee=%s", b.Assignee)
	}
	if b.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(b.Description)
	}
	return sb.String()
}
