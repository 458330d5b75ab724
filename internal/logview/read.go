// Package logview reads HomeProxy runtime logs for display and keeps a live
// copy of the sing-box log refreshed in the background.
package logview

import (
	"errors"
	"io/fs"
	"strings"
)

// Runtime log locations.
const (
	DefaultRunDir = "/var/run/homeproxy"
	HomeProxyLog  = "homeproxy.log"
	SingBoxLog    = "sing-box.log"
)

// Display texts substituted for log content.
const (
	MsgClean        = "Log is clean."
	MsgNotFound     = "Log is not found."
	MsgLiveNotFound = "Log not found."
	unknownErrorFmt = "Unknown error: "
)

// Outcome classifies a log read.
type Outcome string

// Read outcomes.
const (
	OutcomeContent  Outcome = "content"
	OutcomeClean    Outcome = "clean"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// Snapshot is display-ready log text and how it was obtained.
type Snapshot struct {
	Content string  `json:"content" doc:"Trimmed log content or a substitute message"`
	Outcome Outcome `json:"outcome" enum:"content,clean,not_found,error" doc:"How the content was obtained"`
}

// ReadStatic reads name from fsys for the one-shot HomeProxy log pane.
func ReadStatic(fsys fs.FS, name string) Snapshot {
	return read(fsys, name, MsgNotFound)
}

// ReadLive reads name from fsys for a live pane; it differs from ReadStatic
// only in the not-found text.
func ReadLive(fsys fs.FS, name string) Snapshot {
	return read(fsys, name, MsgLiveNotFound)
}

func read(fsys fs.FS, name, notFound string) Snapshot {
	data, err := fs.ReadFile(fsys, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Snapshot{Content: notFound, Outcome: OutcomeNotFound}
	case err != nil:
		return Snapshot{Content: unknownErrorFmt + err.Error(), Outcome: OutcomeError}
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return Snapshot{Content: MsgClean, Outcome: OutcomeClean}
	}
	return Snapshot{Content: content, Outcome: OutcomeContent}
}
