package core

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ayomtuase/julieth/session"
)

const eventsHeartbeat = 25 * time.Second

// SessionEventsHandler streams the session observer of one view as server sent
// events. The first event is always "status". A "redirect" event carries the
// path the page must move to and ends the stream.
// Endpoint: GET /session/events?view=login|signup|dashboard
func (a *App) SessionEventsHandler(w http.ResponseWriter, r *http.Request) {
	view, ok := session.ParseView(r.URL.Query().Get("view"))
	if !ok {
		writeJsonError(w, errorInvalidView)
		return
	}

	rc := http.NewResponseController(w)
	setHeaders(w, headersEventStream)
	if err := rc.Flush(); err != nil {
		if errors.Is(err, http.ErrNotSupported) {
			writeJsonError(w, errorStreamUnsupported)
		}
		return
	}
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	redirect := make(chan string, 1)
	obs := session.Watch(a.hub, sessionID(r), view, func(target string) {
		select {
		case redirect <- target:
		default:
		}
	})
	defer obs.Close()

	if err := writeEvent(w, rc, "status", obs.Status().String()); err != nil {
		return
	}

	heartbeat := time.NewTicker(eventsHeartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case target := <-redirect:
			_ = writeEvent(w, rc, "redirect", target)
			return
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w io.Writer, rc *http.ResponseController, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return rc.Flush()
}
