package main

import (
	"github.com/coreos/go-systemd/daemon"

	"isobox/logging"
)

// notifyReady tells systemd (if we're running under it, i.e. NOTIFY_SOCKET
// is set) that the watch daemon has read its first atom and is up.
func notifyReady(l logging.Logger) {
	ok, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		l.Warning("systemd notify failed", "error", err)
		return
	}
	if ok {
		l.Debug("notified systemd of readiness")
	}
}
