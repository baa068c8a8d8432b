package event

import (
	"github.com/sirupsen/logrus"
)

// EventHandler returns nil when it does not care about the record.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	allSuccess := true
	for _, handler := range EventHandlers {
		logrus.Debug("pre handle event ", record.Event)
		r := handler(record)

		if r == nil {
			continue
		}

		results = append(results, *r)

		if r.Success {
			logrus.Info("post handle event. ", r)
		} else {
			allSuccess = false
			logrus.Error("post handler error. ", r)
		}
	}

	// a failed handler leaves the record unsynced for the recovery routine
	if allSuccess && len(EventHandlers) > 0 {
		if err := MarkEventSyncedFunc(record.ID); err != nil {
			logrus.Warnf("mark event %d synced: %v", record.ID, err)
		}
	}
	return results
}
