package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"oficina/common"
	"oficina/event"
)

const WebhookEventHandlerName = "webhookNotifier"

var HttpInvokeJsonFunc = common.HttpInvokeJson

// WebhookEventHandle pushes every audit event to the URL configured by
// NOTIFY_WEBHOOK_URL. Without that variable the handler stays silent.
func WebhookEventHandle(e *event.EventRecord) *event.EventHandleResult {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	if url == "" {
		return nil
	}

	body, err := json.Marshal(e)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("marshal event %d: %v", e.ID, err),
			HandlerIdentifier: WebhookEventHandlerName,
		}
	}

	if _, err := HttpInvokeJsonFunc(http.MethodPost, url, nil, string(body)); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("notify event %d: %v", e.ID, err),
			HandlerIdentifier: WebhookEventHandlerName,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: WebhookEventHandlerName}
}
