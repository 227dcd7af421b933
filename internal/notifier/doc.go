// Package notifier announces newly-found events.
//
// A Notifier receives the new events of one run. WebhookNotifier posts them
// as a single JSON message to a chat-style incoming webhook, retrying
// transient failures with exponential backoff. DryRunNotifier writes the
// same messages to a writer instead.
package notifier
