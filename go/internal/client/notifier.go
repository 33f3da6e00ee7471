package client

// Notifier surfaces connectivity changes and transient messages to the UI
// layer. Nothing delivered through it is required for correctness; it is
// the toast/status hook, kept behind an interface so the sync layer stays
// presentation-free.
type Notifier interface {
	ConnectedStatusChanged(connected bool)
	Info(message string)
	Error(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) ConnectedStatusChanged(bool) {}
func (NopNotifier) Info(string)                 {}
func (NopNotifier) Error(string)                {}
