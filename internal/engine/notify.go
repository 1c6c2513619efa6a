package engine

// Notifier receives fire-and-forget UI events from the engine.
// Implementations must not fail; the engine never depends on their behavior.
type Notifier interface {
	// Toast shows a short transient message.
	Toast(msg string)
	// Banner announces a milestone.
	Banner(msg string)
	// Haptic requests a best-effort pulse of the given duration in ms.
	Haptic(ms int)
	// Burst triggers a celebratory visual.
	Burst()
}

type nopNotifier struct{}

func (nopNotifier) Toast(string)  {}
func (nopNotifier) Banner(string) {}
func (nopNotifier) Haptic(int)    {}
func (nopNotifier) Burst()        {}

// NopNotifier discards all notifications.
var NopNotifier Notifier = nopNotifier{}
