package event

type EventType string

const (
	FatalErrorEventType EventType = "fatal-error"
	ErrorEventType      EventType = "error"
	ProbeEventType      EventType = "probe"
	DiagnosticEventType EventType = "diagnostic"
	ReportEventType     EventType = "report"
)

// Event data structure representing any event we may want to react to
type Event struct {
	Type    EventType
	Payload any
}
