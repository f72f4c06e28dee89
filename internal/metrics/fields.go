package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrProvider  = "provider"
	AttrSyncKind  = "kind"
	AttrDirection = "direction"
	AttrEventType = "event_type"
	AttrOutcome   = "outcome"
)

// Event directions and outcomes used with RecordEvent.
const (
	DirectionPublish = "publish"
	DirectionConsume = "consume"

	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeDeadLettered = "dead_lettered"
	OutcomeSkipped      = "skipped"
)
