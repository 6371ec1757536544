package value

// Action is the upsert decision for one fetched record.
type Action int

const (
	ActionSkip Action = iota
	ActionInsert
	ActionUpdateContent
	ActionTouchOnly
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdateContent:
		return "update_content"
	case ActionTouchOnly:
		return "touch_only"
	default:
		return "skip"
	}
}

// NeedsContent reports whether the action writes translated content and the raw payload.
func (a Action) NeedsContent() bool {
	return a == ActionInsert || a == ActionUpdateContent
}
