package core

// TxType is the transaction direction.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

func (t TxType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Label returns the localized display label used in exports.
func (t TxType) Label() string {
	switch t {
	case TypeIncome:
		return "收入"
	case TypeExpense:
		return "支出"
	default:
		return string(t)
	}
}

// ParseTxType maps either the internal token or the localized label to a
// TxType. The second return is false for anything else.
func ParseTxType(s string) (TxType, bool) {
	switch s {
	case "income", "收入":
		return TypeIncome, true
	case "expense", "支出":
		return TypeExpense, true
	default:
		return "", false
	}
}

// TodoStatus is the task lifecycle state.
type TodoStatus string

const (
	StatusNotStarted TodoStatus = "not_started"
	StatusInProgress TodoStatus = "in_progress"
	StatusCompleted  TodoStatus = "completed"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Rank is the default-listing sort key: active work first, done last.
func (s TodoStatus) Rank() int {
	switch s {
	case StatusInProgress:
		return 1
	case StatusNotStarted:
		return 2
	case StatusCompleted:
		return 3
	default:
		return 2
	}
}

func (s TodoStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "进行中"
	case StatusCompleted:
		return "已完成"
	default:
		return "未开始"
	}
}

// OrDefault maps an absent status to not_started.
func (s TodoStatus) OrDefault() TodoStatus {
	if !s.Valid() {
		return StatusNotStarted
	}
	return s
}

// Priority is the task urgency. The empty value means unset.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityUnset  Priority = ""
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityUnset:
		return true
	}
	return false
}

// Rank is the secondary sort key for task listings; unset sorts last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Mood is an open string with a fixed known set; anything outside the set
// renders the neutral default.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodExcited Mood = "excited"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodLove    Mood = "love"
)

func (m Mood) Emoji() string {
	switch m {
	case MoodHappy:
		return "😊"
	case MoodExcited:
		return "🎉"
	case MoodSad:
		return "😢"
	case MoodAngry:
		return "😠"
	case MoodLove:
		return "❤️"
	default:
		return "😐"
	}
}
