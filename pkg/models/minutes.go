package models

// Minutes is the structured output of extraction: a short summary plus the
// decisions and action items found in the transcript, in transcript order.
type Minutes struct {
	Summary     string       `json:"summary"`
	Decisions   []Decision   `json:"decisions"`
	ActionItems []ActionItem `json:"action_items"`
}

// Decision is a choice recorded during the meeting.
type Decision struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	SourceText  string  `json:"source_text"`
}

// ActionItem is a task identified in the meeting. Owner and Deadline are
// optional; Deadline is free-form text as spoken ("Friday", "before next sprint").
type ActionItem struct {
	Description string  `json:"description"`
	Owner       *string `json:"owner"`
	Deadline    *string `json:"deadline"`
	Confidence  float64 `json:"confidence"`
	SourceText  string  `json:"source_text"`
}

// Normalize replaces nil sequences with empty ones so the JSON form always
// carries arrays.
func (m *Minutes) Normalize() {
	if m.Decisions == nil {
		m.Decisions = []Decision{}
	}
	if m.ActionItems == nil {
		m.ActionItems = []ActionItem{}
	}
}

func (m *Minutes) Clone() *Minutes {
	if m == nil {
		return nil
	}
	c := Minutes{Summary: m.Summary}
	if m.Decisions != nil {
		c.Decisions = make([]Decision, len(m.Decisions))
		copy(c.Decisions, m.Decisions)
	}
	if m.ActionItems != nil {
		c.ActionItems = make([]ActionItem, len(m.ActionItems))
		for i, a := range m.ActionItems {
			c.ActionItems[i] = a
			if a.Owner != nil {
				o := *a.Owner
				c.ActionItems[i].Owner = &o
			}
			if a.Deadline != nil {
				d := *a.Deadline
				c.ActionItems[i].Deadline = &d
			}
		}
	}
	return &c
}
