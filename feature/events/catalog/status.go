package catalog

// statusPolicy holds the status sets that drive publish decisions for one
// source. Keeping them as data avoids status string literals scattered
// through the upsert path.
type statusPolicy struct {
	// liveLike statuses allow auto-publish.
	liveLike map[string]struct{}
	// terminalNegative statuses force unpublish + deactivate and always win
	// over the publish policy.
	terminalNegative map[string]struct{}
	// label is the human-readable source name used in summaries.
	label string
}

var policies = map[Source]statusPolicy{
	SourceEventbrite: {
		liveLike:         set("live", "scheduled", "started"),
		terminalNegative: set("canceled", "deleted"),
		label:            "Eventbrite",
	},
	SourceTicketmaster: {
		liveLike:         set("onsale", "rescheduled"),
		terminalNegative: set("cancelled", "postponed"),
		label:            "Ticketmaster",
	},
}

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// IsLiveLike reports whether status permits publishing for this source.
func (s Source) IsLiveLike(status string) bool {
	_, ok := policies[s].liveLike[status]
	return ok
}

// IsTerminalNegative reports whether status forces unpublish for this source.
func (s Source) IsTerminalNegative(status string) bool {
	_, ok := policies[s].terminalNegative[status]
	return ok
}

// Label returns the human-readable name of the source.
func (s Source) Label() string {
	if p, ok := policies[s]; ok {
		return p.label
	}
	return string(s)
}
