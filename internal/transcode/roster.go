package transcode

import "strings"

// RosterEntry is one member parsed from pasted roster text.
type RosterEntry struct {
	Name  string
	Phone string
}

// DefaultPhone is used when a roster line or form carries no phone number.
const DefaultPhone = "N/A"

var separators = strings.NewReplacer("|", ",", "\t", ",")

// ParseRoster reads one member per line as "name[,|\t]phone". Blank lines and
// lines without a name are dropped.
func ParseRoster(text string) []RosterEntry {
	var entries []RosterEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(separators.Replace(line), ",")
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}
		phone := DefaultPhone
		if len(parts) > 1 {
			if p := strings.TrimSpace(parts[1]); p != "" {
				phone = p
			}
		}
		entries = append(entries, RosterEntry{Name: name, Phone: phone})
	}
	return entries
}
