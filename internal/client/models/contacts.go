package models

import "strings"

// ParseContacts turns raw multi-line input into a contact list: lines are
// trimmed, blank lines dropped, order and duplicates preserved. Parsing the
// joined result of a previous parse reproduces it unchanged.
func ParseContacts(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	contacts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		contacts = append(contacts, line)
	}
	return contacts
}
