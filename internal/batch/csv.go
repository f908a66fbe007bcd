package batch

import "strings"

// ParseLine splits one CSV line on commas outside double quotes. Quote characters only toggle
// the quoted state and are never copied into a field. The last field is always emitted.
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}

	return append(fields, current.String())
}

// CleanField trims a field and strips one surrounding pair of double quotes.
func CleanField(field string) string {
	field = strings.TrimSpace(field)
	if len(field) > 1 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		field = field[1 : len(field)-1]
	}
	return strings.TrimSpace(field)
}
