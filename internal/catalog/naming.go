package catalog

import "fmt"

// AllocateName picks a display name for an assessment that is unique within
// its course. The base name (normally the type label) is used as-is when
// free; otherwise the smallest " #N" suffix with N >= 2 that is not taken.
// excludeID skips the assessment being edited so it can keep its own name.
func AllocateName(base string, siblings []Assessment, excludeID string) string {
	if base == "" {
		base = "Assessment"
	}
	taken := make(map[string]bool, len(siblings))
	for _, a := range siblings {
		if a.ID == excludeID {
			continue
		}
		taken[a.Name] = true
	}
	name := base
	for suffix := 2; taken[name]; suffix++ {
		name = fmt.Sprintf("%s #%d", base, suffix)
	}
	return name
}
