package services

import (
	"strings"

	"alfredoptarigan/candidate-ranker/internal/models"
)

const headerMarker = "**"

// ParsePathway converts a markdown-like career pathway into header sections.
//
// A section starts at every line beginning with "**"; text before the first
// such line is ignored. The first non-empty line of a section is its header
// with all "**" removed. Each following line becomes one item:
//
//	- **Key**: value   -> {"Key": "value"}
//	- text             -> "text"
//	anything else      -> the trimmed line
//
// Sections with a blank header are dropped. A later section with the same
// header replaces the earlier items but keeps the earlier position. The
// function is pure.
func ParsePathway(input string) *models.Pathway {
	result := models.NewPathway()

	for _, segment := range splitSegments(input) {
		header, items, ok := parseSegment(segment)
		if !ok {
			continue
		}
		result.Set(header, items)
	}

	return result
}

func splitSegments(input string) [][]string {
	input = strings.ReplaceAll(input, "\r\n", "\n")

	var segments [][]string
	var current []string
	started := false

	for _, line := range strings.Split(input, "\n") {
		if strings.HasPrefix(line, headerMarker) {
			if started {
				segments = append(segments, current)
			}
			current = nil
			started = true
		}
		if started {
			current = append(current, line)
		}
	}
	if started {
		segments = append(segments, current)
	}

	return segments
}

func parseSegment(lines []string) (string, []models.PathwayItem, bool) {
	var header string
	found := false
	items := []models.PathwayItem{}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !found {
			header = strings.TrimSpace(strings.ReplaceAll(line, headerMarker, ""))
			found = true
			continue
		}
		items = append(items, parseItem(line))
	}

	return header, items, found && header != ""
}

func parseItem(line string) models.PathwayItem {
	switch {
	case strings.HasPrefix(line, "- **"):
		body := strings.TrimPrefix(line, "- ")
		key, value, _ := strings.Cut(body, ":")
		key = strings.TrimSpace(strings.ReplaceAll(key, headerMarker, ""))
		// "- **Key:** value" leaves the closing marker on the value side
		value = strings.TrimPrefix(strings.TrimSpace(value), headerMarker)
		return models.PairItem(key, strings.TrimSpace(value))
	case strings.HasPrefix(line, "- "):
		return models.TextItem(strings.TrimSpace(strings.TrimPrefix(line, "- ")))
	default:
		return models.TextItem(line)
	}
}
