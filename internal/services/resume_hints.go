package services

import (
	"regexp"
	"strings"
)

var (
	emailPattern       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern       = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	skillsHeaderRegexp = regexp.MustCompile(`(?i)^(?:technical\s+|key\s+|core\s+)?skills\b\s*:?\s*(.*)$`)
	skillSeparators    = regexp.MustCompile(`[,;|•·\n]`)
)

const maxSkillLines = 30

// ResumeHints are contact details and skills found in résumé text without a model.
type ResumeHints struct {
	Email  string
	Phone  string
	Skills []string
}

func ExtractResumeHints(text string) ResumeHints {
	var hints ResumeHints

	hints.Email = emailPattern.FindString(text)
	hints.Phone = strings.TrimSpace(phonePattern.FindString(text))
	hints.Skills = extractSkills(text)

	return hints
}

// extractSkills reads the inline remainder of a "Skills" header line, or the
// lines under it up to the next blank line.
func extractSkills(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for i, line := range lines {
		m := skillsHeaderRegexp.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		var block []string
		if inline := strings.TrimSpace(m[1]); inline != "" {
			block = append(block, inline)
		} else {
			for _, next := range lines[i+1:] {
				next = strings.TrimSpace(next)
				if next == "" || len(block) >= maxSkillLines {
					break
				}
				block = append(block, next)
			}
		}

		return splitSkills(strings.Join(block, "\n"))
	}

	return nil
}

func splitSkills(block string) []string {
	seen := make(map[string]struct{})
	var skills []string

	for _, part := range skillSeparators.Split(block, -1) {
		skill := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "-*•"))
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, skill)
	}

	return skills
}
