package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

// Placeholder fills profile fields the résumé gives no information for.
const Placeholder = "Not specified"

type ProfileSynthesizer interface {
	Synthesize(ctx context.Context, resumeText string) (*models.CandidateProfile, error)
}

type profileSynthesizer struct {
	llm JSONGenerator
	log *zap.Logger
}

func NewProfileSynthesizer(llm JSONGenerator, log *zap.Logger) ProfileSynthesizer {
	return &profileSynthesizer{llm: llm, log: logger.OrNop(log)}
}

// Synthesize makes a single JSON-mode model call. A response that is not a
// JSON object is a *MalformedModelOutputError and is not retried.
func (s *profileSynthesizer) Synthesize(ctx context.Context, resumeText string) (*models.CandidateProfile, error) {
	started := time.Now()

	raw, err := s.llm.GenerateJSON(ctx, profileSystemInstruction, RenderProfilePrompt(resumeText))
	if err != nil {
		return nil, asModelError("synthesize", err)
	}

	profile, err := decodeProfile(raw)
	if err != nil {
		s.log.Warn("profile synthesis returned malformed json",
			zap.String("preview", logger.TruncateForLog(raw, 200)),
			zap.Error(err),
		)
		return nil, &MalformedModelOutputError{Op: "synthesize", Raw: raw, Err: err}
	}

	normalizeProfile(profile, ExtractResumeHints(resumeText))

	s.log.Info("profile synthesized",
		zap.Int("resume_length", len(resumeText)),
		zap.Int("skills", len(profile.Skills)),
		zap.Duration("latency", time.Since(started)),
	)

	return profile, nil
}

func decodeProfile(raw string) (*models.CandidateProfile, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("no json object in response")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse profile json: %w", err)
	}
	if fields == nil {
		return nil, errors.New("profile json is null")
	}

	// Some answers nest everything but jobDescription under "user".
	if nested, ok := fields["user"]; ok {
		if _, flat := fields["personalDetails"]; !flat {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(nested, &inner); err != nil {
				return nil, fmt.Errorf("failed to parse nested profile: %w", err)
			}
			for k, v := range inner {
				fields[k] = v
			}
		}
		delete(fields, "user")
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	var profile models.CandidateProfile
	if err := json.Unmarshal(merged, &profile); err != nil {
		return nil, fmt.Errorf("profile json does not match schema: %w", err)
	}

	return &profile, nil
}

// extractJSON strips markdown fences and surrounding prose from a JSON object answer.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return ""
	}

	return text[start : end+1]
}

func normalizeProfile(p *models.CandidateProfile, hints ResumeHints) {
	p.JobDescription = orPlaceholder(p.JobDescription)

	d := &p.PersonalDetails
	d.Name = orPlaceholder(d.Name)
	d.Email = orPlaceholder(firstNonBlank(d.Email, hints.Email))
	d.Phone = orPlaceholder(firstNonBlank(d.Phone, hints.Phone))
	d.Portfolio = orPlaceholder(d.Portfolio)
	d.Summary = orPlaceholder(d.Summary)

	if p.SocialLinks == nil {
		p.SocialLinks = map[string]string{}
	}
	for k, v := range p.SocialLinks {
		p.SocialLinks[k] = orPlaceholder(v)
	}

	if len(p.Skills) == 0 && len(hints.Skills) > 0 {
		p.Skills = append([]string(nil), hints.Skills...)
	}

	p.Education = nonNilStrings(p.Education)
	p.Skills = nonNilStrings(p.Skills)
	p.Achievements = nonNilStrings(p.Achievements)
	p.Certifications = nonNilStrings(p.Certifications)

	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	for i := range p.Experience {
		e := &p.Experience[i]
		e.Company = orPlaceholder(e.Company)
		e.Role = orPlaceholder(e.Role)
		e.Duration = orPlaceholder(e.Duration)
		e.Description = orPlaceholder(e.Description)
	}

	if p.Projects == nil {
		p.Projects = []models.Project{}
	}
	for i := range p.Projects {
		pr := &p.Projects[i]
		pr.Name = orPlaceholder(pr.Name)
		pr.Description = orPlaceholder(pr.Description)
		pr.Link = orPlaceholder(pr.Link)
	}

	p.OtherDetails = orPlaceholder(p.OtherDetails)
}

func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Placeholder
	}
	return s
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonNilStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
