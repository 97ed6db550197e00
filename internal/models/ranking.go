package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	StatusQueued     RunStatus = "queued"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// JobRequirements is the read-only job view supplied by the job store.
type JobRequirements struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// Candidate is one applicant of a job as supplied by the candidate store.
type Candidate struct {
	ID          string   `json:"id"`
	FullName    string   `json:"fullname"`
	Email       string   `json:"email"`
	Skills      []string `json:"skills"`
	ResumeURL   string   `json:"resume_url"`
	SocialLinks []string `json:"social_links"`
}

type ApplicantSummary struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullname"`
	Email    string   `json:"email"`
	Skills   []string `json:"skills"`
}

func (c Candidate) Summary() ApplicantSummary {
	return ApplicantSummary{
		ID:       c.ID,
		FullName: c.FullName,
		Email:    c.Email,
		Skills:   c.Skills,
	}
}

type FitInsight struct {
	CandidateID string `json:"candidate_id"`
	Text        string `json:"text"`
}

type RankingScore struct {
	CandidateID string `json:"candidate_id"`
	Score       int    `json:"score"`
	Raw         string `json:"raw"`
}

// CandidateError marks a candidate whose chain failed; the candidate stays in the ranking.
type CandidateError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type RankedCandidate struct {
	Applicant    ApplicantSummary `json:"applicant"`
	Insight      *FitInsight      `json:"insight,omitempty"`
	Score        *RankingScore    `json:"score,omitempty"`
	Similarity   *float64         `json:"similarity,omitempty"`
	ResumeStatus ExtractionStatus `json:"resume_status,omitempty"`
	Error        *CandidateError  `json:"error,omitempty"`
}

// Scored reports whether the candidate carries a validated score.
func (r RankedCandidate) Scored() bool {
	return r.Error == nil && r.Score != nil
}

type RankingRequest struct {
	Job        JobRequirements `json:"job"`
	Candidates []Candidate     `json:"candidates"`
}

// RankingRun is a persisted asynchronous batch ranking.
type RankingRun struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID          string            `gorm:"type:text;index" json:"job_id"`
	JobTitle       string            `gorm:"type:text" json:"job_title"`
	Status         RunStatus         `gorm:"not null;default:'queued'" json:"status"`
	Request        RankingRequest    `gorm:"type:jsonb;serializer:json" json:"-"`
	Results        []RankedCandidate `gorm:"type:jsonb;serializer:json" json:"results,omitempty"`
	CandidateCount int               `json:"candidate_count"`
	FailedCount    int               `json:"failed_count"`
	ErrorMessage   *string           `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (RankingRun) TableName() string {
	return "ranking_runs"
}
