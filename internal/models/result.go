package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Format       string `json:"format"`
	URL          string `json:"url"`
}

type SynthesizeRequest struct {
	Text       string `json:"text"`
	DocumentID string `json:"document_id"`
	ResumeURL  string `json:"resume_url"`
}

type SynthesizeResponse struct {
	Profile    *CandidateProfile `json:"profile"`
	Extraction *ExtractedText    `json:"extraction,omitempty"`
}

type RankingAcceptedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type RankingResultResponse struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	Job            JobRequirements   `json:"job"`
	CandidateCount int               `json:"candidate_count"`
	FailedCount    int               `json:"failed_count"`
	Applicants     []RankedCandidate `json:"applicants,omitempty"`
	ErrorMessage   *string           `json:"error_message,omitempty"`
}

// RankingPreviewResponse carries the partial ranking together with Error and
// Kind when the batch was cut short.
type RankingPreviewResponse struct {
	Job        JobRequirements   `json:"job"`
	Applicants []RankedCandidate `json:"applicants"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Kind       string            `json:"kind,omitempty"`
}

type PathwayParseRequest struct {
	Text string `json:"text"`
}

type PathwayRequest struct {
	Job JobRequirements `json:"job"`
}

type CandidateSearchRequest struct {
	JobID string `json:"job_id"`
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type CandidateMatch struct {
	CandidateID string  `json:"candidate_id"`
	JobID       string  `json:"job_id"`
	Score       float32 `json:"score"`
	Excerpt     string  `json:"excerpt"`
}
