package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/candidate-ranker/internal/models"
)

// InsightInputs are the four slots of the fit analysis prompt.
type InsightInputs struct {
	Requirements []string
	Skills       []string
	ResumeText   string
	SocialLinks  []string
}

// RenderInsightPrompt creates the candidate fit analysis prompt.
func RenderInsightPrompt(in InsightInputs) string {
	return fmt.Sprintf(`You are an AI recruitment assistant. Analyze the fit between a job candidate and a position based on the following information:

Job Requirements: %s
Candidate Skills: %s
Resume Text: %s
Social Profiles: %s

Please provide a detailed analysis covering:
1. Skills match (which skills align with the job requirements)
2. Experience relevance
3. Education fit
4. Potential strengths and weaknesses
5. Overall assessment of candidate suitability

Be specific and reference details from the resume and social profiles.`,
		joinList(in.Requirements), joinList(in.Skills), in.ResumeText, joinList(in.SocialLinks))
}

// RenderScorePrompt turns a fit analysis into a request for a bare 1-100 score.
func RenderScorePrompt(insight string) string {
	return fmt.Sprintf(`Based on the following candidate analysis, provide a numerical score from 1-100 that represents how well this candidate matches the job requirements:

%s

Return only the numerical score without any additional text.`, insight)
}

// RenderPathwayPrompt asks for a markdown career pathway with bold section headers.
func RenderPathwayPrompt(job models.JobRequirements) string {
	return fmt.Sprintf(`You are a career advisor specializing in tech careers. Create a detailed career pathway for someone interested in the following job:

Title: %s
Description: %s
Requirements: %s

Please structure your response as follows:

**Skills Required**
- List the technical skills needed for this role
- List the soft skills needed for this role

**Learning Path**
- Recommend specific courses, resources, or learning paths
- Include both free and paid options

**Career Timeline**
- **Entry Level**: What positions can lead to this role
- **Mid-Level**: What this current role entails
- **Senior Level**: Where this role can lead to in the future

**Industry Insights**
- Current trends in this field
- Future outlook for this role
- Average salary range

Format your response in markdown with bullet points for easy readability.`,
		job.Title, job.Description, joinList(job.Requirements))
}

// profileSystemInstruction embeds the exact profile schema the model must return.
const profileSystemInstruction = `You are an AI assistant trained to parse and structure resumes into a standardized JSON format.
Given an unstructured resume text, your task is to accurately extract relevant information and format it into a well-structured JSON object.
Ensure the output is properly formatted, complete, and syntactically valid JSON.
If some details are missing, infer reasonable placeholders instead of leaving fields empty. Never omit a key and never use null.
The JSON format must strictly match the following structure:

{
  "jobDescription": "Software Engineer",
  "personalDetails": {
    "name": "Full Name",
    "email": "Email",
    "phone": "Phone Number",
    "portfolio": "Portfolio URL",
    "summary": "Short professional summary"
  },
  "socialLinks": {
    "LinkedIn": "LinkedIn URL",
    "GitHub": "GitHub URL",
    "Leetcode": "Leetcode URL"
  },
  "education": [
    "Degree from University (Year, GPA)"
  ],
  "experience": [
    {
      "company": "Company Name",
      "role": "Job Title",
      "duration": "Start Date - End Date",
      "description": "Key responsibilities and achievements"
    }
  ],
  "projects": [
    {
      "name": "Project Name",
      "description": "Project Description",
      "link": "Project Link"
    }
  ],
  "skills": ["Skill1", "Skill2", "Skill3"],
  "achievements": ["Achievement 1"],
  "certifications": ["Certification Name (Provider) - Certificate Link"],
  "otherDetails": "Languages, volunteering, additional relevant info"
}

The output must always be a single valid JSON object.`

func RenderProfilePrompt(resumeText string) string {
	return "Resume Text:\n" + resumeText
}

// CertificationQuery is the web search used to suggest certifications for a job.
func CertificationQuery(title string) string {
	return fmt.Sprintf("Top certifications or courses for %s", strings.TrimSpace(title))
}

// JobSearchText is the text embedded when matching résumés against a job.
func JobSearchText(job models.JobRequirements) string {
	parts := []string{job.Title, job.Description}
	if len(job.Requirements) > 0 {
		parts = append(parts, "Requirements: "+joinList(job.Requirements))
	}

	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
