package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/candidate-ranker/internal/models"
)

const RankingSheet = "Ranking"

var rankingHeader = []interface{}{
	"Rank", "Candidate ID", "Full name", "Email", "Skills", "Score", "Similarity", "Resume status", "Insight", "Error",
}

// ExportRankingXLSX renders a ranked list as a single-sheet workbook.
func ExportRankingXLSX(job models.JobRequirements, results []models.RankedCandidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RankingSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(RankingSheet, "A1", &rankingHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(rankingHeader))
	if err := f.SetCellStyle(RankingSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	rank := 0
	for i, res := range results {
		row := []interface{}{"", res.Applicant.ID, res.Applicant.FullName, res.Applicant.Email, strings.Join(res.Applicant.Skills, ", "), "", "", string(res.ResumeStatus), "", ""}
		if res.Scored() {
			rank++
			row[0] = rank
			row[5] = res.Score.Score
		}
		if res.Similarity != nil {
			row[6] = *res.Similarity
		}
		if res.Insight != nil {
			row[8] = res.Insight.Text
		}
		if res.Error != nil {
			row[9] = res.Error.Kind + ": " + res.Error.Message
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(RankingSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if job.Title != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: "Ranking: " + job.Title}); err != nil {
			return nil, fmt.Errorf("failed to set properties: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
