package report

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
)

// Data is the JSON contract consumed by the rendering collaborator and served
// on the report-data endpoint. Scores and aggregates are derived here so the
// renderer stays a dumb template.
type Data struct {
	UploadID      int64          `json:"upload_id"`
	SchoolName    string         `json:"school_name"`
	District      string         `json:"district"`
	TotalStudents int            `json:"total_students"`
	ReportDate    string         `json:"report_date"`
	Participation int            `json:"participation_percent"`
	Averages      SubjectScores  `json:"class_averages"`
	Students      []StudentEntry `json:"students"`
}

type StudentEntry struct {
	Name       string            `json:"name"`
	Class      string            `json:"class"`
	RollNumber string            `json:"roll_number"`
	Scores     SubjectScores     `json:"scores"`
	Responses  model.ResponseMap `json:"responses"`
}

type SubjectScores struct {
	English int `json:"english"`
	Math    int `json:"math"`
	Science int `json:"science"`
}

// BuildData derives the report payload from an upload's current student rows.
// Deterministic for a given row set, so regeneration overwrites predictably.
func BuildData(upload *model.UploadWithSchool, students []model.Student) Data {
	var entries []StudentEntry
	var engSum, mathSum, sciSum float64
	for _, s := range students {
		if !isParticipant(s) {
			continue
		}
		eng := SubjectScore(s.Responses, "English")
		mth := SubjectScore(s.Responses, "Math")
		sci := SubjectScore(s.Responses, "Science")
		engSum += eng
		mathSum += mth
		sciSum += sci
		entries = append(entries, StudentEntry{
			Name:       s.Name,
			Class:      s.Class,
			RollNumber: s.RollNumber,
			Scores: SubjectScores{
				English: roundScore(eng),
				Math:    roundScore(mth),
				Science: roundScore(sci),
			},
			Responses: s.Responses,
		})
	}

	participated := len(entries)
	data := Data{
		UploadID:      upload.ID,
		SchoolName:    upload.SchoolName,
		District:      upload.District,
		TotalStudents: upload.TotalStudents,
		ReportDate:    formatReportDate(upload.UploadedAt),
		Participation: participationPercent(participated, upload.TotalStudents),
		Students:      entries,
	}
	if participated > 0 {
		n := float64(participated)
		data.Averages = SubjectScores{
			English: roundScore(engSum / n),
			Math:    roundScore(mathSum / n),
			Science: roundScore(sciSum / n),
		}
	}
	return data
}

// SubjectScore mines the raw row for a percentage column: the first key that
// contains the subject token case-insensitively and a literal percent marker.
// Absence yields 0, never an error.
func SubjectScore(responses model.ResponseMap, token string) float64 {
	lower := strings.ToLower(token)
	for _, f := range responses {
		if strings.Contains(strings.ToLower(f.Key), lower) && strings.Contains(f.Key, "%") {
			return parseLeadingFloat(f.Value)
		}
	}
	return 0
}

// isParticipant drops rows that are not real student data: metadata rows that
// slipped through and rows with no resolvable name.
func isParticipant(s model.Student) bool {
	roll := s.RollNumber
	if roll == "" {
		for _, f := range s.Responses {
			if strings.EqualFold(strings.TrimSpace(f.Key), "roll no") {
				roll = f.Value
				break
			}
		}
	}
	if strings.EqualFold(strings.TrimSpace(roll), "question id") {
		return false
	}
	return s.Name != ""
}

func participationPercent(participated, registered int) int {
	if registered <= 0 {
		return 0
	}
	return int(math.Round(float64(participated) / float64(registered) * 100))
}

func roundScore(v float64) int {
	return int(math.Round(v))
}

// parseLeadingFloat reads the numeric prefix of a cell, so "72" and "72%"
// both yield 72. Unparseable cells yield 0.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if end == 0 && (c == '-' || c == '+') {
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func formatReportDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}
