package api

import "time"

// Diary is a single journal entry with its AI-generated images and emotion
// analysis.
type Diary struct {
	ID                int64        `json:"id"`
	User              int64        `json:"user"`
	Title             string       `json:"title"`
	Content           string       `json:"content"`
	Images            []DiaryImage `json:"images"`
	Emotion           *string      `json:"emotion"`
	EmotionScore      *float64     `json:"emotion_score"`
	EmotionEmoji      *string      `json:"emotion_emoji"`
	EmotionAnalyzedAt *time.Time   `json:"emotion_analyzed_at"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type DiaryImage struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"image_url"`
	AIPrompt  string    `json:"ai_prompt"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateDiaryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateDiaryRequest is a partial update; nil fields are left untouched.
type UpdateDiaryRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ReportPeriod selects the window of an emotion report.
type ReportPeriod string

const (
	PeriodWeek  ReportPeriod = "week"
	PeriodMonth ReportPeriod = "month"
)

type EmotionStat struct {
	Emotion    string  `json:"emotion"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DominantEmotion struct {
	Emotion string `json:"emotion"`
	Label   string `json:"label"`
}

type EmotionReport struct {
	Period           string           `json:"period"`
	PeriodLabel      string           `json:"period_label"`
	TotalDiaries     int              `json:"total_diaries"`
	DataSufficient   bool             `json:"data_sufficient"`
	RecommendedCount int              `json:"recommended_count"`
	EmotionStats     []EmotionStat    `json:"emotion_stats"`
	DominantEmotion  *DominantEmotion `json:"dominant_emotion"`
	Insight          string           `json:"insight"`
}

// CalendarDay summarises the diaries written on one date.
type CalendarDay struct {
	Count    int     `json:"count"`
	Emotion  *string `json:"emotion"`
	Emoji    string  `json:"emoji"`
	DiaryIDs []int64 `json:"diary_ids"`
}

// Calendar maps "YYYY-MM-DD" to the day's summary.
type Calendar struct {
	Year  int                    `json:"year"`
	Month int                    `json:"month"`
	Days  map[string]CalendarDay `json:"days"`
}

type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type SupportedLanguages struct {
	Languages map[string]string `json:"languages"`
	Note      string            `json:"note"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// ConnectionStatus is the free-form payload of the connection test endpoint.
type ConnectionStatus map[string]any

// Message returns the "message" field, if any.
func (s ConnectionStatus) Message() string {
	msg, _ := s["message"].(string)
	return msg
}
