package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Goden-Gun/diary-client/pkg/retry"
)

// DiaryService wraps the /api/diaries/ endpoints. All calls require a token.
type DiaryService struct {
	c *Client
}

func (s *DiaryService) List(ctx context.Context) ([]Diary, error) {
	var out []Diary
	err := s.c.do(ctx, call{name: "ListDiaries", method: http.MethodGet, path: "/api/diaries/", authed: true}, &out)
	return out, err
}

// ListByDate returns the diaries written on day.
func (s *DiaryService) ListByDate(ctx context.Context, day time.Time) ([]Diary, error) {
	var out []Diary
	err := s.c.do(ctx, call{
		name:   "ListDiariesByDate",
		method: http.MethodGet,
		path:   "/api/diaries/",
		query:  url.Values{"date": {day.Format(time.DateOnly)}},
		authed: true,
	}, &out)
	return out, err
}

func (s *DiaryService) Get(ctx context.Context, id int64) (*Diary, error) {
	var out Diary
	if err := s.c.do(ctx, call{name: "GetDiary", method: http.MethodGet, path: diaryPath(id), authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create is not retried unless the client allows unsafe retries; a lost
// response would otherwise create the diary twice.
func (s *DiaryService) Create(ctx context.Context, req CreateDiaryRequest) (*Diary, error) {
	var out Diary
	if err := s.c.do(ctx, call{name: "CreateDiary", method: http.MethodPost, path: "/api/diaries/", body: req, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DiaryService) Update(ctx context.Context, id int64, req UpdateDiaryRequest) (*Diary, error) {
	var out Diary
	if err := s.c.do(ctx, call{name: "UpdateDiary", method: http.MethodPut, path: diaryPath(id), body: req, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DiaryService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{name: "DeleteDiary", method: http.MethodDelete, path: diaryPath(id), authed: true}, nil)
}

// GenerateImage asks the AI service to illustrate diary id.
func (s *DiaryService) GenerateImage(ctx context.Context, id int64) (*DiaryImage, error) {
	var out DiaryImage
	err := s.c.do(ctx, call{
		name:           "GenerateImage",
		method:         http.MethodPost,
		path:           diaryPath(id) + "generate-image/",
		authed:         true,
		timeout:        2 * s.c.opts.Timeout,
		timeoutMessage: "이미지 생성 시간이 초과되었습니다",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Report fetches the emotion report; an empty period means a week.
func (s *DiaryService) Report(ctx context.Context, period ReportPeriod) (*EmotionReport, error) {
	if period == "" {
		period = PeriodWeek
	}
	if period != PeriodWeek && period != PeriodMonth {
		return nil, fmt.Errorf("unsupported report period %q", period)
	}
	var out EmotionReport
	err := s.c.do(ctx, call{
		name:   "GetReport",
		method: http.MethodGet,
		path:   "/api/diaries/report/",
		query:  url.Values{"period": {string(period)}},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Calendar returns the per-day summary of month (1-12) in year.
func (s *DiaryService) Calendar(ctx context.Context, year, month int) (*Calendar, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range", month)
	}
	var out Calendar
	err := s.c.do(ctx, call{
		name:   "GetCalendar",
		method: http.MethodGet,
		path:   "/api/diaries/calendar/",
		query:  url.Values{"year": {strconv.Itoa(year)}, "month": {strconv.Itoa(month)}},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Days == nil {
		out.Days = map[string]CalendarDay{}
	}
	return &out, nil
}

// AutoSave returns a debouncer that saves the latest draft of diary id once
// edits pause for delay. done, if set, receives the outcome of every save.
// Call Flush before exiting to save a pending draft.
func (s *DiaryService) AutoSave(ctx context.Context, id int64, delay time.Duration, done func(*Diary, error)) *retry.Debouncer[UpdateDiaryRequest] {
	return retry.NewDebouncer(func(req UpdateDiaryRequest) {
		diary, err := s.Update(ctx, id, req)
		if done != nil {
			done(diary, err)
		}
	}, delay)
}

func diaryPath(id int64) string {
	return "/api/diaries/" + strconv.FormatInt(id, 10) + "/"
}
