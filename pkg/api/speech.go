package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Goden-Gun/diary-client/pkg/codes"
)

// SpeechService wraps the speech-to-text endpoints.
type SpeechService struct {
	c *Client
}

// Transcribe uploads audio as a multipart form and returns the recognised
// text. An empty language defaults to Korean.
func (s *SpeechService) Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (*Transcription, error) {
	if language == "" {
		language = codes.DefaultLanguage
	}
	if filename == "" {
		filename = "recording.m4a"
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("audio", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if err := form.WriteField("language", language); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	var out Transcription
	err = s.c.do(ctx, call{
		name:           "Transcribe",
		method:         http.MethodPost,
		path:           "/api/transcribe/",
		raw:            buf.Bytes(),
		contentType:    form.FormDataContentType(),
		authed:         true,
		timeout:        2 * s.c.opts.Timeout,
		timeoutMessage: "음성 인식 시간이 초과되었습니다",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SpeechService) SupportedLanguages(ctx context.Context) (*SupportedLanguages, error) {
	var out SupportedLanguages
	if err := s.c.do(ctx, call{name: "SupportedLanguages", method: http.MethodGet, path: "/api/supported-languages/", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
