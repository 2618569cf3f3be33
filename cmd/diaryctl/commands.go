package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Goden-Gun/diary-client/pkg/api"
	"github.com/Goden-Gun/diary-client/pkg/apierr"
	"github.com/Goden-Gun/diary-client/pkg/config"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (a *app) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ping",
		Short:   "Check that the backend is reachable",
		Args:    cobra.NoArgs,
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := a.client.Ping(cmd.Context())
			if err != nil {
				return err
			}
			msg := status.Message()
			if msg == "" {
				msg = "ok"
			}
			fmt.Fprintln(a.stdout, msg)
			return nil
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:     "login <username>",
		Short:   "Sign in and store the access token",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = config.GetSecretOrEnv(a.envPrefix+"_PASSWORD", "")
			}
			if password == "" {
				return fmt.Errorf("password required: pass --password or set %s_PASSWORD", a.envPrefix)
			}
			if _, err := a.client.Auth().Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "logged in")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Forget the stored access token",
		Args:    cobra.NoArgs,
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.client.Auth().Logout(cmd.Context())
		},
	}
}

func (a *app) diariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diaries",
		Short: "Manage diaries",
	}

	var date string
	list := &cobra.Command{
		Use:     "list",
		Short:   "List diaries, optionally of one date",
		Args:    cobra.NoArgs,
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				diaries []api.Diary
				err     error
			)
			if date != "" {
				day, perr := time.Parse(time.DateOnly, date)
				if perr != nil {
					return fmt.Errorf("invalid --date %q: %w", date, perr)
				}
				diaries, err = a.client.Diaries().ListByDate(cmd.Context(), day)
			} else {
				diaries, err = a.client.Diaries().List(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.printJSON(diaries)
		},
	}
	list.Flags().StringVar(&date, "date", "", "only diaries written on YYYY-MM-DD")

	get := &cobra.Command{
		Use:     "get <id>",
		Short:   "Show one diary",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			diary, err := a.client.Diaries().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printJSON(diary)
		},
	}

	var title, content string
	create := &cobra.Command{
		Use:     "create",
		Short:   "Write a new diary",
		Args:    cobra.NoArgs,
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, _ []string) error {
			diary, err := a.client.Diaries().Create(cmd.Context(), api.CreateDiaryRequest{Title: title, Content: content})
			if err != nil {
				return err
			}
			return a.printJSON(diary)
		},
	}
	create.Flags().StringVar(&title, "title", "", "diary title")
	create.Flags().StringVar(&content, "content", "", "diary content")

	var delay time.Duration
	write := &cobra.Command{
		Use:     "write <id>",
		Short:   "Append stdin to a diary, saving once typing pauses",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			diary, err := a.client.Diaries().Get(ctx, id)
			if err != nil {
				return err
			}

			var (
				mu      sync.Mutex
				saveErr error
				saves   int
			)
			saver := a.client.Diaries().AutoSave(ctx, id, delay, func(_ *api.Diary, err error) {
				mu.Lock()
				defer mu.Unlock()
				saves++
				saveErr = err
			})

			text := diary.Content
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if text != "" {
					text += "\n"
				}
				text += scanner.Text()
				draft := text
				saver.Call(api.UpdateDiaryRequest{Content: &draft})
			}
			saver.Flush()
			saver.Wait()
			if err := scanner.Err(); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if saveErr != nil {
				return saveErr
			}
			fmt.Fprintf(a.stdout, "saved %d time(s)\n", saves)
			return nil
		},
	}
	write.Flags().DurationVar(&delay, "delay", time.Second, "pause before a draft is saved")

	del := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a diary",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.client.Diaries().Delete(cmd.Context(), id)
		},
	}

	image := &cobra.Command{
		Use:     "image <id>",
		Short:   "Generate an illustration for a diary",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			img, err := a.client.Diaries().GenerateImage(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printJSON(img)
		},
	}

	cmd.AddCommand(list, get, create, write, del, image)
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Show the emotion report",
		Args:    cobra.NoArgs,
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.client.Diaries().Report(cmd.Context(), api.ReportPeriod(period))
			if err != nil {
				return err
			}
			return a.printJSON(report)
		},
	}
	cmd.Flags().StringVar(&period, "period", string(api.PeriodWeek), "week | month")
	return cmd
}

func (a *app) calendarCmd() *cobra.Command {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	cmd := &cobra.Command{
		Use:     "calendar",
		Short:   "Show the diary calendar of a month",
		Args:    cobra.NoArgs,
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cal, err := a.client.Diaries().Calendar(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return a.printJSON(cal)
		},
	}
	cmd.Flags().IntVar(&year, "year", year, "calendar year")
	cmd.Flags().IntVar(&month, "month", month, "calendar month (1-12)")
	return cmd
}

func (a *app) transcribeCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:     "transcribe <audio-file>",
		Short:   "Convert a voice recording to text",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			out, err := a.client.Speech().Transcribe(cmd.Context(), filepath.Base(args[0]), f, language)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, out.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "ko", "spoken language")
	return cmd
}

func (a *app) languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "languages",
		Short:   "List languages supported by transcription",
		Args:    cobra.NoArgs,
		PreRunE: a.boot,
		RunE: func(cmd *cobra.Command, _ []string) error {
			langs, err := a.client.Speech().SupportedLanguages(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(langs)
		},
	}
}

// classifyCmd runs the classifier on a captured response without any network
// access, which helps when triaging a failure report.
func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <status> [body]",
		Short: "Classify an HTTP status and response body",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			status, err := strconv.Atoi(args[0])
			if err != nil || status < 100 || status > 599 {
				return fmt.Errorf("invalid status %q", args[0])
			}
			var body []byte
			if len(args) == 2 {
				body = []byte(args[1])
			}
			ce := apierr.Classify(&apierr.ResponseError{
				Method:     http.MethodGet,
				URL:        "-",
				StatusCode: status,
				Header:     http.Header{},
				Body:       body,
			})
			return a.printJSON(map[string]any{
				"kind":              ce.Kind,
				"message":           ce.Message,
				"raw_code":          ce.RawCode,
				"retryable":         ce.Retryable(),
				"auth":              ce.Auth(),
				"retry_after_ms":    ce.RetryAfter.Milliseconds(),
				"validation_fields": ce.ValidationFields,
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid diary id %q", s)
	}
	return id, nil
}
