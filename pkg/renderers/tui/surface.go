package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
	"github.com/goliatone/go-sheetform/pkg/sheets"
)

// Surface drives form prompts in a terminal. It implements form.Surface and
// form.Display and can print worksheet tables.
type Surface struct {
	driver        PromptDriver
	out           io.Writer
	theme         Theme
	submitMessage string
	pageSize      int
	strip         *bluemonday.Policy
}

var (
	_ form.Surface = (*Surface)(nil)
	_ form.Display = (*Surface)(nil)
)

// New constructs a terminal surface backed by survey unless another driver is
// supplied.
func New(options ...Option) *Surface {
	s := &Surface{
		out:           os.Stdout,
		theme:         DefaultTheme,
		submitMessage: "Submit?",
		strip:         bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = newSurveyDriver(s.out)
	}
	return s
}

// Text implements form.Surface.
func (s *Surface) Text(ctx context.Context, prompt form.Prompt) (string, error) {
	return s.driver.Input(ctx, InputConfig{
		Message: s.message(prompt),
		Default: prompt.Default,
		Help:    s.help(prompt),
	})
}

// TextArea implements form.Surface.
func (s *Surface) TextArea(ctx context.Context, prompt form.Prompt) (string, error) {
	return s.driver.TextArea(ctx, TextAreaConfig{
		Message: s.message(prompt),
		Default: prompt.Default,
		Help:    s.help(prompt),
	})
}

// Select implements form.Surface.
func (s *Surface) Select(ctx context.Context, prompt form.Prompt) (int, error) {
	if len(prompt.Options) == 0 {
		return -1, nil
	}
	return s.driver.Select(ctx, SelectConfig{
		Message:      s.message(prompt),
		Options:      prompt.Options,
		DefaultIndex: prompt.DefaultIndex,
		Help:         s.help(prompt),
		PageSize:     s.pageSize,
	})
}

// Date implements form.Surface. Dates are typed as YYYY-MM-DD; a blank answer
// yields the zero date and malformed input is asked again.
func (s *Surface) Date(ctx context.Context, prompt form.Prompt) (model.Date, error) {
	def := ""
	if !prompt.DefaultDate.IsZero() {
		def = prompt.DefaultDate.String()
	}
	for {
		raw, err := s.driver.Input(ctx, InputConfig{
			Message:   s.message(prompt) + " (YYYY-MM-DD)",
			Default:   def,
			Help:      s.help(prompt),
			Validator: validateDate,
		})
		if err != nil {
			return model.Date{}, err
		}
		if strings.TrimSpace(raw) == "" {
			return model.Date{}, nil
		}
		date, err := model.ParseDate(strings.TrimSpace(raw))
		if err == nil {
			return date, nil
		}
		if infoErr := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", prompt.Label, err)); infoErr != nil {
			return model.Date{}, infoErr
		}
	}
}

// Number implements form.Surface. A blank answer yields nil.
func (s *Surface) Number(ctx context.Context, prompt form.Prompt) (*int, error) {
	def := ""
	if prompt.DefaultNumber != nil {
		def = strconv.Itoa(*prompt.DefaultNumber)
	}
	for {
		raw, err := s.driver.Input(ctx, InputConfig{
			Message:   s.message(prompt),
			Default:   def,
			Help:      s.help(prompt),
			Validator: validateNumber,
		})
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err == nil {
			return &n, nil
		}
		if infoErr := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: enter a whole number", prompt.Label)); infoErr != nil {
			return nil, infoErr
		}
	}
}

// Submit implements form.Surface.
func (s *Surface) Submit(ctx context.Context) (bool, error) {
	return s.driver.Confirm(ctx, ConfirmConfig{Message: s.submitMessage, Default: true})
}

// Errors implements form.Display.
func (s *Surface) Errors(ctx context.Context, messages []string) error {
	for _, msg := range messages {
		if err := s.driver.Info(ctx, s.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

// Success implements form.Display.
func (s *Surface) Success(ctx context.Context, message string) error {
	return s.driver.Info(ctx, s.theme.SuccessPrefix+message)
}

// Table prints a worksheet with aligned columns.
func (s *Surface) Table(ctx context.Context, title string, table sheets.Table) error {
	text, err := FormatTable(title, table)
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, text)
}

// FormatTable renders a table as tab-aligned text under its title.
func FormatTable(title string, table sheets.Table) (string, error) {
	var buf bytes.Buffer
	if title != "" {
		buf.WriteString(title)
		buf.WriteByte('\n')
	}
	if len(table.Columns) == 0 {
		buf.WriteString("(empty worksheet)")
		return buf.String(), nil
	}
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	writeRow(tw, table.Columns)
	for _, row := range table.Rows {
		writeRow(tw, row)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	if table.Empty() {
		buf.WriteString("(no rows)")
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func writeRow(w io.Writer, cells []string) {
	clean := make([]string, len(cells))
	for i, cell := range cells {
		clean[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(cell)
	}
	_, _ = fmt.Fprintln(w, strings.Join(clean, "\t"))
}

func (s *Surface) message(prompt form.Prompt) string {
	label := prompt.Label
	if label == "" {
		label = prompt.Key
	}
	if prompt.Required {
		label += s.theme.RequiredSuffix
	}
	return label
}

// help drops markup from help text written for the web form.
func (s *Surface) help(prompt form.Prompt) string {
	if prompt.Help == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.strip.Sanitize(prompt.Help)))
}

func validateDate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := model.ParseDate(raw); err != nil {
		return errors.New("use the format YYYY-MM-DD")
	}
	return nil
}

func validateNumber(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := strconv.Atoi(raw); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}
