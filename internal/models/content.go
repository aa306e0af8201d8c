package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PromptContent is the kind-tagged payload of a prompt. Exactly one of
// the variant pointers is set, matching Kind; Validate enforces this on
// every write path.
type PromptContent struct {
	Kind      string            `json:"kind"`
	Title     string            `json:"title,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Mcq       *McqContent       `json:"mcq,omitempty"`
	ShortText *ShortTextContent `json:"short_text,omitempty"`
	LongText  *LongTextContent  `json:"long_text,omitempty"`
	Slide     *SlideContent     `json:"slide,omitempty"`
}

type McqContent struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	// CorrectOptionIndex is nil or a valid index into Options.
	CorrectOptionIndex *int `json:"correct_option_index"`
}

type ShortTextContent struct {
	Prompt    string `json:"prompt"`
	CharLimit *int   `json:"char_limit,omitempty"`
}

type LongTextContent struct {
	Prompt    string `json:"prompt"`
	WordLimit *int   `json:"word_limit,omitempty"`
}

type SlideContent struct {
	AssetURL   string `json:"asset_url"`
	AssetPath  string `json:"asset_path"`
	AssetType  string `json:"asset_type"`
	AssetName  string `json:"asset_name"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

// NewMcqContent trims and drops empty options, then clamps an
// out-of-range or negative correct index to nil.
func NewMcqContent(title, detail, question string, options []string, correctIndex *int) PromptContent {
	cleaned := make([]string, 0, len(options))
	for _, opt := range options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	var resolved *int
	if correctIndex != nil && *correctIndex >= 0 && *correctIndex < len(cleaned) {
		idx := *correctIndex
		resolved = &idx
	}

	if strings.TrimSpace(question) == "" {
		question = title
	}

	return PromptContent{
		Kind:   PromptKindMcq,
		Title:  title,
		Detail: detail,
		Mcq: &McqContent{
			Question:           strings.TrimSpace(question),
			Options:            cleaned,
			CorrectOptionIndex: resolved,
		},
	}
}

func NewShortTextContent(title, detail, prompt string, charLimit *int) PromptContent {
	return PromptContent{
		Kind:      PromptKindShortText,
		Title:     title,
		Detail:    detail,
		ShortText: &ShortTextContent{Prompt: prompt, CharLimit: charLimit},
	}
}

func NewLongTextContent(title, detail, prompt string, wordLimit *int) PromptContent {
	return PromptContent{
		Kind:     PromptKindLongText,
		Title:    title,
		Detail:   detail,
		LongText: &LongTextContent{Prompt: prompt, WordLimit: wordLimit},
	}
}

func NewSlideContent(title, detail string, slide SlideContent) PromptContent {
	return PromptContent{
		Kind:   PromptKindSlide,
		Title:  title,
		Detail: detail,
		Slide:  &slide,
	}
}

// Validate checks that exactly the variant named by Kind is present and
// that an MCQ correct index, when set, points into the options.
func (c PromptContent) Validate() error {
	set := 0
	for _, present := range []bool{c.Mcq != nil, c.ShortText != nil, c.LongText != nil, c.Slide != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("prompt content must carry exactly one variant, has %d", set)
	}

	switch c.Kind {
	case PromptKindMcq:
		if c.Mcq == nil {
			return errors.New("mcq content missing for kind mcq")
		}
		if idx := c.Mcq.CorrectOptionIndex; idx != nil {
			if *idx < 0 || *idx >= len(c.Mcq.Options) {
				return fmt.Errorf("correct option index %d out of range for %d options", *idx, len(c.Mcq.Options))
			}
		}
	case PromptKindShortText:
		if c.ShortText == nil {
			return errors.New("short text content missing for kind short_text")
		}
	case PromptKindLongText:
		if c.LongText == nil {
			return errors.New("long text content missing for kind long_text")
		}
	case PromptKindSlide:
		if c.Slide == nil {
			return errors.New("slide content missing for kind slide")
		}
	default:
		return fmt.Errorf("unknown prompt kind %q", c.Kind)
	}
	return nil
}

func (c PromptContent) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (c *PromptContent) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = PromptContent{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into PromptContent", value)
	}
}
