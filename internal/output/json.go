package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONWriter outputs the full review as JSON.
type JSONWriter struct{}

type jsonCommit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Body    string `json:"body,omitempty"`
}

type jsonReview struct {
	Commit      jsonCommit `json:"commit"`
	Provider    string     `json:"provider,omitempty"`
	Model       string     `json:"model,omitempty"`
	Review      string     `json:"review"`
	GeneratedAt string     `json:"generatedAt,omitempty"`
}

func (j *JSONWriter) Write(w io.Writer, rev *Review) error {
	out := jsonReview{
		Commit: jsonCommit{
			Hash:    rev.Commit.Hash,
			Author:  rev.Commit.Author,
			Email:   rev.Commit.Email,
			Date:    rev.Commit.When.UTC().Format(time.RFC3339),
			Subject: rev.Commit.Subject,
			Body:    rev.Commit.Body,
		},
		Provider: rev.Provider,
		Model:    rev.Model,
		Review:   rev.Text,
	}
	if !rev.GeneratedAt.IsZero() {
		out.GeneratedAt = rev.GeneratedAt.UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
