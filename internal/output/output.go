package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/gitrepo"
)

// Review is one finished commit review ready for display.
type Review struct {
	Commit      gitrepo.CommitRef
	Provider    string
	Model       string
	Text        string
	GeneratedAt time.Time
}

// Writer writes a review in a specific format.
type Writer interface {
	Write(w io.Writer, rev *Review) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReview writes the review to the specified output (file path or stdout).
func WriteReview(rev *Review, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, rev)
}
