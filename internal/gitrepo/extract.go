package gitrepo

import (
	"fmt"
	"strings"
)

// DefaultMaxDiffBytes caps the combined diff text in a payload. Review
// latency and model context are the scarce resources, not disk.
const DefaultMaxDiffBytes = 500000

// Extract builds the review payload for a commit. previousHash is the
// commit to diff against; pass "" for a root commit, in which case every
// tracked file is rendered as wholly added.
//
// maxBytes bounds the combined diff text; <= 0 means DefaultMaxDiffBytes.
func (r *Repository) Extract(current CommitRef, previousHash string, maxBytes int) (Payload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDiffBytes
	}

	if previousHash == "" {
		return r.extractInitial(current, maxBytes)
	}

	diffs, err := r.Diff(previousHash, current.Hash)
	if err != nil {
		return Payload{}, err
	}

	var combined strings.Builder
	files := make([]string, 0, len(diffs))
	seen := make(map[string]bool)
	for _, d := range diffs {
		combined.WriteString(d.Patch)
		if !seen[d.Path] {
			seen[d.Path] = true
			files = append(files, d.Path)
		}
	}

	return Payload{
		Commit: current,
		Diff:   truncateDiff(combined.String(), maxBytes),
		Files:  files,
	}, nil
}

func (r *Repository) extractInitial(current CommitRef, maxBytes int) (Payload, error) {
	tracked, err := r.TreeFiles(current.Hash)
	if err != nil {
		return Payload{}, err
	}

	var combined strings.Builder
	files := make([]string, 0, len(tracked))
	for _, f := range tracked {
		files = append(files, f.Path)
		if f.Binary {
			fmt.Fprintf(&combined, "diff --git a/%s b/%s\nnew file mode 100644\nBinary file %s added\n", f.Path, f.Path, f.Path)
			continue
		}
		combined.WriteString(addedFileDiff(f.Path, f.Content))
	}

	return Payload{
		Commit:        current,
		Diff:          truncateDiff(combined.String(), maxBytes),
		Files:         files,
		InitialCommit: true,
	}, nil
}

// addedFileDiff renders file content as a synthetic new-file unified diff.
func addedFileDiff(path, content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(&b, "new file mode 100644\n")
	fmt.Fprintf(&b, "--- /dev/null\n")
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, line := range lines {
		fmt.Fprintf(&b, "+%s\n", line)
	}
	return b.String()
}

func truncateDiff(diff string, maxBytes int) string {
	if len(diff) <= maxBytes {
		return diff
	}
	// The cut can land inside a multi-byte rune; drop the partial rune so
	// the payload stays valid UTF-8.
	cut := strings.ToValidUTF8(diff[:maxBytes], "")
	return cut + "\n... (diff truncated at max-diff-bytes limit)\n"
}
