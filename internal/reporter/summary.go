package reporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aleister1102/screentrack/internal/errorwrapper"
)

// Summary is the parsed content of a previously generated report
type Summary struct {
	GeneratedAt  string
	Counts       map[string]int
	Labels       []string // descending count order as written in the report
	Unclassified int
	Narrative    string
	Empty        bool
}

// ParseReport reads a report file back into a Summary
func ParseReport(path string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorwrapper.WrapError(errorwrapper.ErrNotFound, "report file "+path)
		}
		return nil, errorwrapper.NewStorageError(path, "open report", err)
	}
	defer file.Close()

	summary := &Summary{Counts: make(map[string]int)}

	const (
		sectionPreamble = iota
		sectionCounts
		sectionNarrative
	)
	section := sectionPreamble

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, "Generated at: "):
			summary.GeneratedAt = strings.TrimPrefix(line, "Generated at: ")
		case line == "No activities recorded.":
			summary.Empty = true
		case line == "Activity counts:":
			section = sectionCounts
		case strings.HasPrefix(line, "Unclassified frames: "):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "Unclassified frames: "))
			if err == nil {
				summary.Unclassified = n
			}
			section = sectionPreamble
		case line == aiSummaryHeader:
			section = sectionNarrative
		case section == sectionCounts && strings.Contains(line, ": "):
			parts := strings.SplitN(line, ": ", 2)
			if n, err := strconv.Atoi(parts[1]); err == nil {
				summary.Counts[parts[0]] = n
				summary.Labels = append(summary.Labels, parts[0])
			}
		case section == sectionNarrative:
			if line == "" || strings.Trim(line, "=") == "" {
				if summary.Narrative == "" {
					continue
				}
			}
			if summary.Narrative != "" {
				summary.Narrative += "\n"
			}
			summary.Narrative += line
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errorwrapper.NewStorageError(path, "read report", err)
	}

	summary.Narrative = strings.TrimSpace(summary.Narrative)
	return summary, nil
}

// Render writes the parsed summary to the terminal
func (s *Summary) Render(w io.Writer) {
	if s.Empty || (len(s.Counts) == 0 && s.Unclassified == 0) {
		fmt.Fprintln(w, "No activities found.")
		return
	}

	fmt.Fprintln(w, "Activity Summary")
	fmt.Fprintln(w, "----------------")
	for _, label := range s.Labels {
		fmt.Fprintf(w, "%-12s %d\n", label, s.Counts[label])
	}
	fmt.Fprintf(w, "%-12s %d\n", "unclassified", s.Unclassified)

	if s.Narrative != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, aiSummaryHeader)
		fmt.Fprintln(w, s.Narrative)
	}
}
