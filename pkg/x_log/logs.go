package x_log

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Tail reads and returns the last n lines of a log file.
func Tail(filename string, n int) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if n > 0 && len(lines) == n {
			lines = append(lines[:0], lines[1:]...)
		}
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// PrintLines writes each line to w behind a styled prefix.
func PrintLines(w io.Writer, lines []string, prefix string) {
	pre := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)).Render(prefix)
	for _, line := range lines {
		fmt.Fprintln(w, pre, line)
	}
}
