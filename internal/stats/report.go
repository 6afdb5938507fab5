package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D6604D"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4393C3"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// strongCorrelation is the magnitude from which a coefficient is highlighted.
const strongCorrelation = 0.5

// UseColor reports whether output to w should be styled.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// FormatCoefficient prints a coefficient with two decimals, or "nan".
func FormatCoefficient(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderMatrix prints the correlation matrix with numbered column headers.
func RenderMatrix(w io.Writer, m Matrix, useColor bool) error {
	if m.Size() == 0 {
		_, err := fmt.Fprintln(w, "No numeric columns to correlate.")
		return err
	}
	if _, err := fmt.Fprintln(w, styled(useColor, titleStyle, "Correlation Matrix (Pearson)")); err != nil {
		return err
	}

	headers := make([]string, 0, m.Size()+1)
	headers = append(headers, "Column")
	rightAlign := map[int]bool{}
	for i := 0; i < m.Size(); i++ {
		headers = append(headers, strconv.Itoa(i+1))
		rightAlign[i+1] = true
	}
	rows := make([][]string, 0, m.Size())
	for i, label := range m.Labels {
		row := []string{fmt.Sprintf("%d %s", i+1, label)}
		for j := 0; j < m.Size(); j++ {
			row = append(row, FormatCoefficient(m.At(i, j)))
		}
		rows = append(rows, row)
	}

	var decorate cellDecorator
	if useColor {
		decorate = func(r, c int, cell string) string {
			if r < 0 {
				return headerStyle.Render(cell)
			}
			if c == 0 {
				return cell
			}
			v := m.At(r, c-1)
			switch {
			case math.IsNaN(v) || r == c-1:
				return mutedStyle.Render(cell)
			case v >= strongCorrelation:
				return positiveStyle.Render(cell)
			case v <= -strongCorrelation:
				return negativeStyle.Render(cell)
			default:
				return cell
			}
		}
	}
	for _, line := range formatTable(headers, rows, rightAlign, decorate) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTotals prints per-group sums of a value column.
func RenderTotals(w io.Writer, title string, totals []GroupTotal, useColor bool) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No groups found.")
		return err
	}
	if _, err := fmt.Fprintln(w, styled(useColor, titleStyle, title)); err != nil {
		return err
	}
	headers := []string{"Group", "Sum", "Rows"}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			t.Group,
			strconv.FormatFloat(t.Sum, 'f', 2, 64),
			strconv.Itoa(t.Rows),
		})
	}
	var decorate cellDecorator
	if useColor {
		decorate = func(r, _ int, cell string) string {
			if r < 0 {
				return headerStyle.Render(cell)
			}
			return cell
		}
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}, decorate) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderPairs prints the strongest column pairs and flags columns that stay
// below strongCorrelation against every other column.
func RenderPairs(w io.Writer, m Matrix, n int, useColor bool) error {
	pairs := TopPairs(m, n)
	if len(pairs) == 0 {
		_, err := fmt.Fprintln(w, "No correlated pairs.")
		return err
	}
	if _, err := fmt.Fprintln(w, styled(useColor, titleStyle, "Strongest Pairs")); err != nil {
		return err
	}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p.A, p.B, FormatCoefficient(p.R)})
	}
	var decorate cellDecorator
	if useColor {
		decorate = func(r, c int, cell string) string {
			if r < 0 {
				return headerStyle.Render(cell)
			}
			if c != 2 {
				return cell
			}
			switch v := pairs[r].R; {
			case v >= strongCorrelation:
				return positiveStyle.Render(cell)
			case v <= -strongCorrelation:
				return negativeStyle.Render(cell)
			default:
				return cell
			}
		}
	}
	for _, line := range formatTable([]string{"Column", "Column", "r"}, rows, map[int]bool{2: true}, decorate) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	isolated := IsolatedColumns(m, strongCorrelation)
	if len(isolated) > 0 {
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
		for _, label := range m.Labels {
			if _, ok := isolated[label]; !ok {
				continue
			}
			if _, err := fmt.Fprintln(w, styled(useColor, mutedStyle, "weakly linked: "+label)); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTable prints a titled plain table; rightAlign holds column indexes.
func RenderTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign []int, useColor bool) error {
	if _, err := fmt.Fprintln(w, styled(useColor, titleStyle, title)); err != nil {
		return err
	}
	align := make(map[int]bool, len(rightAlign))
	for _, c := range rightAlign {
		align[c] = true
	}
	var decorate cellDecorator
	if useColor {
		decorate = func(r, _ int, cell string) string {
			if r < 0 {
				return headerStyle.Render(cell)
			}
			return cell
		}
	}
	for _, line := range formatTable(headers, rows, align, decorate) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func styled(useColor bool, style lipgloss.Style, s string) string {
	if !useColor {
		return s
	}
	return style.Render(s)
}
