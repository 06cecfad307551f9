package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	awslib "cloudpwn/internal/aws"
)

const bannerWidth = 41

// Printer writes reports to a terminal
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Banner prints a boxed title
func (p *Printer) Banner(title string) {
	pad := bannerWidth - len([]rune(title))
	if pad < 2 {
		pad = 2
	}
	left := pad / 2
	line := strings.Repeat("═", bannerWidth)

	fmt.Fprintf(p.out, "\n╔%s╗\n", line)
	fmt.Fprintf(p.out, "║%s%s%s║\n", strings.Repeat(" ", left), title, strings.Repeat(" ", pad-left))
	fmt.Fprintf(p.out, "╚%s╝\n", line)
}

// Print renders one report: the table, the JSON records, or the
// sentinel/failure text in place of data
func (p *Printer) Print(r awslib.Report) error {
	p.Banner(r.Label)

	switch {
	case r.Result.HasRows() && len(r.Result.Records) > 0:
		return JSON(p.out, r.Result.Records)
	case r.Result.HasRows():
		Table(p.out, r.Headers, r.Result.Rows)
	case r.Result.Kind == awslib.ResultFailed:
		fmt.Fprintln(p.out, color.RedString(r.Result.String()))
	default:
		fmt.Fprintln(p.out, color.YellowString(r.Result.String()))
	}
	return nil
}

// PrintAll renders reports in order
func (p *Printer) PrintAll(reports []awslib.Report) error {
	for _, r := range reports {
		if err := p.Print(r); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders one line per report of a full-account scan
func (p *Printer) Summary(reports []awslib.Report) {
	p.Banner("Enumeration Summary")

	rows := make([]awslib.Row, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, awslib.Row{r.Region, r.Service.String(), r.Label, outcome(r.Result)})
	}
	Table(p.out, []string{"Region", "Service", "Resource", "Outcome"}, rows)
}

func outcome(r awslib.Result) string {
	switch r.Kind {
	case awslib.ResultRows:
		return fmt.Sprintf("%d found", len(r.Rows))
	case awslib.ResultFailed:
		if r.Failure != nil {
			return "failed (" + r.Failure.Kind.String() + ")"
		}
		return "failed"
	default:
		return "none"
	}
}
