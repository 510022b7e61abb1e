// Package render prints the budget summary and the filtered views, as
// terminal tables or as a PDF report.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/obelisk/budgetdb/aggregate"
	"github.com/obelisk/budgetdb/table"
)

const rule = "=================================================="

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Report writes Article 1, Article 2 and the balance verdict.
func Report(w io.Writer, s aggregate.Summary) error {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ΠΙΝΑΚΑΣ 1 - ΕΣΟΔΑ")
	fmt.Fprintln(w, rule)

	tw := newTable(w)
	fmt.Fprintln(tw, "ΚΩΔ\tΠΕΡΙΓΡΑΦΗ\tΠΟΣΟ (€)\t")
	for _, c := range s.Revenue.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", c.Code, c.Label, table.FormatAmount(c.Amount))
	}
	fmt.Fprintf(tw, "\tΣύνολο εσόδων\t%s\t\n", table.FormatAmount(s.Revenue.Total))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ΠΙΝΑΚΑΣ 2 - ΕΞΟΔΑ ΑΝΑ ΥΠΟΥΡΓΕΙΟ")
	fmt.Fprintln(w, rule)

	tw = newTable(w)
	fmt.Fprintln(tw, "ΥΠΟΥΡΓΕΙΟ / ΦΟΡΕΑΣ\tΠΟΣΟ ΕΞΟΔΩΝ (€)\t")
	for _, m := range s.Expenditure.Ministries {
		fmt.Fprintf(tw, "%s\t%s\t\n", m.Ministry, table.FormatAmount(m.Total))
	}
	fmt.Fprintf(tw, "Σύνολο εξόδων\t%s\t\n", table.FormatAmount(s.Expenditure.Total))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Αποτέλεσμα (έσοδα - έξοδα): %s\n", table.FormatAmount(s.Balance.Result))
	_, err := fmt.Fprintf(w, "Ο κρατικός προϋπολογισμός είναι: %s\n", s.Balance.Verdict.Label())
	return err
}

// TypeView lists the lines of one type with amount, ministry and source.
func TypeView(w io.Writer, v aggregate.View) error {
	if len(v.Lines) == 0 {
		_, err := fmt.Fprintf(w, "Δεν βρέθηκαν εγγραφές για τον τύπο: %s\n", v.Title)
		return err
	}

	fmt.Fprintf(w, "Ανάλυση για: %s\n", v.Title)
	tw := newTable(w)
	fmt.Fprintln(tw, "ΠΟΣΟ (€)\tΥΠΟΥΡΓΕΙΟ / ΦΟΡΕΑΣ\tΠΗΓΗ\t")
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", table.FormatAmount(l.Amount), l.MinistryOrDefault(), oneLine(l.Source))
	}
	fmt.Fprintf(tw, "ΣΥΝΟΛΟ\t\t%s\t\n", table.FormatAmount(v.Sum))
	return tw.Flush()
}

// MinistryView lists the lines of one ministry with type, amount and source.
func MinistryView(w io.Writer, v aggregate.View) error {
	fmt.Fprintf(w, "Ανάλυση για ΥΠΟΥΡΓΕΙΟ: %s\n", v.Title)
	tw := newTable(w)
	fmt.Fprintln(tw, "ΤΥΠΟΣ\tΠΟΣΟ (€)\tΠΗΓΗ\t")
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", l.Type, table.FormatAmount(l.Amount), oneLine(l.Source))
	}
	fmt.Fprintf(tw, "ΣΥΝΟΛΟ\t%s\t\t\n", table.FormatAmount(v.Sum))
	return tw.Flush()
}

// Ministries prints the known ministry names, one per line.
func Ministries(w io.Writer, names []string) error {
	for _, n := range names {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
