// Package prompt runs the interactive menu over a loaded budget: a listing of
// all revenue or expenditure lines, or of every line of one ministry.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/obelisk/budgetdb/aggregate"
	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/render"
)

const rule = "=================================================="

// Session reads answers from in and prints to out. Invalid answers are asked
// again until in runs out.
type Session struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: bufio.NewScanner(in), out: out}
}

// Run shows the menu once and answers one query. It returns io.EOF when the
// input ends before a valid answer.
func (s *Session) Run(lines []common.BudgetLine) error {
	fmt.Fprintln(s.out, rule)
	fmt.Fprintln(s.out, "Για περισσότερες πληροφορίες επιλέξτε μία από τις παρακάτω επιλογές:")
	fmt.Fprintln(s.out, "  1 : Ανάλυση εσόδων / εξόδων")
	fmt.Fprintln(s.out, "  2 : Ανάλυση ανά Υπουργείο")
	fmt.Fprintln(s.out, rule)

	choice, err := s.ask("Πληκτρολογήστε 1 ή 2 και πατήστε Enter: ", "Μη έγκυρη επιλογή. Παρακαλώ δοκιμάστε ξανά.",
		func(answer string) bool { return answer == "1" || answer == "2" })
	if err != nil {
		return err
	}

	if choice == "1" {
		err = s.byType(lines)
	} else {
		err = s.byMinistry(lines)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Τέλος αναφοράς.")
	return nil
}

func (s *Session) byType(lines []common.BudgetLine) error {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "ΕΠΙΛΟΓΗ 1: Ανάλυση εσόδων / εξόδων")
	fmt.Fprintln(s.out)

	answer, err := s.ask(`Πληκτρολογήστε "ΕΣΟΔΑ" ή "ΕΞΟΔΑ" και πατήστε Enter: `, "Μη έγκυρη τιμή. Γράψτε ΕΣΟΔΑ ή ΕΞΟΔΑ.",
		func(answer string) bool {
			_, ok := aggregate.ParseEntryType(answer)
			return ok
		})
	if err != nil {
		return err
	}

	entryType, _ := aggregate.ParseEntryType(answer)
	fmt.Fprintln(s.out)
	return render.TypeView(s.out, aggregate.ByType(lines, entryType))
}

func (s *Session) byMinistry(lines []common.BudgetLine) error {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "ΕΠΙΛΟΓΗ 2: Ανάλυση ανά Υπουργείο")
	fmt.Fprintln(s.out, "Γράψτε το Υπουργείο όπως εμφανίζεται στον πίνακα.")
	fmt.Fprintln(s.out)

	var view aggregate.View
	_, err := s.ask("Πληκτρολογήστε το Υπουργείο και πατήστε Enter: ",
		"Δεν βρέθηκε Υπουργείο με αυτή την ονομασία. Παρακαλώ ελέγξτε την ορθογραφία και δοκιμάστε ξανά.",
		func(answer string) bool {
			var ok bool
			view, ok = aggregate.ByMinistry(lines, answer)
			return ok
		})
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	return render.MinistryView(s.out, view)
}

// ask prints question until valid accepts the trimmed answer.
func (s *Session) ask(question, retry string, valid func(string) bool) (string, error) {
	for {
		fmt.Fprint(s.out, question)
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			if err := s.in.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		answer := strings.TrimSpace(s.in.Text())
		if valid(answer) {
			return answer, nil
		}
		fmt.Fprintln(s.out, retry)
	}
}
