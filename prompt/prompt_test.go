package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budget() []common.BudgetLine {
	return []common.BudgetLine{
		{LineNumber: 1, Type: common.Revenue, Amount: decimal.NewFromInt(700), Ministry: "-", Source: "11 Φόροι"},
		{LineNumber: 2, Type: common.Expenditure, Amount: decimal.NewFromInt(10), Ministry: "Υπουργείο Υγείας", Source: "21 Παροχές"},
		{LineNumber: 3, Type: common.Expenditure, Amount: decimal.NewFromInt(5), Ministry: "Υπουργείο Παιδείας", Source: "23 Μεταβιβάσεις"},
		{LineNumber: 4, Type: common.Expenditure, Amount: decimal.NewFromInt(3), Ministry: "Υπουργείο Υγείας", Source: "24 Αγορές"},
	}
}

func run(t *testing.T, input string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	err := NewSession(strings.NewReader(input), out).Run(budget())
	return out.String(), err
}

func TestRun_ByType(t *testing.T) {
	out, err := run(t, "1\nέξοδα\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Ανάλυση για: Έξοδα")
	assert.Contains(t, out, "21 Παροχές")
	assert.Contains(t, out, "24 Αγορές")
	assert.NotContains(t, out, "11 Φόροι")
	assert.Contains(t, out, "18")
	assert.Contains(t, out, "Τέλος αναφοράς.")
}

func TestRun_ByMinistry(t *testing.T) {
	out, err := run(t, "2\nΥΠΟΥΡΓΕΙΟ ΥΓΕΙΑΣ\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Ανάλυση για ΥΠΟΥΡΓΕΙΟ: Υπουργείο Υγείας")
	assert.Contains(t, out, "24 Αγορές")
	assert.NotContains(t, out, "23 Μεταβιβάσεις")
}

func TestRun_RepromptsOnInvalidAnswers(t *testing.T) {
	out, err := run(t, "3\n\nabc\n2\nΥπουργείο Άμυνας\n-\nυπουργειο παιδειας\n")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "Μη έγκυρη επιλογή"))
	assert.Equal(t, 2, strings.Count(out, "Δεν βρέθηκε Υπουργείο"))
	assert.Contains(t, out, "Ανάλυση για ΥΠΟΥΡΓΕΙΟ: Υπουργείο Παιδείας")
}

func TestRun_RepromptsOnInvalidType(t *testing.T) {
	out, err := run(t, "1\nκάτι\nΕΣΟΔΑ\n")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "Μη έγκυρη τιμή"))
	assert.Contains(t, out, "Ανάλυση για: Έσοδα")
}

func TestRun_EndOfInput(t *testing.T) {
	_, err := run(t, "2\nκανένα\n")
	assert.ErrorIs(t, err, io.EOF)

	_, err = run(t, "")
	assert.ErrorIs(t, err, io.EOF)
}
