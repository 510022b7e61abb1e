package budget

import (
	"testing"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPage_GatesItemsBeforeSection(t *testing.T) {
	s := NewScanner(testKeywords)

	items := s.ScanPage(4, []string{
		"11 Φόροι 100",
		"ΕΣΟΔΑ",
		"12 Κοινωνικές εισφορές 200",
	}, common.NoMinistry)

	require.Len(t, items, 1)
	assert.Equal(t, "12 Κοινωνικές εισφορές", items[0].Source)
	assert.Equal(t, common.Revenue, items[0].Type)
	assert.Equal(t, 3, items[0].Row)
	assert.Equal(t, 4, items[0].Page)
}

func TestScanPage_SectionCarriesAcrossPages(t *testing.T) {
	s := NewScanner(testKeywords)

	s.ScanPage(4, []string{"ΕΞΟΔΑ"}, common.NoMinistry)
	assert.Equal(t, common.InExpenditure, s.Section())

	items := s.ScanPage(5, []string{"  ", "2110101 Αποδοχές 1.500.000"}, "Υπουργείο Υγείας")
	require.Len(t, items, 1)
	assert.Equal(t, common.Expenditure, items[0].Type)
	assert.Equal(t, "Υπουργείο Υγείας", items[0].Ministry)
	assert.Equal(t, "2110101 Αποδοχές", items[0].Source)
	assert.Equal(t, "1.500.000", items[0].Amount)
}

func TestScanPage_SwitchesSection(t *testing.T) {
	s := NewScanner(testKeywords)

	items := s.ScanPage(4, []string{
		"ΕΣΟΔΑ",
		"11 Φόροι 100",
		"ΕΞΟΔΑ",
		"21 Παροχές σε εργαζόμενους 50",
	}, common.NoMinistry)

	require.Len(t, items, 2)
	assert.Equal(t, common.Revenue, items[0].Type)
	assert.Equal(t, common.Expenditure, items[1].Type)
}
