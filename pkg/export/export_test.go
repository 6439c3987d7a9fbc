package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/courier/core/model"
)

func samplePackages() []*model.Package {
	t1, t2 := 3.98571, 1.7857142857
	return []*model.Package{
		{ID: "PKG1", Discount: 0, TotalCost: 750, DeliveryAt: &t1},
		{ID: "PKG2", Discount: 71.5, TotalCost: 1403.5, DeliveryAt: &t2},
		{ID: "PKG3", Discount: 0, TotalCost: 2850},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, " json": FormatJSON, "csv": FormatCSV} {
		f, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, f)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteText_CostMode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, FromPackages(samplePackages(), false), false))
	assert.Equal(t, "PKG1 0 750\nPKG2 71.5 1403.5\nPKG3 0 2850\n", buf.String())
}

func TestWriteText_DecimalAmounts(t *testing.T) {
	base, weight, distance := 100.0, 33.33, 0.1
	total := base + weight*10 + distance*5 // 433.79999999999995
	require.NotEqual(t, 433.8, total)
	pkgs := []*model.Package{{ID: "PKG1", Discount: 0, TotalCost: total}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, FromPackages(pkgs, false), false))
	assert.Equal(t, "PKG1 0 433.8\n", buf.String())
	assert.Equal(t, 433.8, RoundAmount(total))
}

func TestWriteText_TimeMode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, FromPackages(samplePackages(), true), true))
	assert.Equal(t, "PKG1 0 750 3.99\nPKG2 71.5 1403.5 1.79\nPKG3 0 2850 N/A\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, FromPackages(samplePackages(), true)))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "PKG2", got[1]["id"])
	assert.Equal(t, 1.79, got[1]["delivery_time"])
	assert.Equal(t, true, got[2]["undeliverable"])
	assert.NotContains(t, got[2], "delivery_time")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, FromPackages(samplePackages(), true), true))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []string{"id", "discount", "total_cost", "delivery_time"}, recs[0])
	assert.Equal(t, []string{"PKG1", "0", "750", "3.99"}, recs[1])
	assert.Equal(t, []string{"PKG3", "0", "2850", "N/A"}, recs[3])
}

func TestRoundTime(t *testing.T) {
	assert.Equal(t, 4.0, RoundTime(280.0/70))
	assert.Equal(t, 0.86, RoundTime(60.0/70))
	assert.Equal(t, 4.21, RoundTime(295.0/70))
}
