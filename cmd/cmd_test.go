package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/courier/internal/input"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestCostCommand(t *testing.T) {
	out, _, err := execute(t, "100 3\nPKG1 5 5 OFR001\nPKG2 15 5 OFR002\nPKG3 10 100 OFR003\n", "cost")
	require.NoError(t, err)
	assert.Equal(t, "PKG1 0 175\nPKG2 0 275\nPKG3 35 665\n", out)
}

func TestTimeCommand(t *testing.T) {
	in := "100 5\nPKG1 50 30 OFR001\nPKG2 75 125 OFFR0008\nPKG3 175 100 OFFR003\nPKG4 110 60 OFR002\nPKG5 155 95 NA\n2 70 200\n"
	out, errOut, err := execute(t, in, "time", "--summary")
	require.NoError(t, err)
	assert.Equal(t, "PKG1 0 750 4\nPKG2 0 1475 1.79\nPKG3 0 2350 1.43\nPKG4 105 1395 0.86\nPKG5 0 2125 4.21\n", out)
	assert.Contains(t, errOut, "delivered=5")
}

func TestTimeCommand_Undeliverable(t *testing.T) {
	out, errOut, err := execute(t, "100 2\nPKG1 60 30 NA\nPKG2 40 40 NA\n1 70 50\n", "time")
	require.NoError(t, err)
	assert.Equal(t, "PKG1 0 850 N/A\nPKG2 0 700 0.57\n", out)
	assert.Contains(t, errOut, "package PKG1 could not be estimated")
}

func TestCostCommand_CSV(t *testing.T) {
	out, _, err := execute(t, "100 1\nPKG3 10 100 OFR003\n", "cost", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,discount,total_cost\nPKG3,35,665\n", out)
}

func TestCostCommand_EnvFile(t *testing.T) {
	const key = "COURIER_OUTPUT__FORMAT"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=csv\n"), 0o644))

	out, _, err := execute(t, "100 1\nPKG3 10 100 OFR003\n", "cost", "--env-file", path)
	require.NoError(t, err)
	assert.Equal(t, "id,discount,total_cost\nPKG3,35,665\n", out)
}

func TestValidationError(t *testing.T) {
	out, _, err := execute(t, "100 1\nPKG1 5 5\n", "cost")
	var ve *input.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Empty(t, out)
	assert.Equal(t, "Error: line 2: package information should contain ID, weight, distance, and offer code separated by spaces (line: PKG1 5 5)", ErrorMessage(err))
}

func TestErrorMessage(t *testing.T) {
	ve := &input.ValidationError{Line: 3, Msg: "weight should be a positive number"}
	assert.Equal(t, "Error: line 3: weight should be a positive number", ErrorMessage(fmt.Errorf("run: read batch: %w", ve)))
	assert.Equal(t, "Error: load config: boom", ErrorMessage(fmt.Errorf("load config: %w", errors.New("boom"))))
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, _, err := execute(t, "0 0\n", "cost", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "load config")
}

func TestOffersLs(t *testing.T) {
	out, _, err := execute(t, "", "offers", "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "CODE")
	assert.Contains(t, lines[1], "OFR001")
	assert.Contains(t, lines[1], "(-inf, 200)")
	assert.Contains(t, lines[1], "[70, 200]")
}

func TestOffersLs_FromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courier.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offers:\n  - code: SUMMER\n    discount: 12.5\n"), 0o644))
	out, _, err := execute(t, "", "offers", "ls", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SUMMER")
	assert.Contains(t, out, "12.5%")
	assert.NotContains(t, out, "OFR001")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "courier dev\n", out)
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "0 0\n", "cost", "--format", "xml")
	assert.Error(t, err)
}
