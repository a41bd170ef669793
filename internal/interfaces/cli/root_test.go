package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem/pubchemtest"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

const testConfigYAML = `
database:
  host: localhost
  user: sds
  db_name: sds
session:
  store: memory
log:
  level: error
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o644))
	return path
}

type fakeMigrator struct {
	version uint
	dirty   bool
	upErr   error
	calls   []string
	closed  bool
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	if f.upErr != nil {
		return f.upErr
	}
	f.version = 2
	return nil
}

func (f *fakeMigrator) Down(steps int) error {
	f.calls = append(f.calls, "down")
	f.version -= uint(steps)
	return nil
}

func (f *fakeMigrator) Status() (uint, bool, error) { return f.version, f.dirty, nil }

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force")
	f.version = uint(version)
	f.dirty = false
	return nil
}

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

func testDependencies(m *fakeMigrator) Dependencies {
	return Dependencies{
		Compounds: func(*CLIContext) (CompoundLookup, error) {
			return pubchemtest.NewResolver(pubchemtest.NewTransport(), logging.NewNopLogger()), nil
		},
		Migrator: func(*CLIContext) (SchemaMigrator, error) { return m, nil },
	}
}

func run(t *testing.T, deps Dependencies, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommandWith(deps)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", writeConfig(t), "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "sdsctl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Contains(t, cmd.Version, Version)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"resolve", "autopop", "migrate"}, names)
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("output").DefValue)
	assert.Equal(t, "30s", cmd.PersistentFlags().Lookup("timeout").DefValue)
}

func TestGetCLIContext_Missing(t *testing.T) {
	_, err := GetCLIContext(&cobra.Command{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	cmd := NewRootCommandWith(testDependencies(&fakeMigrator{}))
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "migrate", "status"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestResolve_Text(t *testing.T) {
	out, err := run(t, testDependencies(&fakeMigrator{}), "resolve", pubchemtest.TolueneCAS)
	require.NoError(t, err)
	assert.Contains(t, out, "CID:         1140")
	assert.Contains(t, out, "Name:        toluene")
	assert.Contains(t, out, "Signal word: Danger")
	assert.Contains(t, out, "H225: Highly Flammable liquid and vapor")
}

func TestResolve_JSON(t *testing.T) {
	out, err := run(t, testDependencies(&fakeMigrator{}), "-o", "json", "resolve", pubchemtest.TolueneCAS)
	require.NoError(t, err)

	var got CompoundSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, pubchemtest.TolueneCAS, got.CAS)
	assert.Equal(t, int64(pubchemtest.TolueneCID), got.CID)
	assert.Equal(t, "Danger", got.SignalWord)
	assert.NotEmpty(t, got.HazardCodes)
}

func TestResolve_UnknownCAS(t *testing.T) {
	_, err := run(t, testDependencies(&fakeMigrator{}), "resolve", pubchemtest.UnknownCAS)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePubChemNotFound))
}

func TestResolve_RequiresOneArg(t *testing.T) {
	_, err := run(t, testDependencies(&fakeMigrator{}), "resolve")
	require.Error(t, err)
}

func TestAutopop_JSON(t *testing.T) {
	out, err := run(t, testDependencies(&fakeMigrator{}), "-o", "json", "autopop", pubchemtest.TolueneCAS)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Toluene", got["chemical_name"])
	assert.NotEmpty(t, got["boiling_point"])
	assert.Contains(t, got, "acute_toxicity_estimates")
}

func TestAutopop_Table(t *testing.T) {
	out, err := run(t, testDependencies(&fakeMigrator{}), "-o", "table", "autopop", pubchemtest.TolueneCAS)
	require.NoError(t, err)
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "chemical_name")
	assert.Contains(t, out, "Toluene")
}

func TestAutopop_UnknownCAS(t *testing.T) {
	_, err := run(t, testDependencies(&fakeMigrator{}), "autopop", pubchemtest.UnknownCAS)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestMigrate_Up(t *testing.T) {
	m := &fakeMigrator{}
	out, err := run(t, testDependencies(m), "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, []string{"up"}, m.calls)
	assert.True(t, m.closed)
	assert.Contains(t, out, "version 2")
}

func TestMigrate_UpError(t *testing.T) {
	m := &fakeMigrator{upErr: assert.AnError}
	_, err := run(t, testDependencies(m), "migrate", "up")
	require.ErrorIs(t, err, assert.AnError)
	assert.True(t, m.closed)
}

func TestMigrate_Down(t *testing.T) {
	m := &fakeMigrator{version: 2}
	out, err := run(t, testDependencies(m), "-o", "json", "migrate", "down", "1")
	require.NoError(t, err)

	var got MigrationStatus
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, uint(1), got.Version)
}

func TestMigrate_DownRejectsBadSteps(t *testing.T) {
	for _, arg := range []string{"0", "-1", "two"} {
		m := &fakeMigrator{version: 2}
		_, err := run(t, testDependencies(m), "migrate", "down", arg)
		require.Error(t, err, arg)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest), arg)
		assert.Empty(t, m.calls, arg)
	}
}

func TestMigrate_NegativeAfterDoubleDash(t *testing.T) {
	m := &fakeMigrator{version: 2}
	_, err := run(t, testDependencies(m), "migrate", "down", "--", "-1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
	assert.Empty(t, m.calls)
}

func TestMigrate_ForceRejectsNegativeVersion(t *testing.T) {
	m := &fakeMigrator{version: 2}
	_, err := run(t, testDependencies(m), "migrate", "force", "-3")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
	assert.Empty(t, m.calls)
}

func TestMigrate_StatusDirty(t *testing.T) {
	m := &fakeMigrator{version: 2, dirty: true}
	out, err := run(t, testDependencies(m), "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "version 2 (dirty)")
}

func TestMigrate_Force(t *testing.T) {
	m := &fakeMigrator{version: 2, dirty: true}
	out, err := run(t, testDependencies(m), "migrate", "force", "1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), m.version)
	assert.False(t, m.dirty)
	assert.Contains(t, out, "OK: forced version 1")
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"A", "LONGER"}, [][]string{{"xyz", "1"}, {"q"}})
	assert.Equal(t, "A    LONGER\n---  ------\nxyz  1     \nq          \n", out)
	assert.Empty(t, FormatTable(nil, nil))
}

func TestPrintResult_FallsBackToJSONWithoutContext(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	require.NoError(t, PrintResult(cmd, MigrationStatus{Version: 3}))
	assert.JSONEq(t, `{"version":3,"dirty":false}`, buf.String())
}

func TestPrintTable_NonTableFallsBackToText(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	require.NoError(t, printTable(cmd, "plain"))
	assert.Equal(t, "plain\n", buf.String())
}

//Personal.AI order the ending
