package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/flatkit/format"
)

func resetConvertFlags(t *testing.T) {
	t.Helper()

	saved := convertFlags
	t.Cleanup(func() { convertFlags = saved })
}

func TestResolveInputType(t *testing.T) {
	resetConvertFlags(t)

	tests := []struct {
		name       string
		input      string
		formatName string
		want       format.InputType
		wantErr    bool
	}{
		{name: "explicit flag wins", input: "data.yaml", formatName: "json", want: format.InputJSON},
		{name: "json extension", input: "data.json", want: format.InputJSON},
		{name: "jsonl extension", input: "data.jsonl", want: format.InputJSON},
		{name: "yaml extension", input: "data.yaml", want: format.InputYAML},
		{name: "yml extension", input: "data.yml", want: format.InputYAML},
		{name: "msgpack extension", input: "data.mp", want: format.InputMsgPack},
		{name: "stdin needs flag", input: "-", wantErr: true},
		{name: "unknown extension", input: "data.bin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			convertFlags.input = tt.input
			convertFlags.formatName = tt.formatName

			got, err := resolveInputType()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "flatkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"separator = \"/\"\ndelimiter = \";\"\nworkers = 4\n",
	), 0o600))

	cfg, err := loadFileConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/", cfg.Separator)
	require.Equal(t, ";", cfg.Delimiter)
	require.Equal(t, 4, cfg.Workers)
}

func TestLoadFileConfig_UnknownKey(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "flatkit.toml")
	require.NoError(t, os.WriteFile(path, []byte("seperator = \"/\"\n"), 0o600))

	_, err := loadFileConfig(path)
	require.ErrorContains(t, err, "unknown key")
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	resetConvertFlags(t)

	cmd := convertCmd
	require.NoError(t, cmd.Flags().Set("delimiter", "|"))
	t.Cleanup(func() {
		cmd.Flags().Lookup("delimiter").Changed = false
		convertFlags.delimiter = ","
	})

	applyFileConfig(cmd, fileConfig{Delimiter: ";", Separator: "/"})

	// The explicitly set flag keeps its value; the untouched one follows the file.
	require.Equal(t, "|", convertFlags.delimiter)
	require.Equal(t, "/", convertFlags.separator)
}

func TestRunConvert_EndToEnd(t *testing.T) {
	resetConvertFlags(t)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "records.json")
	outPath := filepath.Join(dir, "records.csv")
	require.NoError(t, os.WriteFile(inPath, []byte(
		`[{"a":1,"b":{"x":2}},{"a":3,"c":[4,5]}]`,
	), 0o600))

	convertFlags.input = inPath
	convertFlags.output = outPath
	convertFlags.formatName = ""

	require.NoError(t, runConvert(convertCmd, nil))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "a,b.x,c[0],c[1]\n1,2,,\n3,,4,5\n", string(got))
}

func TestRunConvert_FailureRemovesOutput(t *testing.T) {
	resetConvertFlags(t)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "records.json")
	outPath := filepath.Join(dir, "records.csv")
	require.NoError(t, os.WriteFile(inPath, []byte(`[{"a":1},`), 0o600))

	convertFlags.input = inPath
	convertFlags.output = outPath

	require.Error(t, runConvert(convertCmd, nil))

	_, err := os.Stat(outPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}
