package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/snoozewise/hrfilter/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Input  string
	Cutoff string
}

func TestInitViperConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		fileName string
		content  string

		wantInput  string
		wantCutoff string
		wantErr    bool
	}{
		"YAML config with quoted cutoff": {
			fileName:   "conf.yaml",
			content:    "input: in.json\ncutoff: \"2024-02-20 07:26:31\"\n",
			wantInput:  "in.json",
			wantCutoff: "2024-02-20 07:26:31",
		},
		"YAML config with unquoted cutoff": {
			fileName:   "conf.yaml",
			content:    "input: in.json\ncutoff: 2024-02-20 07:26:31\n",
			wantInput:  "in.json",
			wantCutoff: "2024-02-20 07:26:31",
		},
		"TOML config with local date-time cutoff": {
			fileName:   "conf.toml",
			content:    "input = \"in.json\"\ncutoff = 2024-02-20 07:26:31\n",
			wantInput:  "in.json",
			wantCutoff: "2024-02-20 07:26:31",
		},
		"TOML config with offset date-time cutoff": {
			fileName:   "conf.toml",
			content:    "cutoff = 2024-02-20T07:26:31Z\n",
			wantCutoff: "2024-02-20 07:26:31",
		},
		"JSON config": {
			fileName:   "conf.json",
			content:    `{"input": "in.json", "cutoff": "2024-01-01 00:00:00"}`,
			wantInput:  "in.json",
			wantCutoff: "2024-01-01 00:00:00",
		},

		// Error cases
		"Invalid config file": {
			fileName: "conf.yaml",
			content:  "input: [unterminated\n",
			wantErr:  true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := filepath.Join(t.TempDir(), tc.fileName)
			require.NoError(t, os.WriteFile(p, []byte(tc.content), 0600), "Setup: failed to write config file")

			cmd := &cobra.Command{Use: "hrfilter-config-test"}
			cli.InstallConfigFlag(cmd)
			require.NoError(t, cmd.ParseFlags([]string{"--config", p}), "Setup: failed to parse config flag")

			vip := viper.New()
			err := cli.InitViperConfig("hrfilter-config-test", cmd, vip)
			if tc.wantErr {
				require.Error(t, err, "InitViperConfig should return an error")
				return
			}
			require.NoError(t, err, "InitViperConfig should not return an error")

			var got testConfig
			require.NoError(t, vip.Unmarshal(&got, cli.DecodeHook("2006-01-02 15:04:05")), "Unmarshal should not return an error")
			require.Equal(t, tc.wantInput, got.Input, "Input should be read from the configuration file")
			require.Equal(t, tc.wantCutoff, got.Cutoff, "Cutoff should be rendered with the cutoff layout")
		})
	}
}

func TestInitViperConfigNoFile(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "hrfilter-no-such-config"}
	cli.InstallConfigFlag(cmd)

	vip := viper.New()
	vip.SetDefault("input", "default.json")
	require.NoError(t, cli.InitViperConfig("hrfilter-no-such-config", cmd, vip), "A missing configuration file should not be an error")

	var got testConfig
	require.NoError(t, vip.Unmarshal(&got, cli.DecodeHook("2006-01-02 15:04:05")), "Unmarshal should not return an error")
	require.Equal(t, "default.json", got.Input, "Defaults should be kept without a configuration file")
}
