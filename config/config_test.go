/*
Copyright 2024 Venn Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "venn.json")
	content := `{
		"project_name": "venn-test",
		"server": {"port": "6001", "secret_key": "sk_test"},
		"data_source": {"dns": " postgres://localhost:5432/venn "},
		"matcher": {"acceptance_threshold": 75}
	}`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	require.NoError(t, InitConfig(file))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "venn-test", cnf.ProjectName)
	assert.Equal(t, "6001", cnf.Server.Port)
	assert.Equal(t, "postgres://localhost:5432/venn", cnf.DataSource.Dns, "DNS should be trimmed")
	assert.Equal(t, 75, cnf.Matcher.AcceptanceThreshold)
}

func TestMatcherDefaults(t *testing.T) {
	MockConfig(&Configuration{})

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, 50, cnf.Matcher.RuleAmountWeight)
	assert.Equal(t, 50, cnf.Matcher.RuleKeywordWeight)
	assert.Equal(t, 40, cnf.Matcher.InvoiceAmountWeight)
	assert.Equal(t, 30, cnf.Matcher.InvoiceVendorWeight)
	assert.Equal(t, 30, cnf.Matcher.InvoiceDateWeight)
	assert.Equal(t, 90, cnf.Matcher.AcceptanceThreshold)
	assert.Equal(t, "0.01", cnf.Matcher.AmountEpsilon)
	assert.Equal(t, 5, cnf.Matcher.DateWindowDays)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
}

func TestMatcherDefaultsDoNotOverrideExplicitWeights(t *testing.T) {
	MockConfig(&Configuration{
		Matcher: MatcherConfig{RuleAmountWeight: 60, RuleKeywordWeight: 40},
	})

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, 60, cnf.Matcher.RuleAmountWeight)
	assert.Equal(t, 40, cnf.Matcher.RuleKeywordWeight)
}

func TestInitConfigMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("VENN_SERVER_PORT", "7001")

	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "absent.json")))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "7001", cnf.Server.Port)
}
