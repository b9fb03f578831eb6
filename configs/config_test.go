package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		SocialBuAPIToken: "token",
		StrategicHours:   []int{10, 14, 18},
		ScheduleTZ:       "UTC",
		WorkerCount:      1,
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateMissingSocialBuToken(t *testing.T) {
	cfg := validConfig()
	cfg.SocialBuAPIToken = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateHourOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.StrategicHours = []int{10, 24}
	assert.Error(t, cfg.Validate())
}

func TestValidateBadTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.ScheduleTZ = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestValidateWorkerCount(t *testing.T) {
	cfg := validConfig()
	cfg.WorkerCount = 0
	assert.Error(t, cfg.Validate())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := validConfig()
	cfg.ScheduleTZ = "not-a-zone"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func writePagesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pages.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validPageJSON = `[{
	"name": "dogs",
	"account_name": "dogpage",
	"competitors": ["pupworld"],
	"caption_pool": ["Too cute"],
	"max_posts_to_fetch": 10,
	"top_posts_count": 3,
	"scheduling_account_id": 42
}]`

func TestLoadPages(t *testing.T) {
	pages, err := LoadPages(writePagesFile(t, validPageJSON))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "dogs", pages[0].Name)
	assert.Equal(t, int64(42), pages[0].SchedulingAccID)
}

func TestLoadPagesMissingFile(t *testing.T) {
	_, err := LoadPages(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadPagesEmpty(t *testing.T) {
	_, err := LoadPages(writePagesFile(t, `[]`))
	assert.Error(t, err)
}

func TestLoadPagesInvalidEntry(t *testing.T) {
	_, err := LoadPages(writePagesFile(t, `[{"name": "dogs"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dogs")
}

func TestLoadPagesDuplicateName(t *testing.T) {
	page := `{
		"name": "dogs",
		"competitors": ["pupworld"],
		"caption_pool": ["Too cute"],
		"max_posts_to_fetch": 10,
		"top_posts_count": 3,
		"scheduling_account_id": 42
	}`
	_, err := LoadPages(writePagesFile(t, "["+page+","+page+"]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
