package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/plantcare/internal/api"
	"github.com/manav03panchal/plantcare/internal/config"
	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/runtime"
	"github.com/manav03panchal/plantcare/internal/storage"
)

// resetFlags puts every flag back to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type harness struct {
	t      *testing.T
	dir    string
	config string
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	t.Setenv("PLANTCARE_DATABASE", filepath.Join(dir, "db"))
	t.Setenv("PLANTCARE_REMOTE", "")
	t.Setenv("PLANTCARE_WEBHOOK_URL", "")
	t.Setenv("PLANTCARE_TELEGRAM_TOKEN", "")
	t.Cleanup(func() {
		stdout = os.Stdout
		ctx = nil
	})
	return &harness{t: t, dir: dir, config: filepath.Join(dir, "config.yaml")}
}

// run executes the CLI and returns what it printed.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--config", h.config, "--color", "never"}, args...))
	err := Execute()
	return buf.String(), err
}

// runJSON executes the CLI in JSON mode and decodes the output into v.
func (h *harness) runJSON(v any, args ...string) {
	h.t.Helper()
	out, err := h.run(append([]string{"--format", "json"}, args...)...)
	require.NoError(h.t, err, out)
	require.NoError(h.t, json.Unmarshal([]byte(out), v), out)
}

func (h *harness) list() output.PlantsResponse {
	h.t.Helper()
	var resp output.PlantsResponse
	h.runJSON(&resp, "list")
	return resp
}

func (h *harness) show(ref string) *output.PlantOutput {
	h.t.Helper()
	var resp output.PlantResponse
	h.runJSON(&resp, "show", ref)
	return resp.Plant
}

// =============================================================================
// Plant commands
// =============================================================================

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	var created output.PlantResponse
	h.runJSON(&created, "add", "Boston", "Fern", "--species", "Nephrolepis", "--every", "1w")
	assert.Equal(t, "created", created.Status)
	assert.Equal(t, "Boston Fern", created.Plant.Name)
	assert.Equal(t, 7.0, created.Plant.WateringFrequencyDays)
	assert.Equal(t, 100.0, created.Plant.CurrentHealth)
	assert.Equal(t, "🌿", created.Plant.Emoji)

	h.runJSON(&created, "add", "Cactus", "--emoji", "🌵")

	resp := h.list()
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "Boston Fern", resp.Plants[0].Name)
	assert.Equal(t, "Cactus", resp.Plants[1].Name)

	var filtered output.PlantsResponse
	h.runJSON(&filtered, "list", "nephro")
	assert.Equal(t, 1, filtered.Count)
	assert.Equal(t, "nephro", filtered.Query)
}

func TestAddValidation(t *testing.T) {
	h := newHarness(t)

	t.Run("bad_frequency", func(t *testing.T) {
		_, err := h.run("add", "Fern", "--every", "sometimes")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidFrequency)
		assert.Equal(t, 2, runtime.ExitCode(err))
	})

	t.Run("future_last_watered", func(t *testing.T) {
		_, err := h.run("add", "Fern", "--last-watered", "in 3 days")
		require.Error(t, err)
		assert.True(t, errors.IsUserError(err))
	})

	t.Run("name_too_long", func(t *testing.T) {
		_, err := h.run("add", string(bytes.Repeat([]byte("x"), 65)))
		require.Error(t, err)
		assert.True(t, errors.IsUserError(err))
	})

	assert.Equal(t, 0, h.list().Count)
}

func TestWaterAndUndo(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern", "--every", "3", "--last-watered", "2 days ago")

	var watered output.WaterResponse
	h.runJSON(&watered, "water", "fern")
	assert.Equal(t, "watered", watered.Status)
	assert.Equal(t, 1, watered.Plant.WateringStreak)
	assert.Equal(t, 0, watered.PreviousStreak)
	assert.False(t, watered.StreakReset)

	var undone output.UndoResponse
	h.runJSON(&undone, "undo")
	assert.Equal(t, "undone", undone.Status)
	assert.Equal(t, "water", undone.Action)
	assert.Equal(t, created.Plant.ID, undone.PlantID)

	assert.Equal(t, 0, h.show("fern").WateringStreak)

	var nothing map[string]string
	h.runJSON(&nothing, "undo")
	assert.Equal(t, "nothing_to_undo", nothing["status"])
}

func TestWaterMany(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern")
	h.runJSON(&created, "add", "Cactus")

	var results []output.WaterResponse
	h.runJSON(&results, "water", "fern", "cactus")
	require.Len(t, results, 2)
	assert.Equal(t, "Fern", results[0].Plant.Name)
	assert.Equal(t, "Cactus", results[1].Plant.Name)
}

func TestWaterThirsty(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern", "--every", "3", "--last-watered", "10 days ago")
	h.runJSON(&created, "add", "Cactus", "--every", "14")

	var watered output.WaterResponse
	h.runJSON(&watered, "water", "--thirsty")
	assert.Equal(t, "Fern", watered.Plant.Name)
	assert.False(t, h.show("fern").IsDue)
}

func TestWaterThirstyNamedOnce(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern", "--every", "3", "--last-watered", "4 days ago")

	var watered output.WaterResponse
	h.runJSON(&watered, "water", "--thirsty", "fern")
	assert.Equal(t, "Fern", watered.Plant.Name)
	assert.Equal(t, 1, watered.Plant.WateringStreak)

	assert.Equal(t, 1, h.show("fern").WateringStreak)
}

func TestWaterErrors(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern")

	t.Run("unknown_plant", func(t *testing.T) {
		_, err := h.run("water", "orchid")
		assert.ErrorIs(t, err, errors.ErrPlantNotFound)
	})

	t.Run("no_plant", func(t *testing.T) {
		_, err := h.run("water")
		assert.ErrorIs(t, err, errors.ErrPlantRequired)
	})

	t.Run("future_time", func(t *testing.T) {
		_, err := h.run("water", "fern", "--at", "tomorrow")
		require.Error(t, err)
		assert.True(t, errors.IsUserError(err))
	})

	t.Run("before_last_watering", func(t *testing.T) {
		_, err := h.run("water", "fern", "--at", "1 hour ago")
		assert.ErrorIs(t, err, errors.ErrWateredBeforeLast)
		assert.True(t, errors.IsUserError(err))
		assert.Equal(t, 0, h.show("fern").WateringStreak)
	})

	t.Run("past_time", func(t *testing.T) {
		h.runJSON(&created, "add", "Orchid", "--last-watered", "3 days ago")

		var watered output.WaterResponse
		h.runJSON(&watered, "water", "orchid", "--at", "1 hour ago")
		at, err := time.Parse(time.RFC3339, watered.Plant.LastWatered)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(-time.Hour), at, 5*time.Minute)
	})
}

func TestEditAndDelete(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern")

	var edited output.PlantResponse
	h.runJSON(&edited, "edit", "fern", "--name", "Boston Fern", "--every", "2w")
	assert.Equal(t, "updated", edited.Status)
	assert.Equal(t, "Boston Fern", edited.Plant.Name)
	assert.Equal(t, 14.0, edited.Plant.WateringFrequencyDays)

	_, err := h.run("edit", "boston fern")
	assert.True(t, errors.IsUserError(err), "empty edit is rejected")

	var deleted output.DeleteResponse
	h.runJSON(&deleted, "delete", "boston fern")
	assert.Equal(t, created.Plant.ID, deleted.ID)
	assert.Equal(t, 0, h.list().Count)

	var undone output.UndoResponse
	h.runJSON(&undone, "undo")
	assert.Equal(t, "delete", undone.Action)
	assert.Equal(t, "Boston Fern", h.show(created.Plant.ID[:8]).Name)
}

func TestStatsAndSummary(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern")
	h.runJSON(&created, "add", "Cactus", "--every", "3", "--last-watered", "13 days ago")

	var stats output.StatsResponse
	h.runJSON(&stats, "stats")
	assert.Equal(t, 2, stats.TotalPlants)
	assert.Equal(t, 1, stats.HealthyPlants)
	assert.Equal(t, 75, stats.AverageHealth)

	out, err := h.run()
	require.NoError(t, err)
	assert.Contains(t, out, "Garden")
	assert.Contains(t, out, "Needs water")
	assert.Contains(t, out, "Cactus")
}

func TestListPlainOutput(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No plants yet")

	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern")

	out, err = h.run("--format", "plain", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "PLANT")
	assert.Contains(t, out, "Fern")
}

// =============================================================================
// Export / import
// =============================================================================

func TestExportImport(t *testing.T) {
	for _, ext := range []string{"json", "db"} {
		t.Run(ext, func(t *testing.T) {
			src := newHarness(t)
			var created output.PlantResponse
			src.runJSON(&created, "add", "Fern", "--every", "3", "--last-watered", "1 day ago")
			src.runJSON(&created, "add", "Cactus", "--every", "14")

			file := filepath.Join(t.TempDir(), "garden."+ext)
			var exported output.TransferResponse
			src.runJSON(&exported, "export", "-o", file)
			assert.Equal(t, 2, exported.Count)

			dst := newHarness(t)
			var imported output.TransferResponse
			dst.runJSON(&imported, "import", file)
			assert.Equal(t, "imported", imported.Status)
			assert.Equal(t, 2, imported.Count)

			plants := dst.list()
			require.Equal(t, 2, plants.Count)
			assert.Equal(t, "Cactus", plants.Plants[0].Name)
			assert.Equal(t, 14.0, plants.Plants[0].WateringFrequencyDays)
		})
	}
}

func TestExportStdout(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern")

	out, err := h.run("export")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Fern"`)

	_, err = h.run("export", "--adapter", "sqlite")
	assert.True(t, errors.IsUserError(err))

	_, err = h.run("export", "--adapter", "csv", "-o", "x.csv")
	assert.ErrorIs(t, err, errors.ErrInvalidAdapter)
}

func TestImportMissingFile(t *testing.T) {
	h := newHarness(t)

	var resp output.TransferResponse
	h.runJSON(&resp, "import", filepath.Join(h.dir, "missing.json"))
	assert.Equal(t, "empty", resp.Status)
}

func TestAdapterKind(t *testing.T) {
	kind, err := adapterKind("", "garden.SQLite")
	require.NoError(t, err)
	assert.EqualValues(t, "sqlite", kind)

	kind, err = adapterKind("", "garden.json")
	require.NoError(t, err)
	assert.EqualValues(t, "json", kind)

	kind, err = adapterKind("JSON", "garden.db")
	require.NoError(t, err)
	assert.EqualValues(t, "json", kind)
}

// =============================================================================
// Reminders
// =============================================================================

func TestRemindOnce(t *testing.T) {
	h := newHarness(t)
	var created output.PlantResponse
	h.runJSON(&created, "add", "Fern", "--every", "3", "--last-watered", "10 days ago")
	h.runJSON(&created, "add", "Cactus", "--every", "14")

	var resp output.RemindResponse
	h.runJSON(&resp, "remind", "--once")
	assert.Equal(t, 2, resp.Checked)
	require.Len(t, resp.Thirsty, 1)
	assert.Equal(t, "Fern", resp.Thirsty[0].Name)
	assert.Equal(t, 0, resp.Notified)
}

func TestRemindErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("remind", "--test")
	assert.True(t, errors.IsUserError(err))

	_, err = h.run("remind", "--once", "--schedule", "every day")
	assert.True(t, errors.IsUserError(err))
}

// =============================================================================
// Config
// =============================================================================

func TestConfigShowMasksSecrets(t *testing.T) {
	h := newHarness(t)
	t.Setenv("PLANTCARE_TELEGRAM_TOKEN", "123456:secret-token")

	out, err := h.run("config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "secret-token")
	assert.Contains(t, out, "0 0 9 * * *")

	var shown map[string]any
	h.runJSON(&shown, "config", "show")
	assert.Contains(t, shown, "reminder")
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t)

	var resp map[string]string
	h.runJSON(&resp, "config", "init")
	assert.Equal(t, h.config, resp["path"])

	loaded, err := config.Load(h.config)
	require.NoError(t, err)
	assert.Equal(t, "0 0 9 * * *", loaded.Reminder.Schedule)

	_, err = h.run("config", "init")
	assert.True(t, errors.IsUserError(err))

	h.runJSON(&resp, "config", "init", "--force")
	assert.Equal(t, "created", resp["status"])
}

func TestBadGlobalFlags(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("--format", "xml", "list")
	assert.True(t, errors.IsUserError(err))

	_, err = h.run("--remote", "nope", "list")
	assert.True(t, errors.IsUserError(err))
}

// =============================================================================
// Remote mode
// =============================================================================

func TestRemoteMode(t *testing.T) {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := storage.NewPlantRepo(db)

	srv := httptest.NewServer(api.NewServer(repo, config.DefaultRuntimeConfig().Server).Handler())
	t.Cleanup(srv.Close)

	h := newHarness(t)

	var created output.PlantResponse
	h.runJSON(&created, "--remote", srv.URL, "add", "Fern", "--every", "3")
	assert.NotEmpty(t, created.Plant.Owner)

	stored, err := repo.Get(created.Plant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fern", stored.Name)

	var watered output.WaterResponse
	h.runJSON(&watered, "--remote", srv.URL, "water", "fern")
	assert.Equal(t, 1, watered.Plant.WateringStreak)

	var listed output.PlantsResponse
	h.runJSON(&listed, "--remote", srv.URL, "list")
	assert.Equal(t, 1, listed.Count)

	_, err = h.run("--remote", srv.URL, "water", "fern", "--at", "1 hour ago")
	assert.True(t, errors.IsUserError(err))

	_, err = h.run("--remote", srv.URL, "undo")
	assert.True(t, errors.IsUserError(err))

	_, err = h.run("--remote", srv.URL, "import", "garden.json")
	assert.True(t, errors.IsUserError(err))

	var deleted output.DeleteResponse
	h.runJSON(&deleted, "--remote", srv.URL, "delete", "fern")
	assert.Equal(t, created.Plant.ID, deleted.ID)

	assert.Equal(t, 0, h.list().Count, "local store is untouched")
}

func TestRemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	h := newHarness(t)
	_, err := h.run("--remote", url, "list")
	assert.ErrorIs(t, err, errors.ErrRemoteUnavailable)
	assert.Equal(t, 1, runtime.ExitCode(err))
}
