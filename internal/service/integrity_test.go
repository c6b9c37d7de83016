package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

func TestRunDoctorReportsAndFixesMalformedBlobs(t *testing.T) {
	t.Parallel()
	store := storage.NewMemoryStore()
	prefix := storage.NamespacePrefix("alice")
	require.NoError(t, store.Set(prefix+"water", []byte(`not json`)))
	require.NoError(t, store.Set(prefix+"fasting", []byte(`[
		{"id":"a","startTime":1,"endTime":null,"goalHours":16,"status":"active"},
		{"id":"b","startTime":5,"endTime":2,"goalHours":16,"status":"completed"}
	]`)))
	require.NoError(t, store.Set(prefix+"badges", []byte(`{"earned":["first-water-log","retired-badge"],"queue":[]}`)))

	report, err := service.RunDoctor(store, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"water"}, report.MalformedKeys)
	assert.Equal(t, 1, report.ActiveFasts)
	assert.Equal(t, 1, report.UnknownBadges)
	assert.True(t, report.MissingFirstActivity)
	assert.Contains(t, report.Issues, "fast b ends before it starts")
	assert.Empty(t, report.FixedKeys)
	assert.False(t, report.Healthy())

	report, err = service.RunDoctor(store, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"water"}, report.FixedKeys)

	report, err = service.RunDoctor(store, "alice", false)
	require.NoError(t, err)
	assert.Empty(t, report.MalformedKeys)
}

func TestRunDoctorHealthyUser(t *testing.T) {
	t.Parallel()
	store := storage.NewMemoryStore()
	tr, clock := newTracker(t, store, "alice")
	seedTracker(t, tr, clock)

	report, err := service.RunDoctor(store, "alice", false)
	require.NoError(t, err)
	assert.True(t, report.Healthy(), "%+v", report)

	_, err = service.RunDoctor(store, "", false)
	assert.Error(t, err)
}

func TestBackupCreateListRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backups := service.NewBackupStore(memblob.OpenBucket(nil))
	defer backups.Close()

	store := storage.NewMemoryStore()
	tr, clock := newTracker(t, store, "alice")
	seedTracker(t, tr, clock)

	info, err := backups.Create(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, "alice/20261015T100000.000Z.json", info.Key)
	assert.Len(t, info.Checksum, 64)

	list, err := backups.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, info.Key, list[0].Key)
	assert.Equal(t, info.Checksum, list[0].Checksum)

	others, err := backups.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, others)

	want := tr.Snapshot().Streams
	for _, e := range tr.Water() {
		require.NoError(t, tr.DeleteWater(e.ID))
	}
	_, err = tr.AddWater(service.WaterInput{AmountMl: 999})
	require.NoError(t, err)

	_, err = backups.Restore(ctx, info.Key, tr, service.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, want, tr.Snapshot().Streams)
}

func TestBackupRestoreRejectsTamperedObject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	backups := service.NewBackupStore(bucket)
	defer backups.Close()

	tr, _ := newTracker(t, storage.NewMemoryStore(), "alice")
	err := bucket.WriteAll(ctx, "alice/bad.json", []byte(`{"version":1}`), &blob.WriterOptions{
		Metadata: map[string]string{"sha256": "0000"},
	})
	require.NoError(t, err)

	_, err = backups.Restore(ctx, "alice/bad.json", tr, service.ImportOptions{})
	assert.ErrorContains(t, err, "checksum mismatch")
}

func TestCheckStreamsFindsDuplicatesAndBadValues(t *testing.T) {
	t.Parallel()
	issues := service.CheckStreams(model.Streams{
		Water:    []model.WaterEntry{{ID: "w", AmountMl: 0}},
		Food:     []model.FoodEntry{{ID: "f"}, {ID: "f"}, {ID: "g", Macros: model.Macros{Protein: -2}}},
		Activity: []model.ActivityEntry{{ID: "a", DurationMinutes: 0, CaloriesBurned: -1}},
		Sleep:    []model.SleepEntry{{ID: "s", DurationMinutes: 400}, {ID: "t", DurationMinutes: 400, Quality: model.SleepGood}},
		Weight:   []model.WeightEntry{{ID: ""}},
	})
	assert.Contains(t, issues, "duplicate food id f")
	assert.Contains(t, issues, "water w has non-positive amount")
	assert.Contains(t, issues, "weight entry without id")
	assert.Contains(t, issues, "food g has negative macros")
	assert.Contains(t, issues, "activity a has non-positive duration")
	assert.Contains(t, issues, "activity a has negative calories burned")
	assert.Contains(t, issues, `sleep s has unknown quality ""`)
	assert.NotContains(t, issues, `sleep t has unknown quality "good"`)
}
