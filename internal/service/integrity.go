package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/ADILE66/OptilifeAI-sub001/internal/badge"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

const checksumKey = "sha256"

type BackupInfo struct {
	Key       string    `json:"key"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	User                 string   `json:"user"`
	MalformedKeys        []string `json:"malformed_keys,omitempty"`
	ActiveFasts          int      `json:"active_fasts"`
	Issues               []string `json:"issues,omitempty"`
	UnknownBadges        int      `json:"unknown_badges"`
	MissingFirstActivity bool     `json:"missing_first_activity"`
	FixedKeys            []string `json:"fixed_keys,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return len(r.MalformedKeys) == 0 && len(r.Issues) == 0 && r.UnknownBadges == 0 && !r.MissingFirstActivity
}

// CheckStreams lists structural problems such as duplicate ids, impossible
// fasts, more than one active fast and values no add operation accepts.
func CheckStreams(s model.Streams) []string {
	issues := make([]string, 0)
	dup := func(kind string, ids []string) {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if strings.TrimSpace(id) == "" {
				issues = append(issues, fmt.Sprintf("%s entry without id", kind))
				continue
			}
			if _, ok := seen[id]; ok {
				issues = append(issues, fmt.Sprintf("duplicate %s id %s", kind, id))
			}
			seen[id] = struct{}{}
		}
	}
	dup("water", idsOf(s.Water, func(e model.WaterEntry) string { return e.ID }))
	dup("food", idsOf(s.Food, func(e model.FoodEntry) string { return e.ID }))
	dup("activity", idsOf(s.Activity, func(e model.ActivityEntry) string { return e.ID }))
	dup("fasting", idsOf(s.Fasting, func(e model.FastingSession) string { return e.ID }))
	dup("sleep", idsOf(s.Sleep, func(e model.SleepEntry) string { return e.ID }))
	dup("weight", idsOf(s.Weight, func(e model.WeightEntry) string { return e.ID }))

	for _, e := range s.Water {
		if e.AmountMl <= 0 {
			issues = append(issues, fmt.Sprintf("water %s has non-positive amount", e.ID))
		}
	}
	for _, e := range s.Food {
		m := e.Macros
		if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
			issues = append(issues, fmt.Sprintf("food %s has negative macros", e.ID))
		}
	}
	for _, e := range s.Activity {
		if e.DurationMinutes <= 0 {
			issues = append(issues, fmt.Sprintf("activity %s has non-positive duration", e.ID))
		}
		if e.CaloriesBurned < 0 {
			issues = append(issues, fmt.Sprintf("activity %s has negative calories burned", e.ID))
		}
	}
	for _, e := range s.Sleep {
		switch e.Quality {
		case model.SleepBad, model.SleepAverage, model.SleepGood, model.SleepExcellent:
		default:
			issues = append(issues, fmt.Sprintf("sleep %s has unknown quality %q", e.ID, e.Quality))
		}
	}
	for _, e := range s.Weight {
		if e.WeightKg <= 0 {
			issues = append(issues, fmt.Sprintf("weight %s has non-positive value", e.ID))
		}
	}
	active := 0
	for _, f := range s.Fasting {
		switch f.Status {
		case model.FastingActive:
			active++
			if f.EndTime != nil {
				issues = append(issues, fmt.Sprintf("active fast %s has an end time", f.ID))
			}
		case model.FastingCompleted:
			if f.EndTime == nil {
				issues = append(issues, fmt.Sprintf("completed fast %s has no end time", f.ID))
			} else if *f.EndTime < f.StartTime {
				issues = append(issues, fmt.Sprintf("fast %s ends before it starts", f.ID))
			}
		default:
			issues = append(issues, fmt.Sprintf("fast %s has unknown status %q", f.ID, f.Status))
		}
	}
	if active > 1 {
		issues = append(issues, fmt.Sprintf("%d active fasts (at most one allowed)", active))
	}
	return issues
}

// decodeInto assigns dst only when raw decodes cleanly.
func decodeInto[T any](dst *T) func([]byte) error {
	return func(raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func idsOf[T any](items []T, idOf func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, idOf(e))
	}
	return out
}

// RunDoctor inspects the persisted blobs of userID. With fix, malformed blobs
// are reset to their defaults so the next load is clean.
func RunDoctor(store storage.Store, userID string, fix bool) (DoctorReport, error) {
	report := DoctorReport{User: userID}
	if strings.TrimSpace(userID) == "" {
		return report, fmt.Errorf("user id is required")
	}
	if err := checkUserID(userID); err != nil {
		return report, err
	}
	ns := storage.Namespace(store, userID)

	defaults := map[string]any{
		keyWater:    []model.WaterEntry{},
		keyFood:     []model.FoodEntry{},
		keyActivity: []model.ActivityEntry{},
		keyFasting:  []model.FastingSession{},
		keySleep:    []model.SleepEntry{},
		keyWeight:   []model.WeightEntry{},
		keyGoals:    model.DefaultGoals(),
		keyProfile:  model.UserProfile{},
		keyBadges:   badgeState{Earned: []string{}, Queue: []string{}},
	}
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var streams model.Streams
	var badges badgeState
	decoders := map[string]func([]byte) error{
		keyWater:    decodeInto(&streams.Water),
		keyFood:     decodeInto(&streams.Food),
		keyActivity: decodeInto(&streams.Activity),
		keyFasting:  decodeInto(&streams.Fasting),
		keySleep:    decodeInto(&streams.Sleep),
		keyWeight:   decodeInto(&streams.Weight),
		keyGoals:    decodeInto(&model.UserGoals{}),
		keyProfile:  decodeInto(&model.UserProfile{}),
		keyBadges:   decodeInto(&badges),
	}
	for _, key := range keys {
		raw, ok, err := ns.Get(key)
		if err != nil {
			return report, fmt.Errorf("doctor read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := decoders[key](raw); err == nil {
			continue
		}
		report.MalformedKeys = append(report.MalformedKeys, key)
		if fix {
			def, err := json.Marshal(defaults[key])
			if err != nil {
				return report, fmt.Errorf("doctor encode default %s: %w", key, err)
			}
			if err := ns.Set(key, def); err != nil {
				return report, fmt.Errorf("doctor fix %s: %w", key, err)
			}
			report.FixedKeys = append(report.FixedKeys, key)
		}
	}

	report.Issues = CheckStreams(streams)
	for _, f := range streams.Fasting {
		if f.Status == model.FastingActive {
			report.ActiveFasts++
		}
	}
	for _, id := range badges.Earned {
		if _, ok := badge.Lookup(id); !ok {
			report.UnknownBadges++
		}
	}
	if countEntries(streams) > 0 {
		raw, ok, err := ns.Get(keyFirstActivity)
		if err != nil {
			return report, fmt.Errorf("doctor read %s: %w", keyFirstActivity, err)
		}
		var ms int64
		if !ok || json.Unmarshal(raw, &ms) != nil {
			report.MissingFirstActivity = true
		}
	}
	return report, nil
}

// BackupStore keeps export snapshots in a blob bucket, one object per
// backup under <user>/<timestamp>.json with its sha256 in the metadata.
type BackupStore struct {
	bucket *blob.Bucket
}

func NewBackupStore(bucket *blob.Bucket) *BackupStore {
	return &BackupStore{bucket: bucket}
}

// OpenBackupStore opens a bucket URL such as file:///path or mem://.
func OpenBackupStore(ctx context.Context, bucketURL string) (*BackupStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open backup bucket %q: %w", bucketURL, err)
	}
	return &BackupStore{bucket: bucket}, nil
}

func (b *BackupStore) Close() error {
	return b.bucket.Close()
}

func (b *BackupStore) Create(ctx context.Context, t *Tracker) (BackupInfo, error) {
	user := t.UserID()
	if user == "" {
		return BackupInfo{}, fmt.Errorf("no active user to back up")
	}
	raw, err := json.MarshalIndent(t.Export(), "", "  ")
	if err != nil {
		return BackupInfo{}, fmt.Errorf("encode backup: %w", err)
	}
	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])
	now := t.Now().UTC()
	key := path.Join(user, now.Format("20060102T150405.000Z")+".json")

	err = b.bucket.WriteAll(ctx, key, raw, &blob.WriterOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{checksumKey: checksum},
	})
	if err != nil {
		return BackupInfo{}, fmt.Errorf("write backup %s: %w", key, err)
	}
	t.log.Info("backup created", zap.String("key", key), zap.Int("bytes", len(raw)))
	return BackupInfo{Key: key, Checksum: checksum, CreatedAt: now, SizeBytes: int64(len(raw))}, nil
}

// List returns the backups of userID, newest first.
func (b *BackupStore) List(ctx context.Context, userID string) ([]BackupInfo, error) {
	out := make([]BackupInfo, 0)
	iter := b.bucket.List(&blob.ListOptions{Prefix: userID + "/"})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		info := BackupInfo{Key: obj.Key, CreatedAt: obj.ModTime, SizeBytes: obj.Size}
		if attrs, err := b.bucket.Attributes(ctx, obj.Key); err == nil {
			info.Checksum = attrs.Metadata[checksumKey]
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key > out[j].Key
	})
	return out, nil
}

// Restore verifies the checksum of key and imports it into the active user.
// The default mode is replace.
func (b *BackupStore) Restore(ctx context.Context, key string, t *Tracker, opts ImportOptions) (ImportReport, error) {
	raw, err := b.bucket.ReadAll(ctx, key)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read backup %s: %w", key, err)
	}
	attrs, err := b.bucket.Attributes(ctx, key)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read backup attributes %s: %w", key, err)
	}
	if expected := attrs.Metadata[checksumKey]; expected != "" {
		sum := sha256.Sum256(raw)
		if hex.EncodeToString(sum[:]) != expected {
			return ImportReport{}, fmt.Errorf("backup checksum mismatch")
		}
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ImportReport{}, fmt.Errorf("decode backup %s: %w", key, err)
	}
	if opts.Mode == "" {
		opts.Mode = ImportModeReplace
	}
	return t.Import(&data, opts)
}
