package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/badge"
	"github.com/ADILE66/OptilifeAI-sub001/internal/fasting"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

// Persistence keys inside a user namespace.
const (
	keyWater         = "water"
	keyFood          = "food"
	keyActivity      = "activity"
	keyFasting       = "fasting"
	keySleep         = "sleep"
	keyWeight        = "weight"
	keyGoals         = "goals"
	keyProfile       = "profile"
	keyBadges        = "badges"
	keyFirstActivity = "firstActivity"
)

var ErrNotFound = errors.New("not found")

type state struct {
	water         []model.WaterEntry
	food          []model.FoodEntry
	activity      []model.ActivityEntry
	fasting       []model.FastingSession
	sleep         []model.SleepEntry
	weight        []model.WeightEntry
	goals         model.UserGoals
	profile       model.UserProfile
	earned        []string
	queue         []string
	firstActivity *int64
}

func emptyState() state {
	return state{goals: model.DefaultGoals()}
}

// Tracker owns every log stream of the active user. Each mutation validates,
// writes the new collection, commits it in memory, then runs the badge pass,
// all under one lock.
type Tracker struct {
	mu     sync.Mutex
	store  storage.Store
	ns     storage.Store
	user   string
	st     state
	engine *badge.Engine
	policy fasting.Policy
	log    *zap.Logger
	clock  func() time.Time
	newID  func() string
}

type Option func(*Tracker)

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

func WithRuleEngine(e *badge.Engine) Option {
	return func(t *Tracker) { t.engine = e }
}

// WithStrictFasting rejects a second start and deletion of the active fast.
func WithStrictFasting(strict bool) Option {
	return func(t *Tracker) { t.policy = fasting.Policy{Strict: strict} }
}

// NewTracker returns an inert tracker; call Reset to load a user. A nil store
// keeps it inert permanently.
func NewTracker(store storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		st:     emptyState(),
		engine: badge.NewEngine(),
		log:    zap.NewNop(),
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset discards all in-memory state and reloads it for userID. An empty id
// leaves the tracker inert, and so does a rejected one.
func (t *Tracker) Reset(userID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.user = ""
	t.ns = nil
	t.st = emptyState()
	if userID == "" {
		return nil
	}
	if err := checkUserID(userID); err != nil {
		return err
	}
	if t.store == nil {
		t.log.Warn("no storage configured; tracker stays inert", zap.String("user", userID))
		return nil
	}

	ns := storage.Namespace(t.store, userID)
	st, err := loadState(ns, t.log.With(zap.String("user", userID)))
	if err != nil {
		return fmt.Errorf("load user %q: %w", userID, err)
	}
	t.user = userID
	t.ns = ns
	t.st = st
	t.log.Debug("tracker loaded", zap.String("user", userID),
		zap.Int("water", len(st.water)), zap.Int("food", len(st.food)),
		zap.Int("activity", len(st.activity)), zap.Int("fasting", len(st.fasting)),
		zap.Int("sleep", len(st.sleep)), zap.Int("weight", len(st.weight)))
	return nil
}

func loadState(ns storage.Store, log *zap.Logger) (state, error) {
	st := emptyState()
	var err error
	if st.water, err = loadKey(ns, keyWater, []model.WaterEntry{}, log); err != nil {
		return st, err
	}
	if st.food, err = loadKey(ns, keyFood, []model.FoodEntry{}, log); err != nil {
		return st, err
	}
	if st.activity, err = loadKey(ns, keyActivity, []model.ActivityEntry{}, log); err != nil {
		return st, err
	}
	if st.fasting, err = loadKey(ns, keyFasting, []model.FastingSession{}, log); err != nil {
		return st, err
	}
	if st.sleep, err = loadKey(ns, keySleep, []model.SleepEntry{}, log); err != nil {
		return st, err
	}
	if st.weight, err = loadKey(ns, keyWeight, []model.WeightEntry{}, log); err != nil {
		return st, err
	}
	if st.goals, err = loadKey(ns, keyGoals, model.DefaultGoals(), log); err != nil {
		return st, err
	}
	if st.profile, err = loadKey(ns, keyProfile, model.UserProfile{}, log); err != nil {
		return st, err
	}
	badges, err := loadKey(ns, keyBadges, badgeState{}, log)
	if err != nil {
		return st, err
	}
	st.earned, st.queue = badges.ids()
	if st.firstActivity, err = loadKey[*int64](ns, keyFirstActivity, nil, log); err != nil {
		return st, err
	}
	return st, nil
}

// loadKey returns def when the key is missing or its blob does not decode.
// Only storage I/O failures are returned as errors.
func loadKey[T any](ns storage.Store, key string, def T, log *zap.Logger) (T, error) {
	raw, ok, err := ns.Get(key)
	if err != nil {
		return def, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn("malformed persisted data; using default", zap.String("key", key), zap.Error(err))
		return def, nil
	}
	return out, nil
}

func (t *Tracker) UserID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.user
}

// active reports whether a user is loaded. Mutations without one are ignored.
func (t *Tracker) active(op string) bool {
	if t.ns != nil {
		return true
	}
	t.log.Warn("no active user; mutation ignored", zap.String("op", op))
	return false
}

func (t *Tracker) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := t.ns.Set(key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (t *Tracker) touchFirstActivity(now time.Time) error {
	if t.st.firstActivity != nil {
		return nil
	}
	ms := model.Millis(now)
	if err := t.put(keyFirstActivity, ms); err != nil {
		return err
	}
	t.st.firstActivity = &ms
	return nil
}

// appendEntry is the shared add path: persist, commit, stamp first
// activity, evaluate badges.
func appendEntry[T any](t *Tracker, key string, cur *[]T, entry T, now time.Time) error {
	next := append(slices.Clone(*cur), entry)
	if err := t.put(key, next); err != nil {
		return err
	}
	*cur = next
	if err := t.touchFirstActivity(now); err != nil {
		return err
	}
	return t.evaluate()
}

func removeEntry[T any](t *Tracker, key, kind string, cur *[]T, id string, idOf func(T) string) error {
	next := slices.DeleteFunc(slices.Clone(*cur), func(e T) bool { return idOf(e) == id })
	if len(next) == len(*cur) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err := t.put(key, next); err != nil {
		return err
	}
	*cur = next
	t.log.Debug("entry deleted", zap.String("stream", key), zap.String("id", id))
	return nil
}

func (t *Tracker) snapshot() model.Snapshot {
	var first *int64
	if t.st.firstActivity != nil {
		v := *t.st.firstActivity
		first = &v
	}
	return model.Snapshot{
		Streams: model.Streams{
			Water:    slices.Clone(t.st.water),
			Food:     slices.Clone(t.st.food),
			Activity: slices.Clone(t.st.activity),
			Fasting:  slices.Clone(t.st.fasting),
			Sleep:    slices.Clone(t.st.sleep),
			Weight:   slices.Clone(t.st.weight),
		},
		FirstActivity: first,
		Location:      t.clock().Location(),
	}
}

func (t *Tracker) Snapshot() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) Now() time.Time {
	return t.clock()
}

func (t *Tracker) Water() []model.WaterEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.water)
}

func (t *Tracker) Food() []model.FoodEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.food)
}

func (t *Tracker) Activities() []model.ActivityEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.activity)
}

func (t *Tracker) Fasts() []model.FastingSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.fasting)
}

func (t *Tracker) Sleep() []model.SleepEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.sleep)
}

func (t *Tracker) Weights() []model.WeightEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.weight)
}

func (t *Tracker) Goals() model.UserGoals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st.goals
}

func (t *Tracker) Profile() model.UserProfile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneProfile(t.st.profile)
}

// FirstActivity is the time of the first logged entry, if any.
func (t *Tracker) FirstActivity() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.firstActivity == nil {
		return time.Time{}, false
	}
	return model.TimeOf(*t.st.firstActivity, t.clock().Location()), true
}
