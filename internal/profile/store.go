package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/kv"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

var ErrUnknownGoal = errors.New("unknown goal")

// Store persists one device's profile, premium status, results and history.
//
// Reads never fail: storage or decoding errors are logged and reported as
// absence. Writes log and return their error.
type Store struct {
	kv           kv.Store
	mu           *sync.Mutex
	logger       *slog.Logger
	now          func() time.Time
	historyLimit int
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:           store,
		mu:           &sync.Mutex{},
		logger:       slog.Default(),
		now:          time.Now,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockStripes bounds the number of device locks a Manager holds. Devices
// hashing to the same stripe only serialize against each other.
const lockStripes = 256

// Manager opens per-device stores over a shared backend. Stores for the same
// device share one lock so history appends within this process are serialized.
type Manager struct {
	backend kv.Backend
	opts    []Option
	locks   [lockStripes]sync.Mutex
}

func NewManager(backend kv.Backend, opts ...Option) *Manager {
	return &Manager{backend: backend, opts: opts}
}

func (m *Manager) For(deviceID string) *Store {
	s := New(m.backend.Open(deviceID), m.opts...)
	s.logger = s.logger.With("device_id", deviceID)
	s.mu = m.lockFor(deviceID)
	return s
}

func (m *Manager) lockFor(deviceID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))
	return &m.locks[h.Sum32()%lockStripes]
}

func (s *Store) read(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Error("storage read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Error("stored value is corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.logger.Error("storage write failed", "key", key, "error", err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// profileFields returns the stored profile as a generic object so merges keep
// fields this version does not know about.
func (s *Store) profileFields(ctx context.Context) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	raw, ok, err := s.kv.Get(ctx, KeyProfile)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal(raw, &fields); err != nil {
			s.logger.Error("stored value is corrupt", "key", KeyProfile, "error", err)
			fields = map[string]json.RawMessage{}
		}
	}
	return fields, nil
}

func mergeProfile(fields map[string]json.RawMessage, patch UserProfile) ([]byte, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	var set map[string]json.RawMessage
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	for k, v := range set {
		fields[k] = v
	}
	return json.Marshal(fields)
}

// SaveProfile overwrites the fields set in patch and keeps the rest.
func (s *Store) SaveProfile(ctx context.Context, patch UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveProfileLocked(ctx, patch)
}

func (s *Store) saveProfileLocked(ctx context.Context, patch UserProfile) error {
	fields, err := s.profileFields(ctx)
	if err != nil {
		s.logger.Error("storage read failed", "key", KeyProfile, "error", err)
		return fmt.Errorf("load %s: %w", KeyProfile, err)
	}
	merged, err := mergeProfile(fields, patch)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyProfile, err)
	}
	if err := s.kv.Set(ctx, KeyProfile, merged); err != nil {
		s.logger.Error("storage write failed", "key", KeyProfile, "error", err)
		return fmt.Errorf("save %s: %w", KeyProfile, err)
	}
	return nil
}

// GetProfile returns nil when no profile is stored.
func (s *Store) GetProfile(ctx context.Context) *UserProfile {
	var p UserProfile
	if !s.read(ctx, KeyProfile, &p) {
		return nil
	}
	return &p
}

// SetPremiumStatus replaces the stored status.
func (s *Store) SetPremiumStatus(ctx context.Context, status PremiumStatus) error {
	return s.write(ctx, KeyPremiumStatus, status)
}

// GetPremiumStatus defaults to not premium.
func (s *Store) GetPremiumStatus(ctx context.Context) PremiumStatus {
	var status PremiumStatus
	if !s.read(ctx, KeyPremiumStatus, &status) {
		return PremiumStatus{IsPremium: false}
	}
	return status
}

func (s *Store) ActivatePremium(ctx context.Context, plan Plan) (PremiumStatus, error) {
	status, err := NewPremiumStatus(plan, s.now())
	if err != nil {
		return PremiumStatus{}, err
	}
	if err := s.SetPremiumStatus(ctx, status); err != nil {
		return PremiumStatus{}, err
	}
	return status, nil
}

func (s *Store) SaveFaceResult(ctx context.Context, r scoring.FaceScores) error {
	return s.saveResult(ctx, scoring.VariantFace, r)
}

func (s *Store) SaveBodyResult(ctx context.Context, r scoring.BodyScores) error {
	return s.saveResult(ctx, scoring.VariantBody, r)
}

func resultKey(v scoring.Variant) string {
	if v == scoring.VariantBody {
		return KeyBodyResults
	}
	return KeyFaceResults
}

// saveResult replaces the latest result for the variant, appends it to the
// history and stamps lastScanAt, all in one MultiSet.
func (s *Store) saveResult(ctx context.Context, variant scoring.Variant, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s result: %w", variant, err)
	}

	// A failed history read must not be mistaken for an empty history.
	var history []HistoryEntry
	raw, ok, err := s.kv.Get(ctx, KeyScanHistory)
	if err != nil {
		s.logger.Error("storage read failed", "key", KeyScanHistory, "error", err)
		return fmt.Errorf("load %s: %w", KeyScanHistory, err)
	}
	if ok {
		if err := json.Unmarshal(raw, &history); err != nil {
			s.logger.Error("stored value is corrupt", "key", KeyScanHistory, "error", err)
			history = nil
		}
	}

	now := s.now().UTC()
	history = append(history, HistoryEntry{
		ID:      uuid.NewString(),
		Type:    variant,
		Date:    now,
		Results: result,
	})
	if len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}
	historyRaw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyScanHistory, err)
	}

	fields, err := s.profileFields(ctx)
	if err != nil {
		s.logger.Error("storage read failed", "key", KeyProfile, "error", err)
		return fmt.Errorf("load %s: %w", KeyProfile, err)
	}
	profileRaw, err := mergeProfile(fields, UserProfile{LastScanAt: &now})
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyProfile, err)
	}

	key := resultKey(variant)
	if err := s.kv.MultiSet(ctx, map[string][]byte{
		key:            result,
		KeyScanHistory: historyRaw,
		KeyProfile:     profileRaw,
	}); err != nil {
		s.logger.Error("storage write failed", "key", key, "error", err)
		return fmt.Errorf("save %s result: %w", variant, err)
	}
	return nil
}

func (s *Store) GetFaceResults(ctx context.Context) *scoring.FaceScores {
	var r scoring.FaceScores
	if !s.read(ctx, KeyFaceResults, &r) {
		return nil
	}
	return &r
}

func (s *Store) GetBodyResults(ctx context.Context) *scoring.BodyScores {
	var r scoring.BodyScores
	if !s.read(ctx, KeyBodyResults, &r) {
		return nil
	}
	return &r
}

// GetHistory returns entries oldest first, or an empty list.
func (s *Store) GetHistory(ctx context.Context) []HistoryEntry {
	history := []HistoryEntry{}
	if !s.read(ctx, KeyScanHistory, &history) || history == nil {
		return []HistoryEntry{}
	}
	return history
}

func (s *Store) SaveFaceImages(ctx context.Context, images Images) error {
	return s.write(ctx, KeyFaceImages, images)
}

func (s *Store) GetFaceImages(ctx context.Context) *Images {
	var images Images
	if !s.read(ctx, KeyFaceImages, &images) {
		return nil
	}
	return &images
}

func (s *Store) SaveBodyImages(ctx context.Context, images Images) error {
	return s.write(ctx, KeyBodyImages, images)
}

func (s *Store) GetBodyImages(ctx context.Context) *Images {
	var images Images
	if !s.read(ctx, KeyBodyImages, &images) {
		return nil
	}
	return &images
}

// SaveGoals writes the goals slot and mirrors it onto the profile.
func (s *Store) SaveGoals(ctx context.Context, goals []string) error {
	for _, g := range goals {
		if !ValidGoal(g) {
			return fmt.Errorf("%w: %q", ErrUnknownGoal, g)
		}
	}
	if goals == nil {
		goals = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(ctx, KeyGoals, goals); err != nil {
		return err
	}
	return s.saveProfileLocked(ctx, UserProfile{Goals: goals})
}

func (s *Store) GetGoals(ctx context.Context) []string {
	goals := []string{}
	if !s.read(ctx, KeyGoals, &goals) || goals == nil {
		return []string{}
	}
	return goals
}

// SaveGender writes the gender slot and mirrors it onto the profile.
func (s *Store) SaveGender(ctx context.Context, gender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(ctx, KeyGender, gender); err != nil {
		return err
	}
	return s.saveProfileLocked(ctx, UserProfile{Gender: gender})
}

func (s *Store) GetGender(ctx context.Context) string {
	var gender string
	s.read(ctx, KeyGender, &gender)
	return gender
}

func (s *Store) SetOnboardingComplete(ctx context.Context) error {
	return s.write(ctx, KeyOnboardingComplete, true)
}

func (s *Store) onboardingComplete(ctx context.Context) bool {
	var done bool
	return s.read(ctx, KeyOnboardingComplete, &done) && done
}

func (s *Store) SetOnboardingStep(ctx context.Context, step string) error {
	return s.write(ctx, KeyOnboardingStep, step)
}

// GetOnboardingStep returns "" when the flow has not started.
func (s *Store) GetOnboardingStep(ctx context.Context) string {
	var step string
	s.read(ctx, KeyOnboardingStep, &step)
	return step
}

// HasCompletedSetup requires both a face result and the onboarding flag.
func (s *Store) HasCompletedSetup(ctx context.Context) bool {
	var (
		face *scoring.FaceScores
		done bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		face = s.GetFaceResults(gctx)
		return nil
	})
	g.Go(func() error {
		done = s.onboardingComplete(gctx)
		return nil
	})
	_ = g.Wait()
	return face != nil && done
}

// ClearAll removes every slot of the namespace, present or not.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.MultiRemove(ctx, Namespace); err != nil {
		s.logger.Error("clearing user data failed", "keys", len(Namespace), "error", err)
		return fmt.Errorf("clear user data: %w", err)
	}
	return nil
}
