// Package service orchestrates the tactical planner against the cache and
// plan-log repository, the same thin-coordination role
// internal/service/game_service.go plays over the Diplomacy repositories.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spookygames/captain/board"
	"github.com/spookygames/captain/captain"
	"github.com/spookygames/captain/internal/model"
	"github.com/spookygames/captain/internal/repository"
)

// PlanService computes attack-phase plans, consulting the cache before
// invoking the planner and persisting every computation to the plan log.
type PlanService struct {
	cache  repository.PlanCache
	repo   repository.PlanRepository
	scorer captain.CostModel
	nowFn  func() time.Time
	idFn   func() string
}

// NewPlanService creates a PlanService. scorer may be nil for the pure
// heuristic death prophet.
func NewPlanService(cache repository.PlanCache, repo repository.PlanRepository, scorer captain.CostModel) *PlanService {
	return &PlanService{
		cache:  cache,
		repo:   repo,
		scorer: scorer,
		nowFn:  time.Now,
		idFn:   newPlanID,
	}
}

// Plan returns the wire-form action list for side to move on b, serving a
// cached result when available and otherwise invoking the planner and
// recording the result.
func (s *PlanService) Plan(ctx context.Context, b *board.Board, side board.Side) ([]string, error) {
	hash := HashBoard(b, side)

	if s.cache != nil {
		if cached, hit, err := s.cache.GetPlan(ctx, hash); err != nil {
			log.Warn().Err(err).Str("boardHash", hash).Msg("plan cache lookup failed")
		} else if hit {
			s.record(ctx, hash, side, cached, 0, true)
			return cached, nil
		}
	}

	start := s.nowFn()
	actions, err := captain.Plan(ctx, b, side, s.scorer)
	if err != nil {
		return nil, fmt.Errorf("plan attack phase: %w", err)
	}
	elapsed := s.nowFn().Sub(start)

	wire := make([]string, len(actions))
	for i, a := range actions {
		wire[i] = a.String()
	}

	if s.cache != nil {
		if err := s.cache.SetPlan(ctx, hash, wire); err != nil {
			log.Warn().Err(err).Str("boardHash", hash).Msg("plan cache write failed")
		}
	}
	s.record(ctx, hash, side, wire, elapsed.Milliseconds(), false)

	return wire, nil
}

func (s *PlanService) record(ctx context.Context, hash string, side board.Side, actions []string, computeMS int64, cacheHit bool) {
	if s.repo == nil {
		return
	}
	rec := &model.PlanRecord{
		ID:        s.idFn(),
		BoardHash: hash,
		Side:      side.String(),
		Actions:   actions,
		ComputeMS: computeMS,
		CacheHit:  cacheHit,
	}
	if err := s.repo.SavePlan(ctx, rec); err != nil {
		log.Warn().Err(err).Str("boardHash", hash).Msg("plan log write failed")
	}
}

// HashBoard computes a deterministic content hash of a board+side,
// suitable as a cache key: identical positions always hash identically
// regardless of map iteration order.
func HashBoard(b *board.Board, side board.Side) string {
	locs := make([]board.Loc, 0, len(b.Pieces))
	for l := range b.Pieces {
		locs = append(locs, l)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].Idx() < locs[j].Idx() })

	h := sha256.New()
	fmt.Fprintf(h, "side:%d\n", side)
	for _, l := range locs {
		p := b.Pieces[l]
		fmt.Fprintf(h, "%d:%d:%d:%d:%d\n", l.Idx(), p.Side, p.Type, p.State.DamageTaken, p.State.AttacksUsed)
	}
	fmt.Fprintf(h, "water:%x%x\n", b.Terrain.Water.Lo, b.Terrain.Water.Hi)
	return hex.EncodeToString(h.Sum(nil))
}

var planSeq atomic.Uint64

func newPlanID() string {
	return fmt.Sprintf("plan-%d-%d", time.Now().UnixNano(), planSeq.Add(1))
}
