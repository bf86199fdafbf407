// Package neuralscore provides an optional ONNX-backed cost model for the
// tactical planner's death prophet, scoring a candidate assumption by
// running a value head over an encoding of the board. It is the captain
// analogue of internal/bot/strategy_gonnx.go's policy/value inference:
// same pure-Go ONNX runtime, same "fall back to the heuristic on any
// loading or inference error" discipline.
package neuralscore

import (
	"context"
	"log"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"gorgonia.org/tensor"

	"github.com/spookygames/captain/board"
	"github.com/spookygames/captain/captain"
)

// NumAreas is the number of hexes encoded per board (10x10).
const NumAreas = board.Size

// NumFeatures is the per-hex encoding width: side, unit-type index
// (normalized), damage fraction, and a spawner flag.
const NumFeatures = 4

// ModelPath is the directory containing value.onnx, overridable by the
// caller (typically from a CAPTAIN_MODEL_PATH environment variable, set
// up the way GonnxModelPath is in the teacher's bot package).
var ModelPath = "engine/models"

// Scorer implements captain.CostModel by running a value network. A
// Scorer with a nil model (returned when loading failed) always declines
// to score, so wiring one in is always safe.
type Scorer struct {
	value *gonnx.Model
	mu    sync.Mutex
}

// Load attempts to load value.onnx from dir. On failure it logs and
// returns a Scorer whose Score always declines — callers are not expected
// to check the error before wiring the result in as a captain.CostModel.
func Load(dir string) *Scorer {
	if dir == "" {
		dir = ModelPath
	}
	m, err := gonnx.NewModelFromFile(dir + "/value.onnx")
	if err != nil {
		log.Printf("neuralscore: value model not found at %s: %v (scoring disabled)", dir, err)
		return &Scorer{}
	}
	return &Scorer{value: m}
}

// Score implements captain.CostModel.
func (s *Scorer) Score(ctx context.Context, g *captain.Graph, a captain.Assumption) (float64, bool) {
	if s == nil || s.value == nil {
		return 0, false
	}
	boardData := encodeBoard(g)
	assumptionData := encodeAssumption(a)

	boardTensor := tensor.New(
		tensor.WithShape(1, NumAreas, NumFeatures),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(boardData),
	)
	asmTensor := tensor.New(
		tensor.WithShape(1, len(assumptionData)),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(assumptionData),
	)

	inputs := gonnx.Tensors{
		"board":      boardTensor,
		"assumption": asmTensor,
	}

	s.mu.Lock()
	outputs, err := s.value.Run(inputs)
	s.mu.Unlock()
	if err != nil {
		log.Printf("neuralscore: inference error: %v", err)
		return 0, false
	}

	out, ok := outputs["cost"]
	if !ok {
		for _, v := range outputs {
			out = v
			break
		}
	}
	if out == nil {
		return 0, false
	}

	switch d := out.Data().(type) {
	case []float32:
		if len(d) == 0 {
			return 0, false
		}
		return float64(d[0]), true
	case []float64:
		if len(d) == 0 {
			return 0, false
		}
		return d[0], true
	default:
		return 0, false
	}
}

func encodeBoard(g *captain.Graph) []float32 {
	out := make([]float32, NumAreas*NumFeatures)
	for loc, p := range g.Board.Pieces {
		base := loc.Idx() * NumFeatures
		out[base] = float32(p.Side)
		out[base+1] = float32(p.Type) / float32(len(board.Stats))
		if def := p.Stats().Defense; def > 0 {
			out[base+2] = float32(p.State.DamageTaken) / float32(def)
		}
		if p.Stats().Spawner {
			out[base+3] = 1
		}
	}
	return out
}

func encodeAssumption(a captain.Assumption) []float32 {
	kind := float32(0)
	if a.Kind == captain.AttackAssumption {
		kind = 1
	}
	denom := float32(board.Size - 1)
	return []float32{
		kind,
		float32(a.Attacker.Idx()) / denom,
		float32(a.Hex.Idx()) / denom,
		float32(a.Defender.Idx()) / denom,
	}
}
