package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/marionette/rig"
)

// nodeSnapshot is one node's pose in the exported summary
type nodeSnapshot struct {
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // x, y, z, w
}

// snapshotTimeFormat keeps filenames sortable and filesystem-safe
const snapshotTimeFormat = "2006-01-02_15.04.05"

// WriteSnapshot exports the full pose as JSON keyed by node name and returns
// the written path. dir empty writes to the working directory.
func WriteSnapshot(pose *rig.Pose, dir string) (string, error) {
	summary := make(map[string]nodeSnapshot, rig.NodeCount)
	for node := rig.NodeID(0); node < rig.NodeCount; node++ {
		pos := pose.Positions[node]
		rot := pose.Rotations[node]
		summary[node.String()] = nodeSnapshot{
			Position: [3]float64{pos.X, pos.Y, pos.Z},
			Rotation: [4]float64{rot.X, rot.Y, rot.Z, rot.W},
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode pose snapshot: %w", err)
	}

	name := fmt.Sprintf("inverse_kinematics_snapshot_%s.json",
		time.Now().Format(snapshotTimeFormat))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write pose snapshot: %w", err)
	}
	return path, nil
}
