package lifecycle

import (
	"encoding/json"
	"os"

	"TradeSentinel/internal/model"
)

// LoadPositions reads checkpointed open positions from a JSON file.
// A missing file is an empty book, not an error.
func LoadPositions(filePath string) ([]*model.PositionState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var positions []*model.PositionState
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// SavePositions writes the open positions to a JSON file.
func SavePositions(filePath string, positions []*model.PositionState) error {
	if positions == nil {
		positions = []*model.PositionState{}
	}
	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// Restore re-registers previously checkpointed positions, skipping any
// that closed before the checkpoint was written.
func (m *Monitor) Restore(positions []*model.PositionState) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	restored := 0
	for _, p := range positions {
		if p == nil || p.Closed() || p.Signal == nil {
			continue
		}
		m.positions[p.ID] = &trackedPosition{state: p}
		restored++
	}
	return restored
}

// Checkpoint saves the current open positions so a restart resumes
// tracking where it left off.
func (m *Monitor) Checkpoint(filePath string) error {
	return SavePositions(filePath, m.OpenPositions())
}
