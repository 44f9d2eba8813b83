package utils

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/model"
	"github.com/sheikhrachel/go-gol3d/rules"
)

// SaveSnapshot writes a frame as JSON: dimensions, tick and flattened cells
func SaveSnapshot(filename string, frame *model.Frame) error {
	if frame == nil {
		return errors.Errorf("[SaveSnapshot] nil frame for file: %+v", filename)
	}
	data, err := json.Marshal(savedFrame{Tick: frame.Tick, Dims: frame.Dims, Cells: toBytes(frame)})
	if err != nil {
		return errors.Wrapf(err, "[SaveSnapshot] failed to marshal frame for file: %+v", filename)
	}
	if err = os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "[SaveSnapshot] failed to write file: %+v", filename)
	}
	return nil
}

// LoadSnapshot reads a frame written by SaveSnapshot
func LoadSnapshot(filename string) (*model.Frame, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadSnapshot] failed to read file: %+v", filename)
	}
	var saved savedFrame
	if err = json.Unmarshal(data, &saved); err != nil {
		return nil, errors.Wrapf(err, "[LoadSnapshot] failed to unmarshal data from file: %+v", filename)
	}
	if saved.Dims.Cells() != len(saved.Cells) || saved.Dims.X <= 0 || saved.Dims.Y <= 0 || saved.Dims.Z <= 0 {
		return nil, errors.Errorf("[LoadSnapshot] %d cells do not fill %+v in file: %+v", len(saved.Cells), saved.Dims, filename)
	}
	frame := &model.Frame{Tick: saved.Tick, Dims: saved.Dims}
	for _, b := range saved.Cells {
		frame.Cells = append(frame.Cells, rules.CellState(b))
	}
	return frame, nil
}

// savedFrame is the on-disk layout; cells are base64 bytes
type savedFrame struct {
	Tick  uint64     `json:"tick"`
	Dims  model.Dims `json:"dims"`
	Cells []byte     `json:"cells"`
}

func toBytes(frame *model.Frame) []byte {
	out := make([]byte, len(frame.Cells))
	for i, c := range frame.Cells {
		out[i] = byte(c)
	}
	return out
}
