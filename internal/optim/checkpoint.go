package optim

import (
	"github.com/pkg/errors"

	"github.com/born-ml/lanegrad/internal/autodiff"
	"github.com/born-ml/lanegrad/internal/lane"
	"github.com/born-ml/lanegrad/internal/serialization"
)

// ErrMissingParameter is returned by LoadParameters when the checkpoint has no
// entry for one of the parameters.
var ErrMissingParameter = errors.New("parameter not found in checkpoint")

// SaveParameters writes the current value of every parameter to path, keyed by name.
func SaveParameters(path string, params []*Parameter, metadata map[string]string) error {
	lanes := make(map[string]lane.Lane, len(params))
	for _, p := range params {
		if _, dup := lanes[p.name]; dup {
			return errors.Errorf("SaveParameters: duplicate parameter name %q", p.name)
		}
		lanes[p.name] = p.data
	}
	return errors.Wrap(serialization.WriteSafeTensors(path, lanes, metadata), "SaveParameters")
}

// LoadParameters restores parameters from path and returns the checkpoint metadata.
// Every parameter must be present with its current width; on error no parameter
// is modified.
func LoadParameters(path string, params []*Parameter) (map[string]string, error) {
	lanes, metadata, err := serialization.ReadSafeTensors(path)
	if err != nil {
		return nil, errors.Wrap(err, "LoadParameters")
	}

	for _, p := range params {
		l, ok := lanes[p.name]
		if !ok {
			return nil, errors.Wrapf(ErrMissingParameter, "LoadParameters: %q", p.name)
		}
		if len(l) != len(p.data) {
			return nil, errors.Wrapf(autodiff.ErrWidthMismatch, "LoadParameters: %q has width %d, parameter has width %d",
				p.name, len(l), len(p.data))
		}
	}
	for _, p := range params {
		copy(p.data, lanes[p.name])
	}
	return metadata, nil
}
