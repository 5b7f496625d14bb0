// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/lanegrad/autodiff"
	"github.com/born-ml/lanegrad/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Parameter is a trainable lane that persists across graphs.
type Parameter = optim.Parameter

// NewParameter creates a parameter initialized with a copy of init.
func NewParameter(name string, init autodiff.Lane) *Parameter {
	return optim.NewParameter(name, init)
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.01, Momentum: 0.9})
func NewSGD(params []*Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(params, optim.AdamConfig{LR: 0.001})
func NewAdam(params []*Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// ErrMissingParameter is returned by LoadParameters for a name absent from the checkpoint.
var ErrMissingParameter = optim.ErrMissingParameter

// SaveParameters writes every parameter to a SafeTensors file, keyed by name.
func SaveParameters(path string, params []*Parameter, metadata map[string]string) error {
	return optim.SaveParameters(path, params, metadata)
}

// LoadParameters restores parameters from a SafeTensors file written by SaveParameters.
func LoadParameters(path string, params []*Parameter) (map[string]string, error) {
	return optim.LoadParameters(path, params)
}
