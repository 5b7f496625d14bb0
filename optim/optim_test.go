// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lanegrad/autodiff"
	"github.com/born-ml/lanegrad/optim"
)

// TestPublicOptim_FitScalar trains 3w + b = 7 and checks the checkpoint round trip.
func TestPublicOptim_FitScalar(t *testing.T) {
	w := optim.NewParameter("w", autodiff.Lane{0})
	b := optim.NewParameter("b", autodiff.Lane{0})
	params := []*optim.Parameter{w, b}
	opt := optim.NewSGD(params, optim.SGDConfig{LR: 0.01})

	for i := 0; i < 500; i++ {
		g := autodiff.MustNewGraph(1)
		wv, err := w.Bind(g)
		require.NoError(t, err)
		bv, err := b.Bind(g)
		require.NoError(t, err)
		opt.Step(wv.Mul(3).Add(bv).Sub(7).Pow(2).Backward())
	}
	assert.InDelta(t, 7.0, 3*w.Data()[0]+b.Data()[0], 1e-6)

	path := filepath.Join(t.TempDir(), "fit.safetensors")
	require.NoError(t, optim.SaveParameters(path, params, nil))

	restored := optim.NewParameter("w", autodiff.Lane{0})
	_, err := optim.LoadParameters(path, []*optim.Parameter{restored})
	require.NoError(t, err)
	assert.Equal(t, w.Data(), restored.Data())

	missing := optim.NewParameter("nope", autodiff.Lane{0})
	_, err = optim.LoadParameters(path, []*optim.Parameter{missing})
	assert.ErrorIs(t, err, optim.ErrMissingParameter)
}
