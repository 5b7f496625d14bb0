// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lanegrad/autodiff"
)

// TestPublicAPI_EndToEnd exercises the public aliases on the canonical example.
func TestPublicAPI_EndToEnd(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(2.0)
	b := g.MustLeaf(3.0)
	e := a.Mul(b).Add(b).Pow(2)

	grads := e.Backward()

	assert.Equal(t, autodiff.Lane{54}, grads.Of(a))
	assert.Equal(t, autodiff.Lane{54}, grads.Of(b))
	assert.Equal(t, autodiff.OpPow, e.Op())
}

// TestPublicAPI_Vector tests a width-4 graph through the public package.
func TestPublicAPI_Vector(t *testing.T) {
	cfg := autodiff.DefaultConfig()
	cfg.Width = 4
	g, err := autodiff.NewGraph(cfg)
	require.NoError(t, err)

	x := g.MustLeaf([4]float64{1, 2, 3, 4})
	assert.Equal(t, autodiff.Lane{4, 5, 6, 7}, x.Add(3).Data())

	_, err = g.Add(x, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, autodiff.ErrWidthMismatch))
}

func TestPublicAPI_CheckGradients(t *testing.T) {
	cfg := autodiff.DefaultConfig()
	cfg.Width = 2

	f := func(g *autodiff.Graph, in []autodiff.Value) (autodiff.Value, error) {
		return in[0].Div(in[1]).Relu(), nil
	}
	err := autodiff.CheckGradients(cfg, []autodiff.Lane{{1, -2}, {4, 0.5}}, f, 1e-6, 1e-5)
	assert.NoError(t, err)
}
