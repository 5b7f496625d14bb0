// Package main provides the lanegrad CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/lanegrad/autodiff"
)

const version = "v0.1.0-dev"

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "version":
		fmt.Printf("lanegrad %s\n", version)
	case "demo":
		demo()
	case "lanes":
		lanes()
	case "check":
		if err := check(); err != nil {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("gradients match finite differences")
	default:
		usage()
	}
}

func usage() {
	fmt.Println("lanegrad - reverse-mode autodiff over scalars and vector lanes")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Differentiate e = (a*b + b)^2 at a=2, b=3")
	fmt.Println("  lanes      Run the same expression on a width-4 graph")
	fmt.Println("  check      Compare backward gradients with finite differences")
}

// demo prints the canonical scalar example.
func demo() {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(2.0)
	b := g.MustLeaf(3.0)
	c := a.Mul(b)
	d := c.Add(b)
	e := d.Pow(2)

	e.Backward()

	for _, v := range []struct {
		name  string
		value autodiff.Value
	}{
		{"a", a}, {"b", b}, {"c", c}, {"d", d}, {"e", e},
	} {
		fmt.Printf("%s = %-8g grad = %g\n", v.name, v.value.Scalar(), v.value.GradScalar())
	}
}

// lanes runs the demo expression across four lanes at once.
func lanes() {
	g := autodiff.MustNewGraph(4)
	a := g.MustLeaf([4]float64{2, 1, 0, -1})
	b := g.MustLeaf([4]float64{3, 3, 3, 3})
	e := a.Mul(b).Add(b).Pow(2)

	grads := e.Backward()

	fmt.Printf("e      = %v\n", e.Data())
	fmt.Printf("de/da  = %v\n", grads.Of(a))
	fmt.Printf("de/db  = %v\n", grads.Of(b))

	s := g.Stats()
	fmt.Printf("nodes=%d leaves=%d value elems=%d\n", s.Nodes, s.Leaves, s.ValueElems)
}

func check() error {
	cfg := autodiff.DefaultConfig()
	cfg.Width = 4

	neuron := func(g *autodiff.Graph, in []autodiff.Value) (autodiff.Value, error) {
		x, w, bias := in[0], in[1], in[2]
		return x.Mul(w).Add(bias).Relu().Sub(0.5).Pow(2), nil
	}
	inputs := []autodiff.Lane{
		{0.5, -1, 2, 0.25},
		{1.5, 0.5, -0.5, 2},
		{0.1, 0.9, 0.3, -3},
	}
	return autodiff.CheckGradients(cfg, inputs, neuron, 1e-6, 1e-5)
}
