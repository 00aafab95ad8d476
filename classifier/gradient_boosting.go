package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// leafMarker is the child index sklearn uses for leaf nodes.
const leafMarker = -1

// Node is one node of a regression tree. A sample goes to Left when
// vector[Feature] <= Threshold. Leaves have Left == Right == -1 and carry
// their contribution in Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a flattened regression tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// artifact is the serialized form exported from the training pipeline.
type artifact struct {
	Format       string   `json:"format"`
	FeatureNames []string `json:"feature_names"`
	InitScore    float64  `json:"init_score"`
	LearningRate float64  `json:"learning_rate"`
	Trees        []Tree   `json:"trees"`
}

const artifactFormat = "gradient-boosting-binary/v1"

// GradientBoosting is a binary gradient-boosted tree ensemble. It is
// immutable once loaded.
type GradientBoosting struct {
	featureNames []string
	initScore    float64
	learningRate float64
	trees        []Tree
}

// Load reads a model artifact from disk. Every failure wraps
// ErrModelUnavailable.
func Load(path string) (*GradientBoosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrModelUnavailable, path, err)
	}
	return Parse(data)
}

// Parse decodes and checks a model artifact.
func Parse(data []byte) (*GradientBoosting, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: failed to decode artifact: %v", ErrModelUnavailable, err)
	}

	if a.Format != artifactFormat {
		return nil, fmt.Errorf("%w: unsupported artifact format %q (want %q)", ErrModelUnavailable, a.Format, artifactFormat)
	}
	if len(a.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: artifact declares no features", ErrModelUnavailable)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("%w: artifact contains no trees", ErrModelUnavailable)
	}
	if a.LearningRate <= 0 || math.IsNaN(a.LearningRate) || math.IsInf(a.LearningRate, 0) {
		return nil, fmt.Errorf("%w: invalid learning rate %v", ErrModelUnavailable, a.LearningRate)
	}

	for i, tree := range a.Trees {
		if err := checkTree(tree, len(a.FeatureNames)); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrModelUnavailable, i, err)
		}
	}

	return &GradientBoosting{
		featureNames: a.FeatureNames,
		initScore:    a.InitScore,
		learningRate: a.LearningRate,
		trees:        a.Trees,
	}, nil
}

// checkTree verifies child indices and feature indices, and that every
// path from the root terminates (children always point forward).
func checkTree(tree Tree, numFeatures int) error {
	if len(tree.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range tree.Nodes {
		if n.Left == leafMarker && n.Right == leafMarker {
			continue
		}
		if n.Left == leafMarker || n.Right == leafMarker {
			return fmt.Errorf("node %d has a single child", i)
		}
		if n.Left <= i || n.Left >= len(tree.Nodes) || n.Right <= i || n.Right >= len(tree.Nodes) {
			return fmt.Errorf("node %d has out-of-range children (%d, %d)", i, n.Left, n.Right)
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return fmt.Errorf("node %d splits on unknown feature %d", i, n.Feature)
		}
	}
	return nil
}

// NumFeatures returns the vector length the model expects.
func (m *GradientBoosting) NumFeatures() int {
	return len(m.featureNames)
}

// FeatureNames returns the input layout the model was trained on.
func (m *GradientBoosting) FeatureNames() []string {
	names := make([]string, len(m.featureNames))
	copy(names, m.featureNames)
	return names
}

// Probability returns the at-risk probability for a vector.
func (m *GradientBoosting) Probability(vector []float64) (float64, error) {
	if len(vector) != len(m.featureNames) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrInvalidInput, len(vector), len(m.featureNames))
	}
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: feature %s is not a finite number", ErrInvalidInput, m.featureNames[i])
		}
	}

	raw := m.initScore
	for _, tree := range m.trees {
		raw += m.learningRate * tree.predict(vector)
	}
	return 1 / (1 + math.Exp(-raw)), nil
}

// Score implements Scorer. The label is 1 when the at-risk probability is
// strictly greater than one half.
func (m *GradientBoosting) Score(vector []float64) (int, error) {
	p, err := m.Probability(vector)
	if err != nil {
		return 0, err
	}
	if p > 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (t Tree) predict(vector []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left == leafMarker {
			return n.Value
		}
		if vector[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
