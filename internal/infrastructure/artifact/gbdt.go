package artifact

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// zeroThreshold matches the tolerance LightGBM uses when treating a value as zero.
const zeroThreshold = 1e-35

// Missing-value handling modes of a split.
const (
	missingNone = "None"
	missingZero = "Zero"
	missingNaN  = "NaN"
)

type gbdtFile struct {
	Objective     string     `json:"objective"`
	Output        string     `json:"output"`
	FeatureNames  []string   `json:"feature_names"`
	TreeInfo      []treeInfo `json:"tree_info"`
	InitScore     float64    `json:"init_score"`
	MaxFeatureIdx *int       `json:"max_feature_idx"`
	NumClass      int        `json:"num_class"`
	AverageOutput bool       `json:"average_output"`
}

type treeInfo struct {
	TreeStructure *treeNode `json:"tree_structure"`
	TreeIndex     int       `json:"tree_index"`
}

type treeNode struct {
	SplitFeature *int      `json:"split_feature"`
	Threshold    any       `json:"threshold"`
	LeafValue    *float64  `json:"leaf_value"`
	LeftChild    *treeNode `json:"left_child"`
	RightChild   *treeNode `json:"right_child"`
	DecisionType string    `json:"decision_type"`
	MissingType  string    `json:"missing_type"`
	DefaultLeft  bool      `json:"default_left"`
}

// node is the validated, flattened form of a split or leaf.
type node struct {
	missing     string
	left, right int
	feature     int
	threshold   float64
	value       float64
	defaultLeft bool
	leaf        bool
}

// GBDT is a gradient-boosted decision tree ensemble in LightGBM dump layout.
type GBDT struct {
	output    string
	trees     [][]node
	initScore float64
	sigmoidK  float64
	link      bool
	average   bool
}

func decodeGBDT(data []byte) (*GBDT, error) {
	var f gbdtFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("artifact: decode gbdt model: %w", err)
	}
	if f.NumClass > 1 {
		return nil, fmt.Errorf("artifact: gbdt with %d classes is not a binary model", f.NumClass)
	}
	if err := checkFeatureNames(f.FeatureNames); err != nil {
		return nil, err
	}
	if f.MaxFeatureIdx != nil && *f.MaxFeatureIdx != model.NumFeatures-1 {
		return nil, fmt.Errorf("artifact: gbdt max_feature_idx %d, want %d", *f.MaxFeatureIdx, model.NumFeatures-1)
	}
	if err := checkOutput(f.Output); err != nil {
		return nil, err
	}
	if len(f.TreeInfo) == 0 {
		return nil, fmt.Errorf("artifact: gbdt model has no trees")
	}

	link, k, err := parseObjective(f.Objective)
	if err != nil {
		return nil, err
	}

	g := &GBDT{
		output:    f.Output,
		initScore: f.InitScore,
		sigmoidK:  k,
		link:      link,
		average:   f.AverageOutput,
		trees:     make([][]node, 0, len(f.TreeInfo)),
	}
	for i, ti := range f.TreeInfo {
		if ti.TreeStructure == nil {
			return nil, fmt.Errorf("artifact: tree %d has no structure", i)
		}
		var nodes []node
		if _, err := flatten(ti.TreeStructure, &nodes); err != nil {
			return nil, fmt.Errorf("artifact: tree %d: %w", i, err)
		}
		g.trees = append(g.trees, nodes)
	}
	return g, nil
}

// parseObjective reports whether raw scores pass through a sigmoid and its slope.
// "binary sigmoid:1" and "cross_entropy" use the link; regression objectives do not.
func parseObjective(objective string) (bool, float64, error) {
	fields := strings.Fields(objective)
	if len(fields) == 0 {
		return true, 1, nil
	}

	switch fields[0] {
	case "binary", "cross_entropy", "xentropy":
		k := 1.0
		for _, param := range fields[1:] {
			if v, ok := strings.CutPrefix(param, "sigmoid:"); ok {
				parsed, err := strconv.ParseFloat(v, 64)
				if err != nil || parsed <= 0 {
					return false, 0, fmt.Errorf("artifact: bad sigmoid parameter %q", param)
				}
				k = parsed
			}
		}
		return true, k, nil
	case "regression", "regression_l1", "huber", "fair", "quantile", "mape":
		return false, 1, nil
	default:
		return false, 0, fmt.Errorf("artifact: unsupported objective %q", objective)
	}
}

// flatten appends n and its subtree to out, returning the index of n.
func flatten(n *treeNode, out *[]node) (int, error) {
	idx := len(*out)
	*out = append(*out, node{})

	if n.SplitFeature == nil {
		if n.LeafValue == nil {
			return 0, fmt.Errorf("node %d is neither a split nor a leaf", idx)
		}
		(*out)[idx] = node{leaf: true, value: *n.LeafValue}
		return idx, nil
	}

	feature := *n.SplitFeature
	if feature < 0 || feature >= model.NumFeatures {
		return 0, fmt.Errorf("split feature %d out of range", feature)
	}
	if n.DecisionType != "" && n.DecisionType != "<=" {
		return 0, fmt.Errorf("unsupported decision type %q", n.DecisionType)
	}
	threshold, ok := n.Threshold.(float64)
	if !ok {
		return 0, fmt.Errorf("split on feature %d has non-numeric threshold %v", feature, n.Threshold)
	}
	missing := n.MissingType
	switch missing {
	case "", missingNone:
		missing = missingNone
	case missingZero, missingNaN:
	default:
		return 0, fmt.Errorf("unsupported missing type %q", n.MissingType)
	}
	if n.LeftChild == nil || n.RightChild == nil {
		return 0, fmt.Errorf("split on feature %d is missing a child", feature)
	}

	left, err := flatten(n.LeftChild, out)
	if err != nil {
		return 0, err
	}
	right, err := flatten(n.RightChild, out)
	if err != nil {
		return 0, err
	}

	(*out)[idx] = node{
		feature:     feature,
		threshold:   threshold,
		missing:     missing,
		defaultLeft: n.DefaultLeft,
		left:        left,
		right:       right,
	}
	return idx, nil
}

// Predict returns the fraud probability for features in training order.
func (g *GBDT) Predict(features []float64) ([]float64, error) {
	if len(features) != model.NumFeatures {
		return nil, fmt.Errorf("gbdt: expected %d features, got %d", model.NumFeatures, len(features))
	}

	raw := 0.0
	for _, tree := range g.trees {
		raw += walk(tree, features)
	}
	if g.average {
		raw /= float64(len(g.trees))
	}
	raw += g.initScore

	p := raw
	if g.link {
		p = sigmoid(g.sigmoidK * raw)
	}
	return emit(p, g.output), nil
}

func walk(tree []node, features []float64) float64 {
	i := 0
	for {
		n := tree[i]
		if n.leaf {
			return n.value
		}
		if goLeft(n, features[n.feature]) {
			i = n.left
		} else {
			i = n.right
		}
	}
}

func goLeft(n node, v float64) bool {
	switch n.missing {
	case missingNaN:
		if math.IsNaN(v) {
			return n.defaultLeft
		}
	case missingZero:
		if math.IsNaN(v) || math.Abs(v) <= zeroThreshold {
			return n.defaultLeft
		}
	default:
		if math.IsNaN(v) {
			v = 0
		}
	}
	return v <= n.threshold
}
