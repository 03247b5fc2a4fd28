// Package validate repairs arbitrary, possibly malformed architecture
// models into well-formed ones.
//
// Sanitize is a pure function: it never mutates its input and never fails
// on data-quality problems. Structural defects (duplicate ids, self-edges,
// duplicate edges, dangling references, missing layers) are repaired or
// dropped, and each repair surfaces as a Warning for the caller to log or
// display. The pipeline never aborts on an invalid model; it degrades and
// reports.
//
// On output the sanitized model guarantees:
//   - every node id is unique
//   - every edge endpoint resolves to a node in the same model
//   - no edge has From == To
//   - no two edges share the same (from, to, label) triple
//   - every node has a non-empty layer
package validate

import (
	"fmt"
	"strconv"

	"github.com/cloudplot/cloudplot/pkg/model"
)

// Kind classifies a sanitization warning.
type Kind string

// Warning kinds. Only KindDefaultedLayer leaves IsValid true; every other
// kind marks the input as having required structural correction.
const (
	KindDefaultedLayer Kind = "defaulted-layer"
	KindRenamedNode    Kind = "renamed-node"
	KindSelfEdge       Kind = "self-edge"
	KindDuplicateEdge  Kind = "duplicate-edge"
	KindDanglingEdge   Kind = "dangling-edge"
)

// Warning describes a single repair made during sanitization.
type Warning struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Kind, w.Message) }

// Result is the outcome of sanitization. Model is always usable downstream
// regardless of IsValid.
type Result struct {
	// IsValid is true iff no structural repair beyond layer defaulting
	// occurred.
	IsValid  bool      `json:"isValid"`
	Warnings []Warning `json:"warnings"`
	Model    model.ArchitectureModel `json:"model"`
}

// Structural reports whether the warning kind indicates a structural
// repair (anything beyond layer defaulting).
func (k Kind) Structural() bool { return k != KindDefaultedLayer }

// Sanitize repairs m and returns the corrected model with diagnostics.
//
// Nodes are walked in input order: missing layers are defaulted to
// model.DefaultLayer, and id collisions are resolved by renaming the
// later-seen node with a positional suffix. Edges are then walked in input
// order against the sanitized node set: self-edges, duplicate (from, to,
// label) triples and edges with unresolvable endpoints are dropped.
//
// An edge written against the original id of a renamed node still resolves
// to the first node that owned that id, so it is kept pointing there; the
// rename never redirects edges to the renamed node.
func Sanitize(m model.ArchitectureModel) Result {
	res := Result{Model: m.Clone()}

	seen := make(map[string]bool, len(res.Model.Nodes))
	for i := range res.Model.Nodes {
		n := &res.Model.Nodes[i]

		if n.Layer == "" {
			n.Layer = model.DefaultLayer
			res.warnf(KindDefaultedLayer, "node %q has no layer, defaulting to %s", n.ID, model.DefaultLayer)
		}

		if seen[n.ID] {
			renamed := rename(n.ID, i, seen)
			res.warnf(KindRenamedNode, "duplicate node id %q renamed to %q", n.ID, renamed)
			n.ID = renamed
		}
		seen[n.ID] = true
	}

	kept := res.Model.Edges[:0]
	emitted := make(map[[3]string]bool, len(res.Model.Edges))
	for _, e := range res.Model.Edges {
		switch {
		case e.From == e.To:
			res.warnf(KindSelfEdge, "dropping self-edge on %q", e.From)
		case emitted[e.Key()]:
			res.warnf(KindDuplicateEdge, "dropping duplicate edge %s -> %s", e.From, e.To)
		case !seen[e.From] || !seen[e.To]:
			res.warnf(KindDanglingEdge, "dropping edge %s -> %s with dangling reference", e.From, e.To)
		default:
			emitted[e.Key()] = true
			kept = append(kept, e)
		}
	}
	res.Model.Edges = kept

	res.IsValid = true
	for _, w := range res.Warnings {
		if w.Kind.Structural() {
			res.IsValid = false
			break
		}
	}
	return res
}

// rename derives a unique id from the colliding one using the node's
// position as disambiguator, re-suffixing until the result is unused.
func rename(id string, pos int, seen map[string]bool) string {
	candidate := id + "_" + strconv.Itoa(pos)
	for seen[candidate] {
		pos++
		candidate = id + "_" + strconv.Itoa(pos)
	}
	return candidate
}

func (r *Result) warnf(kind Kind, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, args...)})
}
