package features

import (
	"strconv"

	"github.com/katalvlaran/deptree/sentence"
)

// Templates is a stateless reference Generator. Every feature name is
// "<template>=<values>" so weight files stay human readable.
type Templates struct{}

var _ Generator = Templates{}

// Preview is a no-op: Templates keeps no sentence state.
func (Templates) Preview(*sentence.Instance) {}

// UnlabeledEdgeFeatures returns the arc features that ignore the label.
func (Templates) UnlabeledEdgeFeatures(head, dep int, inst *sentence.Instance) Sparse {
	hw, dw := inst.Form(head), inst.Form(dep)
	hp, dp := inst.POS(head), inst.POS(dep)
	dist := distance(head, dep)

	v := make(Sparse, 10)
	v.Inc("hp,dp=" + hp + "," + dp)
	v.Inc("hw,dw=" + hw + "," + dw)
	v.Inc("hw,dp=" + hw + "," + dp)
	v.Inc("hp,dw=" + hp + "," + dw)
	v.Inc("hl,dl=" + inst.Lemma(head) + "," + inst.Lemma(dep))
	v.Inc("hc,dc=" + inst.Cluster(head) + "," + inst.Cluster(dep))
	v.Inc("hch,dch=" + inst.Chunk(head) + "," + inst.Chunk(dep))
	v.Inc("dist=" + dist)
	v.Inc("hp,dp,dist=" + hp + "," + dp + "," + dist)
	v.Inc("hp,dp,between=" + hp + "," + dp + "," + between(head, dep, inst))

	return v
}

// LabeledEdgeFeatures returns the features conjoined with label.
func (Templates) LabeledEdgeFeatures(head, dep int, inst *sentence.Instance, label string) Sparse {
	hp, dp := inst.POS(head), inst.POS(dep)

	v := make(Sparse, 6)
	v.Inc("l=" + label)
	v.Inc("l,hp,dp=" + label + "," + hp + "," + dp)
	v.Inc("l,hw,dp=" + label + "," + inst.Form(head) + "," + dp)
	v.Inc("l,hp,dw=" + label + "," + hp + "," + inst.Form(dep))
	v.Inc("l,dist=" + label + "," + distance(head, dep))
	v.Inc("l,hc,dc=" + label + "," + inst.Cluster(head) + "," + inst.Cluster(dep))

	return v
}

// CombinedEdgeFeatures returns unlabeled plus labeled features.
func (t Templates) CombinedEdgeFeatures(head, dep int, inst *sentence.Instance, label string) Sparse {
	return t.UnlabeledEdgeFeatures(head, dep, inst).AddAll(t.LabeledEdgeFeatures(head, dep, inst, label))
}

// distance buckets the signed head→dependent offset: 1, 2, 3-5, 6+; "R" for rightward dependents.
func distance(head, dep int) string {
	d := dep - head
	dir := "R"
	if d < 0 {
		d, dir = -d, "L"
	}
	switch {
	case d <= 2:
		return dir + strconv.Itoa(d)
	case d <= 5:
		return dir + "3-5"
	default:
		return dir + "6+"
	}
}

// between lists whether a verb or punctuation sits strictly between head and dep.
func between(head, dep int, inst *sentence.Instance) string {
	lo, hi := head, dep
	if lo > hi {
		lo, hi = hi, lo
	}
	verb, punct := "0", "0"
	for i := lo + 1; i < hi; i++ {
		p := inst.POS(i)
		if len(p) > 0 && p[0] == 'V' {
			verb = "1"
		}
		if p == "." || p == "," || p == ":" {
			punct = "1"
		}
	}

	return verb + punct
}
