package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/structure"
)

// WriteCoNLL writes each sentence with its predicted tree in the layout
// sentence.Reader accepts; cluster and chunk go to FEATS.
func WriteCoNLL(w io.Writer, insts []*sentence.Instance, trees []*structure.Structure) error {
	if len(insts) != len(trees) {
		return fmt.Errorf("corpus: %d sentences, %d trees", len(insts), len(trees))
	}
	bw := bufio.NewWriter(w)
	for k, inst := range insts {
		tree := trees[k]
		if tree.Len() != inst.Len() {
			return fmt.Errorf("corpus: sentence %d: %d tokens, tree has %d", k, inst.Len(), tree.Len())
		}
		for i := 1; i <= inst.Len(); i++ {
			fmt.Fprintf(bw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				i, inst.Form(i), inst.Lemma(i), inst.POS(i), inst.POS(i),
				feats(inst, i), tree.Head(i), tree.Relation(i))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func feats(inst *sentence.Instance, i int) string {
	var parts []string
	if c := inst.Cluster(i); c != sentence.Empty {
		parts = append(parts, "cluster="+c)
	}
	if c := inst.Chunk(i); c != sentence.Empty {
		parts = append(parts, "chunk="+c)
	}
	if len(parts) == 0 {
		return sentence.Empty
	}

	return strings.Join(parts, "|")
}
