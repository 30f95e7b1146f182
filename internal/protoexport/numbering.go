package protoexport

import (
	"hash/fnv"
	"sort"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// allocateFieldNumbers derives tag numbers from field names so that adding
// or reordering model fields does not renumber existing ones.
func allocateFieldNumbers(fieldBuilders []*protobuilder.FieldBuilder) {
	fieldNames := make([]string, len(fieldBuilders))
	for i, fb := range fieldBuilders {
		fieldNames[i] = string(fb.Name())
	}
	for i, n := range fieldNumbers(fieldNames) {
		fieldBuilders[i].SetNumber(protoreflect.FieldNumber(n))
	}
}

const (
	maxFieldNumber = 31767
	reservedStart  = 19000
	reservedEnd    = 19999
)

// fieldNumbers assigns each name (FNV32a(name) % 31767) + 1, probing
// linearly past collisions and the 19000-19999 block reserved by protobuf.
// Names are processed sorted so collisions resolve the same way every time.
func fieldNumbers(names []string) []int {
	if len(names) == 0 {
		return nil
	}
	idx := make([]int, len(names))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return names[idx[a]] < names[idx[b]] })

	out := make([]int, len(names))
	used := make(map[int]bool, len(names))
	for _, i := range idx {
		cand := int(fnv32(names[i])%maxFieldNumber) + 1
		for steps := 0; ; steps++ {
			if steps > maxFieldNumber {
				panic("fieldNumbers: exhausted tag space")
			}
			if cand >= reservedStart && cand <= reservedEnd {
				cand = reservedEnd + 1
			}
			if !used[cand] {
				break
			}
			cand++
			if cand > maxFieldNumber {
				cand = 1
			}
		}
		used[cand] = true
		out[i] = cand
	}
	return out
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
