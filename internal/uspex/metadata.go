package uspex

import (
	"fmt"

	"github.com/vk/uspexdb/internal/value"
)

// Keys stripped from each optimization stage before the stages are stored
// as metadata; they describe the local execution environment, not the run.
var stageScrubKeys = []string{"commandExecutable", "keepFolders"}

// RunMetadata summarizes one USPEX run, extracted from the resolved
// parameter tree.
type RunMetadata struct {
	// System is "surface" when optimizer.target.environmentUtility is
	// present (its entries land in Environment), "bulk" otherwise.
	System      string
	Environment *value.Map

	// VarComp is 1 for variable-composition searches: minAt differs from
	// maxAt, or more than one composition block is defined.
	VarComp int

	// OptStages are the stage objects with execution-environment keys
	// removed. They are deep copies; the input tree is left untouched.
	OptStages []*value.Map
}

// MissingKeyError reports an expected key absent from the resolved tree.
// This is a schema-level failure of the document's content, not a grammar
// failure.
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing expected key %q in resolved parameters", e.Path)
}

// Metadata extracts run metadata from a resolved parameter tree. The tree
// must carry an optimizer.target object and a stages list at the root.
func Metadata(root value.Value) (*RunMetadata, error) {
	doc, ok := root.(*value.Map)
	if !ok {
		return nil, fmt.Errorf("resolved parameters root is %T, want an object", root)
	}
	target, err := childMap(doc, "optimizer", "target")
	if err != nil {
		return nil, err
	}

	md := &RunMetadata{System: "bulk"}
	if env, found := target.Get("environmentUtility"); found {
		envMap, ok := env.(*value.Map)
		if !ok || envMap.Len() == 0 {
			return nil, fmt.Errorf("optimizer.target.environmentUtility must be a non-empty object")
		}
		md.System = "surface"
		md.Environment = value.Copy(envMap).(*value.Map)
	}

	md.VarComp, err = varComp(target)
	if err != nil {
		return nil, err
	}

	md.OptStages, err = optStages(doc)
	if err != nil {
		return nil, err
	}
	return md, nil
}

// Value renders the metadata as a value tree, mirroring the shape stored
// alongside each structure in the database: the environment entries are
// flattened next to the system tag. The tree shares no nodes with the
// receiver, so callers may rewrite it freely.
func (md *RunMetadata) Value() *value.Map {
	m := value.NewMap()
	m.Set("system", value.String(md.System))
	if md.Environment != nil {
		for _, e := range md.Environment.Entries() {
			m.Set(e.Key, value.Copy(e.Value))
		}
	}
	m.Set("var_comp", value.Int(md.VarComp))
	stages := make(value.List, len(md.OptStages))
	for i, s := range md.OptStages {
		stages[i] = value.Copy(s)
	}
	m.Set("opt_stages", stages)
	return m
}

func varComp(target *value.Map) (int, error) {
	cs, ok := target.Get("compositionSpace")
	if !ok {
		return 0, &MissingKeyError{Path: "optimizer.target.compositionSpace"}
	}
	csMap, ok := cs.(*value.Map)
	if !ok {
		return 0, fmt.Errorf("optimizer.target.compositionSpace is %T, want an object", cs)
	}
	minAt, hasMin := csMap.Get("minAt")
	maxAt, hasMax := csMap.Get("maxAt")
	if hasMin && hasMax {
		if boundsEqual(minAt, maxAt) {
			return 0, nil
		}
		return 1, nil
	}
	blocks, ok := csMap.Get("blocks")
	if !ok {
		return 0, &MissingKeyError{Path: "optimizer.target.compositionSpace.blocks"}
	}
	list, ok := blocks.(value.List)
	if !ok {
		return 0, fmt.Errorf("compositionSpace.blocks is %T, want a list", blocks)
	}
	if len(list) > 1 {
		return 1, nil
	}
	return 0, nil
}

// boundsEqual compares composition bounds numerically: an atom count
// written 4 in one bound and 4.0 in the other is still a fixed
// composition. Non-numeric leaves fall back to strict equality.
func boundsEqual(a, b value.Value) bool {
	if x, ok := numVal(a); ok {
		y, ok := numVal(b)
		return ok && x == y
	}
	switch av := a.(type) {
	case value.List:
		bv, ok := b.(value.List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !boundsEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case value.Tuple:
		bv, ok := b.(value.Tuple)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !boundsEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return value.Equal(a, b)
}

func numVal(v value.Value) (float64, bool) {
	switch t := v.(type) {
	case value.Int:
		return float64(t), true
	case value.Float:
		return float64(t), true
	}
	return 0, false
}

func optStages(doc *value.Map) ([]*value.Map, error) {
	stages, ok := doc.Get("stages")
	if !ok {
		return nil, &MissingKeyError{Path: "stages"}
	}
	list, ok := stages.(value.List)
	if !ok {
		return nil, fmt.Errorf("stages is %T, want a list", stages)
	}
	out := make([]*value.Map, 0, len(list))
	for i, stage := range list {
		stageMap, ok := stage.(*value.Map)
		if !ok {
			return nil, fmt.Errorf("stages[%d] is %T, want an object", i, stage)
		}
		scrubbed := value.Copy(stageMap).(*value.Map)
		for _, key := range stageScrubKeys {
			scrubbed.Delete(key)
		}
		out = append(out, scrubbed)
	}
	return out, nil
}

func childMap(m *value.Map, path ...string) (*value.Map, error) {
	cur := m
	for i, key := range path {
		v, ok := cur.Get(key)
		if !ok {
			return nil, &MissingKeyError{Path: joinPath(path[:i+1])}
		}
		child, ok := v.(*value.Map)
		if !ok {
			return nil, fmt.Errorf("%s is %T, want an object", joinPath(path[:i+1]), v)
		}
		cur = child
	}
	return cur, nil
}

func joinPath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}
