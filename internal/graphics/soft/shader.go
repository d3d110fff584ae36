package soft

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lambert/internal/graphics"
)

var (
	lineComment = regexp.MustCompile(`//[^\n]*`)
	declRe      = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?(uniform|in|out|attribute|varying)\s+(\w+)\s+(\w+)\s*;`)
	mainRe      = regexp.MustCompile(`\bvoid\s+main\s*\(\s*\)`)
)

type declaration struct {
	qualifier string
	typ       string
	name      string
	location  int // -1 when no layout qualifier
	used      bool
}

type shader struct {
	stage graphics.Stage
	decls []declaration
}

func (s *shader) find(qualifiers ...string) []declaration {
	var out []declaration
	for _, d := range s.decls {
		for _, q := range qualifiers {
			if d.qualifier == q {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// parseShader performs the checks a driver front end would reject outright
// and records every global in/out/uniform declaration together with whether
// the rest of the source references it.
func parseShader(stage graphics.Stage, source string) (*shader, error) {
	src := lineComment.ReplaceAllString(source, "")
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("0:0: error: empty shader source")
	}
	if !strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return nil, errors.New("0:1: error: missing #version directive")
	}
	if !mainRe.MatchString(src) {
		return nil, errors.New("0:0: error: no definition of main()")
	}
	if depth := strings.Count(src, "{") - strings.Count(src, "}"); depth != 0 {
		return nil, fmt.Errorf("0:0: error: unbalanced braces (%+d)", depth)
	}

	body := declRe.ReplaceAllString(src, "")
	sh := &shader{stage: stage}
	for _, m := range declRe.FindAllStringSubmatch(src, -1) {
		d := declaration{qualifier: m[2], typ: m[3], name: m[4], location: -1}
		if m[1] != "" {
			d.location, _ = strconv.Atoi(m[1])
		}
		d.used = regexp.MustCompile(`\b` + regexp.QuoteMeta(d.name) + `\b`).MatchString(body)
		sh.decls = append(sh.decls, d)
	}

	if stage == graphics.FragmentStage && len(sh.find("out")) == 0 && !strings.Contains(body, "gl_FragColor") {
		return nil, errors.New("0:0: error: fragment shader writes no color output")
	}
	return sh, nil
}

type program struct {
	uniforms   []string // location is the index
	uniformIdx map[string]int32
	attribs    map[string]int32
	values     map[int32]any
}

func linkProgram(vs, fs *shader) (*program, error) {
	if vs.stage != graphics.VertexStage || fs.stage != graphics.FragmentStage {
		return nil, errors.New("error: program needs one vertex and one fragment shader")
	}

	outputs := make(map[string]string)
	for _, d := range vs.find("out", "varying") {
		outputs[d.name] = d.typ
	}
	for _, d := range fs.find("in", "varying") {
		typ, ok := outputs[d.name]
		if !ok {
			return nil, fmt.Errorf("error: fragment input %q is not written by the vertex shader", d.name)
		}
		if typ != d.typ {
			return nil, fmt.Errorf("error: %q is %s in the vertex shader but %s in the fragment shader", d.name, typ, d.typ)
		}
	}

	p := &program{
		uniformIdx: make(map[string]int32),
		attribs:    make(map[string]int32),
		values:     make(map[int32]any),
	}

	uniformTypes := make(map[string]string)
	active := make(map[string]bool)
	for _, sh := range []*shader{vs, fs} {
		for _, d := range sh.find("uniform") {
			if typ, ok := uniformTypes[d.name]; ok && typ != d.typ {
				return nil, fmt.Errorf("error: uniform %q declared as %s and %s", d.name, typ, d.typ)
			}
			uniformTypes[d.name] = d.typ
			if d.used {
				active[d.name] = true
			}
		}
	}
	// walk declarations again so locations follow declaration order
	for _, sh := range []*shader{vs, fs} {
		for _, d := range sh.find("uniform") {
			if _, seen := p.uniformIdx[d.name]; seen || !active[d.name] {
				continue
			}
			p.uniformIdx[d.name] = int32(len(p.uniforms))
			p.uniforms = append(p.uniforms, d.name)
		}
	}

	next := int32(0)
	taken := make(map[int32]bool)
	for _, d := range vs.find("in", "attribute") {
		if d.location >= 0 {
			taken[int32(d.location)] = true
		}
	}
	for _, d := range vs.find("in", "attribute") {
		if !d.used {
			continue
		}
		if d.location >= 0 {
			p.attribs[d.name] = int32(d.location)
			continue
		}
		for taken[next] {
			next++
		}
		p.attribs[d.name] = next
		taken[next] = true
	}
	return p, nil
}

// uniform returns the value last uploaded to the named uniform.
func (p *program) uniform(name string) (any, bool) {
	loc, ok := p.uniformIdx[name]
	if !ok {
		return nil, false
	}
	v, ok := p.values[loc]
	return v, ok
}
