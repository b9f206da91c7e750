package glshader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source is shader text tagged with the stage it is written for.
type Source struct {
	Stage Stage
	Text  string
}

// ReadSource reads r line by line, terminating every line with "\n".
// A final line without a newline gets one.
func ReadSource(stage Stage, r io.Reader) (Source, error) {
	var sb strings.Builder

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return Source{}, fmt.Errorf("read %s shader: %w", stage, err)
	}

	return Source{Stage: stage, Text: sb.String()}, nil
}

// LoadSource reads the shader file at path.
func LoadSource(stage Stage, path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("load %s shader %q: %w", stage, path, err)
	}
	defer f.Close()

	src, err := ReadSource(stage, f)
	if err != nil {
		return Source{}, fmt.Errorf("load %q: %w", path, err)
	}
	return src, nil
}

// LoadProgram loads a vertex and a fragment shader file and builds them.
func LoadProgram(b *Builder, vertexPath, fragmentPath string) (Program, error) {
	vs, err := LoadSource(StageVertex, vertexPath)
	if err != nil {
		return Program{}, err
	}
	fs, err := LoadSource(StageFragment, fragmentPath)
	if err != nil {
		return Program{}, err
	}
	return b.BuildSources(vs, fs)
}
