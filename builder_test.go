package glshader_test

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glshader"
	"github.com/go-theft-auto/glshader/internal/gltest"
)

const (
	triangleVertex = "#version 330 core\nlayout(location=0) in vec3 aPos;\nvoid main(){gl_Position=vec4(aPos,1.0);}\n"

	orangeFragment = "#version 330 core\n" +
		"out vec4 FragColor;\n" +
		"void main() {\n" +
		"    FragColor = vec4(1.0, 0.5, 0.2, 1.0);\n" +
		"}\n"

	colorVertex = "#version 330 core\n" +
		"layout(location=0) in vec3 aPos;\n" +
		"layout(location=1) in vec4 aColor;\n" +
		"out vec4 vColor;\n" +
		"void main(){gl_Position=vec4(aPos,1.0); vColor=aColor;}\n"

	colorFragment = "#version 330 core\n" +
		"in vec4 vColor;\n" +
		"out vec4 FragColor;\n" +
		"void main(){FragColor=vColor;}\n"
)

func newBuilder(t *testing.T, drv glshader.Driver, opts ...glshader.Option) *glshader.Builder {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return glshader.New(drv, append([]glshader.Option{glshader.WithLogger(quiet)}, opts...)...)
}

func TestBuildValidProgram(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	prog, err := b.Build(triangleVertex, orangeFragment)
	require.NoError(t, err)
	assert.True(t, prog.Valid())
	assert.NotZero(t, prog.ID)
	assert.True(t, drv.IsProgram(prog.ID))

	// Only the program survives; both shaders were released after linking.
	assert.Equal(t, 0, drv.LiveShaders())
	assert.Equal(t, 1, drv.LivePrograms())
	require.NoError(t, glshader.CheckError(drv))

	prog.Delete()
	assert.Zero(t, prog.ID)
	assert.Equal(t, 0, drv.LiveObjects())
}

func TestBuildCallOrder(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	_, err := b.Build(triangleVertex, orangeFragment)
	require.NoError(t, err)

	want := []string{
		"CreateProgram",
		"CreateShader(vertex)", "ShaderSource", "CompileShader",
		"CreateShader(fragment)", "ShaderSource", "CompileShader",
		"AttachShader", "AttachShader",
		"LinkProgram",
		"ValidateProgram",
		"DetachShader", "DeleteShader",
		"DetachShader", "DeleteShader",
	}
	assert.Equal(t, want, drv.Calls)
}

func TestBuildVertexSyntaxError(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)
	before := drv.LiveObjects()

	broken := strings.Replace(triangleVertex, "vec4(aPos,1.0)", "vec4(aPos,1.0", 1)
	prog, err := b.Build(broken, orangeFragment)
	require.Error(t, err)
	assert.False(t, prog.Valid())

	var ce *glshader.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, glshader.StageVertex, ce.Stage)
	assert.NotEmpty(t, ce.Log)
	assert.Contains(t, err.Error(), "vertex shader compilation failed")

	assert.Equal(t, before, drv.LiveObjects())
	assert.False(t, drv.Called("LinkProgram"))
	require.NoError(t, glshader.CheckError(drv))
}

func TestBuildFragmentMissingMain(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	frag := "#version 330 core\nout vec4 FragColor;\n"
	_, err := b.Build(triangleVertex, frag)

	var ce *glshader.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, glshader.StageFragment, ce.Stage)
	assert.NotEmpty(t, ce.Log)
	assert.Equal(t, 0, drv.LiveObjects())
}

func TestBuildBothStagesFail(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	_, err := b.Build("", "void main() {")
	require.Error(t, err)

	stages := map[glshader.Stage]bool{}
	var joined interface{ Unwrap() []error }
	require.ErrorAs(t, err, &joined)
	for _, e := range joined.Unwrap() {
		var ce *glshader.CompileError
		require.ErrorAs(t, e, &ce)
		stages[ce.Stage] = true
	}
	assert.Equal(t, map[glshader.Stage]bool{glshader.StageVertex: true, glshader.StageFragment: true}, stages)
	assert.Equal(t, 0, drv.LiveObjects())
}

func TestBuildFailedStageNeverAttached(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	_, err := b.Build(triangleVertex, "")
	require.Error(t, err)

	attaches := 0
	for _, c := range drv.Calls {
		if c == "AttachShader" {
			attaches++
		}
	}
	assert.Equal(t, 1, attaches, "only the compiled vertex shader is attached")
	assert.Equal(t, 0, drv.LiveObjects())
	require.NoError(t, glshader.CheckError(drv))
}

func TestBuildLinkError(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	// The fragment stage reads vColor, which the plain vertex shader never writes.
	prog, err := b.Build(triangleVertex, colorFragment)
	require.Error(t, err)
	assert.False(t, prog.Valid())

	var le *glshader.LinkError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Log, "vColor")
	assert.Equal(t, 0, drv.LiveObjects())
}

func TestBuildMatchingVaryings(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	prog, err := b.Build(colorVertex, colorFragment)
	require.NoError(t, err)
	assert.True(t, prog.Valid())
}

func TestBuildValidateError(t *testing.T) {
	drv := gltest.NewDriver()
	drv.FailValidate = true
	drv.ValidateLog = "sampler unit mismatch"
	b := newBuilder(t, drv)

	_, err := b.Build(triangleVertex, orangeFragment)

	var ve *glshader.ValidateError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sampler unit mismatch", ve.Log)
	assert.Equal(t, 0, drv.LiveObjects())
}

func TestBuildWithoutValidation(t *testing.T) {
	drv := gltest.NewDriver()
	drv.FailValidate = true
	b := newBuilder(t, drv, glshader.WithValidation(false))

	prog, err := b.Build(triangleVertex, orangeFragment)
	require.NoError(t, err)
	assert.False(t, drv.Called("ValidateProgram"))

	var ve *glshader.ValidateError
	require.ErrorAs(t, prog.Validate(), &ve)
	assert.Equal(t, 1, drv.LivePrograms())
}

func TestBuildLongLogNotTruncated(t *testing.T) {
	drv := gltest.NewDriver()
	drv.FailLink = true
	drv.LinkLog = strings.Repeat("error: varying mismatch\n", 100) + "end"
	b := newBuilder(t, drv)

	_, err := b.Build(triangleVertex, orangeFragment)

	var le *glshader.LinkError
	require.ErrorAs(t, err, &le)
	assert.Greater(t, len(le.Log), 512)
	assert.Equal(t, drv.LinkLog, le.Log)
}

func TestBuildEmptyLinkLogStillDiagnosed(t *testing.T) {
	drv := gltest.NewDriver()
	drv.FailLink = true
	b := newBuilder(t, drv)

	_, err := b.Build(triangleVertex, orangeFragment)

	var le *glshader.LinkError
	require.ErrorAs(t, err, &le)
	assert.NotEmpty(t, le.Log)
}

func TestBuildTwiceIndependentHandles(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	first, err := b.Build(triangleVertex, orangeFragment)
	require.NoError(t, err)
	second, err := b.Build(triangleVertex, orangeFragment)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	first.Delete()
	assert.True(t, drv.IsProgram(second.ID))

	second.Use()
	assert.Equal(t, second.ID, drv.Current())
	require.NoError(t, glshader.CheckError(drv))
}

func TestBuildSourcesStageMismatch(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	vs := glshader.Source{Stage: glshader.StageFragment, Text: triangleVertex}
	fs := glshader.Source{Stage: glshader.StageFragment, Text: orangeFragment}
	_, err := b.BuildSources(vs, fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertex slot")
	assert.Empty(t, drv.Calls)
}

func TestCompileEmptySource(t *testing.T) {
	for _, stage := range []glshader.Stage{glshader.StageVertex, glshader.StageFragment} {
		t.Run(stage.String(), func(t *testing.T) {
			drv := gltest.NewDriver()
			b := newBuilder(t, drv)

			sh, err := b.Compile(stage, "")
			assert.Zero(t, sh.ID)

			var ce *glshader.CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, stage, ce.Stage)
			assert.NotEmpty(t, ce.Log)
			assert.Equal(t, 0, drv.LiveShaders())
		})
	}
}

func TestCompileAndDeleteShader(t *testing.T) {
	drv := gltest.NewDriver()
	b := newBuilder(t, drv)

	sh, err := b.Compile(glshader.StageVertex, triangleVertex)
	require.NoError(t, err)
	assert.NotZero(t, sh.ID)
	assert.Equal(t, 1, drv.LiveShaders())

	b.DeleteShader(&sh)
	assert.Zero(t, sh.ID)
	assert.Equal(t, 0, drv.LiveShaders())

	// A second delete is a no-op.
	b.DeleteShader(&sh)
	require.NoError(t, glshader.CheckError(drv))
}

func TestZeroProgramIsInert(t *testing.T) {
	var prog glshader.Program
	assert.False(t, prog.Valid())
	prog.Use()
	prog.Delete()

	var ve *glshader.ValidateError
	assert.True(t, errors.As(prog.Validate(), &ve))
}
