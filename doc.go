/*
Package glshader compiles vertex and fragment shader sources into linked,
validated OpenGL programs and reports exactly why a build failed.

# Overview

A Builder wraps one Driver, the handle to the GL context current on the
calling thread. Build runs the whole pipeline: create a program, compile
both stages, attach the stages that compiled, link, validate, release the
shader objects and check both link and validate status. It returns either a
program with a non-zero ID or an error; it never hands back a partially
built object, and every driver object it created on a failed path is
deleted before it returns.

# Quick Start

	// After the window and GL context exist:
	b := glshader.New(opengl.NewDriver())

	prog, err := b.Build(vertexSource, fragmentSource)
	if err != nil {
	    var ce *glshader.CompileError
	    if errors.As(err, &ce) {
	        log.Printf("%s stage:\n%s", ce.Stage, ce.Log)
	    }
	    return err
	}
	defer prog.Delete()

	for !window.ShouldClose() {
	    prog.Use()
	    mesh.Draw()
	    window.SwapBuffers()
	}

# Errors

Failures are typed so callers can tell them apart with errors.As:

	*CompileError   a stage failed to compile; Stage says which one
	*LinkError      the stages do not fit together
	*ValidateError  the program cannot run with the current pipeline state
	*DriverError    codes drained from the GL error queue by CheckError

When both stages fail, Build joins the two compile errors. Info logs are
read with the length the driver reports, never into a fixed buffer.

# Threading

GL contexts belong to one thread. A Builder and the programs it returns must
only be used from the thread the context is current on; nothing in this
package starts goroutines or locks.
*/
package glshader
