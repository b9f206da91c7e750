package glshader

// Program is a linked shader program owned by the caller.
// The zero value is an invalid program; Use and Delete ignore it.
type Program struct {
	ID  uint32
	drv Driver
}

// Valid reports whether the program holds a live driver object.
func (p Program) Valid() bool {
	return p.ID != 0
}

// Use makes the program current on its driver.
func (p Program) Use() {
	if p.ID == 0 {
		return
	}
	p.drv.UseProgram(p.ID)
}

// Validate re-runs driver validation against the current pipeline state,
// e.g. once a vertex array and textures are bound.
func (p Program) Validate() error {
	if p.ID == 0 {
		return &ValidateError{Log: "invalid program"}
	}
	p.drv.ValidateProgram(p.ID)
	if p.drv.ProgramParam(p.ID, ParamValidateStatus) != 0 {
		return nil
	}
	return &ValidateError{Log: readInfoLog(p.drv.ProgramParam(p.ID, ParamInfoLogLength), func(buf []byte) int {
		return p.drv.ProgramInfoLog(p.ID, buf)
	})}
}

// Delete releases the program. Other programs built from the same sources
// are unaffected.
func (p *Program) Delete() {
	if p.ID == 0 {
		return
	}
	p.drv.DeleteProgram(p.ID)
	p.ID = 0
}
