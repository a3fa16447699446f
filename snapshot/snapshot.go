// Package snapshot implements the solver's opaque ".snowstate" binary
// save/load format (SPEC_FULL.md §6.2): a small header describing grid
// shape and particle count, followed by one fixed-size record per
// particle. The only contract is that Load(Save(state)) is the identity.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/snowmpm/snowmpm/solver"
)

const (
	magic         uint32 = 0x534e4f57 // "SNOW"
	formatVersion uint32 = 1

	recordFloats = 3 + 3 + 1 + 1 + 9 + 9 // position, velocity, mass, volume0, F_E, F_P
)

// State is the serializable subset of a solver's particle set and grid
// shape. It intentionally excludes nodal data: the grid is fully
// rederived from particle positions on the next tick's P2G pass.
type State struct {
	Nx, Ny, Nz int
	H          float64
	Particles  []solver.Particle
}

// Save writes state to path in the .snowstate format.
func Save(path string, state State) error {
	f, err := os.Create(path)
	if err != nil {
		return &solver.IOError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeState(w, state); err != nil {
		return &solver.IOError{Path: path, Err: err}
	}
	if err := w.Flush(); err != nil {
		return &solver.IOError{Path: path, Err: err}
	}
	return nil
}

// Load reads a .snowstate file from path.
func Load(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, &solver.IOError{Path: path, Err: err}
	}
	defer f.Close()

	state, err := readState(bufio.NewReader(f))
	if err != nil {
		return State{}, &solver.IOError{Path: path, Err: err}
	}
	return state, nil
}

func writeState(w io.Writer, state State) error {
	header := []uint32{
		magic, formatVersion,
		uint32(state.Nx), uint32(state.Ny), uint32(state.Nz),
	}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, state.H); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(state.Particles))); err != nil {
		return err
	}

	buf := make([]float64, recordFloats)
	for i := range state.Particles {
		encodeParticle(&state.Particles[i], buf)
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return err
		}
	}
	return nil
}

func readState(r io.Reader) (State, error) {
	var gotMagic, version, nx, ny, nz uint32
	for _, dst := range []*uint32{&gotMagic, &version, &nx, &ny, &nz} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return State{}, err
		}
	}
	if gotMagic != magic {
		return State{}, fmt.Errorf("not a .snowstate file (bad magic)")
	}
	if version != formatVersion {
		return State{}, fmt.Errorf("unsupported snowstate version %d", version)
	}

	var h float64
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return State{}, err
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return State{}, err
	}

	state := State{Nx: int(nx), Ny: int(ny), Nz: int(nz), H: h, Particles: make([]solver.Particle, count)}
	buf := make([]float64, recordFloats)
	for i := range state.Particles {
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return State{}, err
		}
		decodeParticle(buf, &state.Particles[i])
	}
	return state, nil
}

func encodeParticle(p *solver.Particle, buf []float64) {
	pos := p.Position
	vel := p.VCurr
	fe := p.DeformElastic
	fp := p.DeformPlastic

	i := 0
	for k := 0; k < 3; k++ {
		buf[i] = pos[k]
		i++
	}
	for k := 0; k < 3; k++ {
		buf[i] = vel[k]
		i++
	}
	buf[i] = p.Mass
	i++
	buf[i] = p.Volume0
	i++
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			buf[i] = fe[r][c]
			i++
		}
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			buf[i] = fp[r][c]
			i++
		}
	}
}

func decodeParticle(buf []float64, p *solver.Particle) {
	var pos, vel solver.Vec3
	var fe, fp solver.Mat3

	i := 0
	for k := 0; k < 3; k++ {
		pos[k] = buf[i]
		i++
	}
	for k := 0; k < 3; k++ {
		vel[k] = buf[i]
		i++
	}
	mass := buf[i]
	i++
	volume0 := buf[i]
	i++
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			fe[r][c] = buf[i]
			i++
		}
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			fp[r][c] = buf[i]
			i++
		}
	}

	*p = solver.NewParticle(pos, vel, mass)
	p.Volume0 = volume0
	p.VolumeSet = true
	p.DeformElastic = fe
	p.DeformPlastic = fp
}
