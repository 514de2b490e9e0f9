package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressCallback_AccumulatesCreateOutput(t *testing.T) {
	acc := &OutputAccumulator{}
	callback := NewProgressCallback(OperationCreate, nil, acc)

	callback("a\n")
	callback("b\n")
	callback("c")

	assert.Equal(t, "a\nb\nc", acc.Value)
}

func TestProgressCallback_UpdateNeverAccumulates(t *testing.T) {
	acc := &OutputAccumulator{}
	callback := NewProgressCallback(OperationUpdate, nil, acc)

	callback("a\n")
	callback("b\n")
	callback("c")

	assert.Equal(t, "", acc.Value)
}

func TestProgressCallback_ReportsPhases(t *testing.T) {
	var phases []string
	callback := NewProgressCallback(OperationCreate, func(phase, detail string) {
		phases = append(phases, phase)
		assert.NotEmpty(t, detail)
	}, nil)

	callback("Validating config file...")
	callback("CREATING mesh for workspace")
	callback("deploying to edge")
	callback("Successfully created mesh")
	callback("nothing interesting here")

	assert.Equal(t, []string{
		"Validating Mesh Configuration...",
		"Creating API Mesh...",
		"Deploying API Mesh...",
		"✓ API Mesh Ready",
	}, phases)
}

func TestProgressCallback_FirstMatchWinsPerChunk(t *testing.T) {
	var phases []string
	callback := NewProgressCallback(OperationUpdate, func(phase, detail string) {
		phases = append(phases, phase)
	}, nil)

	// Chunk mentions both validating and updating; only the first
	// pattern in order should fire.
	callback("validating before updating the mesh")

	assert.Equal(t, []string{"Validating Mesh Configuration..."}, phases)
}

func TestProgressCallback_NilProgressIsNoOp(t *testing.T) {
	callback := NewProgressCallback(OperationCreate, nil, nil)

	assert.NotPanics(t, func() {
		callback("creating mesh")
	})
}
