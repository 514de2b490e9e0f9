package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "citisignal", false},
		{"with dashes and dots", "my-demo.v2", false},
		{"with underscores", "demo_project", false},
		{"empty", "", true},
		{"leading dash", "-demo", true},
		{"shell injection", "demo; rm -rf /", true},
		{"spaces", "my demo", true},
		{"too long", strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProjectName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNodeVersion(t *testing.T) {
	valid := []string{"18", "18.17", "18.17.0", "v20.11.1"}
	for _, v := range valid {
		assert.NoError(t, NodeVersion(v), v)
	}

	// Every shell metacharacter and embedded space must be rejected
	hostile := []string{
		"", "18; echo pwned", "18|cat", "18&", "18$(whoami)",
		"18`id`", "18 && ls", `18"`, "18(", "18)", "18 17",
	}
	for _, v := range hostile {
		assert.Error(t, NodeVersion(v), "%q must be rejected", v)
	}
}

func TestPortNumber(t *testing.T) {
	assert.NoError(t, PortNumber(1))
	assert.NoError(t, PortNumber(3000))
	assert.NoError(t, PortNumber(65535))

	assert.Error(t, PortNumber(0))
	assert.Error(t, PortNumber(-1))
	assert.Error(t, PortNumber(65536))
}

func TestMeshID(t *testing.T) {
	assert.NoError(t, MeshID("abc-123-def"))
	assert.Error(t, MeshID(""))
	assert.Error(t, MeshID("abc;id"))
	assert.Error(t, MeshID("-leading-dash"))
}

func TestPath(t *testing.T) {
	cleaned, err := Path("/tmp/demoforge/projects")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/demoforge/projects", cleaned)

	_, err = Path("")
	assert.Error(t, err)

	_, err = Path("../etc/passwd")
	assert.Error(t, err)

	_, err = Path("/tmp/../../etc/passwd")
	assert.Error(t, err)
}

func TestShellEscape(t *testing.T) {
	assert.Equal(t, "simple-arg_1.0", ShellEscape("simple-arg_1.0"))
	assert.Equal(t, "'has space'", ShellEscape("has space"))
	assert.Equal(t, `'it'"'"'s'`, ShellEscape("it's"))
}
