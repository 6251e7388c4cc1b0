package launch

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/openra/ra-launcher/internal/model"
)

func TestGameCommand_WithRuntime(t *testing.T) {
	rt := model.RuntimeInfo{Present: true, Path: "/usr/bin/mono"}
	cmd, err := GameCommand(rt, Options{GameDir: "/games/openra"}, []string{"ra-extra", "ra"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expectedArgs := []string{
		filepath.Join("/games/openra", GameExecutable),
		"Game.Mods=ra-extra,ra",
		"Graphics.Renderer=Gl",
	}

	if cmd.Program != "/usr/bin/mono" {
		t.Errorf("Expected program /usr/bin/mono, got %s", cmd.Program)
	}
	if !reflect.DeepEqual(cmd.Args, expectedArgs) {
		t.Errorf("Expected args %v, got %v", expectedArgs, cmd.Args)
	}
	if cmd.Dir != "/games/openra" {
		t.Errorf("Expected dir /games/openra, got %s", cmd.Dir)
	}
}

func TestGameCommand_Native(t *testing.T) {
	rt := model.RuntimeInfo{Present: true}
	cmd, err := GameCommand(rt, Options{GameDir: "/games/openra", Renderer: "cg"}, []string{"cnc"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cmd.Program != filepath.Join("/games/openra", GameExecutable) {
		t.Errorf("Expected game executable as program, got %s", cmd.Program)
	}
	expectedArgs := []string{"Game.Mods=cnc", "Graphics.Renderer=Cg"}
	if !reflect.DeepEqual(cmd.Args, expectedArgs) {
		t.Errorf("Expected args %v, got %v", expectedArgs, cmd.Args)
	}
}

func TestGameCommand_NoMods(t *testing.T) {
	_, err := GameCommand(model.RuntimeInfo{Present: true}, Options{}, nil)
	if !errors.Is(err, ErrNoMods) {
		t.Errorf("Expected ErrNoMods, got %v", err)
	}
}

func TestUtilityCommand(t *testing.T) {
	rt := model.RuntimeInfo{Present: true, Path: "/usr/bin/mono"}
	cmd := UtilityCommand(rt, Options{GameDir: "/g"}, ModInfoFlag, "ra")

	expectedArgs := []string{filepath.Join("/g", UtilityExecutable), "-i", "ra"}
	if !reflect.DeepEqual(cmd.Args, expectedArgs) {
		t.Errorf("Expected args %v, got %v", expectedArgs, cmd.Args)
	}
	if !strings.Contains(cmd.String(), "OpenRA.Utility.exe -i ra") {
		t.Errorf("Unexpected command string: %s", cmd.String())
	}
}

func TestNormalizeRenderer(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", RendererGL},
		{"gl", RendererGL},
		{"Cg", RendererCg},
		{"CG", RendererCg},
		{"vulkan", RendererGL},
	}

	for _, test := range tests {
		if result := NormalizeRenderer(test.input); result != test.expected {
			t.Errorf("NormalizeRenderer(%q) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestLaunchError_Unwrap(t *testing.T) {
	inner := errors.New("exec format error")
	err := &LaunchError{Mod: "ra", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("Expected LaunchError to unwrap to inner error")
	}
	if !strings.Contains(err.Error(), "ra") {
		t.Errorf("Expected mod name in message, got %s", err.Error())
	}
}

func TestExecStarter_MissingProgram(t *testing.T) {
	s := NewExecStarter(nil)
	_, err := s.Start(Command{Program: filepath.Join(t.TempDir(), "no-such-game")})
	if err == nil {
		t.Error("Expected error for missing program")
	}
}

func TestExecRunner_Output(t *testing.T) {
	echo, err := exec.LookPath("echo")
	if err != nil {
		t.Skip("echo not available")
	}

	out, err := ExecRunner{}.Output(context.Background(), Command{Program: echo, Args: []string{"ra"}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.TrimSpace(string(out)) != "ra" {
		t.Errorf("Expected output 'ra', got %q", out)
	}
}
