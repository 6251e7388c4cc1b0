package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFileName is the launcher file looked up next to the game
const DefaultFileName = "launcher.hcl"

// File is the optional HCL launcher file.
//
//	runtime {
//	  candidates = ["/opt/mono/bin/mono"]
//	  native     = false
//	}
//	game {
//	  directory = "/Applications/OpenRA.app/Contents/Resources"
//	  renderer  = "Gl"
//	}
//	downloads {
//	  max_parallel = 3
//	  rate_limit   = "512KB"
//	}
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
type File struct {
	Runtime   *RuntimeBlock   `hcl:"runtime,block"`
	Game      *GameBlock      `hcl:"game,block"`
	Downloads *DownloadsBlock `hcl:"downloads,block"`
	Log       *LogBlock       `hcl:"log,block"`
}

type RuntimeBlock struct {
	Candidates []string `hcl:"candidates,optional"`
	Native     *bool    `hcl:"native,optional"`
}

type GameBlock struct {
	Directory  string `hcl:"directory,optional"`
	Executable string `hcl:"executable,optional"`
	Utility    string `hcl:"utility,optional"`
	Renderer   string `hcl:"renderer,optional"`
}

type DownloadsBlock struct {
	Directory   string `hcl:"directory,optional"`
	MaxParallel int    `hcl:"max_parallel,optional"`
	RateLimit   string `hcl:"rate_limit,optional"`
	FetchLimit  string `hcl:"fetch_limit,optional"`
}

type LogBlock struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// LoadFile parses the launcher file at path. A missing file yields an empty File.
func LoadFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read launcher file %s: %w", path, err)
	}
	return ParseFile(src, path)
}

// ParseFile decodes launcher file source; filename is used in diagnostics
func ParseFile(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse launcher file %s: %w", filename, diags)
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode launcher file %s: %w", filename, diags)
	}
	return &f, validate(&f)
}

func validate(f *File) error {
	var diags hcl.Diagnostics
	if f.Downloads != nil && f.Downloads.MaxParallel < 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid max_parallel",
			Detail:   "downloads.max_parallel must not be negative.",
		})
	}
	if f.Log != nil {
		switch f.Log.Format {
		case "", "text", "json":
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid log format",
				Detail:   fmt.Sprintf("log.format must be \"text\" or \"json\", got %q.", f.Log.Format),
			})
		}
	}
	if diags.HasErrors() {
		return diags
	}
	return nil
}
