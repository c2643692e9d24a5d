// Package builtin registers the stock pickers: file finding, live
// grep, and git sources. Each picker is a spec with its own defaults;
// callers layer theme, global, and call-site options on top.
package builtin

import (
	"fmt"
	"strings"

	"github.com/dshills/quickpick/internal/config"
	"github.com/dshills/quickpick/internal/picker"
	"github.com/dshills/quickpick/internal/picker/stream"
	"github.com/dshills/quickpick/internal/producer"
)

// Register installs all builtin pickers into the registry.
func Register(reg *picker.Registry) error {
	specs := []*picker.Spec{
		findFiles(),
		liveGrep(),
		grepString(),
		gitLog(),
		gitStatus(),
		gitBranches(),
	}
	for _, s := range specs {
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// findFiles walks the working directory and lists regular files.
func findFiles() *picker.Spec {
	return &picker.Spec{
		Name: "find_files",
		Kind: producer.KindFunc,
		Defaults: map[string]any{
			"include_hidden": false,
			"max_results":    10000,
		},
		New: func(opts config.Options) (producer.Producer, error) {
			return &producer.Walk{
				Root:          opts.Cwd,
				IncludeHidden: opts.IncludeHidden,
			}, nil
		},
	}
}

// liveGrep streams ripgrep matches for the search pattern. The pattern
// comes from the pattern option, falling back to default_text so a
// seeded prompt greps immediately.
func liveGrep() *picker.Spec {
	return &picker.Spec{
		Name: "live_grep",
		Kind: producer.KindProcess,
		Defaults: map[string]any{
			"max_results": 5000,
		},
		New: func(opts config.Options) (producer.Producer, error) {
			pattern := opts.Pattern
			if pattern == "" {
				pattern = opts.DefaultText
			}
			if pattern == "" {
				return producer.StaticLines(), nil
			}

			argv := []string{"rg", "--json", "--no-heading"}
			if !strings.ContainsAny(pattern, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
				argv = append(argv, "--ignore-case")
			}
			if opts.IncludeHidden {
				argv = append(argv, "--hidden")
			}
			argv = append(argv, "--", pattern)

			return &producer.Process{
				Argv:  argv,
				Dir:   opts.Cwd,
				Parse: producer.ParseRipgrepJSON,
			}, nil
		},
	}
}

// grepString greps for a fixed string with plain grep, for hosts
// without ripgrep.
func grepString() *picker.Spec {
	return &picker.Spec{
		Name: "grep_string",
		Kind: producer.KindProcess,
		Defaults: map[string]any{
			"max_results": 5000,
		},
		New: func(opts config.Options) (producer.Producer, error) {
			pattern := opts.Pattern
			if pattern == "" {
				pattern = opts.DefaultText
			}
			if pattern == "" {
				return nil, fmt.Errorf("grep_string requires a pattern")
			}
			return &producer.Process{
				Argv:  []string{"grep", "-rnI", "--fixed-strings", "--", pattern, "."},
				Dir:   opts.Cwd,
				Parse: producer.ParseGrepLine,
			}, nil
		},
	}
}

func gitLog() *picker.Spec {
	return &picker.Spec{
		Name: "git_log",
		Kind: producer.KindProcess,
		Defaults: map[string]any{
			"max_results": 1000,
		},
		New: func(opts config.Options) (producer.Producer, error) {
			return &producer.Process{
				Argv:  []string{"git", "log", "--pretty=format:%h %ad %s", "--date=short"},
				Dir:   opts.Cwd,
				Parse: parseGitLog,
			}, nil
		},
	}
}

func gitStatus() *picker.Spec {
	return &picker.Spec{
		Name: "git_status",
		Kind: producer.KindProcess,
		New: func(opts config.Options) (producer.Producer, error) {
			return &producer.Process{
				Argv:  []string{"git", "status", "--porcelain"},
				Dir:   opts.Cwd,
				Parse: parseGitStatus,
			}, nil
		},
	}
}

func gitBranches() *picker.Spec {
	return &picker.Spec{
		Name: "git_branches",
		Kind: producer.KindProcess,
		New: func(opts config.Options) (producer.Producer, error) {
			return &producer.Process{
				Argv: []string{"git", "branch", "--all", "--format=%(refname:short)"},
				Dir:  opts.Cwd,
			}, nil
		},
	}
}

// parseGitLog splits "hash date subject" and keeps the hash in Data
// for confirm handlers.
func parseGitLog(line string) (stream.Item, bool) {
	if line == "" {
		return stream.Item{}, false
	}
	hash, _, _ := strings.Cut(line, " ")
	return stream.Item{Text: line, Data: hash}, true
}

// parseGitStatus splits porcelain "XY path" lines.
func parseGitStatus(line string) (stream.Item, bool) {
	if len(line) < 4 {
		return stream.Item{}, false
	}
	return stream.Item{Text: line, Path: strings.TrimSpace(line[3:])}, true
}
