package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
	"github.com/goliatone/go-sheetform/pkg/schema"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint sheetform forms files.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"forms.yaml"}
	}
	if err := run(paths, os.Stderr); err != nil {
		os.Exit(1)
	}
}

var errViolations = errors.New("lint violations found")

func run(paths []string, stderr io.Writer) error {
	var violations []violation
	worksheets := make(map[string]headerOwner)
	policy := bluemonday.UGCPolicy()

	for _, path := range paths {
		linted, err := lintFile(path, worksheets, policy)
		if err != nil {
			fmt.Fprintf(stderr, "lint %s: %v\n", path, err)
			return err
		}
		violations = append(violations, linted...)
	}

	if len(violations) == 0 {
		return nil
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	for _, v := range violations {
		fmt.Fprintf(stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
	}
	return errViolations
}

// headerOwner remembers which form first claimed a worksheet header.
type headerOwner struct {
	file   string
	form   string
	header []string
}

func lintFile(path string, worksheets map[string]headerOwner, policy *bluemonday.Policy) ([]violation, error) {
	defs, err := schema.LoadFile(path)
	if err != nil {
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			return []violation{{
				file:     path,
				location: formatLocation(cfgErr.Form, cfgErr.Field),
				message:  cfgErr.Reason,
			}}, nil
		}
		return nil, err
	}

	var result []violation
	for _, def := range defs {
		result = append(result, lintHelp(path, def, policy)...)

		header := def.Schema.Labels()
		owner, seen := worksheets[def.Worksheet]
		if !seen {
			worksheets[def.Worksheet] = headerOwner{file: path, form: def.Name, header: header}
			continue
		}
		if !slices.Equal(owner.header, header) {
			result = append(result, violation{
				file:     path,
				location: formatLocation(def.Name, ""),
				message: fmt.Sprintf("worksheet %q is shared with form %q (%s) but the columns differ: [%s] vs [%s]",
					def.Worksheet, owner.form, owner.file, strings.Join(header, ", "), strings.Join(owner.header, ", ")),
			})
		}
	}
	return result, nil
}

func lintHelp(path string, def form.Definition, policy *bluemonday.Policy) []violation {
	var result []violation
	for _, field := range def.Schema.Fields() {
		if field.Help == "" {
			continue
		}
		if policy.Sanitize(field.Help) != field.Help {
			result = append(result, violation{
				file:     path,
				location: formatLocation(def.Name, field.Key),
				message:  "help contains markup that is removed before display",
			})
		}
	}
	return result
}

func formatLocation(formName, field string) string {
	parts := []string{"form", formName}
	if field != "" {
		parts = append(parts, "field", field)
	}
	return strings.Join(parts, " > ")
}
