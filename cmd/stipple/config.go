package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// tomlSettings ensures TOML keys line up with Go struct field names
// unchanged, the same convention ProbeChain-go-probe/cmd/gprobe/config.go
// uses for its node/probe config.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see the %s struct for available fields", rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// driverConfig holds the operator-settable ceilings that sit outside the
// engine's own fixed resource limits: a step budget (the engine itself has
// no notion of gas or timeouts — SPEC_FULL.md §2.3, spec.md §5 "a host
// wanting bounded execution counts steps externally") and a trace toggle.
type driverConfig struct {
	StepBudget int
	Trace      bool
}

func defaultConfig() driverConfig {
	return driverConfig{StepBudget: 0, Trace: false}
}

func loadConfig(file string, cfg *driverConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}
