// Command ignisctl is the host-side build/run/test orchestrator (C7, spec
// §4.7), wiring the build/run/test/clean/inspect subcommands together via
// go-flags the same way the teacher's cmds/fittool/main.go does.
package main

import (
	"log"

	"github.com/jessevdk/go-flags"

	"github.com/ignisboot/ignis/cmd/ignisctl/commands"
	"github.com/ignisboot/ignis/cmd/ignisctl/commands/build"
	"github.com/ignisboot/ignis/cmd/ignisctl/commands/clean"
	"github.com/ignisboot/ignis/cmd/ignisctl/commands/inspect"
	"github.com/ignisboot/ignis/cmd/ignisctl/commands/run"
	"github.com/ignisboot/ignis/cmd/ignisctl/commands/test"
)

var knownCommands = map[string]commands.Command{
	"build":   &build.Command{},
	"run":     &run.Command{},
	"test":    &test.Command{},
	"clean":   &clean.Command{},
	"inspect": &inspect.Command{},
}

func main() {
	flagsParser := flags.NewParser(nil, flags.Default)
	for commandName, command := range knownCommands {
		_, err := flagsParser.AddCommand(commandName, command.ShortDescription(), command.LongDescription(), command)
		if err != nil {
			panic(err)
		}
	}

	if _, err := flagsParser.Parse(); err != nil {
		log.Fatal(err)
	}
}
