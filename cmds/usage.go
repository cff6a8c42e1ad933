package cmds

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.WriteUsage(os.Stderr)
}

func (p *Executor) WriteUsage(w io.Writer) {
	writeCommands(w, p.commands, 0)
}

func writeCommands(w io.Writer, commands map[string]*Command, depth int) {
	// aliases share the command pointer, print each command once
	names := make(map[*Command][]string)
	for name, cmd := range commands {
		if cmd == nil {
			continue
		}
		names[cmd] = append(names[cmd], name)
	}
	cmds := slices.Collect(maps.Keys(names))
	for _, cmd := range cmds {
		slices.Sort(names[cmd])
	}
	slices.SortFunc(cmds, func(a, b *Command) int {
		return strings.Compare(names[a][0], names[b][0])
	})

	indent := strings.Repeat("  ", depth)
	for _, cmd := range cmds {
		line := indent + strings.Join(names[cmd], ", ")
		if cmd.Description != "" {
			line += "\t" + cmd.Description
		}
		fmt.Fprintln(w, line)
		if len(cmd.Subs) > 0 {
			writeCommands(w, cmd.Subs, depth+1)
		}
	}
}
